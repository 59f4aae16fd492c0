package faq

import (
	"net/http"
	"time"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "faq not found")
	ErrQuestionRequired = apperror.New(http.StatusBadRequest, "question is required")
	ErrAnswerRequired   = apperror.New(http.StatusBadRequest, "answer is required")
)

// FAQ is a question and answer shown on the resort's help page, ordered by
// SortOrder.
type FAQ struct {
	ID        string
	Question  string
	Answer    string
	SortOrder int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Filter struct {
	Keyword  string
	IsActive *bool
	Page     int
	PageSize int
}
