package http

import (
	"time"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/faq"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
)

type ListFAQsRequest struct {
	request.ListParams
	Keyword  string `form:"q"`
	IsActive *bool  `form:"is_active"`
}

type CreateFAQRequest struct {
	Question  string `json:"question" binding:"required,max=500"`
	Answer    string `json:"answer" binding:"required,max=5000"`
	SortOrder int    `json:"sort_order" binding:"min=0"`
	IsActive  *bool  `json:"is_active"`
}

type UpdateFAQRequest struct {
	Question  *string `json:"question" binding:"omitempty,max=500"`
	Answer    *string `json:"answer" binding:"omitempty,max=5000"`
	SortOrder *int    `json:"sort_order" binding:"omitempty,min=0"`
	IsActive  *bool   `json:"is_active"`
}

type FAQResponse struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewResponse(f *faq.FAQ) FAQResponse {
	return FAQResponse{
		ID:        f.ID,
		Question:  f.Question,
		Answer:    f.Answer,
		SortOrder: f.SortOrder,
		IsActive:  f.IsActive,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
