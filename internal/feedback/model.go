package feedback

import (
	"net/http"
	"time"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "feedback not found")
	ErrInvalidRating = apperror.New(http.StatusBadRequest, "rating must be between 1 and 5")
	ErrNameRequired  = apperror.New(http.StatusBadRequest, "name is required")
)

const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is a guest review. It stays hidden from the public until an
// admin publishes it.
type Feedback struct {
	ID          string
	BookingID   *string
	UserID      *string
	Name        string
	Email       string
	Rating      int
	Comment     string
	IsPublished bool
	CreatedAt   time.Time
}

type Filter struct {
	BookingID   string
	IsPublished *bool
	Rating      int
	Page        int
	PageSize    int
	SortOrder   string
}
