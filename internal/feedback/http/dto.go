package http

import (
	"time"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/feedback"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
)

type ListFeedbackRequest struct {
	request.ListParams
	BookingID   string `form:"booking_id" binding:"omitempty,uuid"`
	IsPublished *bool  `form:"is_published"`
	Rating      int    `form:"rating" binding:"omitempty,min=1,max=5"`
}

type SubmitFeedbackRequest struct {
	BookingID *string `json:"booking_id" binding:"omitempty,uuid"`
	Name      string  `json:"name" binding:"max=100"`
	Email     string  `json:"email" binding:"omitempty,email"`
	Rating    int     `json:"rating" binding:"required,min=1,max=5"`
	Comment   string  `json:"comment" binding:"max=2000"`
}

type PublishRequest struct {
	IsPublished *bool `json:"is_published" binding:"required"`
}

type FeedbackResponse struct {
	ID          string    `json:"id"`
	BookingID   *string   `json:"booking_id,omitempty"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewResponse renders f. Contact details are only shown to staff.
func NewResponse(f *feedback.Feedback, staff bool) FeedbackResponse {
	resp := FeedbackResponse{
		ID:          f.ID,
		Name:        f.Name,
		Rating:      f.Rating,
		Comment:     f.Comment,
		IsPublished: f.IsPublished,
		CreatedAt:   f.CreatedAt,
	}
	if staff {
		resp.BookingID = f.BookingID
		resp.Email = f.Email
	}
	return resp
}
