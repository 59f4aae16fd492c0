package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/booking"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rate"
)

const dateLayout = "2006-01-02"

type ListBookingsRequest struct {
	request.ListParams
	Status      string `form:"status" binding:"omitempty,oneof=pending confirmed checked_in checked_out cancelled"`
	Source      string `form:"source" binding:"omitempty,oneof=online walk_in"`
	CheckInFrom string `form:"check_in_from" binding:"omitempty,datetime=2006-01-02"`
	CheckInTo   string `form:"check_in_to" binding:"omitempty,datetime=2006-01-02"`
	Keyword     string `form:"q"`
	SortBy      string `form:"sort_by" binding:"omitempty,oneof=check_in created_at total_amount guest_name"`
}

type LineItemRequest struct {
	AccommodationID string `json:"accommodation_id" binding:"required,uuid"`
	RateID          string `json:"rate_id" binding:"required,uuid"`
	Guests          int    `json:"guests" binding:"required,min=1"`
}

type CreateBookingRequest struct {
	Source              string            `json:"source" binding:"omitempty,oneof=online walk_in"`
	GuestName           string            `json:"guest_name" binding:"required,max=150"`
	GuestEmail          string            `json:"guest_email" binding:"omitempty,email"`
	GuestPhone          string            `json:"guest_phone" binding:"max=30"`
	CheckIn             string            `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut            string            `json:"check_out" binding:"required,datetime=2006-01-02"`
	TotalAdults         int               `json:"total_adults" binding:"required,min=1"`
	TotalChildren       int               `json:"total_children" binding:"min=0"`
	Accommodations      []LineItemRequest `json:"accommodations" binding:"required,min=1,dive"`
	DownPaymentRequired *bool             `json:"down_payment_required"`
	DownPaymentAmount   *decimal.Decimal  `json:"down_payment_amount" binding:"omitempty,money"`
	Remarks             string            `json:"remarks" binding:"max=1000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed checked_in checked_out cancelled"`
}

type LookupRequest struct {
	ID    string `form:"id" binding:"required,uuid"`
	Email string `form:"email" binding:"required,email"`
}

type AvailabilityRequest struct {
	CheckIn          string   `form:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut         string   `form:"check_out" binding:"required,datetime=2006-01-02"`
	AccommodationIDs []string `form:"accommodation_id" binding:"required,min=1,max=50,dive,uuid"`
}

type AvailabilityResponse struct {
	CheckIn     string   `json:"check_in"`
	CheckOut    string   `json:"check_out"`
	Available   []string `json:"available"`
	Unavailable []string `json:"unavailable"`
}

type LineItemResponse struct {
	ID                string          `json:"id"`
	AccommodationID   string          `json:"accommodation_id"`
	AccommodationName string          `json:"accommodation_name"`
	RateID            string          `json:"rate_id"`
	RateName          string          `json:"rate_name"`
	Guests            int             `json:"guests"`
	Subtotal          decimal.Decimal `json:"subtotal"`
}

type BookingResponse struct {
	ID                  string             `json:"id"`
	UserID              *string            `json:"user_id"`
	GuestName           string             `json:"guest_name"`
	GuestEmail          string             `json:"guest_email"`
	GuestPhone          string             `json:"guest_phone"`
	Source              booking.Source     `json:"source"`
	Status              booking.Status     `json:"status"`
	CheckIn             string             `json:"check_in"`
	CheckOut            string             `json:"check_out"`
	Nights              int                `json:"nights"`
	TotalAdults         int                `json:"total_adults"`
	TotalChildren       int                `json:"total_children"`
	DownPaymentRequired bool               `json:"down_payment_required"`
	DownPaymentAmount   decimal.Decimal    `json:"down_payment_amount"`
	Remarks             string             `json:"remarks"`
	Accommodations      []LineItemResponse `json:"accommodations"`
	CreatedBy           *string            `json:"created_by"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
	ledger.Summary
}

func NewResponse(b *booking.Booking) BookingResponse {
	items := make([]LineItemResponse, len(b.Accommodations))
	for i, item := range b.Accommodations {
		items[i] = LineItemResponse{
			ID:                item.ID,
			AccommodationID:   item.AccommodationID,
			AccommodationName: item.AccommodationName,
			RateID:            item.RateID,
			RateName:          item.RateName,
			Guests:            item.Guests,
			Subtotal:          item.Subtotal,
		}
	}

	return BookingResponse{
		ID:                  b.ID,
		UserID:              b.UserID,
		GuestName:           b.GuestName,
		GuestEmail:          b.GuestEmail,
		GuestPhone:          b.GuestPhone,
		Source:              b.Source,
		Status:              b.Status,
		CheckIn:             b.CheckIn.Format(dateLayout),
		CheckOut:            b.CheckOut.Format(dateLayout),
		Nights:              rate.Nights(b.CheckIn, b.CheckOut),
		TotalAdults:         b.TotalAdults,
		TotalChildren:       b.TotalChildren,
		DownPaymentRequired: b.DownPaymentRequired,
		DownPaymentAmount:   b.DownPaymentAmount,
		Remarks:             b.Remarks,
		Accommodations:      items,
		CreatedBy:           b.CreatedBy,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
		Summary:             b.Summary(),
	}
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}
