package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/booking"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rate"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rebooking"
)

const dateLayout = "2006-01-02"

type ListRebookingsRequest struct {
	request.ListParams
	BookingID string `form:"booking_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=pending approved rejected completed cancelled"`
}

type LineItemRequest struct {
	AccommodationID string `json:"accommodation_id" binding:"required,uuid"`
	RateID          string `json:"rate_id" binding:"required,uuid"`
	Guests          int    `json:"guests" binding:"required,min=1"`
}

type ChangesRequest struct {
	NewCheckIn       string            `json:"new_check_in" binding:"required,datetime=2006-01-02"`
	NewCheckOut      string            `json:"new_check_out" binding:"required,datetime=2006-01-02"`
	NewTotalAdults   int               `json:"new_total_adults" binding:"required,min=1"`
	NewTotalChildren int               `json:"new_total_children" binding:"min=0"`
	Accommodations   []LineItemRequest `json:"accommodations" binding:"required,min=1,dive"`
	RebookingFee     *decimal.Decimal  `json:"rebooking_fee" binding:"omitempty,money_gte0"`
	Remarks          string            `json:"remarks" binding:"max=1000"`
}

type CreateRebookingRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	ChangesRequest
}

type RemarksRequest struct {
	Remarks string `json:"remarks" binding:"max=1000"`
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

type RebookingResponse struct {
	ID                  string             `json:"id"`
	BookingID           string             `json:"booking_id"`
	RequestedBy         *string            `json:"requested_by"`
	NewCheckIn          string             `json:"new_check_in"`
	NewCheckOut         string             `json:"new_check_out"`
	Nights              int                `json:"nights"`
	NewTotalAdults      int                `json:"new_total_adults"`
	NewTotalChildren    int                `json:"new_total_children"`
	Accommodations      []LineItemResponse `json:"accommodations"`
	OriginalAmount      decimal.Decimal    `json:"original_amount"`
	NewAmount           decimal.Decimal    `json:"new_amount"`
	AmountDifference    decimal.Decimal    `json:"amount_difference"`
	RebookingFee        decimal.Decimal    `json:"rebooking_fee"`
	TotalAdjustment     decimal.Decimal    `json:"total_adjustment"`
	PaidAmount          decimal.Decimal    `json:"paid_amount"`
	RemainingAdjustment decimal.Decimal    `json:"remaining_adjustment"`
	Status              rebooking.Status   `json:"status"`
	Remarks             string             `json:"remarks"`
	ProcessedBy         *string            `json:"processed_by"`
	ProcessedAt         *time.Time         `json:"processed_at"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

func NewResponse(rb *rebooking.Rebooking) RebookingResponse {
	items := make([]LineItemResponse, len(rb.Accommodations))
	for i, item := range rb.Accommodations {
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

	return RebookingResponse{
		ID:                  rb.ID,
		BookingID:           rb.BookingID,
		RequestedBy:         rb.RequestedBy,
		NewCheckIn:          rb.NewCheckIn.Format(dateLayout),
		NewCheckOut:         rb.NewCheckOut.Format(dateLayout),
		Nights:              rate.Nights(rb.NewCheckIn, rb.NewCheckOut),
		NewTotalAdults:      rb.NewTotalAdults,
		NewTotalChildren:    rb.NewTotalChildren,
		Accommodations:      items,
		OriginalAmount:      rb.OriginalAmount,
		NewAmount:           rb.NewAmount,
		AmountDifference:    rb.AmountDifference(),
		RebookingFee:        rb.RebookingFee,
		TotalAdjustment:     rb.TotalAdjustment(),
		PaidAmount:          rb.PaidAmount(),
		RemainingAdjustment: rb.RemainingAdjustment(),
		Status:              rb.Status,
		Remarks:             rb.Remarks,
		ProcessedBy:         rb.ProcessedBy,
		ProcessedAt:         rb.ProcessedAt,
		CreatedAt:           rb.CreatedAt,
		UpdatedAt:           rb.UpdatedAt,
	}
}

func (r ChangesRequest) toChanges() (rebooking.Changes, error) {
	checkIn, err := time.ParseInLocation(dateLayout, r.NewCheckIn, time.UTC)
	if err != nil {
		return rebooking.Changes{}, err
	}
	checkOut, err := time.ParseInLocation(dateLayout, r.NewCheckOut, time.UTC)
	if err != nil {
		return rebooking.Changes{}, err
	}

	items := make([]booking.LineItemRequest, len(r.Accommodations))
	for i, item := range r.Accommodations {
		items[i] = booking.LineItemRequest{
			AccommodationID: item.AccommodationID,
			RateID:          item.RateID,
			Guests:          item.Guests,
		}
	}

	return rebooking.Changes{
		NewCheckIn:       checkIn,
		NewCheckOut:      checkOut,
		NewTotalAdults:   r.NewTotalAdults,
		NewTotalChildren: r.NewTotalChildren,
		Items:            items,
		Remarks:          r.Remarks,
		RebookingFee:     r.RebookingFee,
	}, nil
}
