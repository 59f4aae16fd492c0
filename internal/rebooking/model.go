package rebooking

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/booking"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "rebooking not found")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid rebooking status")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "invalid rebooking status transition")
	ErrNotRebookable     = apperror.New(http.StatusConflict, "only pending or confirmed bookings with a future check-in can be rebooked")
	ErrPendingExists     = apperror.New(http.StatusConflict, "this booking already has a pending rebooking")
	ErrNotPending        = apperror.New(http.StatusConflict, "only pending rebookings can be changed")
	ErrStatusChanged     = apperror.New(http.StatusConflict, "rebooking status was changed by another request")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
	ErrInvalidFee        = apperror.New(http.StatusBadRequest, "rebooking fee must be a non-negative amount with at most two decimal places")
	ErrUnpaidAdjustment  = apperror.New(http.StatusConflict, "the rebooking adjustment is not fully paid")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// AcceptsPayments reports whether payments may still be recorded against
// the rebooking's adjustment.
func (s Status) AcceptsPayments() bool {
	return s == StatusPending || s == StatusApproved
}

// allowed lists the moves out of each status. Rejected, completed and
// cancelled rebookings are final.
var allowed = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCompleted},
}

// Transition validates a status change. The returned error wraps
// ErrInvalidTransition.
func Transition(from, to Status) (Status, error) {
	if _, err := ParseStatus(string(to)); err != nil {
		return "", err
	}
	for _, next := range allowed[from] {
		if next == to {
			return to, nil
		}
	}
	return "", apperror.Wrap(ErrInvalidTransition, http.StatusConflict,
		fmt.Sprintf("cannot change rebooking from %s to %s", from, to))
}

// LineItem is one accommodation of the proposed stay.
type LineItem struct {
	ID                string
	RebookingID       string
	AccommodationID   string
	AccommodationName string
	RateID            string
	RateName          string
	Guests            int
	Subtotal          decimal.Decimal
}

// Rebooking is a request to move a booking to new dates, party size or
// accommodations.
type Rebooking struct {
	ID               string
	BookingID        string
	RequestedBy      *string
	NewCheckIn       time.Time
	NewCheckOut      time.Time
	NewTotalAdults   int
	NewTotalChildren int
	OriginalAmount   decimal.Decimal
	NewAmount        decimal.Decimal
	RebookingFee     decimal.Decimal
	Status           Status
	Remarks          string
	ProcessedBy      *string
	ProcessedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Accommodations []LineItem
	// Payments holds the payments recorded against this rebooking.
	Payments []ledger.PaymentRecord
}

func (r *Rebooking) Snapshot() ledger.RebookingSnapshot {
	guests := make([]int, len(r.Accommodations))
	for i, item := range r.Accommodations {
		guests[i] = item.Guests
	}
	return ledger.RebookingSnapshot{
		ID:                  r.ID,
		OriginalAmount:      r.OriginalAmount,
		NewAmount:           r.NewAmount,
		RebookingFee:        r.RebookingFee,
		NewTotalAdults:      r.NewTotalAdults,
		NewTotalChildren:    r.NewTotalChildren,
		AccommodationGuests: guests,
	}
}

// AmountDifference is the new stay price minus the original.
func (r *Rebooking) AmountDifference() decimal.Decimal {
	return ledger.Round(r.NewAmount.Sub(r.OriginalAmount))
}

// TotalAdjustment is the difference plus the fee.
func (r *Rebooking) TotalAdjustment() decimal.Decimal {
	return ledger.ComputeRebookingAdjustment(r.Snapshot())
}

func (r *Rebooking) PaidAmount() decimal.Decimal {
	return ledger.RebookingPaid(r.Snapshot(), r.Payments)
}

func (r *Rebooking) RemainingAdjustment() decimal.Decimal {
	return ledger.RemainingAdjustment(r.Snapshot(), r.Payments)
}

// BookingLineItems converts the proposed lines into booking lines.
func (r *Rebooking) BookingLineItems() []booking.LineItem {
	items := make([]booking.LineItem, len(r.Accommodations))
	for i, item := range r.Accommodations {
		items[i] = booking.LineItem{
			AccommodationID:   item.AccommodationID,
			AccommodationName: item.AccommodationName,
			RateID:            item.RateID,
			RateName:          item.RateName,
			Guests:            item.Guests,
			Subtotal:          item.Subtotal,
		}
	}
	return items
}

type Filter struct {
	BookingID string
	Status    string
	UserID    string
	Page      int
	PageSize  int
	SortOrder string
}
