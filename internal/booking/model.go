package booking

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, "booking not found")
	ErrInvalidStatus        = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrInvalidSource        = apperror.New(http.StatusBadRequest, "invalid booking source")
	ErrInvalidTransition    = apperror.New(http.StatusConflict, "invalid booking status transition")
	ErrStatusChanged        = apperror.New(http.StatusConflict, "booking status was changed by another request")
	ErrUnavailable          = apperror.New(http.StatusConflict, "accommodation is already booked for these dates")
	ErrPermissionDenied     = apperror.New(http.StatusForbidden, "permission denied")
	ErrGuestNameRequired    = apperror.New(http.StatusBadRequest, "guest name is required")
	ErrGuestEmailRequired   = apperror.New(http.StatusBadRequest, "guest email is required for bookings made without an account")
	ErrWalkInRequiresStaff  = apperror.New(http.StatusForbidden, "only staff can record walk-in bookings")
	ErrAccommodationMissing = apperror.New(http.StatusBadRequest, "at least one accommodation is required")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
)

// rank orders the forward path of a stay. Cancelled sits outside it.
var rank = map[Status]int{
	StatusPending:    0,
	StatusConfirmed:  1,
	StatusCheckedIn:  2,
	StatusCheckedOut: 3,
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// IsClosed reports whether the booking no longer takes payments or changes.
func (s Status) IsClosed() bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

// Transition validates a status change. Bookings only move forward (steps
// may be skipped) and may be cancelled while pending or confirmed.
// The returned error wraps ErrInvalidTransition.
func Transition(from, to Status) (Status, error) {
	if _, err := ParseStatus(string(to)); err != nil {
		return "", err
	}

	invalid := func(reason string) error {
		return apperror.Wrap(ErrInvalidTransition, http.StatusConflict,
			fmt.Sprintf("cannot change booking from %s to %s: %s", from, to, reason))
	}

	switch {
	case from == to:
		return "", invalid("booking already has this status")
	case from.IsClosed():
		return "", invalid("booking is closed")
	case to == StatusCancelled:
		if from != StatusPending && from != StatusConfirmed {
			return "", invalid("only pending or confirmed bookings can be cancelled")
		}
		return to, nil
	case rank[to] < rank[from]:
		return "", invalid("bookings cannot move backward")
	}
	return to, nil
}

// IsInvalidTransition reports whether err came from Transition.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

type Source string

const (
	SourceOnline Source = "online"
	SourceWalkIn Source = "walk_in"
)

func ParseSource(s string) (Source, error) {
	switch src := Source(s); src {
	case SourceOnline, SourceWalkIn:
		return src, nil
	}
	return "", ErrInvalidSource
}

// LineItem is one accommodation reserved by a booking.
type LineItem struct {
	ID                string
	BookingID         string
	AccommodationID   string
	AccommodationName string
	RateID            string
	RateName          string
	Guests            int
	Subtotal          decimal.Decimal
}

type Booking struct {
	ID                  string
	UserID              *string
	GuestName           string
	GuestEmail          string
	GuestPhone          string
	Source              Source
	CheckIn             time.Time
	CheckOut            time.Time
	TotalAdults         int
	TotalChildren       int
	Status              Status
	TotalAmount         decimal.Decimal
	DownPaymentRequired bool
	DownPaymentAmount   decimal.Decimal
	Remarks             string
	CreatedBy           *string
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Accommodations []LineItem
	Payments       []ledger.PaymentRecord
}

func (b *Booking) Snapshot() ledger.BookingSnapshot {
	return ledger.BookingSnapshot{
		TotalAmount:         b.TotalAmount,
		DownPaymentRequired: b.DownPaymentRequired,
		DownPaymentAmount:   b.DownPaymentAmount,
	}
}

// Summary derives paid amounts and balances from the loaded payments.
func (b *Booking) Summary() ledger.Summary {
	return ledger.Summarize(b.Snapshot(), b.Payments)
}

// OwnedBy reports whether userID is the customer the booking belongs to.
func (b *Booking) OwnedBy(userID string) bool {
	return userID != "" && b.UserID != nil && *b.UserID == userID
}

// IsRebookable reports whether the booking may still be moved: it must be
// pending or confirmed and check-in must be after today.
func (b *Booking) IsRebookable(now time.Time) bool {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return false
	}
	return DateOf(b.CheckIn).After(DateOf(now))
}

// TotalGuests is adults plus children.
func (b *Booking) TotalGuests() int {
	return b.TotalAdults + b.TotalChildren
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Filter struct {
	UserID      string
	Status      string
	Source      string
	CheckInFrom *time.Time
	CheckInTo   *time.Time
	Keyword     string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
