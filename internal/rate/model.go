package rate

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/apperror"
)

var (
	ErrNotFound              = apperror.New(http.StatusNotFound, "rate not found")
	ErrEmptyName             = apperror.New(http.StatusBadRequest, "name is required")
	ErrInvalidUnit           = apperror.New(http.StatusBadRequest, "unit must be per_night or per_stay")
	ErrInvalidPrice          = apperror.New(http.StatusBadRequest, "price must be zero or more with at most two decimal places")
	ErrAccommodationNotFound = apperror.New(http.StatusBadRequest, "accommodation does not exist")
	ErrInUse                 = apperror.New(http.StatusConflict, "rate is used by bookings; deactivate it instead")
)

// Unit says how a price is applied to a stay.
type Unit string

const (
	UnitPerNight Unit = "per_night"
	UnitPerStay  Unit = "per_stay"
)

func ParseUnit(s string) (Unit, error) {
	switch u := Unit(s); u {
	case UnitPerNight, UnitPerStay:
		return u, nil
	}
	return "", fmt.Errorf("unknown rate unit %q", s)
}

// Rate is one price an accommodation can be booked at, e.g. "Day tour" or
// "Overnight, weekend".
type Rate struct {
	ID              string
	AccommodationID string
	Name            string
	Price           decimal.Decimal
	Unit            Unit
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Nights counts the nights between two stay dates. Same-day stays (day
// tours) count as one.
func Nights(checkIn, checkOut time.Time) int {
	n := int(dateOnly(checkOut).Sub(dateOnly(checkIn)).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Subtotal prices a stay of the given number of nights at this rate.
func (r *Rate) Subtotal(nights int) decimal.Decimal {
	if r.Unit == UnitPerStay {
		return ledger.Round(r.Price)
	}
	return ledger.Round(r.Price.Mul(decimal.NewFromInt(int64(nights))))
}

type Filter struct {
	AccommodationID string
	IsActive        *bool

	Page     int
	PageSize int
}
