package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/accommodation"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rate"
)

// LineItemRequest asks for one accommodation at one rate.
type LineItemRequest struct {
	AccommodationID string
	RateID          string
	Guests          int
}

// Pricer resolves requested line items against the inventory and the rate
// tables. Bookings and rebookings price their stays through it.
type Pricer struct {
	accommodations accommodation.Service
	rates          rate.Service
}

func NewPricer(accommodations accommodation.Service, rates rate.Service) *Pricer {
	return &Pricer{accommodations: accommodations, rates: rates}
}

func itemField(i int, name string) string {
	return fmt.Sprintf("%s[%d].%s", ledger.FieldAccommodations, i, name)
}

// Price checks every line and computes its subtotal for the stay. The
// guests of all lines must add up to adults plus children. Problems come
// back as ledger.Rejections keyed by the offending request field.
func (p *Pricer) Price(ctx context.Context, reqs []LineItemRequest, checkIn, checkOut time.Time, adults, children int) ([]LineItem, decimal.Decimal, error) {
	if len(reqs) == 0 {
		return nil, decimal.Zero, ErrAccommodationMissing
	}

	accIDs := make([]string, len(reqs))
	rateIDs := make([]string, len(reqs))
	for i, r := range reqs {
		accIDs[i] = r.AccommodationID
		rateIDs[i] = r.RateID
	}

	accs, err := p.accommodations.GetMany(ctx, accIDs)
	if err != nil {
		return nil, decimal.Zero, err
	}
	rates, err := p.rates.GetMany(ctx, rateIDs)
	if err != nil {
		return nil, decimal.Zero, err
	}

	nights := rate.Nights(checkIn, checkOut)
	seen := make(map[string]bool, len(reqs))
	items := make([]LineItem, 0, len(reqs))
	guests := make([]int, 0, len(reqs))
	total := decimal.Zero
	var checks []*ledger.Rejection

	for i, r := range reqs {
		guests = append(guests, r.Guests)

		acc, ok := accs[r.AccommodationID]
		if !ok || !acc.IsActive {
			checks = append(checks, &ledger.Rejection{Field: itemField(i, "accommodation_id"), Reason: "accommodation not found or not available"})
			continue
		}
		if seen[acc.ID] {
			checks = append(checks, &ledger.Rejection{Field: itemField(i, "accommodation_id"), Reason: "accommodation is listed more than once"})
			continue
		}
		seen[acc.ID] = true

		rt, ok := rates[r.RateID]
		if !ok || !rt.IsActive || rt.AccommodationID != acc.ID {
			checks = append(checks, &ledger.Rejection{Field: itemField(i, "rate_id"), Reason: "rate not found for " + acc.Name})
			continue
		}

		if r.Guests < 1 {
			checks = append(checks, &ledger.Rejection{Field: itemField(i, "guests"), Reason: "must be at least 1"})
			continue
		}
		if r.Guests > acc.Capacity {
			checks = append(checks, &ledger.Rejection{
				Field:  itemField(i, "guests"),
				Reason: fmt.Sprintf("%s holds at most %d guests", acc.Name, acc.Capacity),
			})
			continue
		}

		subtotal := rt.Subtotal(nights)
		total = total.Add(subtotal)
		items = append(items, LineItem{
			AccommodationID:   acc.ID,
			AccommodationName: acc.Name,
			RateID:            rt.ID,
			RateName:          rt.Name,
			Guests:            r.Guests,
			Subtotal:          subtotal,
		})
	}

	checks = append(checks, ledger.ValidateRebookingGuestCount(ledger.RebookingSnapshot{
		NewTotalAdults:      adults,
		NewTotalChildren:    children,
		AccommodationGuests: guests,
	}))

	if err := ledger.Collect(checks...); err != nil {
		return nil, decimal.Zero, err
	}
	return items, ledger.Round(total), nil
}

// Quote validates the stay dates and prices the line items in the same pass,
// so a request with bad dates still learns about its bad lines. prefix is
// passed to ValidateStay.
func (p *Pricer) Quote(ctx context.Context, prefix string, reqs []LineItemRequest, checkIn, checkOut, now time.Time, adults, children int) ([]LineItem, decimal.Decimal, error) {
	if len(reqs) == 0 {
		return nil, decimal.Zero, ErrAccommodationMissing
	}

	stayErr := ValidateStay(prefix, checkIn, checkOut, now)
	items, total, priceErr := p.Price(ctx, reqs, checkIn, checkOut, adults, children)
	if err := ledger.Join(stayErr, priceErr); err != nil {
		return nil, decimal.Zero, err
	}
	return items, total, nil
}

// ValidateStay checks the dates of a stay. Check-out may equal check-in for
// a day visit; check-in must not be before today. prefix is prepended to the
// field names ("new_" for rebookings).
func ValidateStay(prefix string, checkIn, checkOut, now time.Time) error {
	var checks []*ledger.Rejection
	if DateOf(checkIn).Before(DateOf(now)) {
		checks = append(checks, &ledger.Rejection{Field: prefix + "check_in", Reason: "must not be in the past"})
	}
	if DateOf(checkOut).Before(DateOf(checkIn)) {
		checks = append(checks, &ledger.Rejection{Field: prefix + "check_out", Reason: "must not be before check-in"})
	}
	return ledger.Collect(checks...)
}
