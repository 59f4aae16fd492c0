package notification

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

var occurredAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestRender(t *testing.T) {
	tests := []struct {
		golden string
		event  Event
	}{
		{
			golden: "booking_created",
			event: Event{
				Name:    BookingCreated,
				Subject: "New booking from Maria Santos",
				Data: map[string]string{
					"booking_id":   "b-1",
					"guest_name":   "Maria Santos",
					"source":       "online",
					"status":       "pending",
					"check_in":     "2026-04-01",
					"check_out":    "2026-04-03",
					"total_amount": "₱6,000.00",
				},
			},
		},
		{
			golden: "payment_recorded",
			event: Event{
				Name:    PaymentRecorded,
				Subject: "Payment recorded",
				Data: map[string]string{
					"booking_id": "b-1",
					"payment_id": "p-2",
					"kind":       "down payment",
					"amount":     "₱3,000.00",
					"method":     "cash",
					"balance":    "₱3,000.00",
				},
			},
		},
		{
			golden: "payment_recorded_rebooking",
			event: Event{
				Name:    PaymentRecorded,
				Subject: "Payment recorded",
				Data: map[string]string{
					"booking_id":   "b-1",
					"payment_id":   "p-1",
					"rebooking_id": "r-1",
					"kind":         "rebooking payment",
					"amount":       "₱1,500.00",
					"method":       "gcash",
					"balance":      "₱3,000.00",
				},
			},
		},
		{
			golden: "fallback",
			event: Event{
				Name:    RebookingApproved,
				Subject: "Rebooking approved",
				Data: map[string]string{
					"remarks":      "dates moved",
					"booking_id":   "b-1",
					"rebooking_id": "r-1",
				},
			},
		},
	}

	g := goldie.New(t)
	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			tt.event.OccurredAt = occurredAt
			body, err := Render(tt.event)
			require.NoError(t, err)
			g.Assert(t, tt.golden, []byte(body))
		})
	}
}
