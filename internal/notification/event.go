// Package notification fans domain events out to connected staff over
// websocket and to the admin mailbox.
package notification

import "time"

const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
	PaymentRecorded      = "payment.recorded"
	RefundIssued         = "refund.issued"
	RebookingRequested   = "rebooking.requested"
	RebookingApproved    = "rebooking.approved"
	RebookingRejected    = "rebooking.rejected"
	FeedbackSubmitted    = "feedback.submitted"
)

// Event is something staff should hear about. Data values are already
// formatted for display.
type Event struct {
	Name       string            `json:"name"`
	Subject    string            `json:"subject"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Publisher accepts events without blocking the caller.
type Publisher interface {
	Publish(e Event)
}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}
