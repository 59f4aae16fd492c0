package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/logging"
)

type recordingHub struct {
	mu     sync.Mutex
	events []Event
}

func (h *recordingHub) Broadcast(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

type sentMail struct {
	to      []string
	subject string
	body    string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func TestDeliverBroadcastsAndMails(t *testing.T) {
	hub := &recordingHub{}
	mailer := &recordingMailer{}
	d := NewDispatcher(4, hub, mailer, []string{"owner@resort.test"}, logging.Discard())

	e := Event{
		Name:       BookingStatusChanged,
		Subject:    "Booking confirmed",
		Data:       map[string]string{"booking_id": "b-1", "guest_name": "Ana", "from": "pending", "to": "confirmed"},
		OccurredAt: occurredAt,
	}
	require.NoError(t, d.Deliver(context.Background(), e))

	require.Equal(t, 1, hub.count())
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"owner@resort.test"}, mailer.sent[0].to)
	assert.Equal(t, "Booking confirmed", mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "moved from pending to confirmed")
}

func TestDeliverWithoutRecipientsSkipsMail(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewDispatcher(1, &recordingHub{}, mailer, nil, logging.Discard())

	require.NoError(t, d.Deliver(context.Background(), Event{Name: BookingCreated}))
	assert.Empty(t, mailer.sent)
}

func TestDeliverReportsMailFailure(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("relay down")}
	d := NewDispatcher(1, nil, mailer, []string{"owner@resort.test"}, logging.Discard())

	err := d.Deliver(context.Background(), Event{Name: RefundIssued, Subject: "Refund"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relay down")
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	d := NewDispatcher(1, nil, nil, nil, logging.Discard())

	d.Publish(Event{Name: BookingCreated})
	d.Publish(Event{Name: BookingStatusChanged})

	require.Len(t, d.queue, 1)
	e := <-d.queue
	assert.Equal(t, BookingCreated, e.Name)
	assert.False(t, e.OccurredAt.IsZero())
}

func TestRunDeliversAndDrainsOnShutdown(t *testing.T) {
	hub := &recordingHub{}
	d := NewDispatcher(8, hub, nil, nil, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	d.Publish(Event{Name: BookingCreated})
	require.Eventually(t, func() bool { return hub.count() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	d.Publish(Event{Name: PaymentRecorded})
	d.Publish(Event{Name: RefundIssued})
	d.drain()
	assert.Equal(t, 3, hub.count())
}
