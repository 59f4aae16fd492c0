package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Broadcaster pushes an event to every connected listener.
type Broadcaster interface {
	Broadcast(e Event)
}

// Dispatcher queues events and delivers them from a single worker.
type Dispatcher struct {
	queue      chan Event
	hub        Broadcaster
	mailer     Mailer
	recipients []string
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewDispatcher(queueSize int, hub Broadcaster, mailer Mailer, recipients []string, log logrus.FieldLogger) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		queue:      make(chan Event, queueSize),
		hub:        hub,
		mailer:     mailer,
		recipients: recipients,
		log:        log,
		now:        time.Now,
	}
}

// Publish enqueues e. When the queue is full the event is dropped and logged;
// the request that produced it has already been committed.
func (d *Dispatcher) Publish(e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = d.now().UTC()
	}
	select {
	case d.queue <- e:
	default:
		d.log.WithField("event", e.Name).Warn("notification queue full, dropping event")
	}
}

// Run delivers queued events until ctx is cancelled, then drains what is
// left in the queue.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case e := <-d.queue:
			d.deliverLogged(ctx, e)
		case <-ctx.Done():
			d.drain()
			return
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case e := <-d.queue:
			d.deliverLogged(ctx, e)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliverLogged(ctx context.Context, e Event) {
	if err := d.Deliver(ctx, e); err != nil {
		d.log.WithError(err).WithField("event", e.Name).Error("failed to deliver notification")
	}
}

// Deliver broadcasts e to websocket listeners and mails it to the admin
// recipients.
func (d *Dispatcher) Deliver(ctx context.Context, e Event) error {
	if d.hub != nil {
		d.hub.Broadcast(e)
	}
	if d.mailer == nil || len(d.recipients) == 0 {
		return nil
	}

	body, err := Render(e)
	if err != nil {
		return err
	}
	if err := d.mailer.Send(ctx, d.recipients, e.Subject, body); err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}
	return nil
}
