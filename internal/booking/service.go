package booking

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/notification"
)

const dateLayout = "2006-01-02"

type CreateRequest struct {
	// Source defaults to walk_in for staff and online for everyone else.
	Source string

	GuestName     string
	GuestEmail    string
	GuestPhone    string
	CheckIn       time.Time
	CheckOut      time.Time
	TotalAdults   int
	TotalChildren int
	Items         []LineItemRequest
	Remarks       string

	// Down payment terms are set by staff. Online bookings made by guests
	// always require the configured percentage.
	DownPaymentRequired *bool
	DownPaymentAmount   *decimal.Decimal
}

type Service interface {
	Create(ctx context.Context, actor auth.Principal, req CreateRequest) (*Booking, error)
	// Get returns the booking when actor is staff or the owning customer.
	Get(ctx context.Context, actor auth.Principal, id string) (*Booking, error)
	// Lookup lets a guest without an account find a booking by id and the
	// email it was made with.
	Lookup(ctx context.Context, id, email string) (*Booking, error)
	List(ctx context.Context, actor auth.Principal, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, actor auth.Principal, id string, to Status) (*Booking, error)
	Delete(ctx context.Context, id string) error
	// UnavailableAccommodations returns the accommodations among ids that
	// are taken for any night of the stay.
	UnavailableAccommodations(ctx context.Context, ids []string, checkIn, checkOut time.Time) ([]string, error)
}

type service struct {
	repo               Repository
	pricer             *Pricer
	publisher          notification.Publisher
	downPaymentPercent decimal.Decimal
	log                logrus.FieldLogger
	now                func() time.Time
}

func NewService(repo Repository, pricer *Pricer, publisher notification.Publisher, downPaymentPercent decimal.Decimal, log logrus.FieldLogger) Service {
	return &service{
		repo:               repo,
		pricer:             pricer,
		publisher:          publisher,
		downPaymentPercent: downPaymentPercent,
		log:                log,
		now:                time.Now,
	}
}

func (s *service) Create(ctx context.Context, actor auth.Principal, req CreateRequest) (*Booking, error) {
	source := SourceOnline
	if actor.IsStaff() {
		source = SourceWalkIn
	}
	if req.Source != "" {
		src, err := ParseSource(req.Source)
		if err != nil {
			return nil, err
		}
		source = src
	}
	if source == SourceWalkIn && !actor.IsStaff() {
		return nil, ErrWalkInRequiresStaff
	}

	name := strings.TrimSpace(req.GuestName)
	if name == "" {
		return nil, ErrGuestNameRequired
	}
	email := strings.ToLower(strings.TrimSpace(req.GuestEmail))
	if actor.IsAnonymous() && email == "" {
		return nil, ErrGuestEmailRequired
	}

	checkIn, checkOut := DateOf(req.CheckIn), DateOf(req.CheckOut)
	items, total, err := s.pricer.Quote(ctx, "", req.Items, checkIn, checkOut, s.now(), req.TotalAdults, req.TotalChildren)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		GuestName:     name,
		GuestEmail:    email,
		GuestPhone:    strings.TrimSpace(req.GuestPhone),
		Source:        source,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		TotalAdults:   req.TotalAdults,
		TotalChildren: req.TotalChildren,
		Status:        StatusPending,
		TotalAmount:   total,
		Remarks:       strings.TrimSpace(req.Remarks),

		Accommodations: items,
	}

	if actor.IsStaff() {
		createdBy := actor.UserID
		b.CreatedBy = &createdBy
		if source == SourceWalkIn {
			b.Status = StatusConfirmed
		}
	} else if !actor.IsAnonymous() {
		userID := actor.UserID
		b.UserID = &userID
	}

	if err := s.applyDownPayment(b, actor, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"source":     b.Source,
		"total":      b.TotalAmount.StringFixed(ledger.Places),
	}).Info("booking created")

	s.publisher.Publish(notification.Event{
		Name:    notification.BookingCreated,
		Subject: "New booking from " + b.GuestName,
		Data: map[string]string{
			"booking_id":   b.ID,
			"guest_name":   b.GuestName,
			"source":       string(b.Source),
			"status":       string(b.Status),
			"check_in":     b.CheckIn.Format(dateLayout),
			"check_out":    b.CheckOut.Format(dateLayout),
			"total_amount": ledger.FormatPeso(b.TotalAmount),
		},
	})
	return b, nil
}

// applyDownPayment settles the down payment terms. When a down payment is
// required without an amount, the configured percentage of the total is used.
func (s *service) applyDownPayment(b *Booking, actor auth.Principal, req CreateRequest) error {
	required := true
	var amount *decimal.Decimal
	if actor.IsStaff() {
		required = req.DownPaymentRequired != nil && *req.DownPaymentRequired
		amount = req.DownPaymentAmount
	}

	if !required {
		if amount != nil && !amount.IsZero() {
			return &ledger.Rejection{Field: "down_payment_amount", Reason: "requires down_payment_required"}
		}
		b.DownPaymentRequired = false
		b.DownPaymentAmount = decimal.Zero
		return nil
	}

	b.DownPaymentRequired = true
	if amount == nil {
		b.DownPaymentAmount = ledger.Round(b.TotalAmount.Mul(s.downPaymentPercent).Div(decimal.NewFromInt(100)))
		return nil
	}

	if r := ledger.ValidateAmount("down_payment_amount", *amount); r != nil {
		return r
	}
	if amount.GreaterThan(b.TotalAmount) {
		return &ledger.Rejection{
			Field:  "down_payment_amount",
			Reason: "must not exceed the booking total of " + ledger.FormatPeso(b.TotalAmount),
		}
	}
	b.DownPaymentAmount = *amount
	return nil
}

func (s *service) Get(ctx context.Context, actor auth.Principal, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !b.OwnedBy(actor.UserID) {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) Lookup(ctx context.Context, id, email string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || b.GuestEmail != email {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) List(ctx context.Context, actor auth.Principal, filter Filter) ([]*Booking, int, error) {
	if !actor.IsStaff() {
		if actor.IsAnonymous() {
			return nil, 0, ErrPermissionDenied
		}
		filter.UserID = actor.UserID
	}
	if filter.Status != "" {
		if _, err := ParseStatus(filter.Status); err != nil {
			return nil, 0, err
		}
	}
	if filter.Source != "" {
		if _, err := ParseSource(filter.Source); err != nil {
			return nil, 0, err
		}
	}
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, actor auth.Principal, id string, to Status) (*Booking, error) {
	b, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && to != StatusCancelled {
		return nil, ErrPermissionDenied
	}

	from := b.Status
	next, err := Transition(from, to)
	if err != nil {
		return nil, err
	}

	updatedAt, err := s.repo.UpdateStatus(ctx, id, from, next)
	if err != nil {
		return nil, err
	}
	b.Status = next
	b.UpdatedAt = updatedAt

	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"from":       from,
		"to":         next,
		"actor_id":   actor.UserID,
	}).Info("booking status changed")

	s.publisher.Publish(notification.Event{
		Name:    notification.BookingStatusChanged,
		Subject: "Booking " + string(next) + ": " + b.GuestName,
		Data: map[string]string{
			"booking_id": b.ID,
			"guest_name": b.GuestName,
			"from":       string(from),
			"to":         string(next),
			"balance":    ledger.FormatPeso(b.Summary().Balance),
			"guests":     strconv.Itoa(b.TotalGuests()),
		},
	})
	return b, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("booking_id", id).Info("booking deleted")
	return nil
}

func (s *service) UnavailableAccommodations(ctx context.Context, ids []string, checkIn, checkOut time.Time) ([]string, error) {
	checkIn, checkOut = DateOf(checkIn), DateOf(checkOut)
	if checkOut.Before(checkIn) {
		return nil, &ledger.Rejection{Field: "check_out", Reason: "must not be before check-in"}
	}
	return s.repo.Conflicts(ctx, ids, checkIn, checkOut, "")
}
