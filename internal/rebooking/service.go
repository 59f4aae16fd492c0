package rebooking

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/booking"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/notification"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/apperror"
)

const dateLayout = "2006-01-02"

// Changes is the proposed stay. It replaces the whole proposal on update.
type Changes struct {
	NewCheckIn       time.Time
	NewCheckOut      time.Time
	NewTotalAdults   int
	NewTotalChildren int
	Items            []booking.LineItemRequest
	Remarks          string

	// RebookingFee overrides the configured fee. Staff only.
	RebookingFee *decimal.Decimal
}

type Service interface {
	Request(ctx context.Context, actor auth.Principal, bookingID string, changes Changes) (*Rebooking, error)
	Update(ctx context.Context, actor auth.Principal, id string, changes Changes) (*Rebooking, error)
	Get(ctx context.Context, actor auth.Principal, id string) (*Rebooking, error)
	List(ctx context.Context, actor auth.Principal, filter Filter) ([]*Rebooking, int, error)
	Approve(ctx context.Context, actor auth.Principal, id, remarks string) (*Rebooking, error)
	Reject(ctx context.Context, actor auth.Principal, id, remarks string) (*Rebooking, error)
	Cancel(ctx context.Context, actor auth.Principal, id, remarks string) (*Rebooking, error)
	// Complete closes an approved rebooking once its adjustment is paid.
	Complete(ctx context.Context, actor auth.Principal, id string) (*Rebooking, error)
}

type service struct {
	repo       Repository
	bookings   booking.Service
	pricer     *booking.Pricer
	publisher  notification.Publisher
	defaultFee decimal.Decimal
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewService(repo Repository, bookings booking.Service, pricer *booking.Pricer, publisher notification.Publisher, defaultFee decimal.Decimal, log logrus.FieldLogger) Service {
	return &service{
		repo:       repo,
		bookings:   bookings,
		pricer:     pricer,
		publisher:  publisher,
		defaultFee: defaultFee,
		log:        log,
		now:        time.Now,
	}
}

func (s *service) Request(ctx context.Context, actor auth.Principal, bookingID string, changes Changes) (*Rebooking, error) {
	if actor.IsAnonymous() {
		return nil, ErrPermissionDenied
	}
	b, err := s.bookings.Get(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsRebookable(s.now()) {
		return nil, ErrNotRebookable
	}

	_, pending, err := s.repo.List(ctx, Filter{BookingID: b.ID, Status: string(StatusPending), PageSize: 1})
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, ErrPendingExists
	}

	fee, err := s.fee(actor, changes.RebookingFee, s.defaultFee)
	if err != nil {
		return nil, err
	}

	requestedBy := actor.UserID
	rb := &Rebooking{
		BookingID:      b.ID,
		RequestedBy:    &requestedBy,
		OriginalAmount: b.TotalAmount,
		RebookingFee:   fee,
		Status:         StatusPending,
	}
	if err := s.apply(ctx, rb, changes); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rb); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"rebooking_id": rb.ID,
		"booking_id":   b.ID,
		"adjustment":   rb.TotalAdjustment().StringFixed(ledger.Places),
	}).Info("rebooking requested")

	s.publisher.Publish(notification.Event{
		Name:    notification.RebookingRequested,
		Subject: "Rebooking requested by " + b.GuestName,
		Data: map[string]string{
			"rebooking_id":     rb.ID,
			"booking_id":       b.ID,
			"guest_name":       b.GuestName,
			"new_check_in":     rb.NewCheckIn.Format(dateLayout),
			"new_check_out":    rb.NewCheckOut.Format(dateLayout),
			"guests":           strconv.Itoa(rb.NewTotalAdults + rb.NewTotalChildren),
			"total_adjustment": ledger.FormatPeso(rb.TotalAdjustment()),
		},
	})
	return rb, nil
}

// apply validates and prices the proposed stay and copies it onto rb.
func (s *service) apply(ctx context.Context, rb *Rebooking, changes Changes) error {
	checkIn, checkOut := booking.DateOf(changes.NewCheckIn), booking.DateOf(changes.NewCheckOut)
	items, total, err := s.pricer.Quote(ctx, "new_", changes.Items, checkIn, checkOut, s.now(), changes.NewTotalAdults, changes.NewTotalChildren)
	if err != nil {
		return err
	}

	rb.NewCheckIn = checkIn
	rb.NewCheckOut = checkOut
	rb.NewTotalAdults = changes.NewTotalAdults
	rb.NewTotalChildren = changes.NewTotalChildren
	rb.NewAmount = total
	rb.Remarks = strings.TrimSpace(changes.Remarks)
	rb.Accommodations = make([]LineItem, len(items))
	for i, item := range items {
		rb.Accommodations[i] = LineItem{
			AccommodationID:   item.AccommodationID,
			AccommodationName: item.AccommodationName,
			RateID:            item.RateID,
			RateName:          item.RateName,
			Guests:            item.Guests,
			Subtotal:          item.Subtotal,
		}
	}
	return nil
}

func (s *service) fee(actor auth.Principal, override *decimal.Decimal, current decimal.Decimal) (decimal.Decimal, error) {
	if override == nil {
		return current, nil
	}
	if !actor.IsStaff() {
		return decimal.Zero, ErrPermissionDenied
	}
	if override.IsNegative() || !override.Equal(ledger.Round(*override)) {
		return decimal.Zero, ErrInvalidFee
	}
	return *override, nil
}

func (s *service) Update(ctx context.Context, actor auth.Principal, id string, changes Changes) (*Rebooking, error) {
	rb, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if rb.Status != StatusPending {
		return nil, ErrNotPending
	}

	b, err := s.bookings.Get(ctx, actor, rb.BookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsRebookable(s.now()) {
		return nil, ErrNotRebookable
	}

	fee, err := s.fee(actor, changes.RebookingFee, rb.RebookingFee)
	if err != nil {
		return nil, err
	}
	rb.RebookingFee = fee
	if err := s.apply(ctx, rb, changes); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, rb); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"rebooking_id": rb.ID,
		"actor_id":     actor.UserID,
	}).Info("rebooking updated")
	return rb, nil
}

func (s *service) Get(ctx context.Context, actor auth.Principal, id string) (*Rebooking, error) {
	rb, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsStaff() {
		return rb, nil
	}
	if _, err := s.bookings.Get(ctx, actor, rb.BookingID); err != nil {
		return nil, ErrNotFound
	}
	return rb, nil
}

func (s *service) List(ctx context.Context, actor auth.Principal, filter Filter) ([]*Rebooking, int, error) {
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
	return s.repo.List(ctx, filter)
}

func (s *service) Approve(ctx context.Context, actor auth.Principal, id, remarks string) (*Rebooking, error) {
	if !actor.IsStaff() {
		return nil, ErrPermissionDenied
	}

	now := s.now()
	rb, err := s.repo.Approve(ctx, id, actor.UserID, strings.TrimSpace(remarks), func(b *booking.Booking, rb *Rebooking) error {
		if _, err := Transition(rb.Status, StatusApproved); err != nil {
			return err
		}
		if !b.IsRebookable(now) {
			if b.Status != booking.StatusPending && b.Status != booking.StatusConfirmed {
				return apperror.Wrap(ErrNotRebookable, http.StatusConflict, "the booking is "+string(b.Status)+" and can no longer be rebooked")
			}
			return apperror.Wrap(ErrNotRebookable, http.StatusConflict, "the booking's check-in date has been reached")
		}
		return booking.ValidateStay("new_", rb.NewCheckIn, rb.NewCheckOut, now)
	})
	if err != nil {
		return nil, err
	}

	// Reload so the response carries the payments made against it.
	approved, err := s.repo.GetByID(ctx, rb.ID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"rebooking_id": approved.ID,
		"booking_id":   approved.BookingID,
		"actor_id":     actor.UserID,
	}).Info("rebooking approved")

	s.publish(notification.RebookingApproved, "Rebooking approved", approved)
	return approved, nil
}

func (s *service) Reject(ctx context.Context, actor auth.Principal, id, remarks string) (*Rebooking, error) {
	if !actor.IsStaff() {
		return nil, ErrPermissionDenied
	}
	rb, err := s.move(ctx, actor, id, StatusRejected, remarks)
	if err != nil {
		return nil, err
	}
	s.publish(notification.RebookingRejected, "Rebooking rejected", rb)
	return rb, nil
}

func (s *service) Cancel(ctx context.Context, actor auth.Principal, id, remarks string) (*Rebooking, error) {
	return s.move(ctx, actor, id, StatusCancelled, remarks)
}

func (s *service) Complete(ctx context.Context, actor auth.Principal, id string) (*Rebooking, error) {
	if !actor.IsStaff() {
		return nil, ErrPermissionDenied
	}
	rb, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if remaining := rb.RemainingAdjustment(); remaining.IsPositive() {
		return nil, apperror.Wrap(ErrUnpaidAdjustment, http.StatusConflict,
			"rebooking adjustment of "+ledger.FormatPeso(remaining)+" is still unpaid")
	}
	return s.move(ctx, actor, id, StatusCompleted, rb.Remarks)
}

func (s *service) move(ctx context.Context, actor auth.Principal, id string, to Status, remarks string) (*Rebooking, error) {
	rb, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	from := rb.Status
	next, err := Transition(from, to)
	if err != nil {
		return nil, err
	}

	processedBy := actor.UserID
	rb.ProcessedBy = &processedBy
	if r := strings.TrimSpace(remarks); r != "" {
		rb.Remarks = r
	}
	if err := s.repo.SetStatus(ctx, rb, from, next); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"rebooking_id": rb.ID,
		"from":         from,
		"to":           next,
		"actor_id":     actor.UserID,
	}).Info("rebooking status changed")
	return rb, nil
}

func (s *service) publish(name, subject string, rb *Rebooking) {
	s.publisher.Publish(notification.Event{
		Name:    name,
		Subject: subject,
		Data: map[string]string{
			"rebooking_id":     rb.ID,
			"booking_id":       rb.BookingID,
			"status":           string(rb.Status),
			"new_check_in":     rb.NewCheckIn.Format(dateLayout),
			"new_check_out":    rb.NewCheckOut.Format(dateLayout),
			"total_adjustment": ledger.FormatPeso(rb.TotalAdjustment()),
			"remaining":        ledger.FormatPeso(rb.RemainingAdjustment()),
			"remarks":          rb.Remarks,
		},
	})
}
