package payment

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/booking"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/file"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/notification"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rebooking"
)

type RecordRequest struct {
	BookingID string
	// RebookingID makes this a payment against the rebooking's adjustment.
	RebookingID     string
	Amount          decimal.Decimal
	IsDownPayment   bool
	Method          string
	ReferenceNumber string
	// PaidAt defaults to now.
	PaidAt *time.Time
}

// Receipt is what a recorded payment leaves outstanding.
type Receipt struct {
	Payment *Payment
	// Balance is the booking balance, or the remaining rebooking adjustment
	// for rebooking payments, after this payment.
	Balance decimal.Decimal
}

type Service interface {
	// Record validates the payment against the locked booking and stores it.
	Record(ctx context.Context, actor auth.Principal, req RecordRequest) (*Receipt, error)
	Get(ctx context.Context, actor auth.Principal, id string) (*Payment, error)
	List(ctx context.Context, actor auth.Principal, filter Filter) ([]*Payment, int, error)
	// AttachReceipt links an uploaded receipt and deletes the one it replaces.
	AttachReceipt(ctx context.Context, actor auth.Principal, id, fileID string) error
}

type service struct {
	repo        Repository
	bookings    booking.Service
	fileService file.Service
	publisher   notification.Publisher
	log         logrus.FieldLogger
	now         func() time.Time
}

func NewService(repo Repository, bookings booking.Service, fileService file.Service, publisher notification.Publisher, log logrus.FieldLogger) Service {
	return &service{
		repo:        repo,
		bookings:    bookings,
		fileService: fileService,
		publisher:   publisher,
		log:         log,
		now:         time.Now,
	}
}

func (s *service) Record(ctx context.Context, actor auth.Principal, req RecordRequest) (*Receipt, error) {
	if !actor.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if req.BookingID == "" {
		return nil, ErrBookingRequired
	}
	method, err := ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}

	now := s.now()
	paidAt := now
	if req.PaidAt != nil {
		if req.PaidAt.After(now) {
			return nil, ErrPaidAtInFuture
		}
		paidAt = *req.PaidAt
	}

	recordedBy := actor.UserID
	p := &Payment{
		BookingID:       req.BookingID,
		Amount:          req.Amount,
		IsDownPayment:   req.IsDownPayment,
		Method:          method,
		ReferenceNumber: strings.TrimSpace(req.ReferenceNumber),
		PaidAt:          paidAt,
		RecordedBy:      &recordedBy,
	}
	if req.RebookingID != "" {
		if req.IsDownPayment {
			return nil, ErrRebookingDownPayment
		}
		rebookingID := req.RebookingID
		p.RebookingID = &rebookingID
		p.IsRebookingPayment = true
	}

	var guestName string
	var balance decimal.Decimal
	err = s.repo.CreateChecked(ctx, p, func(st State) error {
		b := st.Booking
		if b.Status.IsClosed() {
			return ErrBookingClosed
		}
		guestName = b.GuestName

		if rb := st.Rebooking; rb != nil {
			if rb.BookingID != b.ID {
				return ErrRebookingNotFound
			}
			if !rb.Status.AcceptsPayments() {
				return ErrRebookingClosed
			}
			if r := ledger.ValidateRebookingPayment(rb.Snapshot(), rb.Payments, p.Amount); r != nil {
				return r
			}
			balance = ledger.RemainingAdjustment(rb.Snapshot(), append(slices.Clip(rb.Payments), p.Record()))
			return nil
		}

		if r := ledger.ValidatePayment(b.Snapshot(), b.Payments, p.Amount, p.IsDownPayment); r != nil {
			return r
		}
		_, balance = ledger.ComputeBalance(b.Snapshot(), append(slices.Clip(b.Payments), p.Record()))
		return nil
	})
	if err != nil {
		if errors.Is(err, rebooking.ErrNotFound) {
			return nil, ErrRebookingNotFound
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"payment_id": p.ID,
		"booking_id": p.BookingID,
		"kind":       p.Kind(),
		"amount":     p.Amount.StringFixed(ledger.Places),
		"actor_id":   actor.UserID,
	}).Info("payment recorded")

	data := map[string]string{
		"payment_id":       p.ID,
		"booking_id":       p.BookingID,
		"guest_name":       guestName,
		"kind":             p.Kind(),
		"amount":           ledger.FormatPeso(p.Amount),
		"method":           string(p.Method),
		"reference_number": p.ReferenceNumber,
		"balance":          ledger.FormatPeso(balance),
	}
	if p.RebookingID != nil {
		data["rebooking_id"] = *p.RebookingID
	}
	s.publisher.Publish(notification.Event{
		Name:    notification.PaymentRecorded,
		Subject: "Payment received from " + guestName,
		Data:    data,
	})

	return &Receipt{Payment: p, Balance: balance}, nil
}

func (s *service) Get(ctx context.Context, actor auth.Principal, id string) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsStaff() {
		return p, nil
	}
	if _, err := s.bookings.Get(ctx, actor, p.BookingID); err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// List returns payments. Customers must name one of their own bookings.
func (s *service) List(ctx context.Context, actor auth.Principal, filter Filter) ([]*Payment, int, error) {
	if filter.Method != "" {
		if _, err := ParseMethod(filter.Method); err != nil {
			return nil, 0, err
		}
	}
	if !actor.IsStaff() {
		if filter.BookingID == "" {
			return nil, 0, ErrBookingRequired
		}
		if _, err := s.bookings.Get(ctx, actor, filter.BookingID); err != nil {
			return nil, 0, err
		}
	}
	return s.repo.List(ctx, filter)
}

func (s *service) AttachReceipt(ctx context.Context, actor auth.Principal, id, fileID string) error {
	if !actor.IsStaff() {
		return ErrPermissionDenied
	}
	previous, err := s.repo.SetReceipt(ctx, id, fileID)
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"payment_id": id,
		"file_id":    fileID,
	}).Info("payment receipt attached")

	if previous != nil && *previous != fileID {
		if err := s.fileService.Delete(ctx, *previous); err != nil {
			s.log.WithError(err).WithField("file_id", *previous).Warn("failed to delete replaced receipt")
		}
	}
	return nil
}
