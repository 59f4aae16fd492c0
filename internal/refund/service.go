package refund

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/notification"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/payment"
)

type IssueRequest struct {
	PaymentID string
	Amount    decimal.Decimal
	// Method defaults to the method of the refunded payment.
	Method string
	Reason string
}

type Service interface {
	Issue(ctx context.Context, actor auth.Principal, req IssueRequest) (*Refund, error)
	Get(ctx context.Context, id string) (*Refund, error)
	List(ctx context.Context, filter Filter) ([]*Refund, int, error)
}

type service struct {
	repo      Repository
	publisher notification.Publisher
	log       logrus.FieldLogger
}

func NewService(repo Repository, publisher notification.Publisher, log logrus.FieldLogger) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

func (s *service) Issue(ctx context.Context, actor auth.Principal, req IssueRequest) (*Refund, error) {
	if actor.Role != auth.RoleAdmin {
		return nil, ErrPermissionDenied
	}
	if req.PaymentID == "" {
		return nil, ErrPaymentRequired
	}

	var method payment.Method
	if req.Method != "" {
		m, err := payment.ParseMethod(req.Method)
		if err != nil {
			return nil, err
		}
		method = m
	}

	issuedBy := actor.UserID
	r := &Refund{
		PaymentID: req.PaymentID,
		Amount:    req.Amount,
		Method:    method,
		Reason:    strings.TrimSpace(req.Reason),
		IssuedBy:  &issuedBy,
	}

	var refundable decimal.Decimal
	err := s.repo.CreateChecked(ctx, r, func(p *payment.Payment, existing []ledger.RefundRecord) error {
		if rej := ledger.ValidateRefund(p.Record(), existing, r.Amount); rej != nil {
			return rej
		}
		if r.Method == "" {
			r.Method = p.Method
		}
		refundable = ledger.Refundable(p.Record(), append(slices.Clip(existing), r.Record()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"refund_id":  r.ID,
		"payment_id": r.PaymentID,
		"amount":     r.Amount.StringFixed(ledger.Places),
		"actor_id":   actor.UserID,
	}).Info("refund issued")

	s.publisher.Publish(notification.Event{
		Name:    notification.RefundIssued,
		Subject: "Refund of " + ledger.FormatPeso(r.Amount) + " issued",
		Data: map[string]string{
			"refund_id":  r.ID,
			"payment_id": r.PaymentID,
			"booking_id": r.BookingID,
			"amount":     ledger.FormatPeso(r.Amount),
			"method":     string(r.Method),
			"reason":     r.Reason,
			"refundable": ledger.FormatPeso(refundable),
		},
	})
	return r, nil
}

func (s *service) Get(ctx context.Context, id string) (*Refund, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Refund, int, error) {
	return s.repo.List(ctx, filter)
}
