package payment

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, "payment not found")
	ErrInvalidMethod        = apperror.New(http.StatusBadRequest, "invalid payment method")
	ErrBookingClosed        = apperror.New(http.StatusConflict, "payments cannot be recorded on a cancelled or checked-out booking")
	ErrRebookingNotFound    = apperror.New(http.StatusNotFound, "rebooking not found for this booking")
	ErrRebookingClosed      = apperror.New(http.StatusConflict, "payments can only be recorded on pending or approved rebookings")
	ErrRebookingDownPayment = apperror.New(http.StatusBadRequest, "a rebooking payment cannot be a down payment")
	ErrBookingRequired      = apperror.New(http.StatusBadRequest, "booking_id is required")
	ErrPaidAtInFuture       = apperror.New(http.StatusBadRequest, "paid_at must not be in the future")
	ErrPermissionDenied     = apperror.New(http.StatusForbidden, "permission denied")
)

// Method is how the money was handed over.
type Method string

const (
	MethodCash         Method = "cash"
	MethodGCash        Method = "gcash"
	MethodBankTransfer Method = "bank_transfer"
	MethodCard         Method = "card"
)

func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodCash, MethodGCash, MethodBankTransfer, MethodCard:
		return m, nil
	}
	return "", ErrInvalidMethod
}

// Payment is money received against a booking, or against a rebooking's
// adjustment when RebookingID is set.
type Payment struct {
	ID                 string
	BookingID          string
	RebookingID        *string
	Amount             decimal.Decimal
	IsDownPayment      bool
	IsRebookingPayment bool
	Method             Method
	ReferenceNumber    string
	ReceiptFileID      *string
	PaidAt             time.Time
	RecordedBy         *string
	CreatedAt          time.Time
}

// Kind describes the payment for people, e.g. in notifications.
func (p *Payment) Kind() string {
	switch {
	case p.IsRebookingPayment:
		return "rebooking payment"
	case p.IsDownPayment:
		return "down payment"
	}
	return "payment"
}

func (p *Payment) Record() ledger.PaymentRecord {
	rec := ledger.PaymentRecord{
		ID:                 p.ID,
		Amount:             p.Amount,
		IsDownPayment:      p.IsDownPayment,
		IsRebookingPayment: p.IsRebookingPayment,
	}
	if p.RebookingID != nil {
		rec.RebookingID = *p.RebookingID
	}
	return rec
}

func (p *Payment) String() string {
	return fmt.Sprintf("%s %s via %s", p.Kind(), ledger.FormatPeso(p.Amount), p.Method)
}

type Filter struct {
	BookingID   string
	RebookingID string
	Method      string
	Page        int
	PageSize    int
	SortOrder   string
}
