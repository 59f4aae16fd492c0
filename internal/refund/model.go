package refund

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/payment"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "refund not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "only admins can issue refunds")
	ErrPaymentRequired  = apperror.New(http.StatusBadRequest, "payment_id is required")
)

// Refund returns part or all of a payment.
type Refund struct {
	ID        string
	PaymentID string
	BookingID string
	Amount    decimal.Decimal
	Method    payment.Method
	Reason    string
	IssuedBy  *string
	CreatedAt time.Time
}

func (r *Refund) Record() ledger.RefundRecord {
	return ledger.RefundRecord{Amount: r.Amount}
}

type Filter struct {
	PaymentID string
	BookingID string
	Page      int
	PageSize  int
	SortOrder string
}
