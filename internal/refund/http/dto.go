package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/payment"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/refund"
)

type IssueRefundRequest struct {
	PaymentID string          `json:"payment_id" binding:"required,uuid"`
	Amount    decimal.Decimal `json:"amount" binding:"required,money"`
	Method    string          `json:"method" binding:"omitempty,oneof=cash gcash bank_transfer card"`
	Reason    string          `json:"reason" binding:"max=1000"`
}

type ListRefundsRequest struct {
	request.ListParams
	PaymentID string `form:"payment_id" binding:"omitempty,uuid"`
	BookingID string `form:"booking_id" binding:"omitempty,uuid"`
}

type RefundResponse struct {
	ID        string          `json:"id"`
	PaymentID string          `json:"payment_id"`
	BookingID string          `json:"booking_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    payment.Method  `json:"method"`
	Reason    string          `json:"reason"`
	IssuedBy  *string         `json:"issued_by"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewResponse(r *refund.Refund) RefundResponse {
	return RefundResponse{
		ID:        r.ID,
		PaymentID: r.PaymentID,
		BookingID: r.BookingID,
		Amount:    r.Amount,
		Method:    r.Method,
		Reason:    r.Reason,
		IssuedBy:  r.IssuedBy,
		CreatedAt: r.CreatedAt,
	}
}
