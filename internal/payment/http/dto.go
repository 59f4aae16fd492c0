package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/file"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/payment"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
)

type RecordPaymentRequest struct {
	BookingID       string          `json:"booking_id" binding:"required,uuid"`
	RebookingID     string          `json:"rebooking_id" binding:"omitempty,uuid"`
	Amount          decimal.Decimal `json:"amount" binding:"required,money"`
	IsDownPayment   bool            `json:"is_down_payment"`
	Method          string          `json:"method" binding:"required,oneof=cash gcash bank_transfer card"`
	ReferenceNumber string          `json:"reference_number" binding:"max=100"`
	PaidAt          *time.Time      `json:"paid_at"`
}

type ListPaymentsRequest struct {
	request.ListParams
	BookingID   string `form:"booking_id" binding:"omitempty,uuid"`
	RebookingID string `form:"rebooking_id" binding:"omitempty,uuid"`
	Method      string `form:"method" binding:"omitempty,oneof=cash gcash bank_transfer card"`
}

type PaymentResponse struct {
	ID                 string          `json:"id"`
	BookingID          string          `json:"booking_id"`
	RebookingID        *string         `json:"rebooking_id"`
	Amount             decimal.Decimal `json:"amount"`
	IsDownPayment      bool            `json:"is_down_payment"`
	IsRebookingPayment bool            `json:"is_rebooking_payment"`
	Method             payment.Method  `json:"method"`
	ReferenceNumber    string          `json:"reference_number"`
	ReceiptFileID      *string         `json:"receipt_file_id"`
	ReceiptURL         *string         `json:"receipt_url"`
	PaidAt             time.Time       `json:"paid_at"`
	RecordedBy         *string         `json:"recorded_by"`
	CreatedAt          time.Time       `json:"created_at"`
}

// RecordPaymentResponse adds what the booking, or the rebooking for
// rebooking payments, still owes.
type RecordPaymentResponse struct {
	PaymentResponse
	Balance decimal.Decimal `json:"balance"`
}

func NewResponse(p *payment.Payment) PaymentResponse {
	var receiptURL *string
	if p.ReceiptFileID != nil {
		u := file.FileURL(*p.ReceiptFileID)
		receiptURL = &u
	}

	return PaymentResponse{
		ID:                 p.ID,
		BookingID:          p.BookingID,
		RebookingID:        p.RebookingID,
		Amount:             p.Amount,
		IsDownPayment:      p.IsDownPayment,
		IsRebookingPayment: p.IsRebookingPayment,
		Method:             p.Method,
		ReferenceNumber:    p.ReferenceNumber,
		ReceiptFileID:      p.ReceiptFileID,
		ReceiptURL:         receiptURL,
		PaidAt:             p.PaidAt,
		RecordedBy:         p.RecordedBy,
		CreatedAt:          p.CreatedAt,
	}
}
