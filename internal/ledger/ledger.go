// Package ledger holds the financial rules of a booking: derived balances,
// down-payment splits, rebooking adjustments and the checks every payment,
// refund and rebooking must pass before it is written.
//
// Everything here is a pure function over snapshots read by the caller.
// Callers that write must hold a lock on the booking (or payment) row while
// they validate and insert, otherwise two writers can pass the same check.
package ledger

import (
	"github.com/shopspring/decimal"
)

// BookingSnapshot is the part of a booking the ledger needs.
type BookingSnapshot struct {
	TotalAmount         decimal.Decimal
	DownPaymentRequired bool
	DownPaymentAmount   decimal.Decimal
}

// PaymentRecord is one recorded payment.
type PaymentRecord struct {
	ID                 string
	Amount             decimal.Decimal
	IsDownPayment      bool
	IsRebookingPayment bool
	RebookingID        string
}

// RefundRecord is one refund issued against a payment.
type RefundRecord struct {
	Amount decimal.Decimal
}

// RebookingSnapshot is the part of a rebooking the ledger needs.
// AccommodationGuests holds the guest count of every new line item.
type RebookingSnapshot struct {
	ID                  string
	OriginalAmount      decimal.Decimal
	NewAmount           decimal.Decimal
	RebookingFee        decimal.Decimal
	NewTotalAdults      int
	NewTotalChildren    int
	AccommodationGuests []int
}

// Summary is the derived financial state of a booking.
type Summary struct {
	TotalAmount        decimal.Decimal `json:"total_amount"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	Balance            decimal.Decimal `json:"balance"`
	DownPaymentPaid    decimal.Decimal `json:"down_payment_paid"`
	DownPaymentBalance decimal.Decimal `json:"down_payment_balance"`
}

// ComputeBalance returns what has been paid toward the booking total and what
// is still owed. Rebooking payments settle the rebooking's adjustment, not the
// booking principal, so they are left out.
func ComputeBalance(b BookingSnapshot, payments []PaymentRecord) (paid, balance decimal.Decimal) {
	paid = decimal.Zero
	for _, p := range payments {
		if p.IsRebookingPayment {
			continue
		}
		paid = paid.Add(p.Amount)
	}
	paid = Round(paid)
	return paid, Round(b.TotalAmount.Sub(paid))
}

// ComputeDownPayment returns the down payment collected so far and what is
// left of the required down payment. A booking without a down-payment
// requirement has nothing left to collect.
func ComputeDownPayment(b BookingSnapshot, payments []PaymentRecord) (paid, balance decimal.Decimal) {
	paid = decimal.Zero
	for _, p := range payments {
		if p.IsDownPayment && !p.IsRebookingPayment {
			paid = paid.Add(p.Amount)
		}
	}
	paid = Round(paid)
	if !b.DownPaymentRequired {
		return paid, decimal.Zero
	}
	return paid, Round(b.DownPaymentAmount.Sub(paid))
}

// Summarize computes every derived field at once.
func Summarize(b BookingSnapshot, payments []PaymentRecord) Summary {
	paid, balance := ComputeBalance(b, payments)
	dpPaid, dpBalance := ComputeDownPayment(b, payments)
	return Summary{
		TotalAmount:        Round(b.TotalAmount),
		PaidAmount:         paid,
		Balance:            balance,
		DownPaymentPaid:    dpPaid,
		DownPaymentBalance: dpBalance,
	}
}

// ComputeRebookingAdjustment returns (new − original) + fee. A positive value
// is owed by the customer, a negative one is owed back to them.
func ComputeRebookingAdjustment(r RebookingSnapshot) decimal.Decimal {
	return Round(r.NewAmount.Sub(r.OriginalAmount).Add(r.RebookingFee))
}

// RebookingPaid sums the payments made against the rebooking.
func RebookingPaid(r RebookingSnapshot, payments []PaymentRecord) decimal.Decimal {
	paid := decimal.Zero
	for _, p := range payments {
		if !p.IsRebookingPayment {
			continue
		}
		if r.ID != "" && p.RebookingID != r.ID {
			continue
		}
		paid = paid.Add(p.Amount)
	}
	return Round(paid)
}

// RemainingAdjustment is what the customer still owes on a rebooking.
// It is zero when the adjustment is a refund.
func RemainingAdjustment(r RebookingSnapshot, payments []PaymentRecord) decimal.Decimal {
	adj := ComputeRebookingAdjustment(r)
	if !adj.IsPositive() {
		return decimal.Zero
	}
	return Round(adj.Sub(RebookingPaid(r, payments)))
}

// RefundedAmount sums the refunds issued against one payment.
func RefundedAmount(refunds []RefundRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range refunds {
		total = total.Add(r.Amount)
	}
	return Round(total)
}

// Refundable is what can still be refunded from a payment.
func Refundable(p PaymentRecord, refunds []RefundRecord) decimal.Decimal {
	return Round(p.Amount.Sub(RefundedAmount(refunds)))
}
