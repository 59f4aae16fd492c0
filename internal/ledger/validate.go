package ledger

import (
	"github.com/shopspring/decimal"
)

const (
	FieldAmount         = "amount"
	FieldIsDownPayment  = "is_down_payment"
	FieldRebooking      = "rebooking_id"
	FieldAccommodations = "accommodations"
)

// ValidateAmount checks that an amount is positive and expressed in centavos.
func ValidateAmount(field string, amount decimal.Decimal) *Rejection {
	if !amount.IsPositive() {
		return reject(field, "must be greater than zero")
	}
	if !hasCentavoPrecision(amount) {
		return reject(field, "must not have more than %d decimal places", Places)
	}
	return nil
}

// ValidatePayment checks a proposed payment against the booking's balance,
// or against the down-payment balance when isDownPayment is set.
func ValidatePayment(b BookingSnapshot, payments []PaymentRecord, amount decimal.Decimal, isDownPayment bool) *Rejection {
	if r := ValidateAmount(FieldAmount, amount); r != nil {
		return r
	}

	if isDownPayment {
		if !b.DownPaymentRequired {
			return reject(FieldIsDownPayment, "this booking does not require a down payment")
		}
		_, dpBalance := ComputeDownPayment(b, payments)
		if amount.GreaterThan(dpBalance) {
			return reject(FieldAmount, "amount exceeds remaining down payment balance of %s", FormatPeso(dpBalance))
		}
	}

	_, balance := ComputeBalance(b, payments)
	if amount.GreaterThan(balance) {
		return reject(FieldAmount, "amount exceeds remaining balance of %s", FormatPeso(balance))
	}
	return nil
}

// ValidateRebookingPayment checks a proposed payment against what is still
// owed on a rebooking. Rebookings whose adjustment is zero or a refund take
// no payments.
func ValidateRebookingPayment(r RebookingSnapshot, existing []PaymentRecord, amount decimal.Decimal) *Rejection {
	if rej := ValidateAmount(FieldAmount, amount); rej != nil {
		return rej
	}

	adj := ComputeRebookingAdjustment(r)
	if !adj.IsPositive() {
		return reject(FieldRebooking, "no additional payment is owed for this rebooking (adjustment %s)", FormatPeso(adj))
	}

	remaining := adj.Sub(RebookingPaid(r, existing))
	if amount.GreaterThan(remaining) {
		return reject(FieldAmount, "amount exceeds remaining rebooking adjustment of %s", FormatPeso(remaining))
	}
	return nil
}

// ValidateRefund checks a proposed refund against what is left of the payment
// after earlier refunds.
func ValidateRefund(p PaymentRecord, existing []RefundRecord, amount decimal.Decimal) *Rejection {
	if r := ValidateAmount(FieldAmount, amount); r != nil {
		return r
	}

	refundable := Refundable(p, existing)
	if amount.GreaterThan(refundable) {
		return reject(FieldAmount, "amount exceeds refundable balance of %s for this payment", FormatPeso(refundable))
	}
	return nil
}

// ValidateRebookingGuestCount requires the guests assigned to the new
// accommodations to match the new party size exactly.
func ValidateRebookingGuestCount(r RebookingSnapshot) *Rejection {
	assigned := 0
	for _, g := range r.AccommodationGuests {
		assigned += g
	}
	total := r.NewTotalAdults + r.NewTotalChildren
	if assigned != total {
		return reject(FieldAccommodations,
			"accommodation guests (%d) must equal total guests (%d adults + %d children = %d)",
			assigned, r.NewTotalAdults, r.NewTotalChildren, total)
	}
	return nil
}
