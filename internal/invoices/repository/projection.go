package repository

import "tourdesk_backend/platform/apperr"

// Receivable invoice statuses. Overdue is set by the due-date sweep and
// cancelled by refunds that claw back the full balance; both yield to the
// balance projection as soon as the next payment lands.
const (
	StatusSent      = "sent"
	StatusPartial   = "partial"
	StatusPaid      = "paid"
	StatusOverdue   = "overdue"
	StatusCancelled = "cancelled"
)

// Booking statuses.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Cancellation (refund) statuses. Completed is terminal.
const (
	RefundProcessing = "processing"
	RefundCompleted  = "completed"
)

// StatusFor projects the payment-side status from the balance. The ratchet
// sent -> partial -> paid is purely numeric; there is no state machine.
func StatusFor(paidMinor, totalMinor int64) string {
	switch {
	case paidMinor <= 0:
		return StatusSent
	case paidMinor < totalMinor:
		return StatusPartial
	default:
		return StatusPaid
	}
}

// StatusAfterRefund projects the refund-side status. A balance clawed back
// to zero or below cancels the invoice; a partial clawback leaves it
// partial; anything still at or above the total keeps the current status.
func StatusAfterRefund(current string, paidMinor, totalMinor int64) string {
	switch {
	case paidMinor <= 0:
		return StatusCancelled
	case paidMinor < totalMinor:
		return StatusPartial
	default:
		return current
	}
}

// CheckPayment validates one payment against the invoice it is applied to.
// Overpayment is rejected, never clamped.
func CheckPayment(inv Invoice, amountMinor int64, currency string) error {
	if amountMinor <= 0 {
		return apperr.Validation("payment amount must be positive")
	}
	if currency != inv.Currency {
		return apperr.Validationf("payment currency %s does not match invoice currency %s", currency, inv.Currency)
	}
	if inv.PaidMinor+amountMinor > inv.TotalMinor {
		return apperr.Validation("payment exceeds the invoice outstanding balance")
	}
	return nil
}

// CheckRefund validates one refund against the invoice and the sum of prior
// processing or completed refunds for the same booking. Refunds can never
// exceed what was actually collected.
func CheckRefund(inv Invoice, amountMinor, alreadyRefundedMinor int64, currency string) error {
	if amountMinor <= 0 {
		return apperr.Validation("refund amount must be positive")
	}
	if currency != inv.Currency {
		return apperr.Validationf("refund currency %s does not match invoice currency %s", currency, inv.Currency)
	}
	if amountMinor+alreadyRefundedMinor > inv.PaidMinor {
		return apperr.Validation("refund exceeds the amount collected for this booking")
	}
	return nil
}
