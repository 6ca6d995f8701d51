package repository

import (
	"errors"
	"strings"
	"testing"

	"tourdesk_backend/platform/apperr"
)

func testInvoice(paidMinor, totalMinor int64) Invoice {
	return Invoice{
		Currency:   "EUR",
		TotalMinor: totalMinor,
		PaidMinor:  paidMinor,
		Status:     StatusFor(paidMinor, totalMinor),
	}
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a validation error, got nil")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestStatusFor_RatchetIsPurelyNumeric(t *testing.T) {
	cases := []struct {
		name  string
		paid  int64
		total int64
		want  string
	}{
		{"nothing collected", 0, 100000, StatusSent},
		{"below total", 40000, 100000, StatusPartial},
		{"one unit short", 99999, 100000, StatusPartial},
		{"exactly total", 100000, 100000, StatusPaid},
		{"single minor unit invoice", 1, 1, StatusPaid},
		{"clawed back below zero", -100, 100000, StatusSent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusFor(tc.paid, tc.total); got != tc.want {
				t.Fatalf("StatusFor(%d, %d) = %q, want %q", tc.paid, tc.total, got, tc.want)
			}
		})
	}
}

func TestCheckPayment_OverpaymentRejectedNotClamped(t *testing.T) {
	inv := testInvoice(40000, 100000)
	assertValidation(t, CheckPayment(inv, 60001, "EUR"))

	// The exact remainder is fine.
	if err := CheckPayment(inv, 60000, "EUR"); err != nil {
		t.Fatalf("unexpected error for exact remainder: %v", err)
	}
}

func TestCheckPayment_CurrencyMustMatchInvoice(t *testing.T) {
	inv := testInvoice(0, 100000)
	assertValidation(t, CheckPayment(inv, 1000, "USD"))
}

func TestCheckPayment_NonPositiveAmounts(t *testing.T) {
	inv := testInvoice(0, 100000)
	assertValidation(t, CheckPayment(inv, 0, "EUR"))
	assertValidation(t, CheckPayment(inv, -500, "EUR"))
}

func TestCheckRefund_CeilingIsTheCollectedAmount(t *testing.T) {
	inv := testInvoice(80000, 100000)

	if err := CheckRefund(inv, 80000, 0, "EUR"); err != nil {
		t.Fatalf("refunding the full collected amount must be allowed: %v", err)
	}
	assertValidation(t, CheckRefund(inv, 80001, 0, "EUR"))

	// Prior processing or completed refunds count against the ceiling.
	assertValidation(t, CheckRefund(inv, 60001, 20000, "EUR"))
	if err := CheckRefund(inv, 60000, 20000, "EUR"); err != nil {
		t.Fatalf("unexpected error at the exact ceiling: %v", err)
	}
}

func TestCheckRefund_CurrencyAndSign(t *testing.T) {
	inv := testInvoice(50000, 50000)
	assertValidation(t, CheckRefund(inv, 1000, 0, "TRY"))
	assertValidation(t, CheckRefund(inv, 0, 0, "EUR"))
}

// The first worked scenario: a 1000.00 EUR invoice collects 400.00 then
// 600.00 and refunds 200.00, ending partial.
func TestLedgerWalk_PaymentsThenPartialRefund(t *testing.T) {
	inv := testInvoice(0, 100000)
	if inv.Status != StatusSent {
		t.Fatalf("fresh invoice must be sent, got %q", inv.Status)
	}

	if err := CheckPayment(inv, 40000, "EUR"); err != nil {
		t.Fatalf("first payment rejected: %v", err)
	}
	inv.PaidMinor += 40000
	inv.Status = StatusFor(inv.PaidMinor, inv.TotalMinor)
	if inv.PaidMinor != 40000 || inv.Status != StatusPartial {
		t.Fatalf("after 400.00: paid=%d status=%q", inv.PaidMinor, inv.Status)
	}

	if err := CheckPayment(inv, 60000, "EUR"); err != nil {
		t.Fatalf("second payment rejected: %v", err)
	}
	inv.PaidMinor += 60000
	inv.Status = StatusFor(inv.PaidMinor, inv.TotalMinor)
	if inv.PaidMinor != 100000 || inv.Status != StatusPaid {
		t.Fatalf("after 600.00: paid=%d status=%q", inv.PaidMinor, inv.Status)
	}

	if err := CheckRefund(inv, 20000, 0, "EUR"); err != nil {
		t.Fatalf("refund rejected: %v", err)
	}
	inv.PaidMinor -= 20000
	inv.Status = StatusAfterRefund(inv.Status, inv.PaidMinor, inv.TotalMinor)
	if inv.PaidMinor != 80000 || inv.Status != StatusPartial {
		t.Fatalf("after 200.00 refund: paid=%d status=%q", inv.PaidMinor, inv.Status)
	}
}

// The second worked scenario: a fully paid 500.00 invoice refunded in full
// ends cancelled.
func TestLedgerWalk_FullRefundCancels(t *testing.T) {
	inv := testInvoice(50000, 50000)
	if inv.Status != StatusPaid {
		t.Fatalf("expected paid, got %q", inv.Status)
	}

	if err := CheckRefund(inv, 50000, 0, "EUR"); err != nil {
		t.Fatalf("full refund rejected: %v", err)
	}
	inv.PaidMinor -= 50000
	inv.Status = StatusAfterRefund(inv.Status, inv.PaidMinor, inv.TotalMinor)
	if inv.PaidMinor != 0 || inv.Status != StatusCancelled {
		t.Fatalf("after full refund: paid=%d status=%q", inv.PaidMinor, inv.Status)
	}
}

func TestStatusAfterRefund_FullyCollectedInvoiceKeepsStatus(t *testing.T) {
	// A refund that leaves paid at or above total keeps the current status.
	if got := StatusAfterRefund(StatusPaid, 100000, 100000); got != StatusPaid {
		t.Fatalf("expected paid to stick, got %q", got)
	}
	if got := StatusAfterRefund(StatusOverdue, 120000, 100000); got != StatusOverdue {
		t.Fatalf("expected overdue to stick, got %q", got)
	}
}

func TestLockQueryTakesRowLockWithinTenant(t *testing.T) {
	lowered := strings.ToLower(lockInvoiceQuery)
	if !strings.Contains(lowered, "for update") {
		t.Fatal("payments and refunds must lock the invoice row")
	}
	if !strings.Contains(lowered, "organization_id = $2") {
		t.Fatal("the row lock is not tenant scoped")
	}
}

func TestRefundSumCountsProcessingAndCompleted(t *testing.T) {
	lowered := strings.ToLower(sumRefundsQuery)
	if !strings.Contains(lowered, "status in ($2, $3)") {
		t.Fatal("the refund ceiling must sum processing and completed refunds")
	}
	if !strings.Contains(lowered, "booking_id = $1") {
		t.Fatal("refunds are tracked per booking")
	}
}
