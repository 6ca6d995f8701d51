package service

import (
	"strings"
	"testing"
)

func TestEPCPayload_EuroAmountAndLayout(t *testing.T) {
	payload := epcPayload("Aegean Tours Ltd", "tr33 0006 1005 1978 6457 8413 26", "INV-2026-0042", 80050, "EUR")
	lines := strings.Split(payload, "\n")
	if len(lines) != 11 {
		t.Fatalf("expected 11 payload lines, got %d", len(lines))
	}
	if lines[0] != "BCD" || lines[1] != "002" || lines[2] != "1" || lines[3] != "SCT" {
		t.Fatalf("unexpected header lines: %q", lines[:4])
	}
	if lines[4] != "" {
		t.Fatalf("BIC line must stay empty, got %q", lines[4])
	}
	if lines[5] != "Aegean Tours Ltd" {
		t.Fatalf("unexpected beneficiary: %q", lines[5])
	}
	if lines[6] != "TR330006100519786457841326" {
		t.Fatalf("IBAN must be uppercased with spaces stripped, got %q", lines[6])
	}
	if lines[7] != "EUR800.50" {
		t.Fatalf("expected amount EUR800.50, got %q", lines[7])
	}
	if lines[10] != "Invoice INV-2026-0042" {
		t.Fatalf("unexpected remittance line: %q", lines[10])
	}
}

func TestEPCPayload_NonEuroLeavesAmountOpen(t *testing.T) {
	payload := epcPayload("Aegean Tours Ltd", "TR330006100519786457841326", "INV-2026-0001", 125000, "TRY")
	lines := strings.Split(payload, "\n")
	if lines[7] != "" {
		t.Fatalf("non-euro invoices must not carry an amount, got %q", lines[7])
	}
}

func TestEPCPayload_BeneficiaryTruncatedTo70(t *testing.T) {
	long := strings.Repeat("x", 90)
	payload := epcPayload(long, "DE89370400440532013000", "INV-2026-0001", 100, "EUR")
	lines := strings.Split(payload, "\n")
	if len(lines[5]) != 70 {
		t.Fatalf("beneficiary must be cut at 70 characters, got %d", len(lines[5]))
	}
}
