package service

import (
	"context"
	"fmt"
	"strings"

	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// PaymentQR renders a scannable SEPA credit-transfer QR code (EPC069-12)
// for the outstanding balance of an invoice, addressed to the organization
// bank account. Requires a configured IBAN and an open balance.
func (s *Service) PaymentQR(ctx context.Context, invoiceID, organizationID uuid.UUID) ([]byte, error) {
	inv, err := s.repo.GetInvoice(ctx, invoiceID, organizationID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.GetSettings(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if settings.IBAN == nil || strings.TrimSpace(*settings.IBAN) == "" {
		return nil, apperr.Validation("organization has no IBAN configured")
	}

	outstanding := inv.TotalMinor - inv.PaidMinor
	if outstanding <= 0 {
		return nil, apperr.Validation("invoice has no outstanding balance")
	}

	payload := epcPayload(settings.Name, *settings.IBAN, inv.InvoiceNumber, outstanding, inv.Currency)
	png, err := qrcode.Encode(payload, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("encode payment qr: %w", err)
	}
	return png, nil
}

// epcPayload builds the EPC069-12 payload. The BIC line is empty, allowed
// since version 002; the amount line carries EUR amounts only, as the
// scheme accepts no other currency, and stays empty otherwise so the payer
// fills it in.
func epcPayload(beneficiary, iban, invoiceNumber string, amountMinor int64, currency string) string {
	amount := ""
	if currency == "EUR" {
		amount = "EUR" + decimal.NewFromInt(amountMinor).Shift(-2).StringFixed(2)
	}

	lines := []string{
		"BCD",
		"002",
		"1",
		"SCT",
		"",
		sanitizeEPCLine(beneficiary, 70),
		strings.ToUpper(strings.ReplaceAll(iban, " ", "")),
		amount,
		"",
		"",
		sanitizeEPCLine("Invoice "+invoiceNumber, 140),
	}
	return strings.Join(lines, "\n")
}

func sanitizeEPCLine(value string, max int) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "\n", " "))
	if len(value) > max {
		value = value[:max]
	}
	return value
}
