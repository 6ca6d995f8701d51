package service

import (
	"context"
	"time"

	"tourdesk_backend/internal/events"
	"tourdesk_backend/internal/invoices/repository"

	"github.com/google/uuid"
)

// PaymentParams carries one payment to apply. A nil Currency falls back to
// the invoice currency.
type PaymentParams struct {
	InvoiceID      uuid.UUID
	OrganizationID uuid.UUID
	AmountMinor    int64
	Currency       *string
	Method         string
	Reference      *string
	PaidOn         time.Time
	Notes          *string
	RecordedBy     uuid.UUID
}

// PaymentResult is the refreshed invoice plus the ledger row appended for
// this payment.
type PaymentResult struct {
	Invoice repository.Invoice
	Payment repository.Payment
}

// ApplyPayment applies one payment to a receivable invoice: the amount is
// validated against the outstanding balance, an immutable ledger row is
// appended and the stored status is refreshed from the balance projection,
// all inside a single row-locked transaction. The receipt email rides on
// the published event and can never fail the mutation.
func (s *Service) ApplyPayment(ctx context.Context, p PaymentParams) (PaymentResult, error) {
	inv, err := s.repo.GetInvoice(ctx, p.InvoiceID, p.OrganizationID)
	if err != nil {
		return PaymentResult{}, err
	}

	currency := inv.Currency
	if p.Currency != nil {
		currency = *p.Currency
	}
	// Early rejection on the unlocked row; the repository re-runs the same
	// guards on the locked row, so a concurrent payment cannot overshoot.
	if err := repository.CheckPayment(inv, p.AmountMinor, currency); err != nil {
		return PaymentResult{}, err
	}

	updated, payment, err := s.repo.ApplyPayment(ctx, repository.PaymentParams{
		PaymentID:      uuid.New(),
		InvoiceID:      p.InvoiceID,
		OrganizationID: p.OrganizationID,
		AmountMinor:    p.AmountMinor,
		Currency:       currency,
		Method:         p.Method,
		Reference:      p.Reference,
		PaidOn:         p.PaidOn,
		Notes:          p.Notes,
		RecordedBy:     p.RecordedBy,
	})
	if err != nil {
		return PaymentResult{}, err
	}

	contact := s.agentContact(ctx, updated.OrganizationID, updated.AgentID)
	s.eventBus.Publish(ctx, events.PaymentReceived{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: updated.OrganizationID,
		InvoiceID:      updated.ID,
		InvoiceNumber:  updated.InvoiceNumber,
		PaymentID:      payment.ID,
		AmountMinor:    payment.AmountMinor,
		Currency:       payment.Currency,
		PaidMinor:      updated.PaidMinor,
		TotalMinor:     updated.TotalMinor,
		Status:         updated.Status,
		AgentName:      contact.Name,
		AgentEmail:     contact.Email,
		RecordedBy:     p.RecordedBy,
	})

	return PaymentResult{Invoice: updated, Payment: payment}, nil
}
