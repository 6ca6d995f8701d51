package service

import (
	"context"

	"tourdesk_backend/internal/events"
	"tourdesk_backend/internal/invoices/repository"

	"github.com/google/uuid"
)

// RefundParams carries one refund initiation. CancellationID re-submits an
// existing record instead of creating a new one.
type RefundParams struct {
	InvoiceID      uuid.UUID
	OrganizationID uuid.UUID
	AmountMinor    int64
	Currency       string
	Method         string
	Reference      *string
	Reason         string
	CancellationID *uuid.UUID
	ProcessedBy    uuid.UUID
}

// RefundResult is the refreshed invoice plus the cancellation record.
type RefundResult struct {
	Invoice      repository.Invoice
	Cancellation repository.Cancellation
}

// InitiateRefund records a processing refund against a receivable invoice.
// The balance is clawed back immediately, before the transfer is confirmed;
// the invoice therefore reflects the refund while the money is still moving.
// CompleteRefund closes the record once the transfer is verified.
func (s *Service) InitiateRefund(ctx context.Context, p RefundParams) (RefundResult, error) {
	updated, cancellation, err := s.repo.ApplyRefund(ctx, repository.RefundParams{
		CancellationID: p.CancellationID,
		NewID:          uuid.New(),
		InvoiceID:      p.InvoiceID,
		OrganizationID: p.OrganizationID,
		AmountMinor:    p.AmountMinor,
		Currency:       p.Currency,
		Method:         p.Method,
		Reference:      p.Reference,
		Reason:         p.Reason,
		ProcessedBy:    p.ProcessedBy,
	})
	if err != nil {
		return RefundResult{}, err
	}

	contact := s.agentContact(ctx, updated.OrganizationID, updated.AgentID)
	s.eventBus.Publish(ctx, events.RefundInitiated{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: updated.OrganizationID,
		InvoiceID:      updated.ID,
		InvoiceNumber:  updated.InvoiceNumber,
		CancellationID: cancellation.ID,
		AmountMinor:    cancellation.RefundMinor,
		Currency:       cancellation.Currency,
		Reason:         cancellation.Reason,
		AgentName:      contact.Name,
		AgentEmail:     contact.Email,
		ProcessedBy:    p.ProcessedBy,
	})

	return RefundResult{Invoice: updated, Cancellation: cancellation}, nil
}

// CompleteRefund confirms a processing refund after the bank transfer has
// been verified out-of-band. The balance was already adjusted at initiation.
func (s *Service) CompleteRefund(ctx context.Context, invoiceID, cancellationID, organizationID, completedBy uuid.UUID) (RefundResult, error) {
	inv, cancellation, err := s.repo.CompleteRefund(ctx, invoiceID, cancellationID, organizationID, completedBy)
	if err != nil {
		return RefundResult{}, err
	}

	contact := s.agentContact(ctx, inv.OrganizationID, inv.AgentID)
	s.eventBus.Publish(ctx, events.RefundCompleted{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: inv.OrganizationID,
		InvoiceID:      inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		CancellationID: cancellation.ID,
		AmountMinor:    cancellation.RefundMinor,
		Currency:       cancellation.Currency,
		AgentName:      contact.Name,
		AgentEmail:     contact.Email,
		CompletedBy:    completedBy,
	})

	return RefundResult{Invoice: inv, Cancellation: cancellation}, nil
}
