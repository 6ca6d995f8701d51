package service

import (
	"context"
	"time"

	"tourdesk_backend/internal/events"
	"tourdesk_backend/internal/quotations/repository"
	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

// BookingDraft carries everything the billing domain needs to open a booking
// with its receivable invoice for an accepted quotation.
type BookingDraft struct {
	OrganizationID  uuid.UUID
	QuotationID     uuid.UUID
	QuotationNumber string
	AgentID         *uuid.UUID
	Destination     string
	StartDate       *time.Time
	EndDate         *time.Time
	Adults          int16
	Children        int16
	TotalMinor      int64
	Currency        string
}

// BookingResult references the booking and invoice created for a draft.
type BookingResult struct {
	BookingID uuid.UUID
	InvoiceID uuid.UUID
}

// BookingCreator opens a booking and its receivable invoice. Implementations
// must be idempotent per quotation: a second call for the same quotation
// returns a conflict instead of a second booking.
type BookingCreator interface {
	CreateFromQuotation(ctx context.Context, draft BookingDraft) (BookingResult, error)
}

// AcceptResult is the accepted quotation with its new booking references.
type AcceptResult struct {
	Quotation repository.Quotation
	BookingID uuid.UUID
	InvoiceID uuid.UUID
}

// Accept marks a draft or sent quotation as accepted and opens the booking
// and receivable invoice for it.
func (s *Service) Accept(ctx context.Context, id, organizationID, actorID uuid.UUID) (AcceptResult, error) {
	q, err := s.repo.GetByID(ctx, id, organizationID)
	if err != nil {
		return AcceptResult{}, err
	}
	if q.Status != StatusDraft && q.Status != StatusSent {
		return AcceptResult{}, apperr.Conflict("only draft or sent quotations can be accepted")
	}
	if s.bookings == nil {
		return AcceptResult{}, apperr.Internal("booking creation is not configured")
	}

	booking, err := s.bookings.CreateFromQuotation(ctx, BookingDraft{
		OrganizationID:  q.OrganizationID,
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		AgentID:         q.AgentID,
		Destination:     q.Destination,
		StartDate:       q.StartDate,
		EndDate:         q.EndDate,
		Adults:          q.Adults,
		Children:        q.Children,
		TotalMinor:      q.TotalMinor,
		Currency:        q.Currency,
	})
	if err != nil {
		return AcceptResult{}, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, organizationID, StatusAccepted)
	if err != nil {
		return AcceptResult{}, err
	}

	agentID := uuid.Nil
	if q.AgentID != nil {
		agentID = *q.AgentID
	}
	s.eventBus.Publish(ctx, events.QuotationAccepted{
		BaseEvent:       events.NewBaseEvent(),
		QuotationID:     q.ID,
		OrganizationID:  q.OrganizationID,
		QuotationNumber: q.QuotationNumber,
		BookingID:       booking.BookingID,
		InvoiceID:       booking.InvoiceID,
		AgentID:         agentID,
		TotalMinor:      q.TotalMinor,
		Currency:        q.Currency,
		AcceptedBy:      actorID,
	})
	return AcceptResult{Quotation: updated, BookingID: booking.BookingID, InvoiceID: booking.InvoiceID}, nil
}
