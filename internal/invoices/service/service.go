// Package service implements the billing rules: bookings opened from
// accepted quotations, the payment ledger, two-phase refunds and the
// supporting invoice surface.
package service

import (
	"context"
	"time"

	"tourdesk_backend/internal/adapters/storage"
	"tourdesk_backend/internal/events"
	"tourdesk_backend/internal/identity"
	"tourdesk_backend/internal/invoices/repository"
	"tourdesk_backend/platform/logger"

	"github.com/google/uuid"
)

// Receivable invoices fall due this many days after issue.
const defaultPaymentTermDays = 14

// AgentContact is the name and email the notification templates address.
type AgentContact struct {
	Name  string
	Email string
}

// AgentDirectory resolves the contact details of an agency. Implementations
// bridge to the agents module.
type AgentDirectory interface {
	ContactByID(ctx context.Context, organizationID, agentID uuid.UUID) (AgentContact, error)
}

// Service provides business logic for bookings, invoices, payments and
// refunds.
type Service struct {
	repo     *repository.Repository
	eventBus events.Bus
	settings identity.SettingsProvider
	agents   AgentDirectory
	store    storage.StorageService
	bucket   string
	log      *logger.Logger
}

// New creates a new invoices service. store may be nil when object storage
// is not configured; attachment operations then fail cleanly.
func New(repo *repository.Repository, eventBus events.Bus, settings identity.SettingsProvider, agents AgentDirectory, store storage.StorageService, bucket string, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		settings: settings,
		agents:   agents,
		store:    store,
		bucket:   bucket,
		log:      log,
	}
}

// BookingParams carries everything needed to open a booking with its
// receivable invoice for an accepted quotation.
type BookingParams struct {
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

// CreateBookingFromQuotation opens a confirmed booking and a receivable
// invoice over the quotation total. The unique booking-per-quotation index
// makes a duplicate acceptance a conflict, not a second invoice.
func (s *Service) CreateBookingFromQuotation(ctx context.Context, p BookingParams) (repository.Booking, repository.Invoice, error) {
	bookingNumber, err := s.repo.NextBookingNumber(ctx, p.OrganizationID)
	if err != nil {
		return repository.Booking{}, repository.Invoice{}, err
	}
	invoiceNumber, err := s.repo.NextInvoiceNumber(ctx, p.OrganizationID)
	if err != nil {
		return repository.Booking{}, repository.Invoice{}, err
	}

	issueDate := time.Now().UTC().Truncate(24 * time.Hour)
	return s.repo.CreateBookingWithInvoice(ctx, repository.CreateBookingParams{
		Booking: repository.Booking{
			ID:             uuid.New(),
			OrganizationID: p.OrganizationID,
			QuotationID:    p.QuotationID,
			BookingNumber:  bookingNumber,
			Status:         repository.BookingConfirmed,
			Destination:    p.Destination,
			StartDate:      p.StartDate,
			EndDate:        p.EndDate,
			Adults:         p.Adults,
			Children:       p.Children,
		},
		Invoice: repository.Invoice{
			ID:             uuid.New(),
			OrganizationID: p.OrganizationID,
			AgentID:        p.AgentID,
			InvoiceNumber:  invoiceNumber,
			Status:         repository.StatusSent,
			Currency:       p.Currency,
			TotalMinor:     p.TotalMinor,
			PaidMinor:      0,
			IssueDate:      issueDate,
			DueDate:        issueDate.AddDate(0, 0, defaultPaymentTermDays),
		},
	})
}

// InvoiceDetail is one invoice with its ledger and refund records.
type InvoiceDetail struct {
	Invoice       repository.Invoice
	Booking       repository.Booking
	Payments      []repository.Payment
	Cancellations []repository.Cancellation
}

func (s *Service) GetInvoice(ctx context.Context, id, organizationID uuid.UUID) (InvoiceDetail, error) {
	inv, err := s.repo.GetInvoice(ctx, id, organizationID)
	if err != nil {
		return InvoiceDetail{}, err
	}
	booking, err := s.repo.GetBooking(ctx, inv.BookingID, organizationID)
	if err != nil {
		return InvoiceDetail{}, err
	}
	payments, err := s.repo.ListPayments(ctx, id, organizationID)
	if err != nil {
		return InvoiceDetail{}, err
	}
	cancellations, err := s.repo.ListCancellations(ctx, id, organizationID)
	if err != nil {
		return InvoiceDetail{}, err
	}
	return InvoiceDetail{
		Invoice:       inv,
		Booking:       booking,
		Payments:      payments,
		Cancellations: cancellations,
	}, nil
}

func (s *Service) ListInvoices(ctx context.Context, params repository.ListInvoicesParams) (repository.ListInvoicesResult, error) {
	return s.repo.ListInvoices(ctx, params)
}

func (s *Service) ListPayments(ctx context.Context, invoiceID, organizationID uuid.UUID) ([]repository.Payment, error) {
	if _, err := s.repo.GetInvoice(ctx, invoiceID, organizationID); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, invoiceID, organizationID)
}

func (s *Service) ListRefunds(ctx context.Context, invoiceID, organizationID uuid.UUID) ([]repository.Cancellation, error) {
	if _, err := s.repo.GetInvoice(ctx, invoiceID, organizationID); err != nil {
		return nil, err
	}
	return s.repo.ListCancellations(ctx, invoiceID, organizationID)
}

func (s *Service) GetBooking(ctx context.Context, id, organizationID uuid.UUID) (repository.Booking, error) {
	return s.repo.GetBooking(ctx, id, organizationID)
}

func (s *Service) ListBookings(ctx context.Context, params repository.ListBookingsParams) (repository.ListBookingsResult, error) {
	return s.repo.ListBookings(ctx, params)
}

// MarkOverdueAsOf flips past-due sent and partial invoices to overdue and
// publishes one event per flipped invoice. Run by the worker sweep.
func (s *Service) MarkOverdueAsOf(ctx context.Context, today time.Time) (int, error) {
	flipped, err := s.repo.MarkOverdueAsOf(ctx, today)
	if err != nil {
		return 0, err
	}

	for _, inv := range flipped {
		contact := s.agentContact(ctx, inv.OrganizationID, inv.AgentID)
		s.eventBus.Publish(ctx, events.InvoiceOverdue{
			BaseEvent:        events.NewBaseEvent(),
			OrganizationID:   inv.OrganizationID,
			InvoiceID:        inv.ID,
			InvoiceNumber:    inv.InvoiceNumber,
			OutstandingMinor: inv.OutstandingMinor,
			Currency:         inv.Currency,
			DueDate:          inv.DueDate,
			AgentName:        contact.Name,
			AgentEmail:       contact.Email,
		})
	}
	return len(flipped), nil
}

// agentContact resolves the agency contact for notification events. Lookup
// failures degrade to an empty contact so a financial mutation never fails
// on the email side.
func (s *Service) agentContact(ctx context.Context, organizationID uuid.UUID, agentID *uuid.UUID) AgentContact {
	if agentID == nil || s.agents == nil {
		return AgentContact{}
	}
	contact, err := s.agents.ContactByID(ctx, organizationID, *agentID)
	if err != nil {
		if s.log != nil {
			s.log.Warn("agent contact lookup failed", "agentId", agentID.String(), "error", err)
		}
		return AgentContact{}
	}
	return contact
}
