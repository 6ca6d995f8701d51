package service

import (
	"context"
	"time"

	"tourdesk_backend/internal/events"
	"tourdesk_backend/internal/identity"
	"tourdesk_backend/internal/quotations/repository"
	"tourdesk_backend/internal/shared/pricing"
	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

// Quotation statuses. Accepted is only reachable through Accept.
const (
	StatusDraft    = "draft"
	StatusSent     = "sent"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Fallbacks when the organization has no stored settings.
const (
	defaultCurrency = "EUR"
)

// HotelOption is a hotel candidate for the itinerary planner.
type HotelOption struct {
	ID    uuid.UUID
	Name  string
	Stars int16
}

// TourOption is a daily-tour candidate for the itinerary planner.
type TourOption struct {
	ID        uuid.UUID
	RouteName string
}

// EntranceOption is a museum or site visit candidate for the itinerary planner.
type EntranceOption struct {
	ID       uuid.UUID
	SiteName string
}

// VehicleOption is the transfer vehicle picked for the group size.
type VehicleOption struct {
	ID       uuid.UUID
	Type     string
	Capacity int16
}

// SupplierDirectory is the slice of the supplier catalog the itinerary
// generator plans from.
type SupplierDirectory interface {
	HotelsByCity(ctx context.Context, organizationID uuid.UUID, city string) ([]HotelOption, error)
	DailyToursByCity(ctx context.Context, organizationID uuid.UUID, city string) ([]TourOption, error)
	EntranceFeesByCity(ctx context.Context, organizationID uuid.UUID, city string) ([]EntranceOption, error)
	SmallestVehicleForPax(ctx context.Context, organizationID uuid.UUID, pax int) (VehicleOption, error)
}

// Service provides business logic for quotations and their itineraries.
type Service struct {
	repo      *repository.Repository
	eventBus  events.Bus
	resolver  pricing.Resolver
	directory SupplierDirectory
	settings  identity.SettingsProvider
	bookings  BookingCreator
}

// New creates a new quotations service.
func New(repo *repository.Repository, eventBus events.Bus, resolver pricing.Resolver, directory SupplierDirectory, settings identity.SettingsProvider) *Service {
	return &Service{
		repo:      repo,
		eventBus:  eventBus,
		resolver:  resolver,
		directory: directory,
		settings:  settings,
	}
}

// SetBookingCreator wires the port that turns an accepted quotation into a
// booking with its receivable invoice.
func (s *Service) SetBookingCreator(bookings BookingCreator) {
	s.bookings = bookings
}

// CreateParams carries a new quotation header. Nil markup, tax and currency
// fall back to the organization settings.
type CreateParams struct {
	OrganizationID uuid.UUID
	AgentID        *uuid.UUID
	Destination    string
	StartDate      *time.Time
	EndDate        *time.Time
	Adults         int16
	Children       int16
	MarkupBps      *int32
	TaxBps         *int32
	Currency       *string
	Notes          *string
}

func (s *Service) Create(ctx context.Context, p CreateParams) (repository.Quotation, error) {
	if err := validateDateRange(p.StartDate, p.EndDate); err != nil {
		return repository.Quotation{}, err
	}

	markupBps, taxBps, currency := s.effectiveTerms(ctx, p.OrganizationID)
	if p.MarkupBps != nil {
		markupBps = *p.MarkupBps
	}
	if p.TaxBps != nil {
		taxBps = *p.TaxBps
	}
	if p.Currency != nil {
		currency = *p.Currency
	}

	number, err := s.repo.NextQuotationNumber(ctx, p.OrganizationID)
	if err != nil {
		return repository.Quotation{}, err
	}

	q := repository.Quotation{
		ID:              uuid.New(),
		OrganizationID:  p.OrganizationID,
		AgentID:         p.AgentID,
		QuotationNumber: number,
		Status:          StatusDraft,
		Destination:     p.Destination,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		Adults:          p.Adults,
		Children:        p.Children,
		MarkupBps:       markupBps,
		TaxBps:          taxBps,
		Currency:        currency,
		Notes:           p.Notes,
	}
	return s.repo.CreateWithItinerary(ctx, q, nil, nil)
}

// effectiveTerms returns the organization's pricing defaults, falling back
// to zero markup and tax in EUR when settings are missing or unreadable.
func (s *Service) effectiveTerms(ctx context.Context, organizationID uuid.UUID) (markupBps, taxBps int32, currency string) {
	if s.settings == nil {
		return 0, 0, defaultCurrency
	}
	settings, err := s.settings.GetSettings(ctx, organizationID)
	if err != nil {
		return 0, 0, defaultCurrency
	}
	currency = settings.BaseCurrency
	if currency == "" {
		currency = defaultCurrency
	}
	return settings.DefaultMarkupBps, settings.DefaultTaxBps, currency
}

func (s *Service) GetByID(ctx context.Context, id, organizationID uuid.UUID) (repository.Quotation, error) {
	return s.repo.GetByID(ctx, id, organizationID)
}

// DayWithExpenses is one itinerary day with its expense lines in order.
type DayWithExpenses struct {
	Day      repository.ItineraryDay
	Expenses []repository.Expense
}

// Detail is a quotation with its full nested itinerary.
type Detail struct {
	Quotation repository.Quotation
	Days      []DayWithExpenses
}

func (s *Service) Get(ctx context.Context, id, organizationID uuid.UUID) (Detail, error) {
	q, err := s.repo.GetByID(ctx, id, organizationID)
	if err != nil {
		return Detail{}, err
	}
	return s.loadDetail(ctx, q)
}

func (s *Service) loadDetail(ctx context.Context, q repository.Quotation) (Detail, error) {
	days, err := s.repo.ListDays(ctx, q.ID, q.OrganizationID)
	if err != nil {
		return Detail{}, err
	}
	expenses, err := s.repo.ListExpensesWithDates(ctx, q.ID, q.OrganizationID)
	if err != nil {
		return Detail{}, err
	}

	byDay := make(map[uuid.UUID][]repository.Expense, len(days))
	for _, e := range expenses {
		byDay[e.DayID] = append(byDay[e.DayID], e.Expense)
	}

	detail := Detail{Quotation: q, Days: make([]DayWithExpenses, 0, len(days))}
	for _, d := range days {
		detail.Days = append(detail.Days, DayWithExpenses{Day: d, Expenses: byDay[d.ID]})
	}
	return detail, nil
}

func (s *Service) List(ctx context.Context, params repository.ListParams) (repository.ListResult, error) {
	return s.repo.List(ctx, params)
}

// UpdateParams patches quotation header fields. Nil fields keep their value.
type UpdateParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	AgentID        *uuid.UUID
	Destination    *string
	StartDate      *time.Time
	EndDate        *time.Time
	Adults         *int16
	Children       *int16
	MarkupBps      *int32
	TaxBps         *int32
	Currency       *string
	Notes          *string
}

func (s *Service) Update(ctx context.Context, p UpdateParams) (repository.Quotation, error) {
	current, err := s.repo.GetByID(ctx, p.ID, p.OrganizationID)
	if err != nil {
		return repository.Quotation{}, err
	}

	start, end := current.StartDate, current.EndDate
	if p.StartDate != nil {
		start = p.StartDate
	}
	if p.EndDate != nil {
		end = p.EndDate
	}
	if err := validateDateRange(start, end); err != nil {
		return repository.Quotation{}, err
	}

	return s.repo.Update(ctx, repository.UpdateParams{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		AgentID:        p.AgentID,
		Destination:    p.Destination,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		Adults:         p.Adults,
		Children:       p.Children,
		MarkupBps:      p.MarkupBps,
		TaxBps:         p.TaxBps,
		Currency:       p.Currency,
		Notes:          p.Notes,
	})
}

// UpdateStatus moves a quotation between draft, sent and rejected. Accepted
// is set by Accept only, and an accepted quotation never changes status here.
func (s *Service) UpdateStatus(ctx context.Context, id, organizationID uuid.UUID, status string) (repository.Quotation, error) {
	current, err := s.repo.GetByID(ctx, id, organizationID)
	if err != nil {
		return repository.Quotation{}, err
	}
	if current.Status == StatusAccepted {
		return repository.Quotation{}, apperr.Conflict("accepted quotations cannot change status")
	}
	return s.repo.UpdateStatus(ctx, id, organizationID, status)
}

func (s *Service) Archive(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.Archive(ctx, id, organizationID)
}

func (s *Service) Restore(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.Restore(ctx, id, organizationID)
}

// Duplicate deep-copies a quotation with its itinerary under a fresh number.
// The copy always starts as a draft; captured rate locks stay captured, so
// the copy reprices exactly like its source.
func (s *Service) Duplicate(ctx context.Context, id, organizationID uuid.UUID) (repository.Quotation, error) {
	detail, err := s.Get(ctx, id, organizationID)
	if err != nil {
		return repository.Quotation{}, err
	}

	number, err := s.repo.NextQuotationNumber(ctx, organizationID)
	if err != nil {
		return repository.Quotation{}, err
	}

	clone := detail.Quotation
	clone.ID = uuid.New()
	clone.QuotationNumber = number
	clone.Status = StatusDraft
	clone.ArchivedAt = nil

	days := make([]repository.ItineraryDay, 0, len(detail.Days))
	expenses := make([]repository.Expense, 0)
	for _, d := range detail.Days {
		day := d.Day
		day.ID = uuid.New()
		day.QuotationID = clone.ID
		days = append(days, day)
		for _, e := range d.Expenses {
			expense := e
			expense.ID = uuid.New()
			expense.DayID = day.ID
			expense.QuotationID = clone.ID
			expenses = append(expenses, expense)
		}
	}

	return s.repo.CreateWithItinerary(ctx, clone, days, expenses)
}

func validateDateRange(start, end *time.Time) error {
	if start == nil || end == nil {
		return nil
	}
	if end.Before(*start) {
		return apperr.Validation("end_date must not be before start_date")
	}
	return nil
}
