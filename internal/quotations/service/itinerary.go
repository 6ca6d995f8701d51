package service

import (
	"context"
	"time"

	"tourdesk_backend/internal/money"
	"tourdesk_backend/internal/quotations/repository"
	"tourdesk_backend/internal/shared/pricing"
	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

// CreateDayParams adds one itinerary day.
type CreateDayParams struct {
	QuotationID    uuid.UUID
	OrganizationID uuid.UUID
	DayNumber      int32
	Date           time.Time
	Notes          *string
}

func (s *Service) CreateDay(ctx context.Context, p CreateDayParams) (repository.ItineraryDay, error) {
	if _, err := s.repo.GetByID(ctx, p.QuotationID, p.OrganizationID); err != nil {
		return repository.ItineraryDay{}, err
	}
	return s.repo.CreateDay(ctx, repository.ItineraryDay{
		ID:             uuid.New(),
		QuotationID:    p.QuotationID,
		OrganizationID: p.OrganizationID,
		DayNumber:      p.DayNumber,
		Date:           p.Date,
		Notes:          p.Notes,
	})
}

// UpdateDayParams patches an itinerary day. Nil fields keep their value.
type UpdateDayParams struct {
	ID             uuid.UUID
	QuotationID    uuid.UUID
	OrganizationID uuid.UUID
	DayNumber      *int32
	Date           *time.Time
	Notes          *string
}

func (s *Service) UpdateDay(ctx context.Context, p UpdateDayParams) (repository.ItineraryDay, error) {
	return s.repo.UpdateDay(ctx, repository.UpdateDayParams{
		ID:             p.ID,
		QuotationID:    p.QuotationID,
		OrganizationID: p.OrganizationID,
		DayNumber:      p.DayNumber,
		Date:           p.Date,
		Notes:          p.Notes,
	})
}

func (s *Service) DeleteDay(ctx context.Context, id, quotationID, organizationID uuid.UUID) error {
	return s.repo.DeleteDay(ctx, id, quotationID, organizationID)
}

// CreateExpenseParams adds one expense line under a day. Exactly one of
// UnitMinor (a hand-entered sell price) or RateID (a season rate to capture)
// must be set.
type CreateExpenseParams struct {
	QuotationID    uuid.UUID
	DayID          uuid.UUID
	OrganizationID uuid.UUID
	Category       pricing.Category
	SupplierID     *uuid.UUID
	Description    string
	Quantity       int32
	UnitMinor      *int64
	RateID         *uuid.UUID
	Notes          *string
	SortOrder      int32
}

// CreateExpense prices and stores a new line. When a rate id is supplied the
// raw unit cost is captured as a locked rate, so later live repricing leaves
// the line alone unless the caller opts out of locks.
func (s *Service) CreateExpense(ctx context.Context, p CreateExpenseParams) (repository.Expense, error) {
	q, err := s.repo.GetByID(ctx, p.QuotationID, p.OrganizationID)
	if err != nil {
		return repository.Expense{}, err
	}

	expense := repository.Expense{
		ID:             uuid.New(),
		DayID:          p.DayID,
		QuotationID:    p.QuotationID,
		OrganizationID: p.OrganizationID,
		Category:       string(p.Category),
		SupplierID:     p.SupplierID,
		Description:    p.Description,
		Quantity:       p.Quantity,
		Currency:       q.Currency,
		Notes:          p.Notes,
		SortOrder:      p.SortOrder,
	}

	switch {
	case p.RateID != nil:
		if s.resolver == nil {
			return repository.Expense{}, apperr.Internal("rate resolver is not configured")
		}
		rate, err := s.resolver.RateByID(ctx, p.OrganizationID, p.Category, *p.RateID)
		if err != nil {
			return repository.Expense{}, err
		}
		if rate.Currency != q.Currency {
			return repository.Expense{}, apperr.Validationf("rate currency %s does not match quotation currency %s", rate.Currency, q.Currency)
		}
		lockedUnit := rate.UnitCostMinor
		expense.RateLocked = true
		expense.LockedRateID = &rate.ID
		expense.LockedUnitMinor = &lockedUnit
		expense.UnitMinor = money.Compose(lockedUnit, q.MarkupBps, q.TaxBps)
	case p.UnitMinor != nil:
		expense.UnitMinor = *p.UnitMinor
	default:
		return repository.Expense{}, apperr.Validation("either unit_minor or rate_id is required")
	}

	expense.TotalMinor = expense.UnitMinor * int64(p.Quantity)
	return s.repo.CreateExpense(ctx, expense)
}

// UpdateExpenseParams patches an expense line. Setting UnitMinor by hand, or
// RateLocked to false, drops the captured rate.
type UpdateExpenseParams struct {
	ID             uuid.UUID
	QuotationID    uuid.UUID
	OrganizationID uuid.UUID
	Category       *pricing.Category
	SupplierID     *uuid.UUID
	Description    *string
	Quantity       *int32
	UnitMinor      *int64
	RateLocked     *bool
	Notes          *string
	SortOrder      *int32
}

func (s *Service) UpdateExpense(ctx context.Context, p UpdateExpenseParams) (repository.Expense, error) {
	if p.RateLocked != nil && *p.RateLocked {
		return repository.Expense{}, apperr.Validation("rates are locked by creating the expense with a rate_id")
	}

	var category *string
	if p.Category != nil {
		value := string(*p.Category)
		category = &value
	}

	clearLock := p.UnitMinor != nil || (p.RateLocked != nil && !*p.RateLocked)
	return s.repo.UpdateExpense(ctx, repository.UpdateExpenseParams{
		ID:             p.ID,
		QuotationID:    p.QuotationID,
		OrganizationID: p.OrganizationID,
		Category:       category,
		SupplierID:     p.SupplierID,
		Description:    p.Description,
		Quantity:       p.Quantity,
		UnitMinor:      p.UnitMinor,
		Notes:          p.Notes,
		SortOrder:      p.SortOrder,
		ClearLock:      clearLock,
	})
}

func (s *Service) DeleteExpense(ctx context.Context, id, quotationID, organizationID uuid.UUID) error {
	return s.repo.DeleteExpense(ctx, id, quotationID, organizationID)
}
