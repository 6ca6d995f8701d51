package service

import (
	"context"
	"errors"

	"tourdesk_backend/internal/events"
	"tourdesk_backend/internal/money"
	"tourdesk_backend/internal/quotations/repository"
	"tourdesk_backend/internal/shared/pricing"
	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

// Pricing source tags reported per repriced line.
const (
	SourceLocked    = "locked"
	SourceLive      = "live"
	SourceUnchanged = "unchanged"
)

// RepriceParams identifies the quotation and whether captured rates win over
// the live season tables.
type RepriceParams struct {
	QuotationID    uuid.UUID
	OrganizationID uuid.UUID
	RespectLocked  bool
	ActorID        uuid.UUID
}

// PriceSnapshot is one line's unit and total at a point in time.
type PriceSnapshot struct {
	UnitMinor  int64
	TotalMinor int64
}

// RepricedLine reports one expense before and after repricing.
type RepricedLine struct {
	ExpenseID   uuid.UUID
	Description string
	Category    pricing.Category
	Source      string
	Before      PriceSnapshot
	After       PriceSnapshot
}

// SkippedLine explains why a line kept its stored price.
type SkippedLine struct {
	ExpenseID uuid.UUID
	Reason    string
}

// RepriceResult aggregates a reprice run.
type RepriceResult struct {
	OldTotalMinor int64
	NewTotalMinor int64
	ChangeMinor   int64
	ChangePercent float64
	Currency      string
	PricedCount   int
	Lines         []RepricedLine
	Skipped       []SkippedLine
}

// Reprice recomputes every expense line of a quotation and refreshes its
// total. Lines resolve against the season tables by category and service
// date unless a captured rate wins; unpriceable lines keep their stored
// values and are reported in the skipped list. All writes happen in one
// transaction with the quotation row locked.
func (s *Service) Reprice(ctx context.Context, p RepriceParams) (RepriceResult, error) {
	q, err := s.repo.GetByID(ctx, p.QuotationID, p.OrganizationID)
	if err != nil {
		return RepriceResult{}, err
	}
	expenses, err := s.repo.ListExpensesWithDates(ctx, p.QuotationID, p.OrganizationID)
	if err != nil {
		return RepriceResult{}, err
	}

	outcome, err := repriceLines(ctx, s.resolver, q, expenses, p.RespectLocked)
	if err != nil {
		return RepriceResult{}, err
	}

	newTotal, err := s.repo.ApplyReprice(ctx, p.QuotationID, p.OrganizationID, outcome.updates)
	if err != nil {
		return RepriceResult{}, err
	}

	result := RepriceResult{
		OldTotalMinor: q.TotalMinor,
		NewTotalMinor: newTotal,
		ChangeMinor:   newTotal - q.TotalMinor,
		Currency:      q.Currency,
		PricedCount:   outcome.priced,
		Lines:         outcome.lines,
		Skipped:       outcome.skipped,
	}
	if q.TotalMinor != 0 {
		result.ChangePercent = float64(result.ChangeMinor) / float64(q.TotalMinor) * 100
	}

	s.eventBus.Publish(ctx, events.QuotationRepriced{
		BaseEvent:      events.NewBaseEvent(),
		QuotationID:    q.ID,
		OrganizationID: q.OrganizationID,
		OldTotalMinor:  q.TotalMinor,
		NewTotalMinor:  newTotal,
		Currency:       q.Currency,
		RespectLocked:  p.RespectLocked,
		ActorID:        p.ActorID,
	})
	return result, nil
}

type repriceOutcome struct {
	lines   []RepricedLine
	skipped []SkippedLine
	updates []repository.ExpensePriceUpdate
	priced  int
}

// repriceLines computes new prices without touching storage. An empty
// itinerary fails here, before any transaction is opened.
func repriceLines(ctx context.Context, resolver pricing.Resolver, q repository.Quotation, expenses []repository.ExpenseWithDate, respectLocked bool) (repriceOutcome, error) {
	if len(expenses) == 0 {
		return repriceOutcome{}, apperr.Validation("quotation has no itinerary expenses to reprice")
	}

	outcome := repriceOutcome{
		lines:   make([]RepricedLine, 0, len(expenses)),
		skipped: make([]SkippedLine, 0),
		updates: make([]repository.ExpensePriceUpdate, 0),
	}

	for _, e := range expenses {
		category, ok := pricing.ParseCategory(e.Category)
		if !ok {
			category = pricing.Classify(e.Category)
		}

		line := RepricedLine{
			ExpenseID:   e.ID,
			Description: e.Description,
			Category:    category,
			Source:      SourceUnchanged,
			Before:      PriceSnapshot{UnitMinor: e.UnitMinor, TotalMinor: e.TotalMinor},
			After:       PriceSnapshot{UnitMinor: e.UnitMinor, TotalMinor: e.TotalMinor},
		}

		base, source, reason, err := resolveBase(ctx, resolver, q, e, category, respectLocked)
		if err != nil {
			return repriceOutcome{}, err
		}
		if reason != "" {
			outcome.skipped = append(outcome.skipped, SkippedLine{ExpenseID: e.ID, Reason: reason})
			outcome.lines = append(outcome.lines, line)
			continue
		}

		unit := money.Compose(base, q.MarkupBps, q.TaxBps)
		line.Source = source
		line.After = PriceSnapshot{UnitMinor: unit, TotalMinor: unit * int64(e.Quantity)}
		outcome.priced++
		outcome.lines = append(outcome.lines, line)

		if line.After != line.Before {
			outcome.updates = append(outcome.updates, repository.ExpensePriceUpdate{
				ID:         e.ID,
				UnitMinor:  line.After.UnitMinor,
				TotalMinor: line.After.TotalMinor,
			})
		}
	}
	return outcome, nil
}

// resolveBase picks the raw unit cost for one line. A non-empty reason means
// the line is skipped and keeps its stored price.
func resolveBase(ctx context.Context, resolver pricing.Resolver, q repository.Quotation, e repository.ExpenseWithDate, category pricing.Category, respectLocked bool) (base int64, source, reason string, err error) {
	if category == pricing.CategoryGeneric {
		return 0, "", "generic expenses are never repriced", nil
	}
	if respectLocked && e.RateLocked && e.LockedUnitMinor != nil {
		return *e.LockedUnitMinor, SourceLocked, "", nil
	}
	if e.SupplierID == nil {
		return 0, "", "expense has no supplier", nil
	}
	if resolver == nil {
		return 0, "", "", apperr.Internal("rate resolver is not configured")
	}

	rate, err := resolver.Resolve(ctx, q.OrganizationID, category, *e.SupplierID, e.ServiceDate)
	if err != nil {
		if errors.Is(err, pricing.ErrNoRate) {
			return 0, "", "no rate covers the service date", nil
		}
		return 0, "", "", err
	}
	if rate.Currency != q.Currency {
		return 0, "", "rate currency " + rate.Currency + " does not match quotation currency " + q.Currency, nil
	}
	return rate.UnitCostMinor, SourceLive, "", nil
}
