package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tourdesk_backend/internal/quotations/repository"
	"tourdesk_backend/internal/shared/pricing"
	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

type stubResolver struct {
	resolve  func(category pricing.Category, supplierID uuid.UUID, serviceDate time.Time) (pricing.Rate, error)
	rateByID func(category pricing.Category, rateID uuid.UUID) (pricing.Rate, error)
}

func (s stubResolver) Resolve(_ context.Context, _ uuid.UUID, category pricing.Category, supplierID uuid.UUID, serviceDate time.Time) (pricing.Rate, error) {
	if s.resolve == nil {
		return pricing.Rate{}, pricing.ErrNoRate
	}
	return s.resolve(category, supplierID, serviceDate)
}

func (s stubResolver) RateByID(_ context.Context, _ uuid.UUID, category pricing.Category, rateID uuid.UUID) (pricing.Rate, error) {
	if s.rateByID == nil {
		return pricing.Rate{}, pricing.ErrNoRate
	}
	return s.rateByID(category, rateID)
}

func testQuotation(markupBps, taxBps int32) repository.Quotation {
	return repository.Quotation{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Currency:       "EUR",
		MarkupBps:      markupBps,
		TaxBps:         taxBps,
		TotalMinor:     0,
	}
}

func testExpense(category string, unitMinor int64, quantity int32) repository.ExpenseWithDate {
	supplierID := uuid.New()
	return repository.ExpenseWithDate{
		Expense: repository.Expense{
			ID:          uuid.New(),
			DayID:       uuid.New(),
			Category:    category,
			SupplierID:  &supplierID,
			Description: category,
			Quantity:    quantity,
			UnitMinor:   unitMinor,
			TotalMinor:  unitMinor * int64(quantity),
			Currency:    "EUR",
		},
		ServiceDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRepriceLines_EmptyItineraryFailsBeforeResolving(t *testing.T) {
	panicking := stubResolver{resolve: func(pricing.Category, uuid.UUID, time.Time) (pricing.Rate, error) {
		t.Fatal("resolver must not be called for an empty itinerary")
		return pricing.Rate{}, nil
	}}

	_, err := repriceLines(context.Background(), panicking, testQuotation(0, 0), nil, true)
	if err == nil {
		t.Fatal("expected an error for an empty itinerary")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestRepriceLines_CompositionOrderMarkupThenTax(t *testing.T) {
	q := testQuotation(1000, 2000) // 10% markup, 20% tax
	e := testExpense("hotel", 0, 1)
	resolver := stubResolver{resolve: func(pricing.Category, uuid.UUID, time.Time) (pricing.Rate, error) {
		return pricing.Rate{ID: uuid.New(), UnitCostMinor: 100000, Currency: "EUR"}, nil
	}}

	outcome, err := repriceLines(context.Background(), resolver, q, []repository.ExpenseWithDate{e}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.priced != 1 {
		t.Fatalf("expected 1 priced line, got %d", outcome.priced)
	}
	line := outcome.lines[0]
	if line.Source != SourceLive {
		t.Fatalf("expected source live, got %q", line.Source)
	}
	// 1000.00 base, +10% = 1100.00, +20% = 1320.00
	if line.After.UnitMinor != 132000 {
		t.Fatalf("expected unit 132000, got %d", line.After.UnitMinor)
	}
	if line.After.TotalMinor != 132000 {
		t.Fatalf("expected total 132000, got %d", line.After.TotalMinor)
	}
}

func TestRepriceLines_LockedRateWinsWhenRespected(t *testing.T) {
	q := testQuotation(0, 0)
	e := testExpense("guide", 999, 2)
	locked := int64(5000)
	e.RateLocked = true
	e.LockedUnitMinor = &locked

	resolver := stubResolver{resolve: func(pricing.Category, uuid.UUID, time.Time) (pricing.Rate, error) {
		return pricing.Rate{ID: uuid.New(), UnitCostMinor: 7777, Currency: "EUR"}, nil
	}}

	outcome, err := repriceLines(context.Background(), resolver, q, []repository.ExpenseWithDate{e}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := outcome.lines[0]
	if line.Source != SourceLocked {
		t.Fatalf("expected source locked, got %q", line.Source)
	}
	if line.After.UnitMinor != 5000 || line.After.TotalMinor != 10000 {
		t.Fatalf("expected 5000/10000 from the captured rate, got %d/%d", line.After.UnitMinor, line.After.TotalMinor)
	}

	outcome, err = repriceLines(context.Background(), resolver, q, []repository.ExpenseWithDate{e}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line = outcome.lines[0]
	if line.Source != SourceLive {
		t.Fatalf("expected the live table when locks are ignored, got %q", line.Source)
	}
	if line.After.UnitMinor != 7777 {
		t.Fatalf("expected unit 7777 from the live table, got %d", line.After.UnitMinor)
	}
}

func TestRepriceLines_SecondRunProducesNoUpdates(t *testing.T) {
	q := testQuotation(1500, 1800)
	locked := int64(4200)
	e1 := testExpense("hotel", 1, 3)
	e1.RateLocked = true
	e1.LockedUnitMinor = &locked
	e2 := testExpense("tour", 2, 2)

	resolver := stubResolver{resolve: func(_ pricing.Category, _ uuid.UUID, _ time.Time) (pricing.Rate, error) {
		return pricing.Rate{ID: uuid.New(), UnitCostMinor: 3100, Currency: "EUR"}, nil
	}}

	expenses := []repository.ExpenseWithDate{e1, e2}
	first, err := repriceLines(context.Background(), resolver, q, expenses, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.updates) != 2 {
		t.Fatalf("expected both lines to change on the first run, got %d updates", len(first.updates))
	}

	for i := range expenses {
		expenses[i].UnitMinor = first.lines[i].After.UnitMinor
		expenses[i].TotalMinor = first.lines[i].After.TotalMinor
	}

	second, err := repriceLines(context.Background(), resolver, q, expenses, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.updates) != 0 {
		t.Fatalf("expected a repeated run to change nothing, got %d updates", len(second.updates))
	}
	for i := range second.lines {
		if second.lines[i].After != first.lines[i].After {
			t.Fatalf("line %d drifted between runs: %+v vs %+v", i, first.lines[i].After, second.lines[i].After)
		}
	}
}

func TestRepriceLines_TaggedCategoryBeatsSubstringMatch(t *testing.T) {
	q := testQuotation(0, 0)
	tagged := testExpense("tour", 100, 1)
	legacy := testExpense("Museum entry tickets", 100, 1)
	transfer := testExpense("Return transfer to airport", 100, 1)

	var seen []pricing.Category
	resolver := stubResolver{resolve: func(category pricing.Category, _ uuid.UUID, _ time.Time) (pricing.Rate, error) {
		seen = append(seen, category)
		return pricing.Rate{ID: uuid.New(), UnitCostMinor: 100, Currency: "EUR"}, nil
	}}

	outcome, err := repriceLines(context.Background(), resolver, q, []repository.ExpenseWithDate{tagged, legacy, transfer}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []pricing.Category{pricing.CategoryTour, pricing.CategoryEntrance, pricing.CategoryVehicle}
	for i, category := range want {
		if outcome.lines[i].Category != category {
			t.Fatalf("line %d: expected category %s, got %s", i, category, outcome.lines[i].Category)
		}
		if seen[i] != category {
			t.Fatalf("line %d: resolver saw %s, expected %s", i, seen[i], category)
		}
	}
}

func TestRepriceLines_UnpriceableLinesAreSkippedUnchanged(t *testing.T) {
	q := testQuotation(1000, 0)

	generic := testExpense("generic", 250, 1)
	noSupplier := testExpense("hotel", 300, 1)
	noSupplier.SupplierID = nil
	noRate := testExpense("guide", 400, 1)
	wrongCurrency := testExpense("tour", 500, 1)

	resolver := stubResolver{resolve: func(category pricing.Category, _ uuid.UUID, _ time.Time) (pricing.Rate, error) {
		switch category {
		case pricing.CategoryGuide:
			return pricing.Rate{}, pricing.ErrNoRate
		case pricing.CategoryTour:
			return pricing.Rate{ID: uuid.New(), UnitCostMinor: 999, Currency: "USD"}, nil
		default:
			return pricing.Rate{ID: uuid.New(), UnitCostMinor: 999, Currency: "EUR"}, nil
		}
	}}

	expenses := []repository.ExpenseWithDate{generic, noSupplier, noRate, wrongCurrency}
	outcome, err := repriceLines(context.Background(), resolver, q, expenses, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.priced != 0 {
		t.Fatalf("expected no priced lines, got %d", outcome.priced)
	}
	if len(outcome.updates) != 0 {
		t.Fatalf("expected no updates, got %d", len(outcome.updates))
	}
	if len(outcome.skipped) != 4 {
		t.Fatalf("expected 4 skipped lines, got %d", len(outcome.skipped))
	}
	for i, line := range outcome.lines {
		if line.Source != SourceUnchanged {
			t.Fatalf("line %d: expected source unchanged, got %q", i, line.Source)
		}
		if line.After != line.Before {
			t.Fatalf("line %d: skipped line must keep its price, got %+v -> %+v", i, line.Before, line.After)
		}
	}
}
