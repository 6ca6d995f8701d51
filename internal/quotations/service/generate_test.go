package service

import (
	"testing"
	"time"

	"tourdesk_backend/internal/quotations/repository"
	"tourdesk_backend/internal/shared/pricing"

	"github.com/google/uuid"
)

func plannerQuotation(startDay, endDay int, adults, children int16) repository.Quotation {
	start := time.Date(2026, 5, startDay, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, endDay, 0, 0, 0, 0, time.UTC)
	return repository.Quotation{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Destination:    "Istanbul",
		StartDate:      &start,
		EndDate:        &end,
		Adults:         adults,
		Children:       children,
		Currency:       "EUR",
	}
}

func expensesByDay(expenses []repository.Expense) map[uuid.UUID][]repository.Expense {
	byDay := make(map[uuid.UUID][]repository.Expense)
	for _, e := range expenses {
		byDay[e.DayID] = append(byDay[e.DayID], e)
	}
	return byDay
}

func TestPlanItinerary_ThreeDayShape(t *testing.T) {
	q := plannerQuotation(1, 3, 2, 1)
	in := plannerInputs{
		hotels:    []HotelOption{{ID: uuid.New(), Name: "Pera Palace", Stars: 5}},
		tours:     []TourOption{{ID: uuid.New(), RouteName: "Bosphorus cruise"}},
		entrances: []EntranceOption{{ID: uuid.New(), SiteName: "Topkapi Palace"}},
		vehicle:   &VehicleOption{ID: uuid.New(), Type: "minibus", Capacity: 8},
	}

	days, expenses := planItinerary(q, in)

	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	for i, d := range days {
		if d.DayNumber != int32(i+1) {
			t.Fatalf("day %d: expected day_number %d, got %d", i, i+1, d.DayNumber)
		}
		want := q.StartDate.AddDate(0, 0, i)
		if !d.Date.Equal(want) {
			t.Fatalf("day %d: expected date %s, got %s", i, want, d.Date)
		}
	}

	byDay := expensesByDay(expenses)

	first := byDay[days[0].ID]
	if len(first) != 3 {
		t.Fatalf("expected 3 lines on day 1 (transfer, activity, hotel), got %d", len(first))
	}
	if first[0].Category != string(pricing.CategoryVehicle) {
		t.Fatalf("day 1 opens with the arrival transfer, got %q", first[0].Category)
	}
	if first[1].Category != string(pricing.CategoryTour) || first[1].Quantity != 3 {
		t.Fatalf("day 1 activity should be the tour for 3 pax, got %q qty %d", first[1].Category, first[1].Quantity)
	}
	if first[2].Category != string(pricing.CategoryHotel) || first[2].Quantity != 3 {
		t.Fatalf("day 1 should close with a hotel night for 3 pax, got %q qty %d", first[2].Category, first[2].Quantity)
	}

	second := byDay[days[1].ID]
	if len(second) != 2 {
		t.Fatalf("expected 2 lines on day 2 (activity, hotel), got %d", len(second))
	}
	if second[0].Category != string(pricing.CategoryEntrance) {
		t.Fatalf("day 2 rotates to the entrance visit, got %q", second[0].Category)
	}

	last := byDay[days[2].ID]
	if len(last) != 2 {
		t.Fatalf("expected 2 lines on the last day (activity, transfer), got %d", len(last))
	}
	if last[0].Category != string(pricing.CategoryTour) {
		t.Fatalf("day 3 rotates back to the tour, got %q", last[0].Category)
	}
	if last[1].Category != string(pricing.CategoryVehicle) {
		t.Fatalf("last day closes with the departure transfer, got %q", last[1].Category)
	}
	for _, e := range last {
		if e.Category == string(pricing.CategoryHotel) {
			t.Fatal("the last day must not carry a hotel night")
		}
	}
}

func TestPlanItinerary_IsDeterministic(t *testing.T) {
	q := plannerQuotation(10, 14, 4, 0)
	in := plannerInputs{
		hotels: []HotelOption{{ID: uuid.New(), Name: "Hotel A", Stars: 4}},
		tours: []TourOption{
			{ID: uuid.New(), RouteName: "Old town walk"},
			{ID: uuid.New(), RouteName: "Cappadocia day trip"},
		},
		entrances: []EntranceOption{{ID: uuid.New(), SiteName: "Hagia Sophia"}},
	}

	daysA, expensesA := planItinerary(q, in)
	daysB, expensesB := planItinerary(q, in)

	if len(daysA) != len(daysB) || len(expensesA) != len(expensesB) {
		t.Fatalf("two runs disagree on shape: %d/%d days, %d/%d expenses",
			len(daysA), len(daysB), len(expensesA), len(expensesB))
	}
	for i := range expensesA {
		if expensesA[i].Category != expensesB[i].Category ||
			expensesA[i].Description != expensesB[i].Description ||
			expensesA[i].Quantity != expensesB[i].Quantity {
			t.Fatalf("expense %d differs between runs: %+v vs %+v", i, expensesA[i], expensesB[i])
		}
	}
}

func TestPlanItinerary_SingleDayCarriesBothTransfers(t *testing.T) {
	q := plannerQuotation(7, 7, 1, 0)
	in := plannerInputs{
		hotels:  []HotelOption{{ID: uuid.New(), Name: "Hotel A", Stars: 3}},
		tours:   []TourOption{{ID: uuid.New(), RouteName: "City highlights"}},
		vehicle: &VehicleOption{ID: uuid.New(), Type: "sedan", Capacity: 3},
	}

	days, expenses := planItinerary(q, in)
	if len(days) != 1 {
		t.Fatalf("expected a single day, got %d", len(days))
	}

	var vehicles, hotels int
	for _, e := range expenses {
		switch e.Category {
		case string(pricing.CategoryVehicle):
			vehicles++
		case string(pricing.CategoryHotel):
			hotels++
		}
	}
	if vehicles != 2 {
		t.Fatalf("a single-day trip carries arrival and departure transfers, got %d", vehicles)
	}
	if hotels != 0 {
		t.Fatalf("a single-day trip has no hotel night, got %d", hotels)
	}
}

func TestPlanItinerary_NoVehicleMeansNoTransfers(t *testing.T) {
	q := plannerQuotation(1, 2, 2, 0)
	in := plannerInputs{
		hotels:    []HotelOption{{ID: uuid.New(), Name: "Hotel A", Stars: 3}},
		entrances: []EntranceOption{{ID: uuid.New(), SiteName: "Ephesus"}},
	}

	_, expenses := planItinerary(q, in)
	for _, e := range expenses {
		if e.Category == string(pricing.CategoryVehicle) {
			t.Fatal("no vehicle candidate, so the plan must not contain transfers")
		}
	}
}

func TestPlanItinerary_NoActivitiesStillBooksHotelNights(t *testing.T) {
	q := plannerQuotation(1, 3, 2, 0)
	in := plannerInputs{
		hotels: []HotelOption{{ID: uuid.New(), Name: "Hotel A", Stars: 3}},
	}

	days, expenses := planItinerary(q, in)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if len(expenses) != 2 {
		t.Fatalf("expected exactly the two hotel nights, got %d lines", len(expenses))
	}
	for _, e := range expenses {
		if e.Category != string(pricing.CategoryHotel) {
			t.Fatalf("expected only hotel nights, got %q", e.Category)
		}
	}
}
