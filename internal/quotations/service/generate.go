package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourdesk_backend/internal/money"
	"tourdesk_backend/internal/quotations/repository"
	"tourdesk_backend/internal/shared/pricing"
	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// GenerateItinerary replaces the quotation's itinerary with a planned one:
// one day per calendar day, a hotel night on every day but the last, one
// tour or entrance visit per day rotating over the destination's candidates,
// and a vehicle transfer on the first and last day. Lines are priced through
// the season tables; lines without a covering rate stay at zero for the
// operator to fill in. The previous days and expenses are replaced in one
// transaction.
func (s *Service) GenerateItinerary(ctx context.Context, quotationID, organizationID uuid.UUID) (Detail, error) {
	q, err := s.repo.GetByID(ctx, quotationID, organizationID)
	if err != nil {
		return Detail{}, err
	}
	if q.Destination == "" || q.StartDate == nil || q.EndDate == nil {
		return Detail{}, apperr.Validation("quotation needs a destination and a date range before an itinerary can be generated")
	}
	if q.EndDate.Before(*q.StartDate) {
		return Detail{}, apperr.Validation("end_date must not be before start_date")
	}
	if s.directory == nil {
		return Detail{}, apperr.Internal("supplier directory is not configured")
	}

	in, err := s.fetchPlannerInputs(ctx, q)
	if err != nil {
		return Detail{}, err
	}
	if len(in.hotels) == 0 {
		return Detail{}, apperr.NotFound(fmt.Sprintf("no hotel found for %s", q.Destination))
	}

	days, expenses := planItinerary(q, in)
	if err := s.priceGeneratedLines(ctx, q, days, expenses); err != nil {
		return Detail{}, err
	}

	if _, err := s.repo.ReplaceItinerary(ctx, quotationID, organizationID, days, expenses); err != nil {
		return Detail{}, err
	}
	return s.Get(ctx, quotationID, organizationID)
}

type plannerInputs struct {
	hotels    []HotelOption
	tours     []TourOption
	entrances []EntranceOption
	vehicle   *VehicleOption
}

// fetchPlannerInputs loads the candidate suppliers concurrently. A missing
// vehicle is not fatal; the plan simply carries no transfers.
func (s *Service) fetchPlannerInputs(ctx context.Context, q repository.Quotation) (plannerInputs, error) {
	var in plannerInputs
	pax := int(q.Adults) + int(q.Children)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hotels, err := s.directory.HotelsByCity(gctx, q.OrganizationID, q.Destination)
		if err != nil {
			return fmt.Errorf("load hotel candidates: %w", err)
		}
		in.hotels = hotels
		return nil
	})
	g.Go(func() error {
		tours, err := s.directory.DailyToursByCity(gctx, q.OrganizationID, q.Destination)
		if err != nil {
			return fmt.Errorf("load tour candidates: %w", err)
		}
		in.tours = tours
		return nil
	})
	g.Go(func() error {
		entrances, err := s.directory.EntranceFeesByCity(gctx, q.OrganizationID, q.Destination)
		if err != nil {
			return fmt.Errorf("load entrance candidates: %w", err)
		}
		in.entrances = entrances
		return nil
	})
	g.Go(func() error {
		vehicle, err := s.directory.SmallestVehicleForPax(gctx, q.OrganizationID, pax)
		if err != nil {
			var appErr *apperr.Error
			if errors.As(err, &appErr) && appErr.Kind == apperr.KindNotFound {
				return nil
			}
			return fmt.Errorf("pick transfer vehicle: %w", err)
		}
		in.vehicle = &vehicle
		return nil
	})
	if err := g.Wait(); err != nil {
		return plannerInputs{}, err
	}
	return in, nil
}

type plannedActivity struct {
	category    pricing.Category
	supplierID  uuid.UUID
	description string
}

// planItinerary lays out days and unpriced expense lines. The plan is
// deterministic for a given quotation and candidate set.
func planItinerary(q repository.Quotation, in plannerInputs) ([]repository.ItineraryDay, []repository.Expense) {
	pax := int32(q.Adults) + int32(q.Children)
	hotel := in.hotels[0]

	activities := make([]plannedActivity, 0, len(in.tours)+len(in.entrances))
	for _, t := range in.tours {
		activities = append(activities, plannedActivity{
			category:    pricing.CategoryTour,
			supplierID:  t.ID,
			description: fmt.Sprintf("Daily tour: %s", t.RouteName),
		})
	}
	for _, e := range in.entrances {
		activities = append(activities, plannedActivity{
			category:    pricing.CategoryEntrance,
			supplierID:  e.ID,
			description: fmt.Sprintf("Entrance visit: %s", e.SiteName),
		})
	}

	var days []repository.ItineraryDay
	var expenses []repository.Expense

	dayIndex := 0
	for date := *q.StartDate; !date.After(*q.EndDate); date = date.AddDate(0, 0, 1) {
		day := repository.ItineraryDay{
			ID:             uuid.New(),
			QuotationID:    q.ID,
			OrganizationID: q.OrganizationID,
			DayNumber:      int32(dayIndex + 1),
			Date:           date,
		}
		days = append(days, day)

		sortOrder := int32(0)
		addExpense := func(category pricing.Category, supplierID uuid.UUID, description string, quantity int32) {
			sid := supplierID
			expenses = append(expenses, repository.Expense{
				ID:             uuid.New(),
				DayID:          day.ID,
				QuotationID:    q.ID,
				OrganizationID: q.OrganizationID,
				Category:       string(category),
				SupplierID:     &sid,
				Description:    description,
				Quantity:       quantity,
				Currency:       q.Currency,
				SortOrder:      sortOrder,
			})
			sortOrder++
		}

		first := dayIndex == 0
		last := date.Equal(*q.EndDate)

		if first && in.vehicle != nil {
			addExpense(pricing.CategoryVehicle, in.vehicle.ID, fmt.Sprintf("Arrival transfer (%s)", in.vehicle.Type), 1)
		}
		if len(activities) > 0 {
			a := activities[dayIndex%len(activities)]
			addExpense(a.category, a.supplierID, a.description, pax)
		}
		if !last {
			addExpense(pricing.CategoryHotel, hotel.ID, fmt.Sprintf("Hotel night at %s", hotel.Name), pax)
		}
		if last && in.vehicle != nil {
			addExpense(pricing.CategoryVehicle, in.vehicle.ID, fmt.Sprintf("Departure transfer (%s)", in.vehicle.Type), 1)
		}

		dayIndex++
	}
	return days, expenses
}

// priceGeneratedLines fills unit and total prices in place through the rate
// resolver with the quotation's markup and tax applied. Lines with no
// covering rate, or a rate in another currency, stay at zero.
func (s *Service) priceGeneratedLines(ctx context.Context, q repository.Quotation, days []repository.ItineraryDay, expenses []repository.Expense) error {
	if s.resolver == nil {
		return apperr.Internal("rate resolver is not configured")
	}

	dateByDay := make(map[uuid.UUID]time.Time, len(days))
	for _, d := range days {
		dateByDay[d.ID] = d.Date
	}

	for i := range expenses {
		e := &expenses[i]
		category, ok := pricing.ParseCategory(e.Category)
		if !ok || e.SupplierID == nil {
			continue
		}
		rate, err := s.resolver.Resolve(ctx, q.OrganizationID, category, *e.SupplierID, dateByDay[e.DayID])
		if err != nil {
			if errors.Is(err, pricing.ErrNoRate) {
				continue
			}
			return err
		}
		if rate.Currency != q.Currency {
			continue
		}
		e.UnitMinor = money.Compose(rate.UnitCostMinor, q.MarkupBps, q.TaxBps)
		e.TotalMinor = e.UnitMinor * int64(e.Quantity)
	}
	return nil
}
