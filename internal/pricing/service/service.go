// Package service validates season windows and dispatches rate resolution
// per category. Costs stay in integer minor units end to end.
package service

import (
	"context"
	"strings"
	"time"

	"tourdesk_backend/internal/shared/pricing"
	"tourdesk_backend/internal/pricing/repository"
	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Resolve implements pricing.Resolver. Generic lines have no rate table and
// always miss.
func (s *Service) Resolve(ctx context.Context, organizationID uuid.UUID, category pricing.Category, supplierID uuid.UUID, serviceDate time.Time) (pricing.Rate, error) {
	switch category {
	case pricing.CategoryHotel:
		return s.repo.ResolveHotelRate(ctx, organizationID, supplierID, serviceDate)
	case pricing.CategoryGuide:
		return s.repo.ResolveGuideRate(ctx, organizationID, supplierID, serviceDate)
	case pricing.CategoryVehicle:
		return s.repo.ResolveVehicleRate(ctx, organizationID, supplierID, serviceDate)
	case pricing.CategoryEntrance:
		return s.repo.ResolveEntranceRate(ctx, organizationID, supplierID, serviceDate)
	case pricing.CategoryTour:
		return s.repo.ResolveTourRate(ctx, organizationID, supplierID, serviceDate)
	default:
		return pricing.Rate{}, pricing.ErrNoRate
	}
}

// RateByID implements pricing.Resolver. Used when a quotation pins the exact
// rate row instead of resolving by date.
func (s *Service) RateByID(ctx context.Context, organizationID uuid.UUID, category pricing.Category, rateID uuid.UUID) (pricing.Rate, error) {
	switch category {
	case pricing.CategoryHotel:
		r, err := s.repo.GetHotelRate(ctx, rateID, organizationID)
		if err != nil {
			return pricing.Rate{}, err
		}
		return pricing.Rate{ID: r.ID, UnitCostMinor: r.CostMinor, Currency: r.Currency}, nil
	case pricing.CategoryGuide:
		r, err := s.repo.GetGuideRate(ctx, rateID, organizationID)
		if err != nil {
			return pricing.Rate{}, err
		}
		return pricing.Rate{ID: r.ID, UnitCostMinor: r.CostMinor, Currency: r.Currency}, nil
	case pricing.CategoryVehicle:
		r, err := s.repo.GetVehicleRate(ctx, rateID, organizationID)
		if err != nil {
			return pricing.Rate{}, err
		}
		return pricing.Rate{ID: r.ID, UnitCostMinor: r.CostMinor, Currency: r.Currency}, nil
	case pricing.CategoryEntrance:
		r, err := s.repo.GetEntranceRate(ctx, rateID, organizationID)
		if err != nil {
			return pricing.Rate{}, err
		}
		return pricing.Rate{ID: r.ID, UnitCostMinor: r.CostMinor, Currency: r.Currency}, nil
	case pricing.CategoryTour:
		r, err := s.repo.GetTourRate(ctx, rateID, organizationID)
		if err != nil {
			return pricing.Rate{}, err
		}
		return pricing.Rate{ID: r.ID, UnitCostMinor: r.CostMinor, Currency: r.Currency}, nil
	default:
		return pricing.Rate{}, pricing.ErrNoRate
	}
}

var _ pricing.Resolver = (*Service)(nil)

// Hotel rates

func (s *Service) CreateHotelRate(ctx context.Context, p repository.CreateHotelRateParams) (repository.HotelRate, error) {
	if err := validateSeason(p.ValidFrom, p.ValidTo); err != nil {
		return repository.HotelRate{}, err
	}
	p.Currency = strings.ToUpper(p.Currency)
	return s.repo.CreateHotelRate(ctx, p)
}

func (s *Service) GetHotelRate(ctx context.Context, id, organizationID uuid.UUID) (repository.HotelRate, error) {
	return s.repo.GetHotelRate(ctx, id, organizationID)
}

func (s *Service) UpdateHotelRate(ctx context.Context, p repository.UpdateHotelRateParams) (repository.HotelRate, error) {
	current, err := s.repo.GetHotelRate(ctx, p.ID, p.OrganizationID)
	if err != nil {
		return repository.HotelRate{}, err
	}
	if err := validateSeason(effectiveSeason(current.ValidFrom, current.ValidTo, p.ValidFrom, p.ValidTo)); err != nil {
		return repository.HotelRate{}, err
	}
	p.Currency = upperPtr(p.Currency)
	return s.repo.UpdateHotelRate(ctx, p)
}

func (s *Service) DeleteHotelRate(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.DeleteHotelRate(ctx, id, organizationID)
}

func (s *Service) ListHotelRates(ctx context.Context, params repository.RateListParams) (repository.HotelRateList, error) {
	return s.repo.ListHotelRates(ctx, params)
}

// Guide rates

func (s *Service) CreateGuideRate(ctx context.Context, p repository.CreateGuideRateParams) (repository.GuideRate, error) {
	if err := validateSeason(p.ValidFrom, p.ValidTo); err != nil {
		return repository.GuideRate{}, err
	}
	p.Currency = strings.ToUpper(p.Currency)
	return s.repo.CreateGuideRate(ctx, p)
}

func (s *Service) GetGuideRate(ctx context.Context, id, organizationID uuid.UUID) (repository.GuideRate, error) {
	return s.repo.GetGuideRate(ctx, id, organizationID)
}

func (s *Service) UpdateGuideRate(ctx context.Context, p repository.UpdateGuideRateParams) (repository.GuideRate, error) {
	current, err := s.repo.GetGuideRate(ctx, p.ID, p.OrganizationID)
	if err != nil {
		return repository.GuideRate{}, err
	}
	if err := validateSeason(effectiveSeason(current.ValidFrom, current.ValidTo, p.ValidFrom, p.ValidTo)); err != nil {
		return repository.GuideRate{}, err
	}
	p.Currency = upperPtr(p.Currency)
	return s.repo.UpdateGuideRate(ctx, p)
}

func (s *Service) DeleteGuideRate(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.DeleteGuideRate(ctx, id, organizationID)
}

func (s *Service) ListGuideRates(ctx context.Context, params repository.RateListParams) (repository.GuideRateList, error) {
	return s.repo.ListGuideRates(ctx, params)
}

// Vehicle rates

func (s *Service) CreateVehicleRate(ctx context.Context, p repository.CreateVehicleRateParams) (repository.VehicleRate, error) {
	if err := validateSeason(p.ValidFrom, p.ValidTo); err != nil {
		return repository.VehicleRate{}, err
	}
	p.Currency = strings.ToUpper(p.Currency)
	return s.repo.CreateVehicleRate(ctx, p)
}

func (s *Service) GetVehicleRate(ctx context.Context, id, organizationID uuid.UUID) (repository.VehicleRate, error) {
	return s.repo.GetVehicleRate(ctx, id, organizationID)
}

func (s *Service) UpdateVehicleRate(ctx context.Context, p repository.UpdateVehicleRateParams) (repository.VehicleRate, error) {
	current, err := s.repo.GetVehicleRate(ctx, p.ID, p.OrganizationID)
	if err != nil {
		return repository.VehicleRate{}, err
	}
	if err := validateSeason(effectiveSeason(current.ValidFrom, current.ValidTo, p.ValidFrom, p.ValidTo)); err != nil {
		return repository.VehicleRate{}, err
	}
	p.Currency = upperPtr(p.Currency)
	return s.repo.UpdateVehicleRate(ctx, p)
}

func (s *Service) DeleteVehicleRate(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.DeleteVehicleRate(ctx, id, organizationID)
}

func (s *Service) ListVehicleRates(ctx context.Context, params repository.RateListParams) (repository.VehicleRateList, error) {
	return s.repo.ListVehicleRates(ctx, params)
}

// Entrance rates

func (s *Service) CreateEntranceRate(ctx context.Context, p repository.CreateEntranceRateParams) (repository.EntranceRate, error) {
	if err := validateSeason(p.ValidFrom, p.ValidTo); err != nil {
		return repository.EntranceRate{}, err
	}
	p.Currency = strings.ToUpper(p.Currency)
	return s.repo.CreateEntranceRate(ctx, p)
}

func (s *Service) GetEntranceRate(ctx context.Context, id, organizationID uuid.UUID) (repository.EntranceRate, error) {
	return s.repo.GetEntranceRate(ctx, id, organizationID)
}

func (s *Service) UpdateEntranceRate(ctx context.Context, p repository.UpdateEntranceRateParams) (repository.EntranceRate, error) {
	current, err := s.repo.GetEntranceRate(ctx, p.ID, p.OrganizationID)
	if err != nil {
		return repository.EntranceRate{}, err
	}
	if err := validateSeason(effectiveSeason(current.ValidFrom, current.ValidTo, p.ValidFrom, p.ValidTo)); err != nil {
		return repository.EntranceRate{}, err
	}
	p.Currency = upperPtr(p.Currency)
	return s.repo.UpdateEntranceRate(ctx, p)
}

func (s *Service) DeleteEntranceRate(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.DeleteEntranceRate(ctx, id, organizationID)
}

func (s *Service) ListEntranceRates(ctx context.Context, params repository.RateListParams) (repository.EntranceRateList, error) {
	return s.repo.ListEntranceRates(ctx, params)
}

// Tour rates

func (s *Service) CreateTourRate(ctx context.Context, p repository.CreateTourRateParams) (repository.TourRate, error) {
	if err := validateSeason(p.ValidFrom, p.ValidTo); err != nil {
		return repository.TourRate{}, err
	}
	p.Currency = strings.ToUpper(p.Currency)
	return s.repo.CreateTourRate(ctx, p)
}

func (s *Service) GetTourRate(ctx context.Context, id, organizationID uuid.UUID) (repository.TourRate, error) {
	return s.repo.GetTourRate(ctx, id, organizationID)
}

func (s *Service) UpdateTourRate(ctx context.Context, p repository.UpdateTourRateParams) (repository.TourRate, error) {
	current, err := s.repo.GetTourRate(ctx, p.ID, p.OrganizationID)
	if err != nil {
		return repository.TourRate{}, err
	}
	if err := validateSeason(effectiveSeason(current.ValidFrom, current.ValidTo, p.ValidFrom, p.ValidTo)); err != nil {
		return repository.TourRate{}, err
	}
	p.Currency = upperPtr(p.Currency)
	return s.repo.UpdateTourRate(ctx, p)
}

func (s *Service) DeleteTourRate(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.DeleteTourRate(ctx, id, organizationID)
}

func (s *Service) ListTourRates(ctx context.Context, params repository.RateListParams) (repository.TourRateList, error) {
	return s.repo.ListTourRates(ctx, params)
}

func validateSeason(from, to time.Time) error {
	if to.Before(from) {
		return apperr.BadRequest("season end must not be before season start")
	}
	return nil
}

// effectiveSeason merges a partial update onto the stored window so the
// range check always sees both ends.
func effectiveSeason(currentFrom, currentTo time.Time, newFrom, newTo *time.Time) (time.Time, time.Time) {
	from, to := currentFrom, currentTo
	if newFrom != nil {
		from = *newFrom
	}
	if newTo != nil {
		to = *newTo
	}
	return from, to
}

func upperPtr(value *string) *string {
	if value == nil {
		return nil
	}
	upper := strings.ToUpper(*value)
	return &upper
}
