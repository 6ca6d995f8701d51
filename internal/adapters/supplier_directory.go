package adapters

import (
	"context"

	quotsvc "tourdesk_backend/internal/quotations/service"
	suprepo "tourdesk_backend/internal/suppliers/repository"

	"github.com/google/uuid"
)

// SupplierCatalog is the narrow slice of the suppliers service the
// itinerary planner reads.
type SupplierCatalog interface {
	HotelsByCity(ctx context.Context, organizationID uuid.UUID, city string) ([]suprepo.Hotel, error)
	DailyToursByCity(ctx context.Context, organizationID uuid.UUID, city string) ([]suprepo.DailyTour, error)
	EntranceFeesByCity(ctx context.Context, organizationID uuid.UUID, city string) ([]suprepo.EntranceFee, error)
	SmallestVehicleForPax(ctx context.Context, organizationID uuid.UUID, pax int) (suprepo.Vehicle, error)
}

// SupplierDirectoryAdapter implements quotations/service.SupplierDirectory
// on top of the supplier catalog. Hotels arrive best-rated first, so the
// planner can take the head of the list.
type SupplierDirectoryAdapter struct {
	catalog SupplierCatalog
}

// NewSupplierDirectoryAdapter creates a new adapter.
func NewSupplierDirectoryAdapter(catalog SupplierCatalog) *SupplierDirectoryAdapter {
	return &SupplierDirectoryAdapter{catalog: catalog}
}

func (a *SupplierDirectoryAdapter) HotelsByCity(ctx context.Context, organizationID uuid.UUID, city string) ([]quotsvc.HotelOption, error) {
	hotels, err := a.catalog.HotelsByCity(ctx, organizationID, city)
	if err != nil {
		return nil, err
	}
	options := make([]quotsvc.HotelOption, 0, len(hotels))
	for _, h := range hotels {
		options = append(options, quotsvc.HotelOption{ID: h.ID, Name: h.Name, Stars: h.Stars})
	}
	return options, nil
}

func (a *SupplierDirectoryAdapter) DailyToursByCity(ctx context.Context, organizationID uuid.UUID, city string) ([]quotsvc.TourOption, error) {
	tours, err := a.catalog.DailyToursByCity(ctx, organizationID, city)
	if err != nil {
		return nil, err
	}
	options := make([]quotsvc.TourOption, 0, len(tours))
	for _, t := range tours {
		options = append(options, quotsvc.TourOption{ID: t.ID, RouteName: t.RouteName})
	}
	return options, nil
}

func (a *SupplierDirectoryAdapter) EntranceFeesByCity(ctx context.Context, organizationID uuid.UUID, city string) ([]quotsvc.EntranceOption, error) {
	fees, err := a.catalog.EntranceFeesByCity(ctx, organizationID, city)
	if err != nil {
		return nil, err
	}
	options := make([]quotsvc.EntranceOption, 0, len(fees))
	for _, f := range fees {
		options = append(options, quotsvc.EntranceOption{ID: f.ID, SiteName: f.SiteName})
	}
	return options, nil
}

func (a *SupplierDirectoryAdapter) SmallestVehicleForPax(ctx context.Context, organizationID uuid.UUID, pax int) (quotsvc.VehicleOption, error) {
	vehicle, err := a.catalog.SmallestVehicleForPax(ctx, organizationID, pax)
	if err != nil {
		return quotsvc.VehicleOption{}, err
	}
	return quotsvc.VehicleOption{ID: vehicle.ID, Type: vehicle.Type, Capacity: vehicle.Capacity}, nil
}

// Compile-time check.
var _ quotsvc.SupplierDirectory = (*SupplierDirectoryAdapter)(nil)
