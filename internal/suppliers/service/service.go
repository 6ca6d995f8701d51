// Package service holds business logic for the supplier registries. All
// contact phones are normalized to E.164 before they hit the database so
// the numbers are dialable from the back office without guesswork.
package service

import (
	"context"
	"strings"

	"tourdesk_backend/internal/suppliers/repository"
	"tourdesk_backend/platform/phone"
	"tourdesk_backend/platform/sanitize"

	"github.com/google/uuid"
)

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Hotels

func (s *Service) CreateHotel(ctx context.Context, p repository.CreateHotelParams) (repository.Hotel, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.City = strings.TrimSpace(p.City)
	p.Phone = normalizePhone(p.Phone)
	p.Email = normalizeEmail(p.Email)
	return s.repo.CreateHotel(ctx, p)
}

func (s *Service) GetHotel(ctx context.Context, id, organizationID uuid.UUID) (repository.Hotel, error) {
	return s.repo.GetHotel(ctx, id, organizationID)
}

func (s *Service) UpdateHotel(ctx context.Context, p repository.UpdateHotelParams) (repository.Hotel, error) {
	p.Name = trimPtr(p.Name)
	p.City = trimPtr(p.City)
	p.Phone = normalizePhone(p.Phone)
	p.Email = normalizeEmail(p.Email)
	return s.repo.UpdateHotel(ctx, p)
}

func (s *Service) ArchiveHotel(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.ArchiveHotel(ctx, id, organizationID)
}

func (s *Service) RestoreHotel(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.RestoreHotel(ctx, id, organizationID)
}

func (s *Service) ListHotels(ctx context.Context, params repository.ListParams) (repository.HotelList, error) {
	return s.repo.ListHotels(ctx, params)
}

// Guides

func (s *Service) CreateGuide(ctx context.Context, p repository.CreateGuideParams) (repository.Guide, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.City = strings.TrimSpace(p.City)
	p.Languages = normalizeLanguages(p.Languages)
	p.Phone = normalizePhone(p.Phone)
	p.Email = normalizeEmail(p.Email)
	return s.repo.CreateGuide(ctx, p)
}

func (s *Service) GetGuide(ctx context.Context, id, organizationID uuid.UUID) (repository.Guide, error) {
	return s.repo.GetGuide(ctx, id, organizationID)
}

func (s *Service) UpdateGuide(ctx context.Context, p repository.UpdateGuideParams) (repository.Guide, error) {
	p.Name = trimPtr(p.Name)
	p.City = trimPtr(p.City)
	p.Languages = normalizeLanguages(p.Languages)
	p.Phone = normalizePhone(p.Phone)
	p.Email = normalizeEmail(p.Email)
	return s.repo.UpdateGuide(ctx, p)
}

func (s *Service) ArchiveGuide(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.ArchiveGuide(ctx, id, organizationID)
}

func (s *Service) RestoreGuide(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.RestoreGuide(ctx, id, organizationID)
}

func (s *Service) ListGuides(ctx context.Context, params repository.ListParams) (repository.GuideList, error) {
	return s.repo.ListGuides(ctx, params)
}

// Vehicles

func (s *Service) CreateVehicle(ctx context.Context, p repository.CreateVehicleParams) (repository.Vehicle, error) {
	p.Type = strings.TrimSpace(p.Type)
	p.Plate = normalizePlate(p.Plate)
	p.Phone = normalizePhone(p.Phone)
	return s.repo.CreateVehicle(ctx, p)
}

func (s *Service) GetVehicle(ctx context.Context, id, organizationID uuid.UUID) (repository.Vehicle, error) {
	return s.repo.GetVehicle(ctx, id, organizationID)
}

func (s *Service) UpdateVehicle(ctx context.Context, p repository.UpdateVehicleParams) (repository.Vehicle, error) {
	p.Type = trimPtr(p.Type)
	if p.Plate != nil {
		plate := normalizePlate(*p.Plate)
		p.Plate = &plate
	}
	p.Phone = normalizePhone(p.Phone)
	return s.repo.UpdateVehicle(ctx, p)
}

func (s *Service) ArchiveVehicle(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.ArchiveVehicle(ctx, id, organizationID)
}

func (s *Service) RestoreVehicle(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.RestoreVehicle(ctx, id, organizationID)
}

func (s *Service) ListVehicles(ctx context.Context, params repository.ListParams) (repository.VehicleList, error) {
	return s.repo.ListVehicles(ctx, params)
}

// Restaurants

func (s *Service) CreateRestaurant(ctx context.Context, p repository.CreateRestaurantParams) (repository.Restaurant, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.City = strings.TrimSpace(p.City)
	p.Cuisine = trimPtr(p.Cuisine)
	p.Phone = normalizePhone(p.Phone)
	p.Email = normalizeEmail(p.Email)
	return s.repo.CreateRestaurant(ctx, p)
}

func (s *Service) GetRestaurant(ctx context.Context, id, organizationID uuid.UUID) (repository.Restaurant, error) {
	return s.repo.GetRestaurant(ctx, id, organizationID)
}

func (s *Service) UpdateRestaurant(ctx context.Context, p repository.UpdateRestaurantParams) (repository.Restaurant, error) {
	p.Name = trimPtr(p.Name)
	p.City = trimPtr(p.City)
	p.Cuisine = trimPtr(p.Cuisine)
	p.Phone = normalizePhone(p.Phone)
	p.Email = normalizeEmail(p.Email)
	return s.repo.UpdateRestaurant(ctx, p)
}

func (s *Service) ArchiveRestaurant(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.ArchiveRestaurant(ctx, id, organizationID)
}

func (s *Service) RestoreRestaurant(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.RestoreRestaurant(ctx, id, organizationID)
}

func (s *Service) ListRestaurants(ctx context.Context, params repository.ListParams) (repository.RestaurantList, error) {
	return s.repo.ListRestaurants(ctx, params)
}

// Entrance fees

func (s *Service) CreateEntranceFee(ctx context.Context, p repository.CreateEntranceFeeParams) (repository.EntranceFee, error) {
	p.SiteName = strings.TrimSpace(p.SiteName)
	p.City = strings.TrimSpace(p.City)
	return s.repo.CreateEntranceFee(ctx, p)
}

func (s *Service) GetEntranceFee(ctx context.Context, id, organizationID uuid.UUID) (repository.EntranceFee, error) {
	return s.repo.GetEntranceFee(ctx, id, organizationID)
}

func (s *Service) UpdateEntranceFee(ctx context.Context, p repository.UpdateEntranceFeeParams) (repository.EntranceFee, error) {
	p.SiteName = trimPtr(p.SiteName)
	p.City = trimPtr(p.City)
	return s.repo.UpdateEntranceFee(ctx, p)
}

func (s *Service) ArchiveEntranceFee(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.ArchiveEntranceFee(ctx, id, organizationID)
}

func (s *Service) RestoreEntranceFee(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.RestoreEntranceFee(ctx, id, organizationID)
}

func (s *Service) ListEntranceFees(ctx context.Context, params repository.ListParams) (repository.EntranceFeeList, error) {
	return s.repo.ListEntranceFees(ctx, params)
}

// Daily tours

func (s *Service) CreateDailyTour(ctx context.Context, p repository.CreateDailyTourParams) (repository.DailyTour, error) {
	p.RouteName = strings.TrimSpace(p.RouteName)
	p.City = strings.TrimSpace(p.City)
	p.Description = sanitize.TextPtr(p.Description)
	return s.repo.CreateDailyTour(ctx, p)
}

func (s *Service) GetDailyTour(ctx context.Context, id, organizationID uuid.UUID) (repository.DailyTour, error) {
	return s.repo.GetDailyTour(ctx, id, organizationID)
}

func (s *Service) UpdateDailyTour(ctx context.Context, p repository.UpdateDailyTourParams) (repository.DailyTour, error) {
	p.RouteName = trimPtr(p.RouteName)
	p.City = trimPtr(p.City)
	p.Description = sanitize.TextPtr(p.Description)
	return s.repo.UpdateDailyTour(ctx, p)
}

func (s *Service) ArchiveDailyTour(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.ArchiveDailyTour(ctx, id, organizationID)
}

func (s *Service) RestoreDailyTour(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.RestoreDailyTour(ctx, id, organizationID)
}

func (s *Service) ListDailyTours(ctx context.Context, params repository.ListParams) (repository.DailyTourList, error) {
	return s.repo.ListDailyTours(ctx, params)
}

// Planner lookups, consumed by the itinerary generator.

func (s *Service) HotelsByCity(ctx context.Context, organizationID uuid.UUID, city string) ([]repository.Hotel, error) {
	return s.repo.HotelsByCity(ctx, organizationID, city)
}

func (s *Service) DailyToursByCity(ctx context.Context, organizationID uuid.UUID, city string) ([]repository.DailyTour, error) {
	return s.repo.DailyToursByCity(ctx, organizationID, city)
}

func (s *Service) EntranceFeesByCity(ctx context.Context, organizationID uuid.UUID, city string) ([]repository.EntranceFee, error) {
	return s.repo.EntranceFeesByCity(ctx, organizationID, city)
}

func (s *Service) SmallestVehicleForPax(ctx context.Context, organizationID uuid.UUID, pax int) (repository.Vehicle, error) {
	return s.repo.SmallestVehicleForPax(ctx, organizationID, pax)
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	lowered := strings.ToLower(strings.TrimSpace(*email))
	return &lowered
}

func normalizePhone(raw *string) *string {
	if raw == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*raw)
	return &normalized
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), " "))
}

func normalizeLanguages(langs []string) []string {
	if langs == nil {
		return nil
	}
	out := make([]string, 0, len(langs))
	for _, lang := range langs {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == "" {
			continue
		}
		out = append(out, lang)
	}
	return out
}
