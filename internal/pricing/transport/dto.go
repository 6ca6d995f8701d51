// Package transport defines the wire types for the rate tables. Season
// bounds travel as plain dates (2006-01-02); costs are integer minor units.
package transport

import (
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// Hotel rates

type CreateHotelRateRequest struct {
	HotelID   uuid.UUID `json:"hotel_id" validate:"required"`
	RoomType  string    `json:"room_type" validate:"required,oneof=single double triple suite"`
	ValidFrom string    `json:"valid_from" validate:"required,datetime=2006-01-02"`
	ValidTo   string    `json:"valid_to" validate:"required,datetime=2006-01-02"`
	CostMinor int64     `json:"cost_minor" validate:"gte=0"`
	Currency  string    `json:"currency" validate:"required,currency"`
}

type UpdateHotelRateRequest struct {
	RoomType  *string `json:"room_type" validate:"omitempty,oneof=single double triple suite"`
	ValidFrom *string `json:"valid_from" validate:"omitempty,datetime=2006-01-02"`
	ValidTo   *string `json:"valid_to" validate:"omitempty,datetime=2006-01-02"`
	CostMinor *int64  `json:"cost_minor" validate:"omitempty,gte=0"`
	Currency  *string `json:"currency" validate:"omitempty,currency"`
}

type HotelRateResponse struct {
	ID        string    `json:"id"`
	HotelID   string    `json:"hotel_id"`
	RoomType  string    `json:"room_type"`
	ValidFrom string    `json:"valid_from"`
	ValidTo   string    `json:"valid_to"`
	CostMinor int64     `json:"cost_minor"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListHotelRatesResponse struct {
	Items      []HotelRateResponse `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
}

// Guide rates

type CreateGuideRateRequest struct {
	GuideID   uuid.UUID `json:"guide_id" validate:"required"`
	ValidFrom string    `json:"valid_from" validate:"required,datetime=2006-01-02"`
	ValidTo   string    `json:"valid_to" validate:"required,datetime=2006-01-02"`
	CostMinor int64     `json:"cost_minor" validate:"gte=0"`
	Currency  string    `json:"currency" validate:"required,currency"`
}

type UpdateGuideRateRequest struct {
	ValidFrom *string `json:"valid_from" validate:"omitempty,datetime=2006-01-02"`
	ValidTo   *string `json:"valid_to" validate:"omitempty,datetime=2006-01-02"`
	CostMinor *int64  `json:"cost_minor" validate:"omitempty,gte=0"`
	Currency  *string `json:"currency" validate:"omitempty,currency"`
}

type GuideRateResponse struct {
	ID        string    `json:"id"`
	GuideID   string    `json:"guide_id"`
	ValidFrom string    `json:"valid_from"`
	ValidTo   string    `json:"valid_to"`
	CostMinor int64     `json:"cost_minor"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListGuideRatesResponse struct {
	Items      []GuideRateResponse `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
}

// Vehicle rates

type CreateVehicleRateRequest struct {
	VehicleID uuid.UUID `json:"vehicle_id" validate:"required"`
	ValidFrom string    `json:"valid_from" validate:"required,datetime=2006-01-02"`
	ValidTo   string    `json:"valid_to" validate:"required,datetime=2006-01-02"`
	CostMinor int64     `json:"cost_minor" validate:"gte=0"`
	Currency  string    `json:"currency" validate:"required,currency"`
}

type UpdateVehicleRateRequest struct {
	ValidFrom *string `json:"valid_from" validate:"omitempty,datetime=2006-01-02"`
	ValidTo   *string `json:"valid_to" validate:"omitempty,datetime=2006-01-02"`
	CostMinor *int64  `json:"cost_minor" validate:"omitempty,gte=0"`
	Currency  *string `json:"currency" validate:"omitempty,currency"`
}

type VehicleRateResponse struct {
	ID        string    `json:"id"`
	VehicleID string    `json:"vehicle_id"`
	ValidFrom string    `json:"valid_from"`
	ValidTo   string    `json:"valid_to"`
	CostMinor int64     `json:"cost_minor"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListVehicleRatesResponse struct {
	Items      []VehicleRateResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// Entrance rates

type CreateEntranceRateRequest struct {
	EntranceFeeID uuid.UUID `json:"entrance_fee_id" validate:"required"`
	ValidFrom     string    `json:"valid_from" validate:"required,datetime=2006-01-02"`
	ValidTo       string    `json:"valid_to" validate:"required,datetime=2006-01-02"`
	CostMinor     int64     `json:"cost_minor" validate:"gte=0"`
	Currency      string    `json:"currency" validate:"required,currency"`
}

type UpdateEntranceRateRequest struct {
	ValidFrom *string `json:"valid_from" validate:"omitempty,datetime=2006-01-02"`
	ValidTo   *string `json:"valid_to" validate:"omitempty,datetime=2006-01-02"`
	CostMinor *int64  `json:"cost_minor" validate:"omitempty,gte=0"`
	Currency  *string `json:"currency" validate:"omitempty,currency"`
}

type EntranceRateResponse struct {
	ID            string    `json:"id"`
	EntranceFeeID string    `json:"entrance_fee_id"`
	ValidFrom     string    `json:"valid_from"`
	ValidTo       string    `json:"valid_to"`
	CostMinor     int64     `json:"cost_minor"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ListEntranceRatesResponse struct {
	Items      []EntranceRateResponse `json:"items"`
	Total      int                    `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
}

// Tour rates

type CreateTourRateRequest struct {
	DailyTourID uuid.UUID `json:"daily_tour_id" validate:"required"`
	ValidFrom   string    `json:"valid_from" validate:"required,datetime=2006-01-02"`
	ValidTo     string    `json:"valid_to" validate:"required,datetime=2006-01-02"`
	CostMinor   int64     `json:"cost_minor" validate:"gte=0"`
	Currency    string    `json:"currency" validate:"required,currency"`
}

type UpdateTourRateRequest struct {
	ValidFrom *string `json:"valid_from" validate:"omitempty,datetime=2006-01-02"`
	ValidTo   *string `json:"valid_to" validate:"omitempty,datetime=2006-01-02"`
	CostMinor *int64  `json:"cost_minor" validate:"omitempty,gte=0"`
	Currency  *string `json:"currency" validate:"omitempty,currency"`
}

type TourRateResponse struct {
	ID          string    `json:"id"`
	DailyTourID string    `json:"daily_tour_id"`
	ValidFrom   string    `json:"valid_from"`
	ValidTo     string    `json:"valid_to"`
	CostMinor   int64     `json:"cost_minor"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListTourRatesResponse struct {
	Items      []TourRateResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}
