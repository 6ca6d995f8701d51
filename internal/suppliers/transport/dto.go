package transport

import "time"

// Hotels

type CreateHotelRequest struct {
	Name      string  `json:"name" validate:"required,min=2,max=200"`
	City      string  `json:"city" validate:"required,min=2,max=100"`
	Stars     int16   `json:"stars" validate:"required,min=1,max=5"`
	BoardType string  `json:"board_type" validate:"required,oneof=RO BB HB FB AI"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

type UpdateHotelRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=200"`
	City      *string `json:"city" validate:"omitempty,min=2,max=100"`
	Stars     *int16  `json:"stars" validate:"omitempty,min=1,max=5"`
	BoardType *string `json:"board_type" validate:"omitempty,oneof=RO BB HB FB AI"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

type HotelResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	City       string     `json:"city"`
	Stars      int16      `json:"stars"`
	BoardType  string     `json:"board_type"`
	Phone      *string    `json:"phone,omitempty"`
	Email      *string    `json:"email,omitempty"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type ListHotelsResponse struct {
	Items      []HotelResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// Guides

type CreateGuideRequest struct {
	Name      string   `json:"name" validate:"required,min=2,max=200"`
	City      string   `json:"city" validate:"required,min=2,max=100"`
	Languages []string `json:"languages" validate:"required,min=1,dive,min=2,max=32"`
	Phone     *string  `json:"phone" validate:"omitempty,max=32"`
	Email     *string  `json:"email" validate:"omitempty,email"`
}

type UpdateGuideRequest struct {
	Name      *string  `json:"name" validate:"omitempty,min=2,max=200"`
	City      *string  `json:"city" validate:"omitempty,min=2,max=100"`
	Languages []string `json:"languages" validate:"omitempty,min=1,dive,min=2,max=32"`
	Phone     *string  `json:"phone" validate:"omitempty,max=32"`
	Email     *string  `json:"email" validate:"omitempty,email"`
}

type GuideResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	City       string     `json:"city"`
	Languages  []string   `json:"languages"`
	Phone      *string    `json:"phone,omitempty"`
	Email      *string    `json:"email,omitempty"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type ListGuidesResponse struct {
	Items      []GuideResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// Vehicles

type CreateVehicleRequest struct {
	Type     string  `json:"type" validate:"required,min=2,max=100"`
	Capacity int16   `json:"capacity" validate:"required,min=1,max=100"`
	Plate    string  `json:"plate" validate:"required,min=2,max=20"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
}

type UpdateVehicleRequest struct {
	Type     *string `json:"type" validate:"omitempty,min=2,max=100"`
	Capacity *int16  `json:"capacity" validate:"omitempty,min=1,max=100"`
	Plate    *string `json:"plate" validate:"omitempty,min=2,max=20"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
}

type VehicleResponse struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Capacity   int16      `json:"capacity"`
	Plate      string     `json:"plate"`
	Phone      *string    `json:"phone,omitempty"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type ListVehiclesResponse struct {
	Items      []VehicleResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// Restaurants

type CreateRestaurantRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=200"`
	City    string  `json:"city" validate:"required,min=2,max=100"`
	Cuisine *string `json:"cuisine" validate:"omitempty,max=100"`
	Phone   *string `json:"phone" validate:"omitempty,max=32"`
	Email   *string `json:"email" validate:"omitempty,email"`
}

type UpdateRestaurantRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=200"`
	City    *string `json:"city" validate:"omitempty,min=2,max=100"`
	Cuisine *string `json:"cuisine" validate:"omitempty,max=100"`
	Phone   *string `json:"phone" validate:"omitempty,max=32"`
	Email   *string `json:"email" validate:"omitempty,email"`
}

type RestaurantResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	City       string     `json:"city"`
	Cuisine    *string    `json:"cuisine,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Email      *string    `json:"email,omitempty"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type ListRestaurantsResponse struct {
	Items      []RestaurantResponse `json:"items"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

// Entrance fees

type CreateEntranceFeeRequest struct {
	SiteName string `json:"site_name" validate:"required,min=2,max=200"`
	City     string `json:"city" validate:"required,min=2,max=100"`
}

type UpdateEntranceFeeRequest struct {
	SiteName *string `json:"site_name" validate:"omitempty,min=2,max=200"`
	City     *string `json:"city" validate:"omitempty,min=2,max=100"`
}

type EntranceFeeResponse struct {
	ID         string     `json:"id"`
	SiteName   string     `json:"site_name"`
	City       string     `json:"city"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type ListEntranceFeesResponse struct {
	Items      []EntranceFeeResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// Daily tours

type CreateDailyTourRequest struct {
	RouteName   string  `json:"route_name" validate:"required,min=2,max=200"`
	City        string  `json:"city" validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type UpdateDailyTourRequest struct {
	RouteName   *string `json:"route_name" validate:"omitempty,min=2,max=200"`
	City        *string `json:"city" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type DailyTourResponse struct {
	ID          string     `json:"id"`
	RouteName   string     `json:"route_name"`
	City        string     `json:"city"`
	Description *string    `json:"description,omitempty"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ListDailyToursResponse struct {
	Items      []DailyTourResponse `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
}
