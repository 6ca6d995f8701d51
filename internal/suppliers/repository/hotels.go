package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const hotelNotFoundMsg = "hotel not found"

type Hotel struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	City           string
	Stars          int16
	BoardType      string
	Phone          *string
	Email          *string
	ArchivedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateHotelParams struct {
	OrganizationID uuid.UUID
	Name           string
	City           string
	Stars          int16
	BoardType      string
	Phone          *string
	Email          *string
}

type UpdateHotelParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           *string
	City           *string
	Stars          *int16
	BoardType      *string
	Phone          *string
	Email          *string
}

type HotelList struct {
	Items      []Hotel
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const hotelColumns = `id, organization_id, name, city, stars, board_type, phone, email, archived_at, created_at, updated_at`

func scanHotel(row pgx.Row) (Hotel, error) {
	var h Hotel
	err := row.Scan(
		&h.ID,
		&h.OrganizationID,
		&h.Name,
		&h.City,
		&h.Stars,
		&h.BoardType,
		&h.Phone,
		&h.Email,
		&h.ArchivedAt,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	return h, err
}

func (r *Repository) CreateHotel(ctx context.Context, p CreateHotelParams) (Hotel, error) {
	hotel, err := scanHotel(r.pool.QueryRow(ctx, `
		INSERT INTO td_hotels (organization_id, name, city, stars, board_type, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+hotelColumns+`
	`, p.OrganizationID, p.Name, p.City, p.Stars, p.BoardType, p.Phone, p.Email))
	if err != nil {
		return Hotel{}, fmt.Errorf("create hotel: %w", err)
	}
	return hotel, nil
}

func (r *Repository) GetHotel(ctx context.Context, id, organizationID uuid.UUID) (Hotel, error) {
	hotel, err := scanHotel(r.pool.QueryRow(ctx, `
		SELECT `+hotelColumns+`
		FROM td_hotels
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Hotel{}, apperr.NotFound(hotelNotFoundMsg)
		}
		return Hotel{}, fmt.Errorf("get hotel: %w", err)
	}
	return hotel, nil
}

func (r *Repository) UpdateHotel(ctx context.Context, p UpdateHotelParams) (Hotel, error) {
	hotel, err := scanHotel(r.pool.QueryRow(ctx, `
		UPDATE td_hotels
		SET name = COALESCE($3, name),
			city = COALESCE($4, city),
			stars = COALESCE($5, stars),
			board_type = COALESCE($6, board_type),
			phone = COALESCE($7, phone),
			email = COALESCE($8, email),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+hotelColumns+`
	`, p.ID, p.OrganizationID, p.Name, p.City, p.Stars, p.BoardType, p.Phone, p.Email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Hotel{}, apperr.NotFound(hotelNotFoundMsg)
		}
		return Hotel{}, fmt.Errorf("update hotel: %w", err)
	}
	return hotel, nil
}

func (r *Repository) ArchiveHotel(ctx context.Context, id, organizationID uuid.UUID) error {
	return r.setHotelArchived(ctx, id, organizationID, true)
}

func (r *Repository) RestoreHotel(ctx context.Context, id, organizationID uuid.UUID) error {
	return r.setHotelArchived(ctx, id, organizationID, false)
}

func (r *Repository) setHotelArchived(ctx context.Context, id, organizationID uuid.UUID, archived bool) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE td_hotels
		SET archived_at = CASE WHEN $3 THEN now() ELSE NULL END, updated_at = now()
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID, archived)
	if err != nil {
		return fmt.Errorf("archive hotel: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(hotelNotFoundMsg)
	}
	return nil
}

const listHotelsBaseQuery = `
	FROM td_hotels
	WHERE organization_id = $1
		AND ($2::text IS NULL OR name ILIKE $2)
		AND ($3::text IS NULL OR city ILIKE $3)
		AND ($4::boolean OR archived_at IS NULL)
`

func (r *Repository) ListHotels(ctx context.Context, params ListParams) (HotelList, error) {
	args := []interface{}{params.OrganizationID, optionalSearch(params.Search), optionalText(params.City), params.IncludeArchived}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+listHotelsBaseQuery, args...).Scan(&total); err != nil {
		return HotelList{}, fmt.Errorf("count hotels: %w", err)
	}

	page := resolvePage(params.Page, params.PageSize)
	args = append(args, page.Size, page.Offset)

	rows, err := r.pool.Query(ctx, `
		SELECT `+hotelColumns+listHotelsBaseQuery+`
		ORDER BY name ASC
		LIMIT $5 OFFSET $6
	`, args...)
	if err != nil {
		return HotelList{}, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	items := make([]Hotel, 0)
	for rows.Next() {
		hotel, err := scanHotel(rows)
		if err != nil {
			return HotelList{}, fmt.Errorf("scan hotel: %w", err)
		}
		items = append(items, hotel)
	}
	if rows.Err() != nil {
		return HotelList{}, rows.Err()
	}

	return HotelList{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: totalPages(total, page.Size),
	}, nil
}

// HotelsByCity returns active hotels in a city, used by the itinerary planner.
func (r *Repository) HotelsByCity(ctx context.Context, organizationID uuid.UUID, city string) ([]Hotel, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+hotelColumns+`
		FROM td_hotels
		WHERE organization_id = $1 AND city ILIKE $2 AND archived_at IS NULL
		ORDER BY stars DESC, name ASC
	`, organizationID, city)
	if err != nil {
		return nil, fmt.Errorf("hotels by city: %w", err)
	}
	defer rows.Close()

	items := make([]Hotel, 0)
	for rows.Next() {
		hotel, err := scanHotel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		items = append(items, hotel)
	}
	return items, rows.Err()
}
