package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourdesk_backend/internal/shared/pricing"
	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const hotelRateNotFoundMsg = "hotel rate not found"

// HotelRate is a per-person-per-night cost for one room type in one season.
type HotelRate struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	HotelID        uuid.UUID
	RoomType       string
	ValidFrom      time.Time
	ValidTo        time.Time
	CostMinor      int64
	Currency       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateHotelRateParams struct {
	OrganizationID uuid.UUID
	HotelID        uuid.UUID
	RoomType       string
	ValidFrom      time.Time
	ValidTo        time.Time
	CostMinor      int64
	Currency       string
}

type UpdateHotelRateParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	RoomType       *string
	ValidFrom      *time.Time
	ValidTo        *time.Time
	CostMinor      *int64
	Currency       *string
}

type HotelRateList struct {
	Items      []HotelRate
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const hotelRateColumns = `id, organization_id, hotel_id, room_type, valid_from, valid_to, cost_minor, currency, created_at, updated_at`

func scanHotelRate(row pgx.Row) (HotelRate, error) {
	var r HotelRate
	err := row.Scan(
		&r.ID,
		&r.OrganizationID,
		&r.HotelID,
		&r.RoomType,
		&r.ValidFrom,
		&r.ValidTo,
		&r.CostMinor,
		&r.Currency,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

func (r *Repository) CreateHotelRate(ctx context.Context, p CreateHotelRateParams) (HotelRate, error) {
	rate, err := scanHotelRate(r.pool.QueryRow(ctx, `
		INSERT INTO td_hotel_rates (organization_id, hotel_id, room_type, valid_from, valid_to, cost_minor, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+hotelRateColumns+`
	`, p.OrganizationID, p.HotelID, p.RoomType, p.ValidFrom, p.ValidTo, p.CostMinor, p.Currency))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return HotelRate{}, apperr.BadRequest("unknown hotel")
		}
		return HotelRate{}, fmt.Errorf("create hotel rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) GetHotelRate(ctx context.Context, id, organizationID uuid.UUID) (HotelRate, error) {
	rate, err := scanHotelRate(r.pool.QueryRow(ctx, `
		SELECT `+hotelRateColumns+`
		FROM td_hotel_rates
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return HotelRate{}, apperr.NotFound(hotelRateNotFoundMsg)
		}
		return HotelRate{}, fmt.Errorf("get hotel rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) UpdateHotelRate(ctx context.Context, p UpdateHotelRateParams) (HotelRate, error) {
	rate, err := scanHotelRate(r.pool.QueryRow(ctx, `
		UPDATE td_hotel_rates
		SET room_type = COALESCE($3, room_type),
			valid_from = COALESCE($4, valid_from),
			valid_to = COALESCE($5, valid_to),
			cost_minor = COALESCE($6, cost_minor),
			currency = COALESCE($7, currency),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+hotelRateColumns+`
	`, p.ID, p.OrganizationID, p.RoomType, p.ValidFrom, p.ValidTo, p.CostMinor, p.Currency))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return HotelRate{}, apperr.NotFound(hotelRateNotFoundMsg)
		}
		return HotelRate{}, fmt.Errorf("update hotel rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) DeleteHotelRate(ctx context.Context, id, organizationID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM td_hotel_rates WHERE id = $1 AND organization_id = $2
	`, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete hotel rate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(hotelRateNotFoundMsg)
	}
	return nil
}

const listHotelRatesBaseQuery = `
	FROM td_hotel_rates
	WHERE organization_id = $1
		AND ($2::uuid IS NULL OR hotel_id = $2)
`

func (r *Repository) ListHotelRates(ctx context.Context, params RateListParams) (HotelRateList, error) {
	args := []interface{}{params.OrganizationID, params.SupplierID}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+listHotelRatesBaseQuery, args...).Scan(&total); err != nil {
		return HotelRateList{}, fmt.Errorf("count hotel rates: %w", err)
	}

	pg := resolvePage(params.Page, params.PageSize)
	args = append(args, pg.size, pg.offset)

	rows, err := r.pool.Query(ctx, `
		SELECT `+hotelRateColumns+listHotelRatesBaseQuery+`
		ORDER BY valid_from DESC, created_at DESC
		LIMIT $3 OFFSET $4
	`, args...)
	if err != nil {
		return HotelRateList{}, fmt.Errorf("list hotel rates: %w", err)
	}
	defer rows.Close()

	items := make([]HotelRate, 0)
	for rows.Next() {
		rate, err := scanHotelRate(rows)
		if err != nil {
			return HotelRateList{}, fmt.Errorf("scan hotel rate: %w", err)
		}
		items = append(items, rate)
	}
	if rows.Err() != nil {
		return HotelRateList{}, rows.Err()
	}

	return HotelRateList{
		Items:      items,
		Total:      total,
		Page:       pg.number,
		PageSize:   pg.size,
		TotalPages: totalPages(total, pg.size),
	}, nil
}

// Among seasons covering the date the latest valid_from wins; within one
// season the cheapest room prices the line, a pinned rate id overrides both.
const resolveHotelRateQuery = `
	SELECT id, cost_minor, currency
	FROM td_hotel_rates
	WHERE organization_id = $1 AND hotel_id = $2 AND valid_from <= $3 AND valid_to >= $3
	ORDER BY valid_from DESC, cost_minor ASC, created_at DESC
	LIMIT 1
`

func (r *Repository) ResolveHotelRate(ctx context.Context, organizationID, hotelID uuid.UUID, serviceDate time.Time) (pricing.Rate, error) {
	var rate pricing.Rate
	err := r.pool.QueryRow(ctx, resolveHotelRateQuery, organizationID, hotelID, serviceDate).
		Scan(&rate.ID, &rate.UnitCostMinor, &rate.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pricing.Rate{}, pricing.ErrNoRate
		}
		return pricing.Rate{}, fmt.Errorf("resolve hotel rate: %w", err)
	}
	return rate, nil
}
