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

const tourRateNotFoundMsg = "tour rate not found"

// TourRate is a per-person cost for one daily tour in one season.
type TourRate struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	DailyTourID    uuid.UUID
	ValidFrom      time.Time
	ValidTo        time.Time
	CostMinor      int64
	Currency       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateTourRateParams struct {
	OrganizationID uuid.UUID
	DailyTourID    uuid.UUID
	ValidFrom      time.Time
	ValidTo        time.Time
	CostMinor      int64
	Currency       string
}

type UpdateTourRateParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	ValidFrom      *time.Time
	ValidTo        *time.Time
	CostMinor      *int64
	Currency       *string
}

type TourRateList struct {
	Items      []TourRate
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const tourRateColumns = `id, organization_id, daily_tour_id, valid_from, valid_to, cost_minor, currency, created_at, updated_at`

func scanTourRate(row pgx.Row) (TourRate, error) {
	var r TourRate
	err := row.Scan(
		&r.ID,
		&r.OrganizationID,
		&r.DailyTourID,
		&r.ValidFrom,
		&r.ValidTo,
		&r.CostMinor,
		&r.Currency,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

func (r *Repository) CreateTourRate(ctx context.Context, p CreateTourRateParams) (TourRate, error) {
	rate, err := scanTourRate(r.pool.QueryRow(ctx, `
		INSERT INTO td_tour_rates (organization_id, daily_tour_id, valid_from, valid_to, cost_minor, currency)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+tourRateColumns+`
	`, p.OrganizationID, p.DailyTourID, p.ValidFrom, p.ValidTo, p.CostMinor, p.Currency))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return TourRate{}, apperr.BadRequest("unknown daily tour")
		}
		return TourRate{}, fmt.Errorf("create tour rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) GetTourRate(ctx context.Context, id, organizationID uuid.UUID) (TourRate, error) {
	rate, err := scanTourRate(r.pool.QueryRow(ctx, `
		SELECT `+tourRateColumns+`
		FROM td_tour_rates
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TourRate{}, apperr.NotFound(tourRateNotFoundMsg)
		}
		return TourRate{}, fmt.Errorf("get tour rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) UpdateTourRate(ctx context.Context, p UpdateTourRateParams) (TourRate, error) {
	rate, err := scanTourRate(r.pool.QueryRow(ctx, `
		UPDATE td_tour_rates
		SET valid_from = COALESCE($3, valid_from),
			valid_to = COALESCE($4, valid_to),
			cost_minor = COALESCE($5, cost_minor),
			currency = COALESCE($6, currency),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+tourRateColumns+`
	`, p.ID, p.OrganizationID, p.ValidFrom, p.ValidTo, p.CostMinor, p.Currency))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TourRate{}, apperr.NotFound(tourRateNotFoundMsg)
		}
		return TourRate{}, fmt.Errorf("update tour rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) DeleteTourRate(ctx context.Context, id, organizationID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM td_tour_rates WHERE id = $1 AND organization_id = $2
	`, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete tour rate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(tourRateNotFoundMsg)
	}
	return nil
}

const listTourRatesBaseQuery = `
	FROM td_tour_rates
	WHERE organization_id = $1
		AND ($2::uuid IS NULL OR daily_tour_id = $2)
`

func (r *Repository) ListTourRates(ctx context.Context, params RateListParams) (TourRateList, error) {
	args := []interface{}{params.OrganizationID, params.SupplierID}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+listTourRatesBaseQuery, args...).Scan(&total); err != nil {
		return TourRateList{}, fmt.Errorf("count tour rates: %w", err)
	}

	pg := resolvePage(params.Page, params.PageSize)
	args = append(args, pg.size, pg.offset)

	rows, err := r.pool.Query(ctx, `
		SELECT `+tourRateColumns+listTourRatesBaseQuery+`
		ORDER BY valid_from DESC, created_at DESC
		LIMIT $3 OFFSET $4
	`, args...)
	if err != nil {
		return TourRateList{}, fmt.Errorf("list tour rates: %w", err)
	}
	defer rows.Close()

	items := make([]TourRate, 0)
	for rows.Next() {
		rate, err := scanTourRate(rows)
		if err != nil {
			return TourRateList{}, fmt.Errorf("scan tour rate: %w", err)
		}
		items = append(items, rate)
	}
	if rows.Err() != nil {
		return TourRateList{}, rows.Err()
	}

	return TourRateList{
		Items:      items,
		Total:      total,
		Page:       pg.number,
		PageSize:   pg.size,
		TotalPages: totalPages(total, pg.size),
	}, nil
}

const resolveTourRateQuery = `
	SELECT id, cost_minor, currency
	FROM td_tour_rates
	WHERE organization_id = $1 AND daily_tour_id = $2 AND valid_from <= $3 AND valid_to >= $3
	ORDER BY valid_from DESC, created_at DESC
	LIMIT 1
`

func (r *Repository) ResolveTourRate(ctx context.Context, organizationID, dailyTourID uuid.UUID, serviceDate time.Time) (pricing.Rate, error) {
	var rate pricing.Rate
	err := r.pool.QueryRow(ctx, resolveTourRateQuery, organizationID, dailyTourID, serviceDate).
		Scan(&rate.ID, &rate.UnitCostMinor, &rate.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pricing.Rate{}, pricing.ErrNoRate
		}
		return pricing.Rate{}, fmt.Errorf("resolve tour rate: %w", err)
	}
	return rate, nil
}
