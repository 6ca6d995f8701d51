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

const entranceRateNotFoundMsg = "entrance rate not found"

// EntranceRate is a per-person admission cost for one site in one season.
type EntranceRate struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	EntranceFeeID  uuid.UUID
	ValidFrom      time.Time
	ValidTo        time.Time
	CostMinor      int64
	Currency       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateEntranceRateParams struct {
	OrganizationID uuid.UUID
	EntranceFeeID  uuid.UUID
	ValidFrom      time.Time
	ValidTo        time.Time
	CostMinor      int64
	Currency       string
}

type UpdateEntranceRateParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	ValidFrom      *time.Time
	ValidTo        *time.Time
	CostMinor      *int64
	Currency       *string
}

type EntranceRateList struct {
	Items      []EntranceRate
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const entranceRateColumns = `id, organization_id, entrance_fee_id, valid_from, valid_to, cost_minor, currency, created_at, updated_at`

func scanEntranceRate(row pgx.Row) (EntranceRate, error) {
	var r EntranceRate
	err := row.Scan(
		&r.ID,
		&r.OrganizationID,
		&r.EntranceFeeID,
		&r.ValidFrom,
		&r.ValidTo,
		&r.CostMinor,
		&r.Currency,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

func (r *Repository) CreateEntranceRate(ctx context.Context, p CreateEntranceRateParams) (EntranceRate, error) {
	rate, err := scanEntranceRate(r.pool.QueryRow(ctx, `
		INSERT INTO td_entrance_rates (organization_id, entrance_fee_id, valid_from, valid_to, cost_minor, currency)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+entranceRateColumns+`
	`, p.OrganizationID, p.EntranceFeeID, p.ValidFrom, p.ValidTo, p.CostMinor, p.Currency))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return EntranceRate{}, apperr.BadRequest("unknown entrance fee")
		}
		return EntranceRate{}, fmt.Errorf("create entrance rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) GetEntranceRate(ctx context.Context, id, organizationID uuid.UUID) (EntranceRate, error) {
	rate, err := scanEntranceRate(r.pool.QueryRow(ctx, `
		SELECT `+entranceRateColumns+`
		FROM td_entrance_rates
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EntranceRate{}, apperr.NotFound(entranceRateNotFoundMsg)
		}
		return EntranceRate{}, fmt.Errorf("get entrance rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) UpdateEntranceRate(ctx context.Context, p UpdateEntranceRateParams) (EntranceRate, error) {
	rate, err := scanEntranceRate(r.pool.QueryRow(ctx, `
		UPDATE td_entrance_rates
		SET valid_from = COALESCE($3, valid_from),
			valid_to = COALESCE($4, valid_to),
			cost_minor = COALESCE($5, cost_minor),
			currency = COALESCE($6, currency),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+entranceRateColumns+`
	`, p.ID, p.OrganizationID, p.ValidFrom, p.ValidTo, p.CostMinor, p.Currency))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EntranceRate{}, apperr.NotFound(entranceRateNotFoundMsg)
		}
		return EntranceRate{}, fmt.Errorf("update entrance rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) DeleteEntranceRate(ctx context.Context, id, organizationID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM td_entrance_rates WHERE id = $1 AND organization_id = $2
	`, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete entrance rate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(entranceRateNotFoundMsg)
	}
	return nil
}

const listEntranceRatesBaseQuery = `
	FROM td_entrance_rates
	WHERE organization_id = $1
		AND ($2::uuid IS NULL OR entrance_fee_id = $2)
`

func (r *Repository) ListEntranceRates(ctx context.Context, params RateListParams) (EntranceRateList, error) {
	args := []interface{}{params.OrganizationID, params.SupplierID}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+listEntranceRatesBaseQuery, args...).Scan(&total); err != nil {
		return EntranceRateList{}, fmt.Errorf("count entrance rates: %w", err)
	}

	pg := resolvePage(params.Page, params.PageSize)
	args = append(args, pg.size, pg.offset)

	rows, err := r.pool.Query(ctx, `
		SELECT `+entranceRateColumns+listEntranceRatesBaseQuery+`
		ORDER BY valid_from DESC, created_at DESC
		LIMIT $3 OFFSET $4
	`, args...)
	if err != nil {
		return EntranceRateList{}, fmt.Errorf("list entrance rates: %w", err)
	}
	defer rows.Close()

	items := make([]EntranceRate, 0)
	for rows.Next() {
		rate, err := scanEntranceRate(rows)
		if err != nil {
			return EntranceRateList{}, fmt.Errorf("scan entrance rate: %w", err)
		}
		items = append(items, rate)
	}
	if rows.Err() != nil {
		return EntranceRateList{}, rows.Err()
	}

	return EntranceRateList{
		Items:      items,
		Total:      total,
		Page:       pg.number,
		PageSize:   pg.size,
		TotalPages: totalPages(total, pg.size),
	}, nil
}

const resolveEntranceRateQuery = `
	SELECT id, cost_minor, currency
	FROM td_entrance_rates
	WHERE organization_id = $1 AND entrance_fee_id = $2 AND valid_from <= $3 AND valid_to >= $3
	ORDER BY valid_from DESC, created_at DESC
	LIMIT 1
`

func (r *Repository) ResolveEntranceRate(ctx context.Context, organizationID, entranceFeeID uuid.UUID, serviceDate time.Time) (pricing.Rate, error) {
	var rate pricing.Rate
	err := r.pool.QueryRow(ctx, resolveEntranceRateQuery, organizationID, entranceFeeID, serviceDate).
		Scan(&rate.ID, &rate.UnitCostMinor, &rate.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pricing.Rate{}, pricing.ErrNoRate
		}
		return pricing.Rate{}, fmt.Errorf("resolve entrance rate: %w", err)
	}
	return rate, nil
}
