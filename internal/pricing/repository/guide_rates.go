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

const guideRateNotFoundMsg = "guide rate not found"

// GuideRate is a per-day cost for one guide in one season.
type GuideRate struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	GuideID        uuid.UUID
	ValidFrom      time.Time
	ValidTo        time.Time
	CostMinor      int64
	Currency       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateGuideRateParams struct {
	OrganizationID uuid.UUID
	GuideID        uuid.UUID
	ValidFrom      time.Time
	ValidTo        time.Time
	CostMinor      int64
	Currency       string
}

type UpdateGuideRateParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	ValidFrom      *time.Time
	ValidTo        *time.Time
	CostMinor      *int64
	Currency       *string
}

type GuideRateList struct {
	Items      []GuideRate
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const guideRateColumns = `id, organization_id, guide_id, valid_from, valid_to, cost_minor, currency, created_at, updated_at`

func scanGuideRate(row pgx.Row) (GuideRate, error) {
	var r GuideRate
	err := row.Scan(
		&r.ID,
		&r.OrganizationID,
		&r.GuideID,
		&r.ValidFrom,
		&r.ValidTo,
		&r.CostMinor,
		&r.Currency,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

func (r *Repository) CreateGuideRate(ctx context.Context, p CreateGuideRateParams) (GuideRate, error) {
	rate, err := scanGuideRate(r.pool.QueryRow(ctx, `
		INSERT INTO td_guide_rates (organization_id, guide_id, valid_from, valid_to, cost_minor, currency)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+guideRateColumns+`
	`, p.OrganizationID, p.GuideID, p.ValidFrom, p.ValidTo, p.CostMinor, p.Currency))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return GuideRate{}, apperr.BadRequest("unknown guide")
		}
		return GuideRate{}, fmt.Errorf("create guide rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) GetGuideRate(ctx context.Context, id, organizationID uuid.UUID) (GuideRate, error) {
	rate, err := scanGuideRate(r.pool.QueryRow(ctx, `
		SELECT `+guideRateColumns+`
		FROM td_guide_rates
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return GuideRate{}, apperr.NotFound(guideRateNotFoundMsg)
		}
		return GuideRate{}, fmt.Errorf("get guide rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) UpdateGuideRate(ctx context.Context, p UpdateGuideRateParams) (GuideRate, error) {
	rate, err := scanGuideRate(r.pool.QueryRow(ctx, `
		UPDATE td_guide_rates
		SET valid_from = COALESCE($3, valid_from),
			valid_to = COALESCE($4, valid_to),
			cost_minor = COALESCE($5, cost_minor),
			currency = COALESCE($6, currency),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+guideRateColumns+`
	`, p.ID, p.OrganizationID, p.ValidFrom, p.ValidTo, p.CostMinor, p.Currency))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return GuideRate{}, apperr.NotFound(guideRateNotFoundMsg)
		}
		return GuideRate{}, fmt.Errorf("update guide rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) DeleteGuideRate(ctx context.Context, id, organizationID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM td_guide_rates WHERE id = $1 AND organization_id = $2
	`, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete guide rate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(guideRateNotFoundMsg)
	}
	return nil
}

const listGuideRatesBaseQuery = `
	FROM td_guide_rates
	WHERE organization_id = $1
		AND ($2::uuid IS NULL OR guide_id = $2)
`

func (r *Repository) ListGuideRates(ctx context.Context, params RateListParams) (GuideRateList, error) {
	args := []interface{}{params.OrganizationID, params.SupplierID}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+listGuideRatesBaseQuery, args...).Scan(&total); err != nil {
		return GuideRateList{}, fmt.Errorf("count guide rates: %w", err)
	}

	pg := resolvePage(params.Page, params.PageSize)
	args = append(args, pg.size, pg.offset)

	rows, err := r.pool.Query(ctx, `
		SELECT `+guideRateColumns+listGuideRatesBaseQuery+`
		ORDER BY valid_from DESC, created_at DESC
		LIMIT $3 OFFSET $4
	`, args...)
	if err != nil {
		return GuideRateList{}, fmt.Errorf("list guide rates: %w", err)
	}
	defer rows.Close()

	items := make([]GuideRate, 0)
	for rows.Next() {
		rate, err := scanGuideRate(rows)
		if err != nil {
			return GuideRateList{}, fmt.Errorf("scan guide rate: %w", err)
		}
		items = append(items, rate)
	}
	if rows.Err() != nil {
		return GuideRateList{}, rows.Err()
	}

	return GuideRateList{
		Items:      items,
		Total:      total,
		Page:       pg.number,
		PageSize:   pg.size,
		TotalPages: totalPages(total, pg.size),
	}, nil
}

const resolveGuideRateQuery = `
	SELECT id, cost_minor, currency
	FROM td_guide_rates
	WHERE organization_id = $1 AND guide_id = $2 AND valid_from <= $3 AND valid_to >= $3
	ORDER BY valid_from DESC, created_at DESC
	LIMIT 1
`

func (r *Repository) ResolveGuideRate(ctx context.Context, organizationID, guideID uuid.UUID, serviceDate time.Time) (pricing.Rate, error) {
	var rate pricing.Rate
	err := r.pool.QueryRow(ctx, resolveGuideRateQuery, organizationID, guideID, serviceDate).
		Scan(&rate.ID, &rate.UnitCostMinor, &rate.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pricing.Rate{}, pricing.ErrNoRate
		}
		return pricing.Rate{}, fmt.Errorf("resolve guide rate: %w", err)
	}
	return rate, nil
}
