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

const vehicleRateNotFoundMsg = "vehicle rate not found"

// VehicleRate is a per-day cost for one vehicle in one season.
type VehicleRate struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	VehicleID      uuid.UUID
	ValidFrom      time.Time
	ValidTo        time.Time
	CostMinor      int64
	Currency       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateVehicleRateParams struct {
	OrganizationID uuid.UUID
	VehicleID      uuid.UUID
	ValidFrom      time.Time
	ValidTo        time.Time
	CostMinor      int64
	Currency       string
}

type UpdateVehicleRateParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	ValidFrom      *time.Time
	ValidTo        *time.Time
	CostMinor      *int64
	Currency       *string
}

type VehicleRateList struct {
	Items      []VehicleRate
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const vehicleRateColumns = `id, organization_id, vehicle_id, valid_from, valid_to, cost_minor, currency, created_at, updated_at`

func scanVehicleRate(row pgx.Row) (VehicleRate, error) {
	var r VehicleRate
	err := row.Scan(
		&r.ID,
		&r.OrganizationID,
		&r.VehicleID,
		&r.ValidFrom,
		&r.ValidTo,
		&r.CostMinor,
		&r.Currency,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

func (r *Repository) CreateVehicleRate(ctx context.Context, p CreateVehicleRateParams) (VehicleRate, error) {
	rate, err := scanVehicleRate(r.pool.QueryRow(ctx, `
		INSERT INTO td_vehicle_rates (organization_id, vehicle_id, valid_from, valid_to, cost_minor, currency)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+vehicleRateColumns+`
	`, p.OrganizationID, p.VehicleID, p.ValidFrom, p.ValidTo, p.CostMinor, p.Currency))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return VehicleRate{}, apperr.BadRequest("unknown vehicle")
		}
		return VehicleRate{}, fmt.Errorf("create vehicle rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) GetVehicleRate(ctx context.Context, id, organizationID uuid.UUID) (VehicleRate, error) {
	rate, err := scanVehicleRate(r.pool.QueryRow(ctx, `
		SELECT `+vehicleRateColumns+`
		FROM td_vehicle_rates
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VehicleRate{}, apperr.NotFound(vehicleRateNotFoundMsg)
		}
		return VehicleRate{}, fmt.Errorf("get vehicle rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) UpdateVehicleRate(ctx context.Context, p UpdateVehicleRateParams) (VehicleRate, error) {
	rate, err := scanVehicleRate(r.pool.QueryRow(ctx, `
		UPDATE td_vehicle_rates
		SET valid_from = COALESCE($3, valid_from),
			valid_to = COALESCE($4, valid_to),
			cost_minor = COALESCE($5, cost_minor),
			currency = COALESCE($6, currency),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+vehicleRateColumns+`
	`, p.ID, p.OrganizationID, p.ValidFrom, p.ValidTo, p.CostMinor, p.Currency))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VehicleRate{}, apperr.NotFound(vehicleRateNotFoundMsg)
		}
		return VehicleRate{}, fmt.Errorf("update vehicle rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) DeleteVehicleRate(ctx context.Context, id, organizationID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM td_vehicle_rates WHERE id = $1 AND organization_id = $2
	`, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete vehicle rate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(vehicleRateNotFoundMsg)
	}
	return nil
}

const listVehicleRatesBaseQuery = `
	FROM td_vehicle_rates
	WHERE organization_id = $1
		AND ($2::uuid IS NULL OR vehicle_id = $2)
`

func (r *Repository) ListVehicleRates(ctx context.Context, params RateListParams) (VehicleRateList, error) {
	args := []interface{}{params.OrganizationID, params.SupplierID}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+listVehicleRatesBaseQuery, args...).Scan(&total); err != nil {
		return VehicleRateList{}, fmt.Errorf("count vehicle rates: %w", err)
	}

	pg := resolvePage(params.Page, params.PageSize)
	args = append(args, pg.size, pg.offset)

	rows, err := r.pool.Query(ctx, `
		SELECT `+vehicleRateColumns+listVehicleRatesBaseQuery+`
		ORDER BY valid_from DESC, created_at DESC
		LIMIT $3 OFFSET $4
	`, args...)
	if err != nil {
		return VehicleRateList{}, fmt.Errorf("list vehicle rates: %w", err)
	}
	defer rows.Close()

	items := make([]VehicleRate, 0)
	for rows.Next() {
		rate, err := scanVehicleRate(rows)
		if err != nil {
			return VehicleRateList{}, fmt.Errorf("scan vehicle rate: %w", err)
		}
		items = append(items, rate)
	}
	if rows.Err() != nil {
		return VehicleRateList{}, rows.Err()
	}

	return VehicleRateList{
		Items:      items,
		Total:      total,
		Page:       pg.number,
		PageSize:   pg.size,
		TotalPages: totalPages(total, pg.size),
	}, nil
}

const resolveVehicleRateQuery = `
	SELECT id, cost_minor, currency
	FROM td_vehicle_rates
	WHERE organization_id = $1 AND vehicle_id = $2 AND valid_from <= $3 AND valid_to >= $3
	ORDER BY valid_from DESC, created_at DESC
	LIMIT 1
`

func (r *Repository) ResolveVehicleRate(ctx context.Context, organizationID, vehicleID uuid.UUID, serviceDate time.Time) (pricing.Rate, error) {
	var rate pricing.Rate
	err := r.pool.QueryRow(ctx, resolveVehicleRateQuery, organizationID, vehicleID, serviceDate).
		Scan(&rate.ID, &rate.UnitCostMinor, &rate.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pricing.Rate{}, pricing.ErrNoRate
		}
		return pricing.Rate{}, fmt.Errorf("resolve vehicle rate: %w", err)
	}
	return rate, nil
}
