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

const vehicleNotFoundMsg = "vehicle not found"

type Vehicle struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Type           string
	Capacity       int16
	Plate          string
	Phone          *string
	ArchivedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateVehicleParams struct {
	OrganizationID uuid.UUID
	Type           string
	Capacity       int16
	Plate          string
	Phone          *string
}

type UpdateVehicleParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Type           *string
	Capacity       *int16
	Plate          *string
	Phone          *string
}

type VehicleList struct {
	Items      []Vehicle
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const vehicleColumns = `id, organization_id, type, capacity, plate, phone, archived_at, created_at, updated_at`

func scanVehicle(row pgx.Row) (Vehicle, error) {
	var v Vehicle
	err := row.Scan(
		&v.ID,
		&v.OrganizationID,
		&v.Type,
		&v.Capacity,
		&v.Plate,
		&v.Phone,
		&v.ArchivedAt,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	return v, err
}

func (r *Repository) CreateVehicle(ctx context.Context, p CreateVehicleParams) (Vehicle, error) {
	vehicle, err := scanVehicle(r.pool.QueryRow(ctx, `
		INSERT INTO td_vehicles (organization_id, type, capacity, plate, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+vehicleColumns+`
	`, p.OrganizationID, p.Type, p.Capacity, p.Plate, p.Phone))
	if err != nil {
		return Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}
	return vehicle, nil
}

func (r *Repository) GetVehicle(ctx context.Context, id, organizationID uuid.UUID) (Vehicle, error) {
	vehicle, err := scanVehicle(r.pool.QueryRow(ctx, `
		SELECT `+vehicleColumns+`
		FROM td_vehicles
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vehicle{}, apperr.NotFound(vehicleNotFoundMsg)
		}
		return Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}
	return vehicle, nil
}

func (r *Repository) UpdateVehicle(ctx context.Context, p UpdateVehicleParams) (Vehicle, error) {
	vehicle, err := scanVehicle(r.pool.QueryRow(ctx, `
		UPDATE td_vehicles
		SET type = COALESCE($3, type),
			capacity = COALESCE($4, capacity),
			plate = COALESCE($5, plate),
			phone = COALESCE($6, phone),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+vehicleColumns+`
	`, p.ID, p.OrganizationID, p.Type, p.Capacity, p.Plate, p.Phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vehicle{}, apperr.NotFound(vehicleNotFoundMsg)
		}
		return Vehicle{}, fmt.Errorf("update vehicle: %w", err)
	}
	return vehicle, nil
}

func (r *Repository) ArchiveVehicle(ctx context.Context, id, organizationID uuid.UUID) error {
	return r.setVehicleArchived(ctx, id, organizationID, true)
}

func (r *Repository) RestoreVehicle(ctx context.Context, id, organizationID uuid.UUID) error {
	return r.setVehicleArchived(ctx, id, organizationID, false)
}

func (r *Repository) setVehicleArchived(ctx context.Context, id, organizationID uuid.UUID, archived bool) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE td_vehicles
		SET archived_at = CASE WHEN $3 THEN now() ELSE NULL END, updated_at = now()
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID, archived)
	if err != nil {
		return fmt.Errorf("archive vehicle: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(vehicleNotFoundMsg)
	}
	return nil
}

const listVehiclesBaseQuery = `
	FROM td_vehicles
	WHERE organization_id = $1
		AND ($2::text IS NULL OR type ILIKE $2 OR plate ILIKE $2)
		AND ($3::boolean OR archived_at IS NULL)
`

func (r *Repository) ListVehicles(ctx context.Context, params ListParams) (VehicleList, error) {
	args := []interface{}{params.OrganizationID, optionalSearch(params.Search), params.IncludeArchived}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+listVehiclesBaseQuery, args...).Scan(&total); err != nil {
		return VehicleList{}, fmt.Errorf("count vehicles: %w", err)
	}

	page := resolvePage(params.Page, params.PageSize)
	args = append(args, page.Size, page.Offset)

	rows, err := r.pool.Query(ctx, `
		SELECT `+vehicleColumns+listVehiclesBaseQuery+`
		ORDER BY capacity ASC, plate ASC
		LIMIT $4 OFFSET $5
	`, args...)
	if err != nil {
		return VehicleList{}, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	items := make([]Vehicle, 0)
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return VehicleList{}, fmt.Errorf("scan vehicle: %w", err)
		}
		items = append(items, vehicle)
	}
	if rows.Err() != nil {
		return VehicleList{}, rows.Err()
	}

	return VehicleList{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: totalPages(total, page.Size),
	}, nil
}

// SmallestVehicleForPax returns the cheapest-to-run active vehicle that fits
// the group, used by the itinerary planner.
func (r *Repository) SmallestVehicleForPax(ctx context.Context, organizationID uuid.UUID, pax int) (Vehicle, error) {
	vehicle, err := scanVehicle(r.pool.QueryRow(ctx, `
		SELECT `+vehicleColumns+`
		FROM td_vehicles
		WHERE organization_id = $1 AND capacity >= $2 AND archived_at IS NULL
		ORDER BY capacity ASC
		LIMIT 1
	`, organizationID, pax))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vehicle{}, apperr.NotFound(vehicleNotFoundMsg)
		}
		return Vehicle{}, fmt.Errorf("vehicle for pax: %w", err)
	}
	return vehicle, nil
}
