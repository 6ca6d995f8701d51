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

const entranceNotFoundMsg = "entrance fee not found"

// EntranceFee is a ticketed site (museum, palace, archaeological site).
type EntranceFee struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	SiteName       string
	City           string
	ArchivedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateEntranceFeeParams struct {
	OrganizationID uuid.UUID
	SiteName       string
	City           string
}

type UpdateEntranceFeeParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	SiteName       *string
	City           *string
}

type EntranceFeeList struct {
	Items      []EntranceFee
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const entranceColumns = `id, organization_id, site_name, city, archived_at, created_at, updated_at`

func scanEntranceFee(row pgx.Row) (EntranceFee, error) {
	var e EntranceFee
	err := row.Scan(
		&e.ID,
		&e.OrganizationID,
		&e.SiteName,
		&e.City,
		&e.ArchivedAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

func (r *Repository) CreateEntranceFee(ctx context.Context, p CreateEntranceFeeParams) (EntranceFee, error) {
	fee, err := scanEntranceFee(r.pool.QueryRow(ctx, `
		INSERT INTO td_entrance_fees (organization_id, site_name, city)
		VALUES ($1, $2, $3)
		RETURNING `+entranceColumns+`
	`, p.OrganizationID, p.SiteName, p.City))
	if err != nil {
		return EntranceFee{}, fmt.Errorf("create entrance fee: %w", err)
	}
	return fee, nil
}

func (r *Repository) GetEntranceFee(ctx context.Context, id, organizationID uuid.UUID) (EntranceFee, error) {
	fee, err := scanEntranceFee(r.pool.QueryRow(ctx, `
		SELECT `+entranceColumns+`
		FROM td_entrance_fees
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EntranceFee{}, apperr.NotFound(entranceNotFoundMsg)
		}
		return EntranceFee{}, fmt.Errorf("get entrance fee: %w", err)
	}
	return fee, nil
}

func (r *Repository) UpdateEntranceFee(ctx context.Context, p UpdateEntranceFeeParams) (EntranceFee, error) {
	fee, err := scanEntranceFee(r.pool.QueryRow(ctx, `
		UPDATE td_entrance_fees
		SET site_name = COALESCE($3, site_name),
			city = COALESCE($4, city),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+entranceColumns+`
	`, p.ID, p.OrganizationID, p.SiteName, p.City))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EntranceFee{}, apperr.NotFound(entranceNotFoundMsg)
		}
		return EntranceFee{}, fmt.Errorf("update entrance fee: %w", err)
	}
	return fee, nil
}

func (r *Repository) ArchiveEntranceFee(ctx context.Context, id, organizationID uuid.UUID) error {
	return r.setEntranceFeeArchived(ctx, id, organizationID, true)
}

func (r *Repository) RestoreEntranceFee(ctx context.Context, id, organizationID uuid.UUID) error {
	return r.setEntranceFeeArchived(ctx, id, organizationID, false)
}

func (r *Repository) setEntranceFeeArchived(ctx context.Context, id, organizationID uuid.UUID, archived bool) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE td_entrance_fees
		SET archived_at = CASE WHEN $3 THEN now() ELSE NULL END, updated_at = now()
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID, archived)
	if err != nil {
		return fmt.Errorf("archive entrance fee: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(entranceNotFoundMsg)
	}
	return nil
}

const listEntranceFeesBaseQuery = `
	FROM td_entrance_fees
	WHERE organization_id = $1
		AND ($2::text IS NULL OR site_name ILIKE $2)
		AND ($3::text IS NULL OR city ILIKE $3)
		AND ($4::boolean OR archived_at IS NULL)
`

func (r *Repository) ListEntranceFees(ctx context.Context, params ListParams) (EntranceFeeList, error) {
	args := []interface{}{params.OrganizationID, optionalSearch(params.Search), optionalText(params.City), params.IncludeArchived}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+listEntranceFeesBaseQuery, args...).Scan(&total); err != nil {
		return EntranceFeeList{}, fmt.Errorf("count entrance fees: %w", err)
	}

	page := resolvePage(params.Page, params.PageSize)
	args = append(args, page.Size, page.Offset)

	rows, err := r.pool.Query(ctx, `
		SELECT `+entranceColumns+listEntranceFeesBaseQuery+`
		ORDER BY site_name ASC
		LIMIT $5 OFFSET $6
	`, args...)
	if err != nil {
		return EntranceFeeList{}, fmt.Errorf("list entrance fees: %w", err)
	}
	defer rows.Close()

	items := make([]EntranceFee, 0)
	for rows.Next() {
		fee, err := scanEntranceFee(rows)
		if err != nil {
			return EntranceFeeList{}, fmt.Errorf("scan entrance fee: %w", err)
		}
		items = append(items, fee)
	}
	if rows.Err() != nil {
		return EntranceFeeList{}, rows.Err()
	}

	return EntranceFeeList{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: totalPages(total, page.Size),
	}, nil
}

// EntranceFeesByCity returns active sites in a city for the itinerary planner.
func (r *Repository) EntranceFeesByCity(ctx context.Context, organizationID uuid.UUID, city string) ([]EntranceFee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entranceColumns+`
		FROM td_entrance_fees
		WHERE organization_id = $1 AND city ILIKE $2 AND archived_at IS NULL
		ORDER BY site_name ASC
	`, organizationID, city)
	if err != nil {
		return nil, fmt.Errorf("entrance fees by city: %w", err)
	}
	defer rows.Close()

	items := make([]EntranceFee, 0)
	for rows.Next() {
		fee, err := scanEntranceFee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entrance fee: %w", err)
		}
		items = append(items, fee)
	}
	return items, rows.Err()
}
