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

const tourNotFoundMsg = "daily tour not found"

// DailyTour is a packaged day trip sold per person.
type DailyTour struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	RouteName      string
	City           string
	Description    *string
	ArchivedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateDailyTourParams struct {
	OrganizationID uuid.UUID
	RouteName      string
	City           string
	Description    *string
}

type UpdateDailyTourParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	RouteName      *string
	City           *string
	Description    *string
}

type DailyTourList struct {
	Items      []DailyTour
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const tourColumns = `id, organization_id, route_name, city, description, archived_at, created_at, updated_at`

func scanDailyTour(row pgx.Row) (DailyTour, error) {
	var t DailyTour
	err := row.Scan(
		&t.ID,
		&t.OrganizationID,
		&t.RouteName,
		&t.City,
		&t.Description,
		&t.ArchivedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func (r *Repository) CreateDailyTour(ctx context.Context, p CreateDailyTourParams) (DailyTour, error) {
	tour, err := scanDailyTour(r.pool.QueryRow(ctx, `
		INSERT INTO td_daily_tours (organization_id, route_name, city, description)
		VALUES ($1, $2, $3, $4)
		RETURNING `+tourColumns+`
	`, p.OrganizationID, p.RouteName, p.City, p.Description))
	if err != nil {
		return DailyTour{}, fmt.Errorf("create daily tour: %w", err)
	}
	return tour, nil
}

func (r *Repository) GetDailyTour(ctx context.Context, id, organizationID uuid.UUID) (DailyTour, error) {
	tour, err := scanDailyTour(r.pool.QueryRow(ctx, `
		SELECT `+tourColumns+`
		FROM td_daily_tours
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DailyTour{}, apperr.NotFound(tourNotFoundMsg)
		}
		return DailyTour{}, fmt.Errorf("get daily tour: %w", err)
	}
	return tour, nil
}

func (r *Repository) UpdateDailyTour(ctx context.Context, p UpdateDailyTourParams) (DailyTour, error) {
	tour, err := scanDailyTour(r.pool.QueryRow(ctx, `
		UPDATE td_daily_tours
		SET route_name = COALESCE($3, route_name),
			city = COALESCE($4, city),
			description = COALESCE($5, description),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+tourColumns+`
	`, p.ID, p.OrganizationID, p.RouteName, p.City, p.Description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DailyTour{}, apperr.NotFound(tourNotFoundMsg)
		}
		return DailyTour{}, fmt.Errorf("update daily tour: %w", err)
	}
	return tour, nil
}

func (r *Repository) ArchiveDailyTour(ctx context.Context, id, organizationID uuid.UUID) error {
	return r.setDailyTourArchived(ctx, id, organizationID, true)
}

func (r *Repository) RestoreDailyTour(ctx context.Context, id, organizationID uuid.UUID) error {
	return r.setDailyTourArchived(ctx, id, organizationID, false)
}

func (r *Repository) setDailyTourArchived(ctx context.Context, id, organizationID uuid.UUID, archived bool) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE td_daily_tours
		SET archived_at = CASE WHEN $3 THEN now() ELSE NULL END, updated_at = now()
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID, archived)
	if err != nil {
		return fmt.Errorf("archive daily tour: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(tourNotFoundMsg)
	}
	return nil
}

const listDailyToursBaseQuery = `
	FROM td_daily_tours
	WHERE organization_id = $1
		AND ($2::text IS NULL OR route_name ILIKE $2)
		AND ($3::text IS NULL OR city ILIKE $3)
		AND ($4::boolean OR archived_at IS NULL)
`

func (r *Repository) ListDailyTours(ctx context.Context, params ListParams) (DailyTourList, error) {
	args := []interface{}{params.OrganizationID, optionalSearch(params.Search), optionalText(params.City), params.IncludeArchived}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+listDailyToursBaseQuery, args...).Scan(&total); err != nil {
		return DailyTourList{}, fmt.Errorf("count daily tours: %w", err)
	}

	page := resolvePage(params.Page, params.PageSize)
	args = append(args, page.Size, page.Offset)

	rows, err := r.pool.Query(ctx, `
		SELECT `+tourColumns+listDailyToursBaseQuery+`
		ORDER BY route_name ASC
		LIMIT $5 OFFSET $6
	`, args...)
	if err != nil {
		return DailyTourList{}, fmt.Errorf("list daily tours: %w", err)
	}
	defer rows.Close()

	items := make([]DailyTour, 0)
	for rows.Next() {
		tour, err := scanDailyTour(rows)
		if err != nil {
			return DailyTourList{}, fmt.Errorf("scan daily tour: %w", err)
		}
		items = append(items, tour)
	}
	if rows.Err() != nil {
		return DailyTourList{}, rows.Err()
	}

	return DailyTourList{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: totalPages(total, page.Size),
	}, nil
}

// DailyToursByCity returns active day trips in a city for the itinerary planner.
func (r *Repository) DailyToursByCity(ctx context.Context, organizationID uuid.UUID, city string) ([]DailyTour, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tourColumns+`
		FROM td_daily_tours
		WHERE organization_id = $1 AND city ILIKE $2 AND archived_at IS NULL
		ORDER BY route_name ASC
	`, organizationID, city)
	if err != nil {
		return nil, fmt.Errorf("daily tours by city: %w", err)
	}
	defer rows.Close()

	items := make([]DailyTour, 0)
	for rows.Next() {
		tour, err := scanDailyTour(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily tour: %w", err)
		}
		items = append(items, tour)
	}
	return items, rows.Err()
}
