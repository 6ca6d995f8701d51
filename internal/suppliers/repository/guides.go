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

const guideNotFoundMsg = "guide not found"

type Guide struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	City           string
	Languages      []string
	Phone          *string
	Email          *string
	ArchivedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateGuideParams struct {
	OrganizationID uuid.UUID
	Name           string
	City           string
	Languages      []string
	Phone          *string
	Email          *string
}

type UpdateGuideParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           *string
	City           *string
	Languages      []string
	Phone          *string
	Email          *string
}

type GuideList struct {
	Items      []Guide
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const guideColumns = `id, organization_id, name, city, languages, phone, email, archived_at, created_at, updated_at`

func scanGuide(row pgx.Row) (Guide, error) {
	var g Guide
	err := row.Scan(
		&g.ID,
		&g.OrganizationID,
		&g.Name,
		&g.City,
		&g.Languages,
		&g.Phone,
		&g.Email,
		&g.ArchivedAt,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	return g, err
}

func (r *Repository) CreateGuide(ctx context.Context, p CreateGuideParams) (Guide, error) {
	guide, err := scanGuide(r.pool.QueryRow(ctx, `
		INSERT INTO td_guides (organization_id, name, city, languages, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+guideColumns+`
	`, p.OrganizationID, p.Name, p.City, p.Languages, p.Phone, p.Email))
	if err != nil {
		return Guide{}, fmt.Errorf("create guide: %w", err)
	}
	return guide, nil
}

func (r *Repository) GetGuide(ctx context.Context, id, organizationID uuid.UUID) (Guide, error) {
	guide, err := scanGuide(r.pool.QueryRow(ctx, `
		SELECT `+guideColumns+`
		FROM td_guides
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Guide{}, apperr.NotFound(guideNotFoundMsg)
		}
		return Guide{}, fmt.Errorf("get guide: %w", err)
	}
	return guide, nil
}

func (r *Repository) UpdateGuide(ctx context.Context, p UpdateGuideParams) (Guide, error) {
	guide, err := scanGuide(r.pool.QueryRow(ctx, `
		UPDATE td_guides
		SET name = COALESCE($3, name),
			city = COALESCE($4, city),
			languages = COALESCE($5, languages),
			phone = COALESCE($6, phone),
			email = COALESCE($7, email),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+guideColumns+`
	`, p.ID, p.OrganizationID, p.Name, p.City, p.Languages, p.Phone, p.Email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Guide{}, apperr.NotFound(guideNotFoundMsg)
		}
		return Guide{}, fmt.Errorf("update guide: %w", err)
	}
	return guide, nil
}

func (r *Repository) ArchiveGuide(ctx context.Context, id, organizationID uuid.UUID) error {
	return r.setGuideArchived(ctx, id, organizationID, true)
}

func (r *Repository) RestoreGuide(ctx context.Context, id, organizationID uuid.UUID) error {
	return r.setGuideArchived(ctx, id, organizationID, false)
}

func (r *Repository) setGuideArchived(ctx context.Context, id, organizationID uuid.UUID, archived bool) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE td_guides
		SET archived_at = CASE WHEN $3 THEN now() ELSE NULL END, updated_at = now()
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID, archived)
	if err != nil {
		return fmt.Errorf("archive guide: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(guideNotFoundMsg)
	}
	return nil
}

const listGuidesBaseQuery = `
	FROM td_guides
	WHERE organization_id = $1
		AND ($2::text IS NULL OR name ILIKE $2)
		AND ($3::text IS NULL OR city ILIKE $3)
		AND ($4::boolean OR archived_at IS NULL)
`

func (r *Repository) ListGuides(ctx context.Context, params ListParams) (GuideList, error) {
	args := []interface{}{params.OrganizationID, optionalSearch(params.Search), optionalText(params.City), params.IncludeArchived}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+listGuidesBaseQuery, args...).Scan(&total); err != nil {
		return GuideList{}, fmt.Errorf("count guides: %w", err)
	}

	page := resolvePage(params.Page, params.PageSize)
	args = append(args, page.Size, page.Offset)

	rows, err := r.pool.Query(ctx, `
		SELECT `+guideColumns+listGuidesBaseQuery+`
		ORDER BY name ASC
		LIMIT $5 OFFSET $6
	`, args...)
	if err != nil {
		return GuideList{}, fmt.Errorf("list guides: %w", err)
	}
	defer rows.Close()

	items := make([]Guide, 0)
	for rows.Next() {
		guide, err := scanGuide(rows)
		if err != nil {
			return GuideList{}, fmt.Errorf("scan guide: %w", err)
		}
		items = append(items, guide)
	}
	if rows.Err() != nil {
		return GuideList{}, rows.Err()
	}

	return GuideList{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: totalPages(total, page.Size),
	}, nil
}
