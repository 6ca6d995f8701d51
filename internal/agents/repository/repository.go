package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const agentNotFoundMsg = "agent not found"

// Repository provides database operations for agents.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new agents repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Agent struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	ContactName    *string
	Email          *string
	Phone          *string
	Country        *string
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateParams struct {
	OrganizationID uuid.UUID
	Name           string
	ContactName    *string
	Email          *string
	Phone          *string
	Country        *string
	Notes          *string
}

type UpdateParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           *string
	ContactName    *string
	Email          *string
	Phone          *string
	Country        *string
	Notes          *string
}

type ListParams struct {
	OrganizationID uuid.UUID
	Search         string
	SortBy         string
	SortOrder      string
	Page           int
	PageSize       int
}

type ListResult struct {
	Items      []Agent
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Agent, error) {
	var agent Agent
	err := r.pool.QueryRow(ctx, `
		INSERT INTO td_agents (organization_id, name, contact_name, email, phone, country, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, organization_id, name, contact_name, email, phone, country, notes, created_at, updated_at
	`, p.OrganizationID, p.Name, p.ContactName, p.Email, p.Phone, p.Country, p.Notes).Scan(
		&agent.ID,
		&agent.OrganizationID,
		&agent.Name,
		&agent.ContactName,
		&agent.Email,
		&agent.Phone,
		&agent.Country,
		&agent.Notes,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	if err != nil {
		return Agent{}, fmt.Errorf("create agent: %w", err)
	}
	return agent, nil
}

func (r *Repository) GetByID(ctx context.Context, id, organizationID uuid.UUID) (Agent, error) {
	var agent Agent
	err := r.pool.QueryRow(ctx, `
		SELECT id, organization_id, name, contact_name, email, phone, country, notes, created_at, updated_at
		FROM td_agents
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID).Scan(
		&agent.ID,
		&agent.OrganizationID,
		&agent.Name,
		&agent.ContactName,
		&agent.Email,
		&agent.Phone,
		&agent.Country,
		&agent.Notes,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, apperr.NotFound(agentNotFoundMsg)
		}
		return Agent{}, fmt.Errorf("get agent: %w", err)
	}
	return agent, nil
}

func (r *Repository) Update(ctx context.Context, p UpdateParams) (Agent, error) {
	var agent Agent
	err := r.pool.QueryRow(ctx, `
		UPDATE td_agents
		SET name = COALESCE($3, name),
			contact_name = COALESCE($4, contact_name),
			email = COALESCE($5, email),
			phone = COALESCE($6, phone),
			country = COALESCE($7, country),
			notes = COALESCE($8, notes),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING id, organization_id, name, contact_name, email, phone, country, notes, created_at, updated_at
	`, p.ID, p.OrganizationID, p.Name, p.ContactName, p.Email, p.Phone, p.Country, p.Notes).Scan(
		&agent.ID,
		&agent.OrganizationID,
		&agent.Name,
		&agent.ContactName,
		&agent.Email,
		&agent.Phone,
		&agent.Country,
		&agent.Notes,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, apperr.NotFound(agentNotFoundMsg)
		}
		return Agent{}, fmt.Errorf("update agent: %w", err)
	}
	return agent, nil
}

// Delete removes an agent. Agents referenced by quotations or invoices are
// protected by foreign keys and map to a conflict.
func (r *Repository) Delete(ctx context.Context, id, organizationID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM td_agents WHERE id = $1 AND organization_id = $2
	`, id, organizationID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperr.Conflict("agent is referenced by quotations or invoices")
		}
		return fmt.Errorf("delete agent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(agentNotFoundMsg)
	}
	return nil
}

const listBaseQuery = `
	FROM td_agents
	WHERE organization_id = $1
		AND ($2::text IS NULL OR name ILIKE $2 OR contact_name ILIKE $2 OR email ILIKE $2)
`

func (r *Repository) List(ctx context.Context, params ListParams) (ListResult, error) {
	searchParam := optionalSearch(params.Search)

	sortBy, err := resolveSortBy(params.SortBy)
	if err != nil {
		return ListResult{}, err
	}
	orderBy, err := resolveSortOrder(params.SortOrder)
	if err != nil {
		return ListResult{}, err
	}

	args := []interface{}{params.OrganizationID, searchParam}

	var total int
	countQuery := "SELECT COUNT(*) " + listBaseQuery
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count agents: %w", err)
	}

	page := params.Page
	pageSize := params.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize
	pageTotal := 0
	if pageSize > 0 {
		pageTotal = (total + pageSize - 1) / pageSize
	}

	selectQuery := `
		SELECT id, organization_id, name, contact_name, email, phone, country, notes, created_at, updated_at
		` + listBaseQuery + `
		ORDER BY
			CASE WHEN $3 = 'name' AND $4 = 'asc' THEN name END ASC,
			CASE WHEN $3 = 'name' AND $4 = 'desc' THEN name END DESC,
			CASE WHEN $3 = 'country' AND $4 = 'asc' THEN country END ASC,
			CASE WHEN $3 = 'country' AND $4 = 'desc' THEN country END DESC,
			CASE WHEN $3 = 'createdAt' AND $4 = 'asc' THEN created_at END ASC,
			CASE WHEN $3 = 'createdAt' AND $4 = 'desc' THEN created_at END DESC,
			CASE WHEN $3 = 'updatedAt' AND $4 = 'asc' THEN updated_at END ASC,
			CASE WHEN $3 = 'updatedAt' AND $4 = 'desc' THEN updated_at END DESC,
			name ASC
		LIMIT $5 OFFSET $6
	`

	args = append(args, sortBy, orderBy, pageSize, offset)
	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return ListResult{}, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	items := make([]Agent, 0)
	for rows.Next() {
		var agent Agent
		if err := rows.Scan(
			&agent.ID,
			&agent.OrganizationID,
			&agent.Name,
			&agent.ContactName,
			&agent.Email,
			&agent.Phone,
			&agent.Country,
			&agent.Notes,
			&agent.CreatedAt,
			&agent.UpdatedAt,
		); err != nil {
			return ListResult{}, fmt.Errorf("scan agent: %w", err)
		}
		items = append(items, agent)
	}
	if rows.Err() != nil {
		return ListResult{}, rows.Err()
	}

	return ListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pageTotal,
	}, nil
}

func resolveSortBy(value string) (string, error) {
	if value == "" {
		return "createdAt", nil
	}
	switch value {
	case "name", "country", "createdAt", "updatedAt":
		return value, nil
	default:
		return "", apperr.BadRequest("invalid sort field")
	}
}

func resolveSortOrder(value string) (string, error) {
	if value == "" {
		return "desc", nil
	}
	switch value {
	case "asc", "desc":
		return value, nil
	default:
		return "", apperr.BadRequest("invalid sort order")
	}
}

func optionalSearch(value string) interface{} {
	if value == "" {
		return nil
	}
	return "%" + value + "%"
}
