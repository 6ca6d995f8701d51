package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")
var ErrEmailTaken = errors.New("email already registered")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Organization struct {
	ID               uuid.UUID
	Name             string
	BaseCurrency     string
	DefaultMarkupBps int32
	DefaultTaxBps    int32
	IBAN             *string
	Email            *string
	Phone            *string
	Address          *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Member struct {
	ID        uuid.UUID
	Email     string
	FullName  string
	Role      string
	CreatedAt time.Time
}

// UpdateOrganizationParams carries the writable profile and pricing defaults.
// Nil pointers leave the stored value unchanged.
type UpdateOrganizationParams struct {
	Name             *string
	BaseCurrency     *string
	DefaultMarkupBps *int32
	DefaultTaxBps    *int32
	IBAN             *string
	Email            *string
	Phone            *string
	Address          *string
}

func (r *Repository) GetOrganization(ctx context.Context, organizationID uuid.UUID) (Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, base_currency, default_markup_bps, default_tax_bps,
			iban, email, phone, address, created_at, updated_at
		FROM td_organizations
		WHERE id = $1
	`, organizationID).Scan(
		&org.ID,
		&org.Name,
		&org.BaseCurrency,
		&org.DefaultMarkupBps,
		&org.DefaultTaxBps,
		&org.IBAN,
		&org.Email,
		&org.Phone,
		&org.Address,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Organization{}, ErrNotFound
	}
	return org, err
}

func (r *Repository) UpdateOrganization(ctx context.Context, organizationID uuid.UUID, p UpdateOrganizationParams) (Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, `
		UPDATE td_organizations
		SET name = COALESCE($2, name),
			base_currency = COALESCE($3, base_currency),
			default_markup_bps = COALESCE($4, default_markup_bps),
			default_tax_bps = COALESCE($5, default_tax_bps),
			iban = COALESCE($6, iban),
			email = COALESCE($7, email),
			phone = COALESCE($8, phone),
			address = COALESCE($9, address),
			updated_at = now()
		WHERE id = $1
		RETURNING id, name, base_currency, default_markup_bps, default_tax_bps,
			iban, email, phone, address, created_at, updated_at
	`, organizationID, p.Name, p.BaseCurrency, p.DefaultMarkupBps, p.DefaultTaxBps,
		p.IBAN, p.Email, p.Phone, p.Address).Scan(
		&org.ID,
		&org.Name,
		&org.BaseCurrency,
		&org.DefaultMarkupBps,
		&org.DefaultTaxBps,
		&org.IBAN,
		&org.Email,
		&org.Phone,
		&org.Address,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Organization{}, ErrNotFound
	}
	return org, err
}

const listMembersQuery = `
	SELECT id, email, full_name, role, created_at
	FROM td_users
	WHERE organization_id = $1
	ORDER BY created_at ASC`

func (r *Repository) ListMembers(ctx context.Context, organizationID uuid.UUID) ([]Member, error) {
	rows, err := r.pool.Query(ctx, listMembersQuery, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]Member, 0)
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Email, &m.FullName, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return members, nil
}

func (r *Repository) CreateMember(ctx context.Context, organizationID uuid.UUID, email, passwordHash, fullName, role string) (Member, error) {
	var m Member
	err := r.pool.QueryRow(ctx, `
		INSERT INTO td_users (organization_id, email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, full_name, role, created_at
	`, organizationID, email, passwordHash, fullName, role).Scan(
		&m.ID, &m.Email, &m.FullName, &m.Role, &m.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Member{}, ErrEmailTaken
		}
		return Member{}, err
	}
	return m, nil
}

func (r *Repository) GetMember(ctx context.Context, organizationID, userID uuid.UUID) (Member, error) {
	var m Member
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, full_name, role, created_at
		FROM td_users
		WHERE id = $2 AND organization_id = $1
	`, organizationID, userID).Scan(
		&m.ID, &m.Email, &m.FullName, &m.Role, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, ErrNotFound
	}
	return m, err
}

func (r *Repository) UpdateMemberRole(ctx context.Context, organizationID, userID uuid.UUID, role string) (Member, error) {
	var m Member
	err := r.pool.QueryRow(ctx, `
		UPDATE td_users
		SET role = $3, updated_at = now()
		WHERE id = $2 AND organization_id = $1
		RETURNING id, email, full_name, role, created_at
	`, organizationID, userID, role).Scan(
		&m.ID, &m.Email, &m.FullName, &m.Role, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, ErrNotFound
	}
	return m, err
}

func (r *Repository) CountAdmins(ctx context.Context, organizationID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM td_users
		WHERE organization_id = $1 AND role = 'admin'
	`, organizationID).Scan(&count)
	return count, err
}
