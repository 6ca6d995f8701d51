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

const restaurantNotFoundMsg = "restaurant not found"

type Restaurant struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	City           string
	Cuisine        *string
	Phone          *string
	Email          *string
	ArchivedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateRestaurantParams struct {
	OrganizationID uuid.UUID
	Name           string
	City           string
	Cuisine        *string
	Phone          *string
	Email          *string
}

type UpdateRestaurantParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           *string
	City           *string
	Cuisine        *string
	Phone          *string
	Email          *string
}

type RestaurantList struct {
	Items      []Restaurant
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const restaurantColumns = `id, organization_id, name, city, cuisine, phone, email, archived_at, created_at, updated_at`

func scanRestaurant(row pgx.Row) (Restaurant, error) {
	var res Restaurant
	err := row.Scan(
		&res.ID,
		&res.OrganizationID,
		&res.Name,
		&res.City,
		&res.Cuisine,
		&res.Phone,
		&res.Email,
		&res.ArchivedAt,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	return res, err
}

func (r *Repository) CreateRestaurant(ctx context.Context, p CreateRestaurantParams) (Restaurant, error) {
	restaurant, err := scanRestaurant(r.pool.QueryRow(ctx, `
		INSERT INTO td_restaurants (organization_id, name, city, cuisine, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+restaurantColumns+`
	`, p.OrganizationID, p.Name, p.City, p.Cuisine, p.Phone, p.Email))
	if err != nil {
		return Restaurant{}, fmt.Errorf("create restaurant: %w", err)
	}
	return restaurant, nil
}

func (r *Repository) GetRestaurant(ctx context.Context, id, organizationID uuid.UUID) (Restaurant, error) {
	restaurant, err := scanRestaurant(r.pool.QueryRow(ctx, `
		SELECT `+restaurantColumns+`
		FROM td_restaurants
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Restaurant{}, apperr.NotFound(restaurantNotFoundMsg)
		}
		return Restaurant{}, fmt.Errorf("get restaurant: %w", err)
	}
	return restaurant, nil
}

func (r *Repository) UpdateRestaurant(ctx context.Context, p UpdateRestaurantParams) (Restaurant, error) {
	restaurant, err := scanRestaurant(r.pool.QueryRow(ctx, `
		UPDATE td_restaurants
		SET name = COALESCE($3, name),
			city = COALESCE($4, city),
			cuisine = COALESCE($5, cuisine),
			phone = COALESCE($6, phone),
			email = COALESCE($7, email),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+restaurantColumns+`
	`, p.ID, p.OrganizationID, p.Name, p.City, p.Cuisine, p.Phone, p.Email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Restaurant{}, apperr.NotFound(restaurantNotFoundMsg)
		}
		return Restaurant{}, fmt.Errorf("update restaurant: %w", err)
	}
	return restaurant, nil
}

func (r *Repository) ArchiveRestaurant(ctx context.Context, id, organizationID uuid.UUID) error {
	return r.setRestaurantArchived(ctx, id, organizationID, true)
}

func (r *Repository) RestoreRestaurant(ctx context.Context, id, organizationID uuid.UUID) error {
	return r.setRestaurantArchived(ctx, id, organizationID, false)
}

func (r *Repository) setRestaurantArchived(ctx context.Context, id, organizationID uuid.UUID, archived bool) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE td_restaurants
		SET archived_at = CASE WHEN $3 THEN now() ELSE NULL END, updated_at = now()
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID, archived)
	if err != nil {
		return fmt.Errorf("archive restaurant: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(restaurantNotFoundMsg)
	}
	return nil
}

const listRestaurantsBaseQuery = `
	FROM td_restaurants
	WHERE organization_id = $1
		AND ($2::text IS NULL OR name ILIKE $2 OR cuisine ILIKE $2)
		AND ($3::text IS NULL OR city ILIKE $3)
		AND ($4::boolean OR archived_at IS NULL)
`

func (r *Repository) ListRestaurants(ctx context.Context, params ListParams) (RestaurantList, error) {
	args := []interface{}{params.OrganizationID, optionalSearch(params.Search), optionalText(params.City), params.IncludeArchived}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+listRestaurantsBaseQuery, args...).Scan(&total); err != nil {
		return RestaurantList{}, fmt.Errorf("count restaurants: %w", err)
	}

	page := resolvePage(params.Page, params.PageSize)
	args = append(args, page.Size, page.Offset)

	rows, err := r.pool.Query(ctx, `
		SELECT `+restaurantColumns+listRestaurantsBaseQuery+`
		ORDER BY name ASC
		LIMIT $5 OFFSET $6
	`, args...)
	if err != nil {
		return RestaurantList{}, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	items := make([]Restaurant, 0)
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return RestaurantList{}, fmt.Errorf("scan restaurant: %w", err)
		}
		items = append(items, restaurant)
	}
	if rows.Err() != nil {
		return RestaurantList{}, rows.Err()
	}

	return RestaurantList{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: totalPages(total, page.Size),
	}, nil
}
