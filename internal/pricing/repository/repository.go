// Package repository persists the five season-rate tables. One file per
// table; resolution queries live next to the CRUD they price.
package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RateListParams is shared by every rate table list.
type RateListParams struct {
	OrganizationID uuid.UUID
	SupplierID     *uuid.UUID
	Page           int
	PageSize       int
}

type page struct {
	number int
	size   int
	offset int
}

func resolvePage(pageNumber, pageSize int) page {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page{number: pageNumber, size: pageSize, offset: (pageNumber - 1) * pageSize}
}

func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
