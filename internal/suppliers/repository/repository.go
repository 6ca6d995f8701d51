// Package repository persists the six supplier registries. Each registry
// lives in its own file; shared pagination plumbing lives here.
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

// ListParams is shared by every supplier registry list.
type ListParams struct {
	OrganizationID  uuid.UUID
	Search          string
	City            string
	IncludeArchived bool
	Page            int
	PageSize        int
}

// Page holds the resolved pagination window.
type Page struct {
	Number int
	Size   int
	Offset int
}

func resolvePage(page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return Page{Number: page, Size: pageSize, Offset: (page - 1) * pageSize}
}

func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func optionalSearch(value string) interface{} {
	if value == "" {
		return nil
	}
	return "%" + value + "%"
}

func optionalText(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
