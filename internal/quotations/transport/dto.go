// Package transport defines the wire types for quotations. Dates travel as
// plain 2006-01-02 strings, money as integer minor units with a currency
// code, markup and tax as percentages.
package transport

import (
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// Quotation header

type CreateQuotationRequest struct {
	AgentID       *uuid.UUID `json:"agent_id"`
	Destination   string     `json:"destination" validate:"required,max=200"`
	StartDate     *string    `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string    `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Adults        int16      `json:"adults" validate:"required,min=1,max=500"`
	Children      int16      `json:"children" validate:"min=0,max=500"`
	MarkupPercent *float64   `json:"markup_percent" validate:"omitempty,gte=0,lte=500"`
	TaxPercent    *float64   `json:"tax_percent" validate:"omitempty,gte=0,lte=100"`
	Currency      *string    `json:"currency" validate:"omitempty,currency"`
	Notes         *string    `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateQuotationRequest struct {
	AgentID       *uuid.UUID `json:"agent_id"`
	Destination   *string    `json:"destination" validate:"omitempty,max=200"`
	StartDate     *string    `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string    `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Adults        *int16     `json:"adults" validate:"omitempty,min=1,max=500"`
	Children      *int16     `json:"children" validate:"omitempty,min=0,max=500"`
	MarkupPercent *float64   `json:"markup_percent" validate:"omitempty,gte=0,lte=500"`
	TaxPercent    *float64   `json:"tax_percent" validate:"omitempty,gte=0,lte=100"`
	Currency      *string    `json:"currency" validate:"omitempty,currency"`
	Notes         *string    `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateQuotationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft sent rejected"`
}

type QuotationResponse struct {
	ID              string     `json:"id"`
	AgentID         *string    `json:"agent_id"`
	QuotationNumber string     `json:"quotation_number"`
	Status          string     `json:"status"`
	Destination     string     `json:"destination"`
	StartDate       *string    `json:"start_date"`
	EndDate         *string    `json:"end_date"`
	Adults          int16      `json:"adults"`
	Children        int16      `json:"children"`
	MarkupPercent   float64    `json:"markup_percent"`
	TaxPercent      float64    `json:"tax_percent"`
	Currency        string     `json:"currency"`
	TotalMinor      int64      `json:"total_minor"`
	Notes           *string    `json:"notes"`
	ArchivedAt      *time.Time `json:"archived_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type QuotationDetailResponse struct {
	QuotationResponse
	Days []DayResponse `json:"days"`
}

type ListQuotationsResponse struct {
	Items      []QuotationResponse `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
}

// Itinerary days

type CreateDayRequest struct {
	DayNumber int32   `json:"day_number" validate:"required,min=1,max=365"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Notes     *string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateDayRequest struct {
	DayNumber *int32  `json:"day_number" validate:"omitempty,min=1,max=365"`
	Date      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes     *string `json:"notes" validate:"omitempty,max=2000"`
}

type DayResponse struct {
	ID        string            `json:"id"`
	DayNumber int32             `json:"day_number"`
	Date      string            `json:"date"`
	Notes     *string           `json:"notes"`
	Expenses  []ExpenseResponse `json:"expenses"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Expenses

type CreateExpenseRequest struct {
	Category    string     `json:"category" validate:"required,oneof=hotel guide vehicle entrance tour generic"`
	SupplierID  *uuid.UUID `json:"supplier_id"`
	Description string     `json:"description" validate:"required,max=500"`
	Quantity    int32      `json:"quantity" validate:"required,min=1,max=10000"`
	UnitMinor   *int64     `json:"unit_minor" validate:"omitempty,gte=0"`
	RateID      *uuid.UUID `json:"rate_id"`
	Notes       *string    `json:"notes" validate:"omitempty,max=2000"`
	SortOrder   *int32     `json:"sort_order" validate:"omitempty,gte=0"`
}

type UpdateExpenseRequest struct {
	Category    *string    `json:"category" validate:"omitempty,oneof=hotel guide vehicle entrance tour generic"`
	SupplierID  *uuid.UUID `json:"supplier_id"`
	Description *string    `json:"description" validate:"omitempty,max=500"`
	Quantity    *int32     `json:"quantity" validate:"omitempty,min=1,max=10000"`
	UnitMinor   *int64     `json:"unit_minor" validate:"omitempty,gte=0"`
	RateLocked  *bool      `json:"rate_locked"`
	Notes       *string    `json:"notes" validate:"omitempty,max=2000"`
	SortOrder   *int32     `json:"sort_order" validate:"omitempty,gte=0"`
}

type ExpenseResponse struct {
	ID              string    `json:"id"`
	DayID           string    `json:"day_id"`
	Category        string    `json:"category"`
	SupplierID      *string   `json:"supplier_id"`
	Description     string    `json:"description"`
	Quantity        int32     `json:"quantity"`
	UnitMinor       int64     `json:"unit_minor"`
	TotalMinor      int64     `json:"total_minor"`
	Currency        string    `json:"currency"`
	RateLocked      bool      `json:"rate_locked"`
	LockedRateID    *string   `json:"locked_rate_id"`
	LockedUnitMinor *int64    `json:"locked_unit_minor"`
	Notes           *string   `json:"notes"`
	SortOrder       int32     `json:"sort_order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Reprice

type PriceResponse struct {
	UnitMinor  int64 `json:"unit_minor"`
	TotalMinor int64 `json:"total_minor"`
}

type RepricedExpenseResponse struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Source      string        `json:"source"`
	Before      PriceResponse `json:"before"`
	After       PriceResponse `json:"after"`
}

type SkippedExpenseResponse struct {
	ExpenseID string `json:"expense_id"`
	Reason    string `json:"reason"`
}

type RepriceSummaryResponse struct {
	OldTotalMinor int64                    `json:"old_total_minor"`
	NewTotalMinor int64                    `json:"new_total_minor"`
	ChangeMinor   int64                    `json:"change_minor"`
	ChangePercent float64                  `json:"change_percent"`
	Currency      string                   `json:"currency"`
	PricedCount   int                      `json:"priced_count"`
	Skipped       []SkippedExpenseResponse `json:"skipped"`
}

type RepriceResponse struct {
	Summary  RepriceSummaryResponse    `json:"summary"`
	Expenses []RepricedExpenseResponse `json:"expenses"`
}

// Accept

type AcceptQuotationResponse struct {
	Quotation QuotationResponse `json:"quotation"`
	BookingID string            `json:"booking_id"`
	InvoiceID string            `json:"invoice_id"`
}
