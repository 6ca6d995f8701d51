// Package transport defines the wire types for the billing surface. Money
// travels as integer minor units paired with a currency code, dates as
// plain 2006-01-02 strings.
package transport

import (
	"time"

	"tourdesk_backend/internal/money"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// Receivable invoices

type InvoiceResponse struct {
	ID             string       `json:"id"`
	BookingID      string       `json:"booking_id"`
	AgentID        *string      `json:"agent_id"`
	InvoiceNumber  string       `json:"invoice_number"`
	Status         string       `json:"status"`
	Total          money.Amount `json:"total"`
	Paid           money.Amount `json:"paid"`
	Outstanding    money.Amount `json:"outstanding"`
	RefundsPending money.Amount `json:"refunds_pending"`
	IssueDate      string       `json:"issue_date"`
	DueDate        string       `json:"due_date"`
	LastPaymentOn  *string      `json:"last_payment_on"`
	Notes          *string      `json:"notes"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type InvoiceDetailResponse struct {
	InvoiceResponse
	Booking  BookingResponse   `json:"booking"`
	Payments []PaymentResponse `json:"payments"`
	Refunds  []RefundResponse  `json:"refunds"`
}

type ListInvoicesResponse struct {
	Items      []InvoiceResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// Bookings

type BookingResponse struct {
	ID            string    `json:"id"`
	QuotationID   string    `json:"quotation_id"`
	BookingNumber string    `json:"booking_number"`
	Status        string    `json:"status"`
	Destination   string    `json:"destination"`
	StartDate     *string   `json:"start_date"`
	EndDate       *string   `json:"end_date"`
	Adults        int16     `json:"adults"`
	Children      int16     `json:"children"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ListBookingsResponse struct {
	Items      []BookingResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// Payments

type ApplyPaymentRequest struct {
	PaymentAmount    int64   `json:"payment_amount" validate:"required,gt=0"`
	PaymentCurrency  *string `json:"payment_currency" validate:"omitempty,currency"`
	PaymentDate      string  `json:"payment_date" validate:"required,datetime=2006-01-02"`
	PaymentMethod    string  `json:"payment_method" validate:"required,oneof=bank_transfer cash credit_card cheque other"`
	PaymentReference *string `json:"payment_reference" validate:"omitempty,max=200"`
	Notes            *string `json:"notes" validate:"omitempty,max=2000"`
}

type PaymentResponse struct {
	ID         string       `json:"id"`
	Amount     money.Amount `json:"amount"`
	Method     string       `json:"method"`
	Reference  *string      `json:"reference"`
	PaidOn     string       `json:"paid_on"`
	Notes      *string      `json:"notes"`
	RecordedBy string       `json:"recorded_by"`
	CreatedAt  time.Time    `json:"created_at"`
}

type ApplyPaymentResponse struct {
	Invoice InvoiceResponse `json:"invoice"`
	Payment PaymentResponse `json:"payment"`
}

// Refunds

type InitiateRefundRequest struct {
	RefundAmount    int64      `json:"refund_amount" validate:"required,gt=0"`
	RefundCurrency  string     `json:"refund_currency" validate:"required,currency"`
	RefundMethod    string     `json:"refund_method" validate:"required,oneof=bank_transfer cash credit_card cheque other"`
	RefundReference *string    `json:"refund_reference" validate:"omitempty,max=200"`
	RefundReason    string     `json:"refund_reason" validate:"required,max=2000"`
	CancellationID  *uuid.UUID `json:"cancellation_id"`
}

type CompleteRefundRequest struct {
	CancellationID uuid.UUID `json:"cancellation_id" validate:"required"`
}

type RefundResponse struct {
	CancellationID string       `json:"cancellation_id"`
	BookingID      string       `json:"booking_id"`
	Amount         money.Amount `json:"amount"`
	Method         string       `json:"method"`
	Reference      *string      `json:"reference"`
	Reason         string       `json:"reason"`
	Status         string       `json:"status"`
	ProcessedBy    string       `json:"processed_by"`
	CompletedBy    *string      `json:"completed_by"`
	CompletedAt    *time.Time   `json:"completed_at"`
	CreatedAt      time.Time    `json:"created_at"`
}

type RefundInvoiceResponse struct {
	Invoice InvoiceResponse `json:"invoice"`
	Refund  RefundResponse  `json:"refund"`
}

// Attachments

type CreateAttachmentRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=100"`
	SizeBytes   int64  `json:"size_bytes" validate:"required,gt=0"`
}

type AttachmentResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type AttachmentUploadResponse struct {
	Attachment AttachmentResponse `json:"attachment"`
	UploadURL  string             `json:"upload_url"`
	ExpiresAt  time.Time          `json:"expires_at"`
}

type AttachmentDownloadResponse struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Payable invoices

type CreatePayableRequest struct {
	SupplierID  *uuid.UUID `json:"supplier_id"`
	SupplierRef string     `json:"supplier_ref" validate:"required,max=200"`
	Currency    string     `json:"currency" validate:"required,currency"`
	AmountMinor int64      `json:"amount_minor" validate:"required,gt=0"`
	DueDate     *string    `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Notes       *string    `json:"notes" validate:"omitempty,max=2000"`
}

type UpdatePayableRequest struct {
	SupplierID  *uuid.UUID `json:"supplier_id"`
	SupplierRef *string    `json:"supplier_ref" validate:"omitempty,max=200"`
	Currency    *string    `json:"currency" validate:"omitempty,currency"`
	AmountMinor *int64     `json:"amount_minor" validate:"omitempty,gt=0"`
	DueDate     *string    `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Notes       *string    `json:"notes" validate:"omitempty,max=2000"`
}

type UpdatePayableStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved paid"`
}

type PayableResponse struct {
	ID          string       `json:"id"`
	SupplierID  *string      `json:"supplier_id"`
	SupplierRef string       `json:"supplier_ref"`
	Status      string       `json:"status"`
	Amount      money.Amount `json:"amount"`
	DueDate     *string      `json:"due_date"`
	Notes       *string      `json:"notes"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type ListPayablesResponse struct {
	Items      []PayableResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}
