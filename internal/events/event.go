// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"tourdesk_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Identity Domain Events
// =============================================================================

// OrganizationCreated is published when a new organization is bootstrapped.
type OrganizationCreated struct {
	BaseEvent
	OrganizationID uuid.UUID `json:"organizationId"`
	Name           string    `json:"name"`
	CreatedBy      uuid.UUID `json:"createdBy"`
}

func (e OrganizationCreated) EventName() string { return "identity.organization.created" }

// MemberInvited is published when an admin creates a member account.
type MemberInvited struct {
	BaseEvent
	OrganizationID   uuid.UUID `json:"organizationId"`
	OrganizationName string    `json:"organizationName"`
	UserID           uuid.UUID `json:"userId"`
	Email            string    `json:"email"`
	FullName         string    `json:"fullName"`
	TempPassword     string    `json:"tempPassword"`
}

func (e MemberInvited) EventName() string { return "identity.member.invited" }

// =============================================================================
// Quotation Domain Events
// =============================================================================

// QuotationAccepted is published when an operator accepts a quotation and
// a booking plus receivable invoice have been created for it.
type QuotationAccepted struct {
	BaseEvent
	QuotationID     uuid.UUID `json:"quotationId"`
	OrganizationID  uuid.UUID `json:"organizationId"`
	QuotationNumber string    `json:"quotationNumber"`
	BookingID       uuid.UUID `json:"bookingId"`
	InvoiceID       uuid.UUID `json:"invoiceId"`
	AgentID         uuid.UUID `json:"agentId"`
	TotalMinor      int64     `json:"totalMinor"`
	Currency        string    `json:"currency"`
	AcceptedBy      uuid.UUID `json:"acceptedBy"`
}

func (e QuotationAccepted) EventName() string { return "quotations.quotation.accepted" }

// QuotationRepriced is published after a successful reprice run.
type QuotationRepriced struct {
	BaseEvent
	QuotationID    uuid.UUID `json:"quotationId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	OldTotalMinor  int64     `json:"oldTotalMinor"`
	NewTotalMinor  int64     `json:"newTotalMinor"`
	Currency       string    `json:"currency"`
	RespectLocked  bool      `json:"respectLocked"`
	ActorID        uuid.UUID `json:"actorId"`
}

func (e QuotationRepriced) EventName() string { return "quotations.quotation.repriced" }

// =============================================================================
// Invoice Domain Events
// =============================================================================

// PaymentReceived is published after a payment has been committed against a
// receivable invoice. Notification handlers use it to queue the receipt email.
type PaymentReceived struct {
	BaseEvent
	OrganizationID uuid.UUID `json:"organizationId"`
	InvoiceID      uuid.UUID `json:"invoiceId"`
	InvoiceNumber  string    `json:"invoiceNumber"`
	PaymentID      uuid.UUID `json:"paymentId"`
	AmountMinor    int64     `json:"amountMinor"`
	Currency       string    `json:"currency"`
	PaidMinor      int64     `json:"paidMinor"`
	TotalMinor     int64     `json:"totalMinor"`
	Status         string    `json:"status"`
	AgentName      string    `json:"agentName"`
	AgentEmail     string    `json:"agentEmail"`
	RecordedBy     uuid.UUID `json:"recordedBy"`
}

func (e PaymentReceived) EventName() string { return "invoices.payment.received" }

// RefundInitiated is published when a refund enters the processing phase.
type RefundInitiated struct {
	BaseEvent
	OrganizationID uuid.UUID `json:"organizationId"`
	InvoiceID      uuid.UUID `json:"invoiceId"`
	InvoiceNumber  string    `json:"invoiceNumber"`
	CancellationID uuid.UUID `json:"cancellationId"`
	AmountMinor    int64     `json:"amountMinor"`
	Currency       string    `json:"currency"`
	Reason         string    `json:"reason"`
	AgentName      string    `json:"agentName"`
	AgentEmail     string    `json:"agentEmail"`
	ProcessedBy    uuid.UUID `json:"processedBy"`
}

func (e RefundInitiated) EventName() string { return "invoices.refund.initiated" }

// RefundCompleted is published when a processing refund is confirmed.
type RefundCompleted struct {
	BaseEvent
	OrganizationID uuid.UUID `json:"organizationId"`
	InvoiceID      uuid.UUID `json:"invoiceId"`
	InvoiceNumber  string    `json:"invoiceNumber"`
	CancellationID uuid.UUID `json:"cancellationId"`
	AmountMinor    int64     `json:"amountMinor"`
	Currency       string    `json:"currency"`
	AgentName      string    `json:"agentName"`
	AgentEmail     string    `json:"agentEmail"`
	CompletedBy    uuid.UUID `json:"completedBy"`
}

func (e RefundCompleted) EventName() string { return "invoices.refund.completed" }

// InvoiceOverdue is published by the due-date sweep for each invoice that
// crossed its due date while unpaid.
type InvoiceOverdue struct {
	BaseEvent
	OrganizationID   uuid.UUID `json:"organizationId"`
	InvoiceID        uuid.UUID `json:"invoiceId"`
	InvoiceNumber    string    `json:"invoiceNumber"`
	OutstandingMinor int64     `json:"outstandingMinor"`
	Currency         string    `json:"currency"`
	DueDate          time.Time `json:"dueDate"`
	AgentName        string    `json:"agentName"`
	AgentEmail       string    `json:"agentEmail"`
}

func (e InvoiceOverdue) EventName() string { return "invoices.invoice.overdue" }
