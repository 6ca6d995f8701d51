// Package notification turns domain events into queued outbox rows. Mail
// is never sent inline with a mutation; the worker delivers queued rows
// and records the outcome.
package notification

import (
	"context"

	"tourdesk_backend/internal/events"
	"tourdesk_backend/internal/notification/outbox"
	"tourdesk_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	templatePaymentReceipt  = "payment_receipt"
	templateRefundInitiated = "refund_initiated"
	templateRefundCompleted = "refund_completed"
	templateOverdueNotice   = "overdue_notice"
	templateMemberInvite    = "member_invite"
)

const dueDateLayout = "2006-01-02"

type paymentReceiptPayload struct {
	AgentName     string `json:"agentName"`
	InvoiceNumber string `json:"invoiceNumber"`
	AmountMinor   int64  `json:"amountMinor"`
	Currency      string `json:"currency"`
	PaidMinor     int64  `json:"paidMinor"`
	TotalMinor    int64  `json:"totalMinor"`
}

type refundInitiatedPayload struct {
	AgentName     string `json:"agentName"`
	InvoiceNumber string `json:"invoiceNumber"`
	AmountMinor   int64  `json:"amountMinor"`
	Currency      string `json:"currency"`
	Reason        string `json:"reason"`
}

type refundCompletedPayload struct {
	AgentName     string `json:"agentName"`
	InvoiceNumber string `json:"invoiceNumber"`
	AmountMinor   int64  `json:"amountMinor"`
	Currency      string `json:"currency"`
}

type overdueNoticePayload struct {
	AgentName        string `json:"agentName"`
	InvoiceNumber    string `json:"invoiceNumber"`
	OutstandingMinor int64  `json:"outstandingMinor"`
	Currency         string `json:"currency"`
	DueDate          string `json:"dueDate"`
}

type memberInvitePayload struct {
	FullName         string `json:"fullName"`
	OrganizationName string `json:"organizationName"`
	TempPassword     string `json:"tempPassword"`
}

type outboxInserter interface {
	Insert(ctx context.Context, p outbox.InsertParams) (uuid.UUID, error)
}

type Module struct {
	outbox outboxInserter
	log    *logger.Logger
}

func New(pool *pgxpool.Pool, log *logger.Logger) *Module {
	return &Module{
		outbox: outbox.New(pool),
		log:    log,
	}
}

func (m *Module) Name() string { return "notification" }

// RegisterHandlers subscribes the module to the events it queues mail for.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.PaymentReceived{}.EventName(), m)
	bus.Subscribe(events.RefundInitiated{}.EventName(), m)
	bus.Subscribe(events.RefundCompleted{}.EventName(), m)
	bus.Subscribe(events.InvoiceOverdue{}.EventName(), m)
	bus.Subscribe(events.MemberInvited{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.PaymentReceived:
		return m.handlePaymentReceived(ctx, e)
	case events.RefundInitiated:
		return m.handleRefundInitiated(ctx, e)
	case events.RefundCompleted:
		return m.handleRefundCompleted(ctx, e)
	case events.InvoiceOverdue:
		return m.handleInvoiceOverdue(ctx, e)
	case events.MemberInvited:
		return m.handleMemberInvited(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handlePaymentReceived(ctx context.Context, e events.PaymentReceived) error {
	if e.AgentEmail == "" {
		m.log.Info("skipping payment receipt, agent has no email", "invoiceId", e.InvoiceID)
		return nil
	}

	_, err := m.outbox.Insert(ctx, outbox.InsertParams{
		OrganizationID: e.OrganizationID,
		Recipient:      e.AgentEmail,
		Template:       templatePaymentReceipt,
		Payload: paymentReceiptPayload{
			AgentName:     e.AgentName,
			InvoiceNumber: e.InvoiceNumber,
			AmountMinor:   e.AmountMinor,
			Currency:      e.Currency,
			PaidMinor:     e.PaidMinor,
			TotalMinor:    e.TotalMinor,
		},
	})
	if err != nil {
		m.log.Error("failed to queue payment receipt",
			"invoiceId", e.InvoiceID,
			"email", e.AgentEmail,
			"error", err,
		)
		return err
	}
	m.log.Info("payment receipt queued", "invoiceId", e.InvoiceID, "email", e.AgentEmail)
	return nil
}

func (m *Module) handleRefundInitiated(ctx context.Context, e events.RefundInitiated) error {
	if e.AgentEmail == "" {
		m.log.Info("skipping refund notice, agent has no email", "invoiceId", e.InvoiceID)
		return nil
	}

	_, err := m.outbox.Insert(ctx, outbox.InsertParams{
		OrganizationID: e.OrganizationID,
		Recipient:      e.AgentEmail,
		Template:       templateRefundInitiated,
		Payload: refundInitiatedPayload{
			AgentName:     e.AgentName,
			InvoiceNumber: e.InvoiceNumber,
			AmountMinor:   e.AmountMinor,
			Currency:      e.Currency,
			Reason:        e.Reason,
		},
	})
	if err != nil {
		m.log.Error("failed to queue refund notice",
			"invoiceId", e.InvoiceID,
			"cancellationId", e.CancellationID,
			"error", err,
		)
		return err
	}
	m.log.Info("refund notice queued", "invoiceId", e.InvoiceID, "email", e.AgentEmail)
	return nil
}

func (m *Module) handleRefundCompleted(ctx context.Context, e events.RefundCompleted) error {
	if e.AgentEmail == "" {
		m.log.Info("skipping refund confirmation, agent has no email", "invoiceId", e.InvoiceID)
		return nil
	}

	_, err := m.outbox.Insert(ctx, outbox.InsertParams{
		OrganizationID: e.OrganizationID,
		Recipient:      e.AgentEmail,
		Template:       templateRefundCompleted,
		Payload: refundCompletedPayload{
			AgentName:     e.AgentName,
			InvoiceNumber: e.InvoiceNumber,
			AmountMinor:   e.AmountMinor,
			Currency:      e.Currency,
		},
	})
	if err != nil {
		m.log.Error("failed to queue refund confirmation",
			"invoiceId", e.InvoiceID,
			"cancellationId", e.CancellationID,
			"error", err,
		)
		return err
	}
	m.log.Info("refund confirmation queued", "invoiceId", e.InvoiceID, "email", e.AgentEmail)
	return nil
}

func (m *Module) handleInvoiceOverdue(ctx context.Context, e events.InvoiceOverdue) error {
	if e.AgentEmail == "" {
		m.log.Info("skipping overdue notice, agent has no email", "invoiceId", e.InvoiceID)
		return nil
	}

	_, err := m.outbox.Insert(ctx, outbox.InsertParams{
		OrganizationID: e.OrganizationID,
		Recipient:      e.AgentEmail,
		Template:       templateOverdueNotice,
		Payload: overdueNoticePayload{
			AgentName:        e.AgentName,
			InvoiceNumber:    e.InvoiceNumber,
			OutstandingMinor: e.OutstandingMinor,
			Currency:         e.Currency,
			DueDate:          e.DueDate.Format(dueDateLayout),
		},
	})
	if err != nil {
		m.log.Error("failed to queue overdue notice",
			"invoiceId", e.InvoiceID,
			"error", err,
		)
		return err
	}
	m.log.Info("overdue notice queued", "invoiceId", e.InvoiceID, "email", e.AgentEmail)
	return nil
}

func (m *Module) handleMemberInvited(ctx context.Context, e events.MemberInvited) error {
	if e.Email == "" {
		m.log.Info("skipping member invite, no email on account", "userId", e.UserID)
		return nil
	}

	_, err := m.outbox.Insert(ctx, outbox.InsertParams{
		OrganizationID: e.OrganizationID,
		Recipient:      e.Email,
		Template:       templateMemberInvite,
		Payload: memberInvitePayload{
			FullName:         e.FullName,
			OrganizationName: e.OrganizationName,
			TempPassword:     e.TempPassword,
		},
	})
	if err != nil {
		m.log.Error("failed to queue member invite",
			"userId", e.UserID,
			"email", e.Email,
			"error", err,
		)
		return err
	}
	m.log.Info("member invite queued", "userId", e.UserID, "email", e.Email)
	return nil
}
