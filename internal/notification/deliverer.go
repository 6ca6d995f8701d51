package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tourdesk_backend/internal/email"
	"tourdesk_backend/internal/notification/outbox"
	"tourdesk_backend/platform/logger"

	"github.com/google/uuid"
)

// errUndeliverable marks rows that no amount of retrying can fix, such
// as a malformed payload or an unknown template.
var errUndeliverable = errors.New("undeliverable")

func undeliverable(cause error) error {
	return fmt.Errorf("%w: %s", errUndeliverable, cause)
}

type outboxStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (outbox.Record, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkSucceeded(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error
}

// Deliverer sends one claimed outbox row. It runs inside the worker; a
// returned error makes the task retry, so undeliverable rows are marked
// failed and swallowed instead.
type Deliverer struct {
	store  outboxStore
	sender email.Sender
	log    *logger.Logger
}

func NewDeliverer(repo *outbox.Repository, sender email.Sender, log *logger.Logger) *Deliverer {
	return &Deliverer{store: repo, sender: sender, log: log}
}

func (d *Deliverer) Deliver(ctx context.Context, outboxID uuid.UUID) error {
	rec, err := d.store.GetByID(ctx, outboxID)
	if err != nil {
		return fmt.Errorf("load outbox record %s: %w", outboxID, err)
	}

	// Redelivered tasks can race a finished row.
	if rec.Status == outbox.StatusSucceeded {
		return nil
	}

	if err := d.store.MarkProcessing(ctx, rec.ID); err != nil {
		return fmt.Errorf("mark outbox record %s processing: %w", rec.ID, err)
	}

	sendErr := d.send(ctx, rec)
	if sendErr == nil {
		if err := d.store.MarkSucceeded(ctx, rec.ID); err != nil {
			d.log.Error("failed to mark outbox record succeeded", "outboxId", rec.ID, "error", err)
		}
		d.log.Info("notification delivered", "outboxId", rec.ID, "template", rec.Template)
		return nil
	}

	if err := d.store.MarkFailed(ctx, rec.ID, sendErr.Error()); err != nil {
		d.log.Error("failed to mark outbox record failed", "outboxId", rec.ID, "error", err)
	}
	if errors.Is(sendErr, errUndeliverable) {
		d.log.Error("dropping undeliverable outbox record",
			"outboxId", rec.ID,
			"template", rec.Template,
			"error", sendErr,
		)
		return nil
	}
	return sendErr
}

func (d *Deliverer) send(ctx context.Context, rec outbox.Record) error {
	switch rec.Template {
	case templatePaymentReceipt:
		var p paymentReceiptPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return undeliverable(err)
		}
		return d.sender.SendPaymentReceipt(ctx, rec.Recipient, p.AgentName, p.InvoiceNumber, p.AmountMinor, p.Currency, p.PaidMinor, p.TotalMinor)

	case templateRefundInitiated:
		var p refundInitiatedPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return undeliverable(err)
		}
		return d.sender.SendRefundInitiated(ctx, rec.Recipient, p.AgentName, p.InvoiceNumber, p.AmountMinor, p.Currency, p.Reason)

	case templateRefundCompleted:
		var p refundCompletedPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return undeliverable(err)
		}
		return d.sender.SendRefundCompleted(ctx, rec.Recipient, p.AgentName, p.InvoiceNumber, p.AmountMinor, p.Currency)

	case templateOverdueNotice:
		var p overdueNoticePayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return undeliverable(err)
		}
		return d.sender.SendOverdueNotice(ctx, rec.Recipient, p.AgentName, p.InvoiceNumber, p.OutstandingMinor, p.Currency, p.DueDate)

	case templateMemberInvite:
		var p memberInvitePayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return undeliverable(err)
		}
		return d.sender.SendMemberInvite(ctx, rec.Recipient, p.FullName, p.OrganizationName, p.TempPassword)

	default:
		return undeliverable(fmt.Errorf("unknown template %q", rec.Template))
	}
}
