// Package email sends transactional mail over the organization's SMTP
// server. Callers depend on the Sender interface so delivery can be
// disabled in development and faked in tests.
package email

import (
	"context"

	"tourdesk_backend/platform/config"
)

type Sender interface {
	SendPaymentReceipt(ctx context.Context, toEmail, agentName, invoiceNumber string, amountMinor int64, currency string, paidMinor, totalMinor int64) error
	SendRefundInitiated(ctx context.Context, toEmail, agentName, invoiceNumber string, amountMinor int64, currency, reason string) error
	SendRefundCompleted(ctx context.Context, toEmail, agentName, invoiceNumber string, amountMinor int64, currency string) error
	SendOverdueNotice(ctx context.Context, toEmail, agentName, invoiceNumber string, outstandingMinor int64, currency, dueDate string) error
	SendMemberInvite(ctx context.Context, toEmail, fullName, organizationName, tempPassword string) error
}

// NoopSender satisfies Sender without delivering anything. It is used
// when no SMTP server is configured.
type NoopSender struct{}

func (NoopSender) SendPaymentReceipt(ctx context.Context, toEmail, agentName, invoiceNumber string, amountMinor int64, currency string, paidMinor, totalMinor int64) error {
	return nil
}

func (NoopSender) SendRefundInitiated(ctx context.Context, toEmail, agentName, invoiceNumber string, amountMinor int64, currency, reason string) error {
	return nil
}

func (NoopSender) SendRefundCompleted(ctx context.Context, toEmail, agentName, invoiceNumber string, amountMinor int64, currency string) error {
	return nil
}

func (NoopSender) SendOverdueNotice(ctx context.Context, toEmail, agentName, invoiceNumber string, outstandingMinor int64, currency, dueDate string) error {
	return nil
}

func (NoopSender) SendMemberInvite(ctx context.Context, toEmail, fullName, organizationName, tempPassword string) error {
	return nil
}

// NewSender returns the SMTP sender when mail is enabled, otherwise a
// NoopSender.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
