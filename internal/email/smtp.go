package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface through a direct SMTP
// connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendPaymentReceipt(ctx context.Context, toEmail, agentName, invoiceNumber string, amountMinor int64, currency string, paidMinor, totalMinor int64) error {
	subject := fmt.Sprintf(subjectPaymentReceiptFmt, invoiceNumber)
	content, err := renderEmailTemplate("payment_receipt.html", paymentReceiptEmailData{
		baseEmailData: baseEmailData{
			Title:   "Payment received",
			Heading: "Payment received",
		},
		AgentName:            agentName,
		InvoiceNumber:        invoiceNumber,
		AmountFormatted:      formatAmount(amountMinor, currency),
		PaidFormatted:        formatAmount(paidMinor, currency),
		OutstandingFormatted: formatAmount(totalMinor-paidMinor, currency),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendRefundInitiated(ctx context.Context, toEmail, agentName, invoiceNumber string, amountMinor int64, currency, reason string) error {
	subject := fmt.Sprintf(subjectRefundInitiatedFmt, invoiceNumber)
	content, err := renderEmailTemplate("refund_initiated.html", refundInitiatedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Refund initiated",
			Heading: "Refund initiated",
		},
		AgentName:       agentName,
		InvoiceNumber:   invoiceNumber,
		AmountFormatted: formatAmount(amountMinor, currency),
		Reason:          reason,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendRefundCompleted(ctx context.Context, toEmail, agentName, invoiceNumber string, amountMinor int64, currency string) error {
	subject := fmt.Sprintf(subjectRefundCompletedFmt, invoiceNumber)
	content, err := renderEmailTemplate("refund_completed.html", refundCompletedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Refund completed",
			Heading: "Refund completed",
		},
		AgentName:       agentName,
		InvoiceNumber:   invoiceNumber,
		AmountFormatted: formatAmount(amountMinor, currency),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendOverdueNotice(ctx context.Context, toEmail, agentName, invoiceNumber string, outstandingMinor int64, currency, dueDate string) error {
	subject := fmt.Sprintf(subjectOverdueNoticeFmt, invoiceNumber)
	content, err := renderEmailTemplate("overdue_notice.html", overdueNoticeEmailData{
		baseEmailData: baseEmailData{
			Title:   "Payment reminder",
			Heading: "Payment reminder",
		},
		AgentName:            agentName,
		InvoiceNumber:        invoiceNumber,
		OutstandingFormatted: formatAmount(outstandingMinor, currency),
		DueDate:              dueDate,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendMemberInvite(ctx context.Context, toEmail, fullName, organizationName, tempPassword string) error {
	subject := fmt.Sprintf(subjectMemberInviteFmt, organizationName)
	content, err := renderEmailTemplate("member_invite.html", memberInviteEmailData{
		baseEmailData: baseEmailData{
			Title:   "You have been invited",
			Heading: "You have been invited",
		},
		FullName:         fullName,
		OrganizationName: organizationName,
		TempPassword:     tempPassword,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}
