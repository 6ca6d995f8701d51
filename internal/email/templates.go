package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type paymentReceiptEmailData struct {
	baseEmailData
	AgentName            string
	InvoiceNumber        string
	AmountFormatted      string
	PaidFormatted        string
	OutstandingFormatted string
}

type refundInitiatedEmailData struct {
	baseEmailData
	AgentName       string
	InvoiceNumber   string
	AmountFormatted string
	Reason          string
}

type refundCompletedEmailData struct {
	baseEmailData
	AgentName       string
	InvoiceNumber   string
	AmountFormatted string
}

type overdueNoticeEmailData struct {
	baseEmailData
	AgentName            string
	InvoiceNumber        string
	OutstandingFormatted string
	DueDate              string
}

type memberInviteEmailData struct {
	baseEmailData
	FullName         string
	OrganizationName string
	TempPassword     string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// formatAmount renders integer minor units for display, e.g. "EUR 125.00".
func formatAmount(minor int64, currency string) string {
	return fmt.Sprintf("%s %.2f", currency, float64(minor)/100)
}
