package email

import (
	"strings"
	"testing"
)

func TestRenderEmailTemplates(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     any
		want     []string
	}{
		{
			name:     "payment receipt",
			template: "payment_receipt.html",
			data: paymentReceiptEmailData{
				baseEmailData:        baseEmailData{Title: "Payment received", Heading: "Payment received"},
				AgentName:            "Atlas Travel",
				InvoiceNumber:        "INV-2026-00042",
				AmountFormatted:      "EUR 250.00",
				PaidFormatted:        "EUR 1250.00",
				OutstandingFormatted: "EUR 750.00",
			},
			want: []string{"Atlas Travel", "INV-2026-00042", "EUR 250.00", "EUR 750.00"},
		},
		{
			name:     "refund initiated",
			template: "refund_initiated.html",
			data: refundInitiatedEmailData{
				baseEmailData:   baseEmailData{Title: "Refund initiated", Heading: "Refund initiated"},
				AgentName:       "Atlas Travel",
				InvoiceNumber:   "INV-2026-00042",
				AmountFormatted: "EUR 100.00",
				Reason:          "customer cancelled tour",
			},
			want: []string{"EUR 100.00", "customer cancelled tour"},
		},
		{
			name:     "refund completed",
			template: "refund_completed.html",
			data: refundCompletedEmailData{
				baseEmailData:   baseEmailData{Title: "Refund completed", Heading: "Refund completed"},
				AgentName:       "Atlas Travel",
				InvoiceNumber:   "INV-2026-00042",
				AmountFormatted: "EUR 100.00",
			},
			want: []string{"has been completed", "EUR 100.00"},
		},
		{
			name:     "overdue notice",
			template: "overdue_notice.html",
			data: overdueNoticeEmailData{
				baseEmailData:        baseEmailData{Title: "Payment reminder", Heading: "Payment reminder"},
				AgentName:            "Atlas Travel",
				InvoiceNumber:        "INV-2026-00042",
				OutstandingFormatted: "EUR 900.00",
				DueDate:              "2026-03-01",
			},
			want: []string{"was due on 2026-03-01", "EUR 900.00"},
		},
		{
			name:     "member invite",
			template: "member_invite.html",
			data: memberInviteEmailData{
				baseEmailData:    baseEmailData{Title: "You have been invited", Heading: "You have been invited"},
				FullName:         "Deniz Kaya",
				OrganizationName: "Aegean Tours",
				TempPassword:     "w3lc0me-Xy",
			},
			want: []string{"Deniz Kaya", "Aegean Tours", "w3lc0me-Xy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderEmailTemplate(tt.template, tt.data)
			if err != nil {
				t.Fatalf("renderEmailTemplate(%s) error: %v", tt.template, err)
			}
			for _, fragment := range tt.want {
				if !strings.Contains(got, fragment) {
					t.Errorf("rendered %s does not contain %q", tt.template, fragment)
				}
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		minor    int64
		currency string
		want     string
	}{
		{125000, "EUR", "EUR 1250.00"},
		{99, "USD", "USD 0.99"},
		{0, "TRY", "TRY 0.00"},
		{-2500, "EUR", "EUR -25.00"},
	}

	for _, tt := range tests {
		if got := formatAmount(tt.minor, tt.currency); got != tt.want {
			t.Errorf("formatAmount(%d, %s) = %q, want %q", tt.minor, tt.currency, got, tt.want)
		}
	}
}
