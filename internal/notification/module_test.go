package notification

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"tourdesk_backend/internal/events"
	"tourdesk_backend/internal/notification/outbox"
	"tourdesk_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeInserter struct {
	rows []outbox.InsertParams
	err  error
}

func (f *fakeInserter) Insert(_ context.Context, p outbox.InsertParams) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	f.rows = append(f.rows, p)
	return uuid.New(), nil
}

type fakeSender struct {
	receiptCalls         int
	refundInitiatedCalls int
	refundCompletedCalls int
	overdueCalls         int
	inviteCalls          int
	lastRecipient        string
	err                  error
}

func (s *fakeSender) SendPaymentReceipt(_ context.Context, toEmail, _, _ string, _ int64, _ string, _, _ int64) error {
	s.receiptCalls++
	s.lastRecipient = toEmail
	return s.err
}

func (s *fakeSender) SendRefundInitiated(_ context.Context, toEmail, _, _ string, _ int64, _, _ string) error {
	s.refundInitiatedCalls++
	s.lastRecipient = toEmail
	return s.err
}

func (s *fakeSender) SendRefundCompleted(_ context.Context, toEmail, _, _ string, _ int64, _ string) error {
	s.refundCompletedCalls++
	s.lastRecipient = toEmail
	return s.err
}

func (s *fakeSender) SendOverdueNotice(_ context.Context, toEmail, _, _ string, _ int64, _, _ string) error {
	s.overdueCalls++
	s.lastRecipient = toEmail
	return s.err
}

func (s *fakeSender) SendMemberInvite(_ context.Context, toEmail, _, _, _ string) error {
	s.inviteCalls++
	s.lastRecipient = toEmail
	return s.err
}

func newTestModule() (*Module, *fakeInserter) {
	inserter := &fakeInserter{}
	m := New(nil, logger.New("test"))
	m.outbox = inserter
	return m, inserter
}

func TestHandleQueuesPaymentReceipt(t *testing.T) {
	m, inserter := newTestModule()
	orgID := uuid.New()

	err := m.Handle(context.Background(), events.PaymentReceived{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: orgID,
		InvoiceID:      uuid.New(),
		InvoiceNumber:  "INV-2026-00042",
		AmountMinor:    25000,
		Currency:       "EUR",
		PaidMinor:      75000,
		TotalMinor:     100000,
		AgentName:      "Atlas Travel",
		AgentEmail:     "billing@atlastravel.example",
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	if len(inserter.rows) != 1 {
		t.Fatalf("expected 1 outbox row, got %d", len(inserter.rows))
	}
	row := inserter.rows[0]
	if row.Template != templatePaymentReceipt {
		t.Errorf("template = %q, want %q", row.Template, templatePaymentReceipt)
	}
	if row.Recipient != "billing@atlastravel.example" {
		t.Errorf("recipient = %q", row.Recipient)
	}
	if row.OrganizationID != orgID {
		t.Errorf("organization id = %s, want %s", row.OrganizationID, orgID)
	}

	payload, ok := row.Payload.(paymentReceiptPayload)
	if !ok {
		t.Fatalf("payload has type %T", row.Payload)
	}
	if payload.AmountMinor != 25000 || payload.InvoiceNumber != "INV-2026-00042" {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestHandleRoutesEventsToTemplates(t *testing.T) {
	tests := []struct {
		name         string
		event        events.Event
		wantTemplate string
	}{
		{
			name: "refund initiated",
			event: events.RefundInitiated{
				OrganizationID: uuid.New(),
				InvoiceNumber:  "INV-2026-00001",
				AmountMinor:    5000,
				Currency:       "EUR",
				Reason:         "tour cancelled",
				AgentEmail:     "agent@example.com",
			},
			wantTemplate: templateRefundInitiated,
		},
		{
			name: "refund completed",
			event: events.RefundCompleted{
				OrganizationID: uuid.New(),
				InvoiceNumber:  "INV-2026-00001",
				AmountMinor:    5000,
				Currency:       "EUR",
				AgentEmail:     "agent@example.com",
			},
			wantTemplate: templateRefundCompleted,
		},
		{
			name: "invoice overdue",
			event: events.InvoiceOverdue{
				OrganizationID:   uuid.New(),
				InvoiceNumber:    "INV-2026-00001",
				OutstandingMinor: 90000,
				Currency:         "EUR",
				DueDate:          time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				AgentEmail:       "agent@example.com",
			},
			wantTemplate: templateOverdueNotice,
		},
		{
			name: "member invited",
			event: events.MemberInvited{
				OrganizationID:   uuid.New(),
				OrganizationName: "Aegean Tours",
				UserID:           uuid.New(),
				Email:            "new.member@example.com",
				FullName:         "Deniz Kaya",
				TempPassword:     "t3mp-pass",
			},
			wantTemplate: templateMemberInvite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, inserter := newTestModule()
			if err := m.Handle(context.Background(), tt.event); err != nil {
				t.Fatalf("Handle returned error: %v", err)
			}
			if len(inserter.rows) != 1 {
				t.Fatalf("expected 1 outbox row, got %d", len(inserter.rows))
			}
			if inserter.rows[0].Template != tt.wantTemplate {
				t.Errorf("template = %q, want %q", inserter.rows[0].Template, tt.wantTemplate)
			}
		})
	}
}

func TestHandleSkipsEventsWithoutRecipient(t *testing.T) {
	tests := []struct {
		name  string
		event events.Event
	}{
		{"payment received", events.PaymentReceived{OrganizationID: uuid.New()}},
		{"refund initiated", events.RefundInitiated{OrganizationID: uuid.New()}},
		{"refund completed", events.RefundCompleted{OrganizationID: uuid.New()}},
		{"invoice overdue", events.InvoiceOverdue{OrganizationID: uuid.New()}},
		{"member invited", events.MemberInvited{OrganizationID: uuid.New()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, inserter := newTestModule()
			if err := m.Handle(context.Background(), tt.event); err != nil {
				t.Fatalf("Handle returned error: %v", err)
			}
			if len(inserter.rows) != 0 {
				t.Errorf("expected no outbox rows, got %d", len(inserter.rows))
			}
		})
	}
}

func TestHandleOverdueFormatsDueDate(t *testing.T) {
	m, inserter := newTestModule()

	err := m.Handle(context.Background(), events.InvoiceOverdue{
		OrganizationID: uuid.New(),
		InvoiceNumber:  "INV-2026-00007",
		Currency:       "EUR",
		DueDate:        time.Date(2026, 2, 14, 10, 30, 0, 0, time.UTC),
		AgentEmail:     "agent@example.com",
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	payload := inserter.rows[0].Payload.(overdueNoticePayload)
	if payload.DueDate != "2026-02-14" {
		t.Errorf("due date = %q, want 2026-02-14", payload.DueDate)
	}
}

type fakeStore struct {
	rec        outbox.Record
	getErr     error
	processing int
	succeeded  int
	failedWith string
}

func (f *fakeStore) GetByID(context.Context, uuid.UUID) (outbox.Record, error) {
	return f.rec, f.getErr
}

func (f *fakeStore) MarkProcessing(context.Context, uuid.UUID) error {
	f.processing++
	return nil
}

func (f *fakeStore) MarkSucceeded(context.Context, uuid.UUID) error {
	f.succeeded++
	return nil
}

func (f *fakeStore) MarkFailed(_ context.Context, _ uuid.UUID, lastError string) error {
	f.failedWith = lastError
	return nil
}

func receiptRecord(t *testing.T) outbox.Record {
	t.Helper()
	payload, err := json.Marshal(paymentReceiptPayload{
		AgentName:     "Atlas Travel",
		InvoiceNumber: "INV-2026-00042",
		AmountMinor:   25000,
		Currency:      "EUR",
		PaidMinor:     75000,
		TotalMinor:    100000,
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return outbox.Record{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Recipient:      "billing@atlastravel.example",
		Template:       templatePaymentReceipt,
		Payload:        payload,
		Status:         outbox.StatusEnqueued,
	}
}

func TestDeliverSendsAndMarksSucceeded(t *testing.T) {
	store := &fakeStore{rec: receiptRecord(t)}
	sender := &fakeSender{}
	d := &Deliverer{store: store, sender: sender, log: logger.New("test")}

	if err := d.Deliver(context.Background(), store.rec.ID); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if sender.receiptCalls != 1 {
		t.Errorf("receipt calls = %d, want 1", sender.receiptCalls)
	}
	if sender.lastRecipient != "billing@atlastravel.example" {
		t.Errorf("recipient = %q", sender.lastRecipient)
	}
	if store.processing != 1 || store.succeeded != 1 {
		t.Errorf("processing = %d, succeeded = %d, want 1 and 1", store.processing, store.succeeded)
	}
	if store.failedWith != "" {
		t.Errorf("unexpected failure recorded: %q", store.failedWith)
	}
}

func TestDeliverReturnsSendErrorsForRetry(t *testing.T) {
	store := &fakeStore{rec: receiptRecord(t)}
	sender := &fakeSender{err: errors.New("smtp connect refused")}
	d := &Deliverer{store: store, sender: sender, log: logger.New("test")}

	err := d.Deliver(context.Background(), store.rec.ID)
	if err == nil {
		t.Fatal("expected an error for the queue to retry")
	}
	if store.succeeded != 0 {
		t.Error("row must not be marked succeeded after a send failure")
	}
	if !strings.Contains(store.failedWith, "smtp connect refused") {
		t.Errorf("last error = %q, want the smtp failure", store.failedWith)
	}
}

func TestDeliverDropsUnknownTemplate(t *testing.T) {
	rec := receiptRecord(t)
	rec.Template = "carrier_pigeon"
	store := &fakeStore{rec: rec}
	sender := &fakeSender{}
	d := &Deliverer{store: store, sender: sender, log: logger.New("test")}

	if err := d.Deliver(context.Background(), rec.ID); err != nil {
		t.Fatalf("undeliverable rows must not be retried, got error: %v", err)
	}
	if sender.receiptCalls != 0 {
		t.Error("sender must not be called for an unknown template")
	}
	if !strings.Contains(store.failedWith, "unknown template") {
		t.Errorf("last error = %q, want unknown template", store.failedWith)
	}
}

func TestDeliverSkipsAlreadySucceededRecords(t *testing.T) {
	rec := receiptRecord(t)
	rec.Status = outbox.StatusSucceeded
	store := &fakeStore{rec: rec}
	sender := &fakeSender{}
	d := &Deliverer{store: store, sender: sender, log: logger.New("test")}

	if err := d.Deliver(context.Background(), rec.ID); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if sender.receiptCalls != 0 || store.processing != 0 {
		t.Error("finished rows must not be resent")
	}
}
