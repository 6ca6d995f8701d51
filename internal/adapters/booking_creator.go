package adapters

import (
	"context"

	invsvc "tourdesk_backend/internal/invoices/service"
	quotsvc "tourdesk_backend/internal/quotations/service"
)

// BookingCreatorAdapter implements quotations/service.BookingCreator on top
// of the invoices service. The unique booking-per-quotation constraint lives
// in the billing schema, so a duplicate acceptance surfaces as a conflict.
type BookingCreatorAdapter struct {
	billing *invsvc.Service
}

// NewBookingCreatorAdapter creates a new adapter.
func NewBookingCreatorAdapter(billing *invsvc.Service) *BookingCreatorAdapter {
	return &BookingCreatorAdapter{billing: billing}
}

func (a *BookingCreatorAdapter) CreateFromQuotation(ctx context.Context, draft quotsvc.BookingDraft) (quotsvc.BookingResult, error) {
	booking, invoice, err := a.billing.CreateBookingFromQuotation(ctx, invsvc.BookingParams{
		OrganizationID:  draft.OrganizationID,
		QuotationID:     draft.QuotationID,
		QuotationNumber: draft.QuotationNumber,
		AgentID:         draft.AgentID,
		Destination:     draft.Destination,
		StartDate:       draft.StartDate,
		EndDate:         draft.EndDate,
		Adults:          draft.Adults,
		Children:        draft.Children,
		TotalMinor:      draft.TotalMinor,
		Currency:        draft.Currency,
	})
	if err != nil {
		return quotsvc.BookingResult{}, err
	}
	return quotsvc.BookingResult{BookingID: booking.ID, InvoiceID: invoice.ID}, nil
}

var _ quotsvc.BookingCreator = (*BookingCreatorAdapter)(nil)
