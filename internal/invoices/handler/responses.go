package handler

import (
	"tourdesk_backend/internal/invoices/repository"
	"tourdesk_backend/internal/invoices/service"
	"tourdesk_backend/internal/invoices/transport"
	"tourdesk_backend/internal/money"
)

func toInvoiceResponse(inv repository.Invoice) transport.InvoiceResponse {
	return transport.InvoiceResponse{
		ID:             inv.ID.String(),
		BookingID:      inv.BookingID.String(),
		AgentID:        uuidPtrToString(inv.AgentID),
		InvoiceNumber:  inv.InvoiceNumber,
		Status:         inv.Status,
		Total:          money.New(inv.TotalMinor, inv.Currency),
		Paid:           money.New(inv.PaidMinor, inv.Currency),
		Outstanding:    money.New(inv.TotalMinor-inv.PaidMinor, inv.Currency),
		RefundsPending: money.New(inv.RefundsPendingMinor, inv.Currency),
		IssueDate:      formatDate(inv.IssueDate),
		DueDate:        formatDate(inv.DueDate),
		LastPaymentOn:  formatDatePtr(inv.LastPaymentOn),
		Notes:          inv.Notes,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

func toInvoiceDetailResponse(d service.InvoiceDetail) transport.InvoiceDetailResponse {
	payments := make([]transport.PaymentResponse, 0, len(d.Payments))
	for _, p := range d.Payments {
		payments = append(payments, toPaymentResponse(p))
	}
	refunds := make([]transport.RefundResponse, 0, len(d.Cancellations))
	for _, r := range d.Cancellations {
		refunds = append(refunds, toRefundResponse(r))
	}
	return transport.InvoiceDetailResponse{
		InvoiceResponse: toInvoiceResponse(d.Invoice),
		Booking:         toBookingResponse(d.Booking),
		Payments:        payments,
		Refunds:         refunds,
	}
}

func toBookingResponse(b repository.Booking) transport.BookingResponse {
	return transport.BookingResponse{
		ID:            b.ID.String(),
		QuotationID:   b.QuotationID.String(),
		BookingNumber: b.BookingNumber,
		Status:        b.Status,
		Destination:   b.Destination,
		StartDate:     formatDatePtr(b.StartDate),
		EndDate:       formatDatePtr(b.EndDate),
		Adults:        b.Adults,
		Children:      b.Children,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toPaymentResponse(p repository.Payment) transport.PaymentResponse {
	return transport.PaymentResponse{
		ID:         p.ID.String(),
		Amount:     money.New(p.AmountMinor, p.Currency),
		Method:     p.Method,
		Reference:  p.Reference,
		PaidOn:     formatDate(p.PaidOn),
		Notes:      p.Notes,
		RecordedBy: p.RecordedBy.String(),
		CreatedAt:  p.CreatedAt,
	}
}

func toRefundResponse(r repository.Cancellation) transport.RefundResponse {
	return transport.RefundResponse{
		CancellationID: r.ID.String(),
		BookingID:      r.BookingID.String(),
		Amount:         money.New(r.RefundMinor, r.Currency),
		Method:         r.Method,
		Reference:      r.Reference,
		Reason:         r.Reason,
		Status:         r.Status,
		ProcessedBy:    r.ProcessedBy.String(),
		CompletedBy:    uuidPtrToString(r.CompletedBy),
		CompletedAt:    r.CompletedAt,
		CreatedAt:      r.CreatedAt,
	}
}

func toPayableResponse(p repository.PayableInvoice) transport.PayableResponse {
	return transport.PayableResponse{
		ID:          p.ID.String(),
		SupplierID:  uuidPtrToString(p.SupplierID),
		SupplierRef: p.SupplierRef,
		Status:      p.Status,
		Amount:      money.New(p.AmountMinor, p.Currency),
		DueDate:     formatDatePtr(p.DueDate),
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toAttachmentResponse(a repository.Attachment) transport.AttachmentResponse {
	return transport.AttachmentResponse{
		ID:          a.ID.String(),
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		UploadedBy:  a.UploadedBy.String(),
		CreatedAt:   a.CreatedAt,
	}
}

func toListInvoicesResponse(r repository.ListInvoicesResult) transport.ListInvoicesResponse {
	items := make([]transport.InvoiceResponse, 0, len(r.Items))
	for _, inv := range r.Items {
		items = append(items, toInvoiceResponse(inv))
	}
	return transport.ListInvoicesResponse{
		Items:      items,
		Total:      r.Total,
		Page:       r.Page,
		PageSize:   r.PageSize,
		TotalPages: r.TotalPages,
	}
}

func toListBookingsResponse(r repository.ListBookingsResult) transport.ListBookingsResponse {
	items := make([]transport.BookingResponse, 0, len(r.Items))
	for _, b := range r.Items {
		items = append(items, toBookingResponse(b))
	}
	return transport.ListBookingsResponse{
		Items:      items,
		Total:      r.Total,
		Page:       r.Page,
		PageSize:   r.PageSize,
		TotalPages: r.TotalPages,
	}
}

func toListPayablesResponse(r repository.ListPayablesResult) transport.ListPayablesResponse {
	items := make([]transport.PayableResponse, 0, len(r.Items))
	for _, p := range r.Items {
		items = append(items, toPayableResponse(p))
	}
	return transport.ListPayablesResponse{
		Items:      items,
		Total:      r.Total,
		Page:       r.Page,
		PageSize:   r.PageSize,
		TotalPages: r.TotalPages,
	}
}
