package handler

import (
	"tourdesk_backend/internal/money"
	"tourdesk_backend/internal/quotations/repository"
	"tourdesk_backend/internal/quotations/service"
	"tourdesk_backend/internal/quotations/transport"
)

func toQuotationResponse(q repository.Quotation) transport.QuotationResponse {
	return transport.QuotationResponse{
		ID:              q.ID.String(),
		AgentID:         uuidPtrToString(q.AgentID),
		QuotationNumber: q.QuotationNumber,
		Status:          q.Status,
		Destination:     q.Destination,
		StartDate:       formatDatePtr(q.StartDate),
		EndDate:         formatDatePtr(q.EndDate),
		Adults:          q.Adults,
		Children:        q.Children,
		MarkupPercent:   money.BpsToPercent(q.MarkupBps),
		TaxPercent:      money.BpsToPercent(q.TaxBps),
		Currency:        q.Currency,
		TotalMinor:      q.TotalMinor,
		Notes:           q.Notes,
		ArchivedAt:      q.ArchivedAt,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

func toQuotationDetailResponse(d service.Detail) transport.QuotationDetailResponse {
	days := make([]transport.DayResponse, 0, len(d.Days))
	for _, day := range d.Days {
		days = append(days, toDayResponse(day.Day, day.Expenses))
	}
	return transport.QuotationDetailResponse{
		QuotationResponse: toQuotationResponse(d.Quotation),
		Days:              days,
	}
}

func toDayResponse(d repository.ItineraryDay, expenses []repository.Expense) transport.DayResponse {
	items := make([]transport.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		items = append(items, toExpenseResponse(e))
	}
	return transport.DayResponse{
		ID:        d.ID.String(),
		DayNumber: d.DayNumber,
		Date:      formatDate(d.Date),
		Notes:     d.Notes,
		Expenses:  items,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toExpenseResponse(e repository.Expense) transport.ExpenseResponse {
	return transport.ExpenseResponse{
		ID:              e.ID.String(),
		DayID:           e.DayID.String(),
		Category:        e.Category,
		SupplierID:      uuidPtrToString(e.SupplierID),
		Description:     e.Description,
		Quantity:        e.Quantity,
		UnitMinor:       e.UnitMinor,
		TotalMinor:      e.TotalMinor,
		Currency:        e.Currency,
		RateLocked:      e.RateLocked,
		LockedRateID:    uuidPtrToString(e.LockedRateID),
		LockedUnitMinor: e.LockedUnitMinor,
		Notes:           e.Notes,
		SortOrder:       e.SortOrder,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func toRepriceResponse(r service.RepriceResult) transport.RepriceResponse {
	expenses := make([]transport.RepricedExpenseResponse, 0, len(r.Lines))
	for _, line := range r.Lines {
		expenses = append(expenses, transport.RepricedExpenseResponse{
			ID:          line.ExpenseID.String(),
			Description: line.Description,
			Category:    string(line.Category),
			Source:      line.Source,
			Before:      transport.PriceResponse{UnitMinor: line.Before.UnitMinor, TotalMinor: line.Before.TotalMinor},
			After:       transport.PriceResponse{UnitMinor: line.After.UnitMinor, TotalMinor: line.After.TotalMinor},
		})
	}

	skipped := make([]transport.SkippedExpenseResponse, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		skipped = append(skipped, transport.SkippedExpenseResponse{
			ExpenseID: s.ExpenseID.String(),
			Reason:    s.Reason,
		})
	}

	return transport.RepriceResponse{
		Summary: transport.RepriceSummaryResponse{
			OldTotalMinor: r.OldTotalMinor,
			NewTotalMinor: r.NewTotalMinor,
			ChangeMinor:   r.ChangeMinor,
			ChangePercent: r.ChangePercent,
			Currency:      r.Currency,
			PricedCount:   r.PricedCount,
			Skipped:       skipped,
		},
		Expenses: expenses,
	}
}
