package handler

import (
	"net/http"

	"tourdesk_backend/internal/money"
	"tourdesk_backend/internal/quotations/repository"
	"tourdesk_backend/internal/quotations/service"
	"tourdesk_backend/internal/quotations/transport"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	params := service.CreateParams{
		OrganizationID: tenantID,
		AgentID:        req.AgentID,
		Destination:    req.Destination,
		StartDate:      parseDatePtr(req.StartDate),
		EndDate:        parseDatePtr(req.EndDate),
		Adults:         req.Adults,
		Children:       req.Children,
		Currency:       req.Currency,
		Notes:          req.Notes,
	}
	if req.MarkupPercent != nil {
		bps := money.PercentToBps(*req.MarkupPercent)
		params.MarkupBps = &bps
	}
	if req.TaxPercent != nil {
		bps := money.PercentToBps(*req.TaxPercent)
		params.TaxBps = &bps
	}

	q, err := h.svc.Create(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toQuotationResponse(q))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	detail, err := h.svc.Get(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toQuotationDetailResponse(detail))
}

func (h *Handler) List(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}
	agentID, ok := optionalUUIDQuery(c, "agent_id")
	if !ok {
		return
	}

	var status *string
	if raw := c.Query("status"); raw != "" {
		status = &raw
	}

	page, pageSize := pageFromQuery(c)
	list, err := h.svc.List(c.Request.Context(), repository.ListParams{
		OrganizationID:  tenantID,
		AgentID:         agentID,
		Status:          status,
		Search:          c.Query("search"),
		IncludeArchived: boolQuery(c, "include_archived"),
		SortBy:          c.Query("sort_by"),
		SortOrder:       c.Query("sort_order"),
		Page:            page,
		PageSize:        pageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.QuotationResponse, 0, len(list.Items))
	for _, q := range list.Items {
		items = append(items, toQuotationResponse(q))
	}
	httpkit.OK(c, transport.ListQuotationsResponse{
		Items:      items,
		Total:      list.Total,
		Page:       list.Page,
		PageSize:   list.PageSize,
		TotalPages: list.TotalPages,
	})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	params := service.UpdateParams{
		ID:             id,
		OrganizationID: tenantID,
		AgentID:        req.AgentID,
		Destination:    req.Destination,
		StartDate:      parseDatePtr(req.StartDate),
		EndDate:        parseDatePtr(req.EndDate),
		Adults:         req.Adults,
		Children:       req.Children,
		Currency:       req.Currency,
		Notes:          req.Notes,
	}
	if req.MarkupPercent != nil {
		bps := money.PercentToBps(*req.MarkupPercent)
		params.MarkupBps = &bps
	}
	if req.TaxPercent != nil {
		bps := money.PercentToBps(*req.TaxPercent)
		params.TaxBps = &bps
	}

	q, err := h.svc.Update(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toQuotationResponse(q))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateQuotationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	q, err := h.svc.UpdateStatus(c.Request.Context(), id, tenantID, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toQuotationResponse(q))
}

func (h *Handler) Archive(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.Archive(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Restore(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.Restore(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Duplicate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	q, err := h.svc.Duplicate(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toQuotationResponse(q))
}

func (h *Handler) Accept(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, actorID, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.svc.Accept(c.Request.Context(), id, tenantID, actorID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.AcceptQuotationResponse{
		Quotation: toQuotationResponse(result.Quotation),
		BookingID: result.BookingID.String(),
		InvoiceID: result.InvoiceID.String(),
	})
}
