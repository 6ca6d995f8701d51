package handler

import (
	"net/http"

	"tourdesk_backend/internal/quotations/service"
	"tourdesk_backend/internal/quotations/transport"
	"tourdesk_backend/internal/shared/pricing"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateDay(c *gin.Context) {
	quotationID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.CreateDayRequest
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

	day, err := h.svc.CreateDay(c.Request.Context(), service.CreateDayParams{
		QuotationID:    quotationID,
		OrganizationID: tenantID,
		DayNumber:      req.DayNumber,
		Date:           mustParseDate(req.Date),
		Notes:          req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toDayResponse(day, nil))
}

func (h *Handler) UpdateDay(c *gin.Context) {
	quotationID, ok := parseIDParam(c)
	if !ok {
		return
	}
	dayID, ok := parseUUIDParam(c, "dayID")
	if !ok {
		return
	}

	var req transport.UpdateDayRequest
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

	day, err := h.svc.UpdateDay(c.Request.Context(), service.UpdateDayParams{
		ID:             dayID,
		QuotationID:    quotationID,
		OrganizationID: tenantID,
		DayNumber:      req.DayNumber,
		Date:           parseDatePtr(req.Date),
		Notes:          req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toDayResponse(day, nil))
}

func (h *Handler) DeleteDay(c *gin.Context) {
	quotationID, ok := parseIDParam(c)
	if !ok {
		return
	}
	dayID, ok := parseUUIDParam(c, "dayID")
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteDay(c.Request.Context(), dayID, quotationID, tenantID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateExpense(c *gin.Context) {
	quotationID, ok := parseIDParam(c)
	if !ok {
		return
	}
	dayID, ok := parseUUIDParam(c, "dayID")
	if !ok {
		return
	}

	var req transport.CreateExpenseRequest
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

	category, _ := pricing.ParseCategory(req.Category)
	params := service.CreateExpenseParams{
		QuotationID:    quotationID,
		DayID:          dayID,
		OrganizationID: tenantID,
		Category:       category,
		SupplierID:     req.SupplierID,
		Description:    req.Description,
		Quantity:       req.Quantity,
		UnitMinor:      req.UnitMinor,
		RateID:         req.RateID,
		Notes:          req.Notes,
	}
	if req.SortOrder != nil {
		params.SortOrder = *req.SortOrder
	}

	expense, err := h.svc.CreateExpense(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toExpenseResponse(expense))
}

func (h *Handler) UpdateExpense(c *gin.Context) {
	quotationID, ok := parseIDParam(c)
	if !ok {
		return
	}
	expenseID, ok := parseUUIDParam(c, "expenseID")
	if !ok {
		return
	}

	var req transport.UpdateExpenseRequest
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

	params := service.UpdateExpenseParams{
		ID:             expenseID,
		QuotationID:    quotationID,
		OrganizationID: tenantID,
		SupplierID:     req.SupplierID,
		Description:    req.Description,
		Quantity:       req.Quantity,
		UnitMinor:      req.UnitMinor,
		RateLocked:     req.RateLocked,
		Notes:          req.Notes,
		SortOrder:      req.SortOrder,
	}
	if req.Category != nil {
		category, _ := pricing.ParseCategory(*req.Category)
		params.Category = &category
	}

	expense, err := h.svc.UpdateExpense(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toExpenseResponse(expense))
}

func (h *Handler) DeleteExpense(c *gin.Context) {
	quotationID, ok := parseIDParam(c)
	if !ok {
		return
	}
	expenseID, ok := parseUUIDParam(c, "expenseID")
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteExpense(c.Request.Context(), expenseID, quotationID, tenantID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// Reprice recomputes every expense line. Captured rates win unless the
// caller passes respect_locked=false.
func (h *Handler) Reprice(c *gin.Context) {
	quotationID, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, actorID, ok := mustGetActor(c)
	if !ok {
		return
	}

	respectLocked := c.DefaultQuery("respect_locked", "true") != "false"
	result, err := h.svc.Reprice(c.Request.Context(), service.RepriceParams{
		QuotationID:    quotationID,
		OrganizationID: tenantID,
		RespectLocked:  respectLocked,
		ActorID:        actorID,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toRepriceResponse(result))
}

func (h *Handler) GenerateItinerary(c *gin.Context) {
	quotationID, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	detail, err := h.svc.GenerateItinerary(c.Request.Context(), quotationID, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toQuotationDetailResponse(detail))
}
