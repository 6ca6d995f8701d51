package reports

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tourdesk_backend/platform/httpkit"
	"tourdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	dateLayout      = "2006-01-02"
	noOrgContextMsg = "no organization context"
)

// Handler serves the reports endpoints and the accounting CSV export.
type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ---- Finance summary ----

type SummaryRowResponse struct {
	Currency         string                `json:"currency"`
	InvoicedMinor    int64                 `json:"invoiced_minor"`
	CollectedMinor   int64                 `json:"collected_minor"`
	RefundedMinor    int64                 `json:"refunded_minor"`
	OutstandingMinor int64                 `json:"outstanding_minor"`
	Base             *ConvertedRowResponse `json:"base"`
}

type ConvertedRowResponse struct {
	Currency         string `json:"currency"`
	InvoicedMinor    int64  `json:"invoiced_minor"`
	CollectedMinor   int64  `json:"collected_minor"`
	RefundedMinor    int64  `json:"refunded_minor"`
	OutstandingMinor int64  `json:"outstanding_minor"`
}

type FinanceSummaryResponse struct {
	BaseCurrency string               `json:"base_currency"`
	FromDate     string               `json:"from_date"`
	ToDate       string               `json:"to_date"`
	Rows         []SummaryRowResponse `json:"rows"`
}

func (h *Handler) FinanceSummary(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}
	from, to, err := parseDateRange(c)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	summary, err := h.svc.FinanceSummary(c.Request.Context(), tenantID, from, to)
	if httpkit.HandleError(c, err) {
		return
	}

	rows := make([]SummaryRowResponse, 0, len(summary.Rows))
	for _, row := range summary.Rows {
		out := SummaryRowResponse{
			Currency:         row.Currency,
			InvoicedMinor:    row.InvoicedMinor,
			CollectedMinor:   row.CollectedMinor,
			RefundedMinor:    row.RefundedMinor,
			OutstandingMinor: row.OutstandingMinor,
		}
		if row.Base != nil {
			out.Base = &ConvertedRowResponse{
				Currency:         row.Base.Currency,
				InvoicedMinor:    row.Base.InvoicedMinor,
				CollectedMinor:   row.Base.CollectedMinor,
				RefundedMinor:    row.Base.RefundedMinor,
				OutstandingMinor: row.Base.OutstandingMinor,
			}
		}
		rows = append(rows, out)
	}

	httpkit.OK(c, FinanceSummaryResponse{
		BaseCurrency: summary.BaseCurrency,
		FromDate:     summary.From.Format(dateLayout),
		ToDate:       summary.To.Format(dateLayout),
		Rows:         rows,
	})
}

// ---- AR aging ----

type AgingBucketsResponse struct {
	Currency        string `json:"currency"`
	CurrentMinor    int64  `json:"current_minor"`
	Days1To30Minor  int64  `json:"days_1_30_minor"`
	Days31To60Minor int64  `json:"days_31_60_minor"`
	Days61To90Minor int64  `json:"days_61_90_minor"`
	Over90Minor     int64  `json:"over_90_minor"`
	TotalMinor      int64  `json:"total_minor"`
}

type AgingReportResponse struct {
	AsOf    string                 `json:"as_of"`
	Buckets []AgingBucketsResponse `json:"buckets"`
}

func (h *Handler) ARAging(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	asOf := time.Now().UTC()
	if raw := strings.TrimSpace(c.Query("as_of")); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid as_of date", nil)
			return
		}
		asOf = parsed
	}

	report, err := h.svc.ARAging(c.Request.Context(), tenantID, asOf)
	if httpkit.HandleError(c, err) {
		return
	}

	buckets := make([]AgingBucketsResponse, 0, len(report.Buckets))
	for _, b := range report.Buckets {
		buckets = append(buckets, AgingBucketsResponse{
			Currency:        b.Currency,
			CurrentMinor:    b.CurrentMinor,
			Days1To30Minor:  b.Days1To30Minor,
			Days31To60Minor: b.Days31To60Minor,
			Days61To90Minor: b.Days61To90Minor,
			Over90Minor:     b.Over90Minor,
			TotalMinor:      b.TotalMinor,
		})
	}

	httpkit.OK(c, AgingReportResponse{
		AsOf:    report.AsOf.Format(dateLayout),
		Buckets: buckets,
	})
}

// ---- Exchange rates ----

type UpsertExchangeRateRequest struct {
	BaseCurrency  string          `json:"base_currency" validate:"required,currency"`
	QuoteCurrency string          `json:"quote_currency" validate:"required,currency"`
	Rate          decimal.Decimal `json:"rate" validate:"required"`
	AsOf          string          `json:"as_of" validate:"required,datetime=2006-01-02"`
}

type ExchangeRateResponse struct {
	ID            string          `json:"id"`
	BaseCurrency  string          `json:"base_currency"`
	QuoteCurrency string          `json:"quote_currency"`
	Rate          decimal.Decimal `json:"rate"`
	AsOf          string          `json:"as_of"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (h *Handler) UpsertExchangeRate(c *gin.Context) {
	var req UpsertExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	asOf, err := time.Parse(dateLayout, req.AsOf)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid as_of date", nil)
		return
	}

	rate, err := h.svc.UpsertExchangeRate(c.Request.Context(), tenantID, req.BaseCurrency, req.QuoteCurrency, req.Rate, asOf)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toExchangeRateResponse(rate))
}

func (h *Handler) ListExchangeRates(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	rates, err := h.svc.ListExchangeRates(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]ExchangeRateResponse, 0, len(rates))
	for _, r := range rates {
		items = append(items, toExchangeRateResponse(r))
	}
	httpkit.OK(c, items)
}

func toExchangeRateResponse(r ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ID:            r.ID.String(),
		BaseCurrency:  r.BaseCurrency,
		QuoteCurrency: r.QuoteCurrency,
		Rate:          r.Rate,
		AsOf:          r.AsOf.Format(dateLayout),
		UpdatedAt:     r.UpdatedAt,
	}
}

// ---- Export credential management (admin, JWT authenticated) ----

type UpsertCredentialRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
}

type CredentialResponse struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpsertCredentialResponse struct {
	CredentialResponse
	Secret string `json:"secret"`
}

// HandleUpsertCredential creates or rotates the export login. The secret in
// the response is freshly generated; previous secrets stop working.
func (h *Handler) HandleUpsertCredential(c *gin.Context) {
	var req UpsertCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	tenantID := identity.TenantID()
	if tenantID == nil {
		httpkit.Error(c, http.StatusForbidden, noOrgContextMsg, nil)
		return
	}

	cred, secret, err := h.svc.UpsertCredential(c.Request.Context(), *tenantID, req.Username, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, UpsertCredentialResponse{
		CredentialResponse: toCredentialResponse(cred),
		Secret:             secret,
	})
}

func (h *Handler) HandleGetCredential(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	cred, err := h.svc.GetCredential(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toCredentialResponse(cred))
}

func (h *Handler) HandleRevealSecret(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	secret, err := h.svc.RevealSecret(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"secret": secret})
}

func (h *Handler) HandleDeleteCredential(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteCredential(c.Request.Context(), tenantID); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"message": "export credential deleted"})
}

// ---- Accounting CSV export (Basic-Auth authenticated) ----

func (h *Handler) ExportAccountingCSV(c *gin.Context) {
	orgID, ok := getExportOrgID(c)
	if !ok {
		return
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	invoices, err := h.svc.ExportInvoices(c.Request.Context(), orgID, from, to)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=invoices.csv")

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(exportCSVHeaders()); err != nil {
		return
	}
	for _, row := range invoices {
		if err := writer.Write(exportCSVRow(row)); err != nil {
			return
		}
	}
	writer.Flush()
}

func exportCSVHeaders() []string {
	return []string{
		"invoice_number",
		"booking_number",
		"agent",
		"status",
		"currency",
		"total_minor",
		"paid_minor",
		"outstanding_minor",
		"issue_date",
		"due_date",
		"last_payment_on",
	}
}

func exportCSVRow(row ExportInvoiceRow) []string {
	agent := ""
	if row.AgentName != nil {
		agent = *row.AgentName
	}
	lastPayment := ""
	if row.LastPaymentOn != nil {
		lastPayment = row.LastPaymentOn.Format(dateLayout)
	}
	return []string{
		row.InvoiceNumber,
		row.BookingNumber,
		agent,
		row.Status,
		row.Currency,
		strconv.FormatInt(row.TotalMinor, 10),
		strconv.FormatInt(row.PaidMinor, 10),
		strconv.FormatInt(row.OutstandingMinor, 10),
		row.IssueDate.Format(dateLayout),
		row.DueDate.Format(dateLayout),
		lastPayment,
	}
}

// ---- Helpers ----

func toCredentialResponse(cred Credential) CredentialResponse {
	return CredentialResponse{
		Username:  cred.Username,
		CreatedAt: cred.CreatedAt,
		UpdatedAt: cred.UpdatedAt,
	}
}

func mustGetTenantID(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.UUID{}, false
	}
	tenantID := identity.TenantID()
	if tenantID == nil {
		httpkit.Error(c, http.StatusBadRequest, "tenant ID is required", nil)
		return uuid.UUID{}, false
	}
	return *tenantID, true
}

func getExportOrgID(c *gin.Context) (uuid.UUID, bool) {
	orgIDVal, ok := c.Get(exportOrgIDKey)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "missing organization context", nil)
		return uuid.UUID{}, false
	}
	orgID, ok := orgIDVal.(uuid.UUID)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "missing organization context", nil)
		return uuid.UUID{}, false
	}
	return orgID, true
}

// parseDateRange reads the from_date and to_date query parameters. The
// default window is the trailing 90 days; to_date is inclusive through end
// of day.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -90)
	to := now

	if raw := strings.TrimSpace(c.Query("from_date")); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if raw := strings.TrimSpace(c.Query("to_date")); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to_date before from_date")
	}
	return from, to, nil
}
