package reports

import (
	apphttp "tourdesk_backend/internal/http"
	"tourdesk_backend/internal/identity"
	"tourdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the reports bounded context implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the reports module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, settings identity.SettingsProvider) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, settings)
	h := NewHandler(svc, val)

	return &Module{handler: h, service: svc}
}

// SetEncryptionKey sets the AES key protecting export secrets at rest.
func (m *Module) SetEncryptionKey(key []byte) {
	m.service.SetEncryptionKey(key)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reports"
}

// RegisterRoutes mounts reporting routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	reports := ctx.Protected.Group("/reports")
	reports.GET("/finance-summary", m.handler.FinanceSummary)
	reports.GET("/ar-aging", m.handler.ARAging)
	reports.GET("/exchange-rates", m.handler.ListExchangeRates)
	reports.PUT("/exchange-rates", m.handler.UpsertExchangeRate)

	credentials := ctx.Admin.Group("/exports/credentials")
	credentials.POST("", m.handler.HandleUpsertCredential)
	credentials.GET("", m.handler.HandleGetCredential)
	credentials.GET("/secret", m.handler.HandleRevealSecret)
	credentials.DELETE("", m.handler.HandleDeleteCredential)

	public := ctx.V1.Group("/exports")
	public.Use(BasicAuthMiddleware(m.service))
	public.GET("/accounting/invoices.csv", m.handler.ExportAccountingCSV)
}

var _ apphttp.Module = (*Module)(nil)
