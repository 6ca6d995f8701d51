package audit

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "tourdesk_backend/internal/http"
	"tourdesk_backend/platform/logger"
)

type Module struct {
	recorder *Recorder
	handler  *Handler
}

func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	return &Module{
		recorder: NewRecorder(repo, log),
		handler:  NewHandler(repo),
	}
}

func (m *Module) Name() string {
	return "audit"
}

// Middleware records authenticated mutations. The router attaches it
// to the protected and admin groups before modules register routes.
func (m *Module) Middleware() gin.HandlerFunc {
	return m.recorder.Middleware()
}

// Wait blocks until pending audit writes finish. Call before closing
// the database pool.
func (m *Module) Wait() {
	m.recorder.Wait()
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/audit-log", m.handler.ListEntries)
}

var _ apphttp.Module = (*Module)(nil)
