// Package exports provides CSV exports of the operational tables and their
// archival to S3-compatible storage.
package exports

import (
	"saarthi_backend/internal/adapters/storage"
	apphttp "saarthi_backend/internal/http"
	"saarthi_backend/platform/db"
	"saarthi_backend/platform/logger"
)

// Module is the exports bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the exports module. store may be nil
// when object storage is not configured.
func NewModule(q db.Querier, store storage.ObjectStore, bucket string, log *logger.Logger) *Module {
	svc := NewService(NewRepository(q), store, bucket, log)
	return &Module{
		handler: NewHandler(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	adminGroup := ctx.Admin.Group("/exports")
	adminGroup.GET("", m.handler.List)
	adminGroup.GET("/:entity", m.handler.ExportCSV)
	adminGroup.POST("/:entity/archive", m.handler.Archive)
}

var _ apphttp.Module = (*Module)(nil)
