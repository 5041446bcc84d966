// Package schemes provides the welfare scheme catalog bounded context:
// catalog CRUD and eligibility search over the active catalog.
package schemes

import (
	apphttp "saarthi_backend/internal/http"
	"saarthi_backend/internal/schemes/handler"
	"saarthi_backend/internal/schemes/repository"
	"saarthi_backend/internal/schemes/service"
	"saarthi_backend/platform/db"
	"saarthi_backend/platform/logger"
	"saarthi_backend/platform/validator"
)

// Module is the schemes bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the schemes module with all its dependencies.
func NewModule(q db.Querier, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(q)
	svc := service.New(repo, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "schemes"
}

// Service returns the service layer for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the catalog repository (used by exports and seeding).
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts scheme routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/schemes")
	public.GET("", m.handler.List)
	public.GET("/category/:category", m.handler.ListByCategory)
	public.GET("/:schemeId", m.handler.GetBySchemeID)
	public.POST("/search", m.handler.Search)

	admin := ctx.Admin.Group("/schemes")
	admin.POST("", m.handler.Create)
	admin.POST("/import", m.handler.Import)
	admin.PUT("/:schemeId", m.handler.Update)
	admin.DELETE("/:schemeId", m.handler.Delete)
}

var _ apphttp.Module = (*Module)(nil)
