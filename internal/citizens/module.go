// Package citizens provides the citizen profile bounded context.
package citizens

import (
	"saarthi_backend/internal/citizens/handler"
	"saarthi_backend/internal/citizens/repository"
	"saarthi_backend/internal/citizens/service"
	"saarthi_backend/internal/events"
	apphttp "saarthi_backend/internal/http"
	"saarthi_backend/platform/db"
	"saarthi_backend/platform/logger"
	"saarthi_backend/platform/validator"
)

// Module is the citizens bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the citizens module with all its dependencies.
func NewModule(q db.Querier, matcher service.SchemeMatcher, bus events.Bus, phoneRegion string, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(q)
	svc := service.New(repo, matcher, bus, phoneRegion, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "citizens"
}

// Service returns the service layer for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts citizen routes on the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	admin := ctx.Admin.Group("/citizens")
	admin.GET("", m.handler.List)
	admin.POST("", m.handler.Upsert)
	admin.GET("/:phone", m.handler.GetByPhone)
	admin.DELETE("/:phone", m.handler.Delete)
	admin.GET("/:phone/eligible-schemes", m.handler.EligibleSchemes)
}

var _ apphttp.Module = (*Module)(nil)
