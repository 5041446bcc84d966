// Package applications provides the scheme application bounded context.
// Applications are the benefit records that feed a phone's engagement history.
package applications

import (
	"saarthi_backend/internal/applications/handler"
	"saarthi_backend/internal/applications/repository"
	"saarthi_backend/internal/applications/service"
	"saarthi_backend/internal/events"
	apphttp "saarthi_backend/internal/http"
	"saarthi_backend/platform/db"
	"saarthi_backend/platform/logger"
	"saarthi_backend/platform/validator"
)

// Module is the applications bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the applications module with all its dependencies.
func NewModule(q db.Querier, schemes service.SchemeLookup, bus events.Bus, phoneRegion string, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(q), schemes, bus, phoneRegion, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "applications"
}

// Service returns the service layer for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the public history check and the admin routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/applications/check-eligibility", ctx.IntakeRateLimiter.RateLimit(), m.handler.CheckEligibility)

	admin := ctx.Admin.Group("/applications")
	admin.GET("", m.handler.List)
	admin.POST("", m.handler.Create)
	admin.GET("/phone/:phone", m.handler.ListByPhone)
	admin.GET("/pending", m.handler.ListPending)
	admin.GET("/pending/:days", m.handler.ListPending)
	admin.GET("/:id", m.handler.GetByID)
	admin.PUT("/:id", m.handler.Update)
	admin.DELETE("/:id", m.handler.Delete)
	admin.PATCH("/:id/status", m.handler.UpdateStatus)
}

var _ apphttp.Module = (*Module)(nil)
