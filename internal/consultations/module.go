// Package consultations provides the consultation booking bounded context.
// Bookings publish ConsultationCreated, which drives the confirmation mail
// and re-qualification of the caller's open inquiries.
package consultations

import (
	"saarthi_backend/internal/consultations/handler"
	"saarthi_backend/internal/consultations/repository"
	"saarthi_backend/internal/consultations/service"
	"saarthi_backend/internal/events"
	apphttp "saarthi_backend/internal/http"
	"saarthi_backend/platform/db"
	"saarthi_backend/platform/logger"
	"saarthi_backend/platform/validator"
)

// Module is the consultations bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the consultations module with all its dependencies.
func NewModule(q db.Querier, bus events.Bus, phoneRegion string, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(q), bus, phoneRegion, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "consultations"
}

// Service returns the service layer for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts consultation routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/consultations", ctx.IntakeRateLimiter.RateLimit(), m.handler.Create)
	ctx.V1.POST("/consultations/check-availability", ctx.IntakeRateLimiter.RateLimit(), m.handler.CheckAvailability)
	ctx.V1.POST("/consultations/book", ctx.IntakeRateLimiter.RateLimit(), m.handler.Book)

	admin := ctx.Admin.Group("/consultations")
	admin.GET("", m.handler.List)
	admin.GET("/phone/:phone", m.handler.ListByPhone)
	admin.GET("/:id", m.handler.GetByID)
	admin.DELETE("/:id", m.handler.Delete)
	admin.PATCH("/:id/status", m.handler.UpdateStatus)
}

var _ apphttp.Module = (*Module)(nil)
