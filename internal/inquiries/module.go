// Package inquiries provides the scheme inquiry (lead) bounded context.
// Every intake is scored by the qualification engine, and inquiries are
// re-scored whenever the caller's engagement history changes.
package inquiries

import (
	"context"

	"saarthi_backend/internal/events"
	apphttp "saarthi_backend/internal/http"
	"saarthi_backend/internal/inquiries/handler"
	"saarthi_backend/internal/inquiries/repository"
	"saarthi_backend/internal/inquiries/service"
	"saarthi_backend/internal/qualification"
	"saarthi_backend/platform/db"
	"saarthi_backend/platform/logger"
	"saarthi_backend/platform/validator"
)

// Module is the inquiries bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	log     *logger.Logger
}

// NewModule creates and initializes the inquiries module with all its dependencies.
func NewModule(q db.Querier, criteria qualification.Criteria, bus events.Bus, phoneRegion string, val *validator.Validator, log *logger.Logger) *Module {
	history := qualification.NewAggregator(repository.NewHistoryRepository(q))
	engine := qualification.NewEngine(criteria, history, log)
	svc := service.New(repository.New(q), engine, bus, phoneRegion, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "inquiries"
}

// Service returns the service layer for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts inquiry routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/inquiries", ctx.IntakeRateLimiter.RateLimit(), m.handler.Create)

	admin := ctx.Admin.Group("/inquiries")
	admin.GET("", m.handler.List)
	admin.GET("/high-priority", m.handler.HighPriority)
	admin.GET("/stats", m.handler.Stats)
	admin.POST("/requalify-open", m.handler.RequalifyOpen)
	admin.GET("/phone/:phone", m.handler.ListByPhone)
	admin.GET("/:id", m.handler.GetByID)
	admin.PATCH("/:id", m.handler.Update)
	admin.DELETE("/:id", m.handler.Delete)
	admin.POST("/:id/requalify", m.handler.Requalify)
	admin.POST("/:id/follow-up", m.handler.FollowUp)
}

// RegisterHandlers subscribes to the events that change a caller's
// engagement history.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.CitizenRegistered{}.EventName(), m)
	bus.Subscribe(events.CitizenRemoved{}.EventName(), m)
	bus.Subscribe(events.ConsultationCreated{}.EventName(), m)
	bus.Subscribe(events.ApplicationCreated{}.EventName(), m)
	bus.Subscribe(events.ApplicationChanged{}.EventName(), m)
}

// Handle re-qualifies the open inquiries of the phone an event refers to.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	var phone string
	switch e := event.(type) {
	case events.CitizenRegistered:
		phone = e.Phone
	case events.CitizenRemoved:
		phone = e.Phone
	case events.ConsultationCreated:
		phone = e.Phone
	case events.ApplicationCreated:
		phone = e.Phone
	case events.ApplicationChanged:
		phone = e.Phone
	default:
		return nil
	}

	updated, err := m.service.RequalifyByPhone(ctx, phone)
	if updated > 0 {
		m.log.Info("inquiries re-qualified", "event", event.EventName(), "count", updated)
	}
	return err
}

var _ apphttp.Module = (*Module)(nil)
