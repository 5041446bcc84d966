// Package notification sends mail in response to domain events: booking
// confirmations to citizens and high-priority inquiry alerts to operations.
// Domain modules only publish events and never talk to the mail transport.
package notification

import (
	"context"

	"saarthi_backend/internal/email"
	"saarthi_backend/internal/events"
	apphttp "saarthi_backend/internal/http"
	notifhandler "saarthi_backend/internal/notification/handler"
	"saarthi_backend/internal/qualification"
	"saarthi_backend/platform/config"
	"saarthi_backend/platform/logger"
	"saarthi_backend/platform/validator"
)

// Module handles all notification-related event subscriptions.
type Module struct {
	sender  email.Sender
	cfg     config.NotificationConfig
	log     *logger.Logger
	handler *notifhandler.HTTPHandler
}

// New creates a new notification module.
func New(sender email.Sender, cfg config.NotificationConfig, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{
		sender:  sender,
		cfg:     cfg,
		log:     log,
		handler: notifhandler.NewHTTPHandler(sender, val),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterRoutes mounts the admin mail endpoint.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.POST("/notifications/email", m.handler.SendEmail)
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ConsultationCreated{}.EventName(), m)
	bus.Subscribe(events.InquiryQualified{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ConsultationCreated:
		return m.handleConsultationCreated(ctx, e)
	case events.InquiryQualified:
		return m.handleInquiryQualified(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleConsultationCreated(ctx context.Context, e events.ConsultationCreated) error {
	if e.Email == nil || *e.Email == "" {
		return nil
	}

	err := m.sender.SendConsultationConfirmation(ctx, *e.Email, email.ConsultationConfirmation{
		CitizenName:      e.CitizenName,
		ConsultationDate: e.ConsultationDate,
		ConsultationTime: e.ConsultationTime,
		ConsultationType: e.ConsultationType,
		QueryCategory:    e.QueryCategory,
	})
	if err != nil {
		m.log.Error("failed to send consultation confirmation",
			"consultationId", e.ConsultationID,
			"error", err,
		)
		return err
	}
	m.log.Info("consultation confirmation sent", "consultationId", e.ConsultationID)
	return nil
}

// handleInquiryQualified alerts operations when an inquiry first reaches
// high priority. Re-scoring at the same level stays silent. PreviousStatus is
// the value the write replaced under a row lock, so of two racing runs only
// the first one observes the promotion.
func (m *Module) handleInquiryQualified(ctx context.Context, e events.InquiryQualified) error {
	to := m.cfg.GetOpsAlertEmail()
	if to == "" {
		return nil
	}
	high := string(qualification.StatusHighPriority)
	if e.QualificationStatus != high || e.PreviousStatus == high {
		return nil
	}

	err := m.sender.SendHighPriorityAlert(ctx, to, email.LeadAlert{
		CitizenName:    e.CitizenName,
		Phone:          e.Phone,
		SchemeInterest: e.SchemeInterest,
		LeadScore:      e.LeadScore,
		ICPMatchScore:  e.ICPMatchScore,
	})
	if err != nil {
		m.log.Error("failed to send high priority alert", "inquiryId", e.InquiryID, "error", err)
		return err
	}
	m.log.Info("high priority alert sent", "inquiryId", e.InquiryID)
	return nil
}

var _ apphttp.Module = (*Module)(nil)
