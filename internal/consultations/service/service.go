package service

import (
	"context"
	"strings"

	"saarthi_backend/internal/consultations/repository"
	"saarthi_backend/internal/consultations/transport"
	"saarthi_backend/internal/events"
	"saarthi_backend/platform/apperr"
	"saarthi_backend/platform/logger"
	"saarthi_backend/platform/phone"
	"saarthi_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	StatusScheduled = "scheduled"

	defaultConsultationType = "general"
	defaultLanguage         = "hindi"
)

// Service provides business logic for consultations.
type Service struct {
	repo   repository.Repository
	bus    events.Bus
	region string
	log    *logger.Logger
}

// New creates a new consultations service.
func New(repo repository.Repository, bus events.Bus, region string, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, region: region, log: log}
}

// Create books a consultation and publishes ConsultationCreated.
func (s *Service) Create(ctx context.Context, req transport.CreateConsultationRequest) (transport.ConsultationResponse, error) {
	c, err := s.repo.Create(ctx, s.newConsultation(phone.NormalizeE164Region(req.Phone, s.region), req.CitizenName, req.Email,
		req.ConsultationDate, req.ConsultationTime, req.ConsultationType, req.QueryCategory, req.QueryDescription,
		req.PreferredLanguage, req.District))
	if err != nil {
		return transport.ConsultationResponse{}, err
	}

	s.log.Info("consultation booked", "consultationId", c.ID, "type", c.ConsultationType, "date", c.ConsultationDate)
	s.publishBooked(ctx, c)
	return toResponse(c), nil
}

// Book checks the requested slot and books it. An open consultation of the
// same phone is moved to the slot rather than duplicated. A taken slot is a
// conflict whose details carry the alternatives. Both paths publish
// ConsultationCreated so the confirmation names the current slot.
func (s *Service) Book(ctx context.Context, req transport.BookConsultationRequest) (transport.BookResponse, error) {
	target, err := slot(req.ConsultationDate, req.ConsultationTime)
	if err != nil {
		return transport.BookResponse{}, apperr.Validation("invalid consultation date or time")
	}

	normalized := phone.NormalizeE164Region(req.Phone, s.region)
	existing, err := s.repo.FindOpenByPhone(ctx, normalized)
	rescheduling := err == nil
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return transport.BookResponse{}, err
	}

	exclude := uuid.Nil
	if rescheduling {
		exclude = existing.ID
	}
	check, err := s.checkSlot(ctx, target, DefaultWindowMinutes, exclude)
	if err != nil {
		return transport.BookResponse{}, err
	}
	if len(check.conflicts) > 0 {
		return transport.BookResponse{}, apperr.Conflict("time slot is already booked").
			WithDetails(toAvailabilityResponse(check))
	}

	booking := s.newConsultation(normalized, req.CitizenName, &req.Email, req.ConsultationDate, req.ConsultationTime,
		req.ConsultationType, req.QueryCategory, req.QueryDescription, req.PreferredLanguage, req.District)
	booking.Notes = sanitize.Text(req.Notes)

	var c repository.Consultation
	if rescheduling {
		booking.ID = existing.ID
		c, err = s.repo.Reschedule(ctx, booking)
	} else {
		c, err = s.repo.Create(ctx, booking)
	}
	if err != nil {
		return transport.BookResponse{}, err
	}

	s.log.Info("consultation booked", "consultationId", c.ID, "date", c.ConsultationDate, "time", c.ConsultationTime, "rescheduled", rescheduling)
	s.publishBooked(ctx, c)
	return transport.BookResponse{Consultation: toResponse(c), Rescheduled: rescheduling}, nil
}

// Delete removes a consultation.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("consultation deleted", "consultationId", id)
	return nil
}

func (s *Service) newConsultation(normalizedPhone, name string, email *string, date, clock, consultationType string,
	category *string, description, language string, district *string) repository.Consultation {
	if consultationType == "" {
		consultationType = defaultConsultationType
	}
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = defaultLanguage
	}
	return repository.Consultation{
		Phone:             normalizedPhone,
		CitizenName:       sanitize.Text(name),
		Email:             sanitize.TextPtr(email),
		ConsultationDate:  date,
		ConsultationTime:  clock,
		ConsultationType:  consultationType,
		QueryCategory:     sanitize.TextPtr(category),
		QueryDescription:  sanitize.Text(description),
		PreferredLanguage: language,
		District:          sanitize.TextPtr(district),
		Status:            StatusScheduled,
	}
}

func (s *Service) publishBooked(ctx context.Context, c repository.Consultation) {
	s.bus.Publish(ctx, events.ConsultationCreated{
		BaseEvent:        events.NewBaseEvent(),
		ConsultationID:   c.ID,
		Phone:            c.Phone,
		CitizenName:      c.CitizenName,
		Email:            c.Email,
		ConsultationDate: c.ConsultationDate,
		ConsultationTime: c.ConsultationTime,
		ConsultationType: c.ConsultationType,
		QueryCategory:    deref(c.QueryCategory),
	})
}

// GetByID loads a consultation.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.ConsultationResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ConsultationResponse{}, err
	}
	return toResponse(c), nil
}

// List returns a page of consultations filtered by status and phone.
func (s *Service) List(ctx context.Context, req transport.ListConsultationsRequest) (transport.ConsultationListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	params := repository.ListParams{
		Status: req.Status,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		normalized := phone.NormalizeE164Region(*req.Phone, s.region)
		params.Phone = &normalized
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.ConsultationListResponse{}, err
	}
	return transport.ConsultationListResponse{Items: toResponses(items), Total: total, Page: page, PageSize: pageSize}, nil
}

// ListByPhone returns all consultations for a phone.
func (s *Service) ListByPhone(ctx context.Context, rawPhone string) ([]transport.ConsultationResponse, error) {
	items, err := s.repo.ListByPhone(ctx, phone.NormalizeE164Region(rawPhone, s.region))
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

// UpdateStatus moves a consultation to a new status.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateStatusRequest) (transport.ConsultationResponse, error) {
	c, err := s.repo.UpdateStatus(ctx, id, repository.StatusUpdate{
		Status:        req.Status,
		AssignedAgent: sanitize.TextPtr(req.AssignedAgent),
		Notes:         sanitize.TextPtr(req.Notes),
	})
	if err != nil {
		return transport.ConsultationResponse{}, err
	}

	s.log.Info("consultation status updated", "consultationId", id, "status", c.Status)
	return toResponse(c), nil
}

func toResponse(c repository.Consultation) transport.ConsultationResponse {
	return transport.ConsultationResponse{
		ID:                c.ID,
		Phone:             c.Phone,
		CitizenName:       c.CitizenName,
		Email:             c.Email,
		ConsultationDate:  c.ConsultationDate,
		ConsultationTime:  c.ConsultationTime,
		ConsultationType:  c.ConsultationType,
		QueryCategory:     c.QueryCategory,
		QueryDescription:  c.QueryDescription,
		PreferredLanguage: c.PreferredLanguage,
		District:          c.District,
		Status:            c.Status,
		AssignedAgent:     c.AssignedAgent,
		Notes:             c.Notes,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func toResponses(items []repository.Consultation) []transport.ConsultationResponse {
	out := make([]transport.ConsultationResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toResponse(c))
	}
	return out
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
