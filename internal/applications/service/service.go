package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"saarthi_backend/internal/applications/repository"
	"saarthi_backend/internal/applications/transport"
	"saarthi_backend/internal/events"
	"saarthi_backend/platform/apperr"
	"saarthi_backend/platform/logger"
	"saarthi_backend/platform/phone"
	"saarthi_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	statusDraft = "draft"

	// DefaultPendingDays is the age used when the pending queue is asked for without one.
	DefaultPendingDays = 7
	maxPendingDays     = 3650
)

// SchemeInfo is what an application copies from the catalog.
type SchemeInfo struct {
	SchemeID      string
	Name          string
	Category      string
	BenefitAmount *float64
}

// SchemeLookup resolves a scheme slug. Implemented by an adapter over the
// schemes module; unknown slugs return an apperr not-found error.
type SchemeLookup interface {
	LookupScheme(ctx context.Context, schemeID string) (SchemeInfo, error)
}

// Service provides business logic for scheme applications.
type Service struct {
	repo    repository.Repository
	schemes SchemeLookup
	bus     events.Bus
	region  string
	log     *logger.Logger
	now     func() time.Time
}

// New creates a new applications service.
func New(repo repository.Repository, schemes SchemeLookup, bus events.Bus, region string, log *logger.Logger) *Service {
	return &Service{repo: repo, schemes: schemes, bus: bus, region: region, log: log, now: time.Now}
}

// Create records an application and publishes ApplicationCreated. The
// scheme name and category are copied from the catalog; the benefit amount
// defaults to the scheme's.
func (s *Service) Create(ctx context.Context, req transport.CreateApplicationRequest) (transport.ApplicationResponse, error) {
	scheme, err := s.schemes.LookupScheme(ctx, strings.TrimSpace(req.SchemeID))
	if err != nil {
		return transport.ApplicationResponse{}, err
	}

	status := req.Status
	if status == "" {
		status = statusDraft
	}
	amount := req.BenefitAmount
	if amount == nil {
		amount = scheme.BenefitAmount
	}

	a, err := s.repo.Create(ctx, repository.Application{
		ApplicationRef:      s.newReference(),
		Phone:               phone.NormalizeE164Region(req.Phone, s.region),
		CitizenName:         sanitize.Text(req.CitizenName),
		SchemeID:            scheme.SchemeID,
		SchemeName:          scheme.Name,
		SchemeCategory:      scheme.Category,
		Status:              status,
		BenefitAmount:       amount,
		ValidUntil:          req.ValidUntil,
		RecurringEnrollment: req.RecurringEnrollment,
		Notes:               sanitize.Text(req.Notes),
	})
	if err != nil {
		return transport.ApplicationResponse{}, err
	}

	s.log.Info("application recorded", "applicationRef", a.ApplicationRef, "schemeId", a.SchemeID)
	s.bus.Publish(ctx, events.ApplicationCreated{
		BaseEvent:      events.NewBaseEvent(),
		ApplicationID:  a.ID,
		ApplicationRef: a.ApplicationRef,
		Phone:          a.Phone,
		SchemeID:       a.SchemeID,
	})

	return toResponse(a), nil
}

// GetByID loads an application.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.ApplicationResponse, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ApplicationResponse{}, err
	}
	return toResponse(a), nil
}

// List returns a page of applications.
func (s *Service) List(ctx context.Context, req transport.ListApplicationsRequest) (transport.ApplicationListResponse, error) {
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
		Status:   req.Status,
		SchemeID: req.SchemeID,
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		normalized := phone.NormalizeE164Region(*req.Phone, s.region)
		params.Phone = &normalized
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.ApplicationListResponse{}, err
	}
	return transport.ApplicationListResponse{Items: toResponses(items), Total: total, Page: page, PageSize: pageSize}, nil
}

// ListByPhone returns all applications filed for a phone.
func (s *Service) ListByPhone(ctx context.Context, rawPhone string) ([]transport.ApplicationResponse, error) {
	items, err := s.repo.ListByPhone(ctx, phone.NormalizeE164Region(rawPhone, s.region))
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

// UpdateStatus moves an application to a new status.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateStatusRequest) (transport.ApplicationResponse, error) {
	a, err := s.repo.UpdateStatus(ctx, id, repository.StatusUpdate{
		Status:        req.Status,
		BenefitAmount: req.BenefitAmount,
		ValidUntil:    req.ValidUntil,
		Notes:         sanitize.TextPtr(req.Notes),
	})
	if err != nil {
		return transport.ApplicationResponse{}, err
	}

	s.log.Info("application status updated", "applicationRef", a.ApplicationRef, "status", a.Status)
	return toResponse(a), nil
}

// ListPending returns applications that have waited in a pending status for
// at least days days, oldest first. Zero days returns the whole queue.
func (s *Service) ListPending(ctx context.Context, days int) ([]transport.ApplicationResponse, error) {
	if days < 0 || days > maxPendingDays {
		return nil, apperr.Validation(fmt.Sprintf("days must be between 0 and %d", maxPendingDays))
	}
	items, err := s.repo.ListPending(ctx, s.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

// CheckHistory reports whether a phone has any application on record,
// optionally for one scheme. No history is a not-found error.
func (s *Service) CheckHistory(ctx context.Context, req transport.CheckEligibilityRequest) (transport.EligibilityResponse, error) {
	items, err := s.repo.ListByPhone(ctx, phone.NormalizeE164Region(req.Phone, s.region))
	if err != nil {
		return transport.EligibilityResponse{}, err
	}

	schemeID := ""
	if req.SchemeID != nil {
		schemeID = strings.TrimSpace(*req.SchemeID)
	}
	history := make([]transport.HistoryItem, 0, len(items))
	for _, a := range items {
		if schemeID != "" && a.SchemeID != schemeID {
			continue
		}
		history = append(history, transport.HistoryItem{
			ApplicationRef:      a.ApplicationRef,
			SchemeID:            a.SchemeID,
			SchemeName:          a.SchemeName,
			SchemeCategory:      a.SchemeCategory,
			Status:              a.Status,
			ApplicationDate:     a.CreatedAt,
			EligibilityVerified: a.Status == "approved" || a.Status == "disbursed",
			BenefitAmount:       a.BenefitAmount,
		})
	}
	if len(history) == 0 {
		return transport.EligibilityResponse{}, apperr.NotFound("no application history found for this phone")
	}
	return transport.EligibilityResponse{Eligible: true, Count: len(history), Applications: history}, nil
}

// Update edits an application. A new scheme slug re-copies the catalog name
// and category. Publishes ApplicationChanged.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateApplicationRequest) (transport.ApplicationResponse, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ApplicationResponse{}, err
	}

	if req.SchemeID != nil && strings.TrimSpace(*req.SchemeID) != a.SchemeID {
		scheme, err := s.schemes.LookupScheme(ctx, strings.TrimSpace(*req.SchemeID))
		if err != nil {
			return transport.ApplicationResponse{}, err
		}
		a.SchemeID = scheme.SchemeID
		a.SchemeName = scheme.Name
		a.SchemeCategory = scheme.Category
	}
	if req.CitizenName != nil {
		a.CitizenName = sanitize.Text(*req.CitizenName)
	}
	if req.Status != nil {
		a.Status = *req.Status
	}
	if req.BenefitAmount != nil {
		a.BenefitAmount = req.BenefitAmount
	}
	if req.ValidUntil != nil {
		a.ValidUntil = req.ValidUntil
	}
	if req.RecurringEnrollment != nil {
		a.RecurringEnrollment = *req.RecurringEnrollment
	}
	if req.Notes != nil {
		a.Notes = sanitize.Text(*req.Notes)
	}

	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return transport.ApplicationResponse{}, err
	}

	s.log.Info("application updated", "applicationRef", updated.ApplicationRef, "status", updated.Status)
	s.publishChanged(ctx, updated, false)
	return toResponse(updated), nil
}

// Delete removes an application. Publishes ApplicationChanged.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.log.Info("application deleted", "applicationRef", a.ApplicationRef)
	s.publishChanged(ctx, a, true)
	return nil
}

func (s *Service) publishChanged(ctx context.Context, a repository.Application, deleted bool) {
	s.bus.Publish(ctx, events.ApplicationChanged{
		BaseEvent:     events.NewBaseEvent(),
		ApplicationID: a.ID,
		Phone:         a.Phone,
		Deleted:       deleted,
	})
}

// newReference builds a human-readable reference such as SS-20261019-3F2A9C1B.
func (s *Service) newReference() string {
	return fmt.Sprintf("SS-%s-%s", s.now().Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}

func toResponse(a repository.Application) transport.ApplicationResponse {
	return transport.ApplicationResponse{
		ID:                  a.ID,
		ApplicationRef:      a.ApplicationRef,
		Phone:               a.Phone,
		CitizenName:         a.CitizenName,
		SchemeID:            a.SchemeID,
		SchemeName:          a.SchemeName,
		SchemeCategory:      a.SchemeCategory,
		Status:              a.Status,
		BenefitAmount:       a.BenefitAmount,
		ValidUntil:          a.ValidUntil,
		RecurringEnrollment: a.RecurringEnrollment,
		Notes:               a.Notes,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

func toResponses(items []repository.Application) []transport.ApplicationResponse {
	out := make([]transport.ApplicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toResponse(a))
	}
	return out
}
