package service

import (
	"context"
	"strings"

	"saarthi_backend/internal/citizens/repository"
	"saarthi_backend/internal/citizens/transport"
	"saarthi_backend/internal/eligibility"
	"saarthi_backend/internal/events"
	"saarthi_backend/platform/logger"
	"saarthi_backend/platform/phone"
	"saarthi_backend/platform/sanitize"
)

// SchemeMatcher finds the active schemes a profile is eligible for.
// Implemented by an adapter over the schemes module.
type SchemeMatcher interface {
	EligibleSchemes(ctx context.Context, profile eligibility.Profile) ([]transport.EligibleScheme, error)
}

// Service provides business logic for citizen profiles.
type Service struct {
	repo    repository.Repository
	matcher SchemeMatcher
	bus     events.Bus
	region  string
	log     *logger.Logger
}

// New creates a new citizens service.
func New(repo repository.Repository, matcher SchemeMatcher, bus events.Bus, region string, log *logger.Logger) *Service {
	return &Service{repo: repo, matcher: matcher, bus: bus, region: region, log: log}
}

// GetByPhone loads a citizen by phone in any common format.
func (s *Service) GetByPhone(ctx context.Context, rawPhone string) (transport.CitizenResponse, error) {
	c, err := s.repo.GetByPhone(ctx, s.normalizePhone(rawPhone))
	if err != nil {
		return transport.CitizenResponse{}, err
	}
	return toResponse(c), nil
}

// Delete removes a citizen by phone in any common format and publishes
// CitizenRemoved.
func (s *Service) Delete(ctx context.Context, rawPhone string) error {
	normalized := s.normalizePhone(rawPhone)
	if err := s.repo.DeleteByPhone(ctx, normalized); err != nil {
		return err
	}
	s.log.Info("citizen deleted")
	s.bus.Publish(ctx, events.CitizenRemoved{BaseEvent: events.NewBaseEvent(), Phone: normalized})
	return nil
}

// Upsert creates or updates a citizen keyed by phone. A newly created
// citizen publishes CitizenRegistered.
func (s *Service) Upsert(ctx context.Context, req transport.UpsertCitizenRequest) (transport.CitizenResponse, error) {
	c := repository.Citizen{
		Phone:             s.normalizePhone(req.Phone),
		Name:              sanitize.Text(req.Name),
		Email:             trimmed(req.Email),
		Address:           sanitize.TextPtr(req.Address),
		Age:               req.Age,
		Gender:            normalized(req.Gender, eligibility.NormalizeGender),
		State:             trimmed(req.State),
		District:          trimmed(req.District),
		VillageCity:       trimmed(req.VillageCity),
		Pincode:           trimmed(req.Pincode),
		Occupation:        normalized(req.Occupation, eligibility.NormalizeOccupation),
		AnnualIncome:      req.AnnualIncome,
		CasteCategory:     normalized(req.CasteCategory, eligibility.NormalizeCasteCategory),
		EducationLevel:    trimmed(req.EducationLevel),
		PreferredLanguage: strings.ToLower(strings.TrimSpace(req.PreferredLanguage)),
	}

	saved, inserted, err := s.repo.Upsert(ctx, c)
	if err != nil {
		return transport.CitizenResponse{}, err
	}

	if inserted {
		s.log.Info("citizen registered", "citizenId", saved.ID)
		s.bus.Publish(ctx, events.CitizenRegistered{
			BaseEvent: events.NewBaseEvent(),
			CitizenID: saved.ID,
			Phone:     saved.Phone,
		})
	}
	return toResponse(saved), nil
}

// List returns a page of citizens.
func (s *Service) List(ctx context.Context, req transport.ListCitizensRequest) (transport.CitizenListResponse, error) {
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

	items, total, err := s.repo.List(ctx, repository.ListParams{
		State:    trimmed(req.State),
		District: trimmed(req.District),
		Search:   trimmed(req.Search),
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	})
	if err != nil {
		return transport.CitizenListResponse{}, err
	}

	out := make([]transport.CitizenResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toResponse(c))
	}
	return transport.CitizenListResponse{Items: out, Total: total, Page: page, PageSize: pageSize}, nil
}

// EligibleSchemes matches the stored profile of a citizen against the
// active catalog.
func (s *Service) EligibleSchemes(ctx context.Context, rawPhone string) (transport.EligibleSchemesResponse, error) {
	c, err := s.repo.GetByPhone(ctx, s.normalizePhone(rawPhone))
	if err != nil {
		return transport.EligibleSchemesResponse{}, err
	}

	schemes, err := s.matcher.EligibleSchemes(ctx, ProfileOf(c))
	if err != nil {
		return transport.EligibleSchemesResponse{}, err
	}
	return transport.EligibleSchemesResponse{Phone: c.Phone, Count: len(schemes), Schemes: schemes}, nil
}

// ProfileOf maps a stored citizen onto a matcher profile. The state is used
// as the location; a citizen without an age leaves both age bounds open.
func ProfileOf(c repository.Citizen) eligibility.Profile {
	p := eligibility.Profile{
		Gender:        deref(c.Gender),
		AnnualIncome:  c.AnnualIncome,
		CasteCategory: deref(c.CasteCategory),
		Occupation:    deref(c.Occupation),
		Location:      deref(c.State),
	}
	if c.Age != nil {
		p = eligibility.ProfileForAge(p, *c.Age)
	}
	return p
}

func (s *Service) normalizePhone(raw string) string {
	return phone.NormalizeE164Region(raw, s.region)
}

func toResponse(c repository.Citizen) transport.CitizenResponse {
	return transport.CitizenResponse{
		ID:                c.ID,
		Phone:             c.Phone,
		Name:              c.Name,
		Email:             c.Email,
		Address:           c.Address,
		Age:               c.Age,
		Gender:            c.Gender,
		State:             c.State,
		District:          c.District,
		VillageCity:       c.VillageCity,
		Pincode:           c.Pincode,
		Occupation:        c.Occupation,
		AnnualIncome:      c.AnnualIncome,
		CasteCategory:     c.CasteCategory,
		EducationLevel:    c.EducationLevel,
		PreferredLanguage: c.PreferredLanguage,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func normalized(v *string, fn func(string) string) *string {
	if v == nil {
		return nil
	}
	n := fn(*v)
	if n == "" {
		return nil
	}
	return &n
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
