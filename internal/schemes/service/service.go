package service

import (
	"context"
	"strings"

	"saarthi_backend/internal/eligibility"
	"saarthi_backend/internal/schemes/repository"
	"saarthi_backend/internal/schemes/transport"
	"saarthi_backend/platform/apperr"
	"saarthi_backend/platform/logger"
)

// Service provides business logic for the scheme catalog.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new schemes service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List retrieves the catalog, optionally narrowed by category and active flag.
func (s *Service) List(ctx context.Context, req transport.ListSchemesRequest) (transport.SchemeListResponse, error) {
	items, err := s.repo.List(ctx, repository.ListParams{Category: req.Category, IsActive: req.IsActive})
	if err != nil {
		return transport.SchemeListResponse{}, err
	}
	return toListResponse(items), nil
}

// GetBySchemeID retrieves a scheme by its slug.
func (s *Service) GetBySchemeID(ctx context.Context, schemeID string) (transport.SchemeResponse, error) {
	sc, err := s.repo.GetBySchemeID(ctx, schemeID)
	if err != nil {
		return transport.SchemeResponse{}, err
	}
	return ToResponse(sc), nil
}

// ListByCategory retrieves the active schemes of one category.
func (s *Service) ListByCategory(ctx context.Context, category string) (transport.SchemeListResponse, error) {
	items, err := s.repo.ListActive(ctx, repository.CatalogFilter{Category: category})
	if err != nil {
		return transport.SchemeListResponse{}, err
	}
	return toListResponse(items), nil
}

// Search returns the active schemes the supplied profile is eligible for.
func (s *Service) Search(ctx context.Context, req transport.SearchSchemesRequest) (transport.SearchSchemesResponse, error) {
	eligible, err := s.Eligible(ctx, ProfileFromSearch(req), repository.CatalogFilter{
		Category: strings.TrimSpace(req.Category),
		Tags:     req.Tags,
	})
	if err != nil {
		return transport.SearchSchemesResponse{}, err
	}

	out := make([]transport.SchemeResponse, 0, len(eligible))
	for _, sc := range eligible {
		out = append(out, ToResponse(sc))
	}
	return transport.SearchSchemesResponse{Count: len(out), Schemes: out}, nil
}

// Eligible loads the active catalog matching filter and keeps the schemes
// profile satisfies, in catalog order.
func (s *Service) Eligible(ctx context.Context, profile eligibility.Profile, filter repository.CatalogFilter) ([]repository.Scheme, error) {
	catalog, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return nil, apperr.Unavailable("scheme catalog lookup failed", err).WithOp("schemes.Eligible")
	}
	return eligibility.FilterEligible(profile, catalog), nil
}

// Create adds a scheme to the catalog.
func (s *Service) Create(ctx context.Context, req transport.CreateSchemeRequest) (transport.SchemeResponse, error) {
	sc, err := s.repo.Create(ctx, toScheme(req))
	if err != nil {
		return transport.SchemeResponse{}, err
	}

	s.log.Info("scheme created", "schemeId", sc.SchemeID, "category", sc.Category)
	return ToResponse(sc), nil
}

func toScheme(req transport.CreateSchemeRequest) repository.Scheme {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return repository.Scheme{
		SchemeID:           strings.TrimSpace(req.SchemeID),
		Name:               strings.TrimSpace(req.Name),
		NameHindi:          req.NameHindi,
		MinistryDepartment: req.MinistryDepartment,
		SchemeType:         req.SchemeType,
		Category:           req.Category,
		Description:        req.Description,
		BenefitAmount:      req.BenefitAmount,
		BenefitType:        req.BenefitType,
		BenefitDescription: req.BenefitDescription,
		Eligibility:        toRule(req.Eligibility),
		RequiredDocuments:  req.RequiredDocuments,
		ApplicationProcess: req.ApplicationProcess,
		ApplicationURL:     req.ApplicationURL,
		HelplineNumber:     req.HelplineNumber,
		ProcessingTimeDays: req.ProcessingTimeDays,
		Tags:               req.Tags,
		Active:             active,
		PopularityScore:    req.PopularityScore,
	}
}

// Update applies a partial update to a scheme.
func (s *Service) Update(ctx context.Context, schemeID string, req transport.UpdateSchemeRequest) (transport.SchemeResponse, error) {
	params := repository.UpdateParams{
		Name:               req.Name,
		NameHindi:          req.NameHindi,
		MinistryDepartment: req.MinistryDepartment,
		SchemeType:         req.SchemeType,
		Category:           req.Category,
		Description:        req.Description,
		BenefitAmount:      req.BenefitAmount,
		BenefitType:        req.BenefitType,
		BenefitDescription: req.BenefitDescription,
		RequiredDocuments:  req.RequiredDocuments,
		ApplicationProcess: req.ApplicationProcess,
		ApplicationURL:     req.ApplicationURL,
		HelplineNumber:     req.HelplineNumber,
		ProcessingTimeDays: req.ProcessingTimeDays,
		Tags:               req.Tags,
		IsActive:           req.IsActive,
		PopularityScore:    req.PopularityScore,
	}
	if req.Eligibility != nil {
		rule := toRule(*req.Eligibility)
		params.MinAge = rule.MinAge
		params.MaxAge = rule.MaxAge
		if rule.Gender != "" {
			params.Gender = &rule.Gender
		}
		params.IncomeLimit = rule.IncomeLimit
		params.CasteCategory = rule.CasteCategory
		params.Occupation = rule.Occupation
		params.Location = rule.Location
	}

	sc, err := s.repo.Update(ctx, schemeID, params)
	if err != nil {
		return transport.SchemeResponse{}, err
	}

	s.log.Info("scheme updated", "schemeId", sc.SchemeID)
	return ToResponse(sc), nil
}

// Delete removes a scheme from the catalog.
func (s *Service) Delete(ctx context.Context, schemeID string) error {
	if err := s.repo.Delete(ctx, schemeID); err != nil {
		return err
	}
	s.log.Info("scheme deleted", "schemeId", schemeID)
	return nil
}

// ProfileFromSearch builds a matcher profile from a search request,
// normalising the enum-like fields to their stored spelling.
func ProfileFromSearch(req transport.SearchSchemesRequest) eligibility.Profile {
	p := eligibility.Profile{
		Gender:        eligibility.NormalizeGender(req.Gender),
		AnnualIncome:  req.AnnualIncome,
		CasteCategory: eligibility.NormalizeCasteCategory(req.CasteCategory),
		Occupation:    eligibility.NormalizeOccupation(req.Occupation),
		Location:      strings.TrimSpace(req.Location),
	}
	if req.Age != nil {
		p = eligibility.ProfileForAge(p, *req.Age)
	}
	if req.MinAge != nil {
		p.MinAge = req.MinAge
	}
	if req.MaxAge != nil {
		p.MaxAge = req.MaxAge
	}
	return p
}

func toRule(c transport.EligibilityCriteria) eligibility.Rule {
	return eligibility.Rule{
		MinAge:        c.MinAge,
		MaxAge:        c.MaxAge,
		Gender:        eligibility.NormalizeGender(c.Gender),
		IncomeLimit:   c.IncomeLimit,
		CasteCategory: mapStrings(c.CasteCategory, eligibility.NormalizeCasteCategory),
		Occupation:    mapStrings(c.Occupation, eligibility.NormalizeOccupation),
		Location:      mapStrings(c.Location, strings.TrimSpace),
	}
}

func mapStrings(in []string, fn func(string) string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = fn(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ToResponse maps a catalog row to its API shape.
func ToResponse(sc repository.Scheme) transport.SchemeResponse {
	return transport.SchemeResponse{
		ID:                 sc.ID,
		SchemeID:           sc.SchemeID,
		Name:               sc.Name,
		NameHindi:          sc.NameHindi,
		MinistryDepartment: sc.MinistryDepartment,
		SchemeType:         sc.SchemeType,
		Category:           sc.Category,
		Description:        sc.Description,
		BenefitAmount:      sc.BenefitAmount,
		BenefitType:        sc.BenefitType,
		BenefitDescription: sc.BenefitDescription,
		Eligibility: transport.EligibilityCriteria{
			MinAge:        sc.Eligibility.MinAge,
			MaxAge:        sc.Eligibility.MaxAge,
			Gender:        sc.Eligibility.Gender,
			IncomeLimit:   sc.Eligibility.IncomeLimit,
			CasteCategory: sc.Eligibility.CasteCategory,
			Occupation:    sc.Eligibility.Occupation,
			Location:      sc.Eligibility.Location,
		},
		RequiredDocuments:   nonNil(sc.RequiredDocuments),
		ApplicationProcess:  sc.ApplicationProcess,
		ApplicationURL:      sc.ApplicationURL,
		HelplineNumber:      sc.HelplineNumber,
		ApplicationDeadline: sc.ApplicationDeadline,
		ProcessingTimeDays:  sc.ProcessingTimeDays,
		Tags:                nonNil(sc.Tags),
		IsActive:            sc.Active,
		PopularityScore:     sc.PopularityScore,
		CreatedAt:           sc.CreatedAt,
		UpdatedAt:           sc.UpdatedAt,
	}
}

func toListResponse(items []repository.Scheme) transport.SchemeListResponse {
	out := make([]transport.SchemeResponse, 0, len(items))
	for _, sc := range items {
		out = append(out, ToResponse(sc))
	}
	return transport.SchemeListResponse{Items: out, Total: len(out)}
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
