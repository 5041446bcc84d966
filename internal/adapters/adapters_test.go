package adapters

import (
	"context"
	"testing"

	"saarthi_backend/internal/eligibility"
	schemerepo "saarthi_backend/internal/schemes/repository"
	schemeservice "saarthi_backend/internal/schemes/service"
	"saarthi_backend/platform/apperr"
	"saarthi_backend/platform/logger"
)

type catalogRepo struct {
	schemerepo.Repository
	active []schemerepo.Scheme
	byID   map[string]schemerepo.Scheme
}

func (r *catalogRepo) ListActive(context.Context, schemerepo.CatalogFilter) ([]schemerepo.Scheme, error) {
	return r.active, nil
}

func (r *catalogRepo) GetBySchemeID(_ context.Context, schemeID string) (schemerepo.Scheme, error) {
	s, ok := r.byID[schemeID]
	if !ok {
		return schemerepo.Scheme{}, apperr.NotFound("scheme not found")
	}
	return s, nil
}

func TestCitizenSchemeMatcherMapsEligibleSchemes(t *testing.T) {
	amount := 6000.0
	repo := &catalogRepo{active: []schemerepo.Scheme{
		{SchemeID: "pm-kisan", Name: "PM Kisan", Category: "Agriculture", BenefitAmount: &amount, PopularityScore: 90, Active: true,
			Eligibility: eligibility.Rule{Occupation: []string{"farmer"}}},
		{SchemeID: "scholarship", Name: "Post Matric Scholarship", Active: true,
			Eligibility: eligibility.Rule{Occupation: []string{"student"}}},
	}}
	matcher := NewCitizenSchemeMatcher(schemeservice.New(repo, logger.Discard()))

	got, err := matcher.EligibleSchemes(context.Background(), eligibility.Profile{Occupation: "farmer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].SchemeID != "pm-kisan" {
		t.Fatalf("expected only pm-kisan, got %+v", got)
	}
	if got[0].BenefitAmount == nil || *got[0].BenefitAmount != amount || got[0].PopularityScore != 90 {
		t.Fatalf("unexpected mapping: %+v", got[0])
	}
}

func TestApplicationSchemeLookup(t *testing.T) {
	repo := &catalogRepo{byID: map[string]schemerepo.Scheme{
		"pmay-g": {SchemeID: "pmay-g", Name: "PMAY Gramin", Category: "Housing"},
	}}
	lookup := NewApplicationSchemeLookup(schemeservice.New(repo, logger.Discard()))

	info, err := lookup.LookupScheme(context.Background(), "pmay-g")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Name != "PMAY Gramin" || info.Category != "Housing" {
		t.Fatalf("unexpected scheme info: %+v", info)
	}

	if _, err := lookup.LookupScheme(context.Background(), "unknown"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
