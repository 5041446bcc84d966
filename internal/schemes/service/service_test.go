package service

import (
	"context"
	"errors"
	"testing"

	"saarthi_backend/internal/eligibility"
	"saarthi_backend/internal/schemes/repository"
	"saarthi_backend/internal/schemes/transport"
	"saarthi_backend/platform/apperr"
	"saarthi_backend/platform/logger"
)

type fakeRepo struct {
	repository.Repository
	catalog    []repository.Scheme
	err        error
	lastFilter repository.CatalogFilter
}

func (f *fakeRepo) ListActive(_ context.Context, filter repository.CatalogFilter) ([]repository.Scheme, error) {
	f.lastFilter = filter
	return f.catalog, f.err
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestSearchKeepsCatalogOrderAndSkipsInactive(t *testing.T) {
	repo := &fakeRepo{catalog: []repository.Scheme{
		{SchemeID: "pm-kisan", Active: true, Eligibility: eligibility.Rule{
			MinAge: intPtr(18), Gender: "All", IncomeLimit: floatPtr(100000),
			CasteCategory: []string{"All"}, Occupation: []string{"farmer"}, Location: []string{"All States"},
		}},
		{SchemeID: "student-loan", Active: true, Eligibility: eligibility.Rule{Occupation: []string{"student"}}},
		{SchemeID: "retired", Active: false},
		{SchemeID: "rajasthan-kisan", Active: true, Eligibility: eligibility.Rule{Location: []string{"Rajasthan - Jaipur"}}},
	}}
	svc := New(repo, logger.Discard())

	resp, err := svc.Search(context.Background(), transport.SearchSchemesRequest{
		Age:           intPtr(30),
		Gender:        "female",
		AnnualIncome:  floatPtr(80000),
		CasteCategory: "general",
		Occupation:    "Farmer",
		Location:      "Rajasthan",
		Category:      " Agriculture ",
		Tags:          []string{"farmer"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Count != 2 || len(resp.Schemes) != 2 {
		t.Fatalf("expected 2 eligible schemes, got %d", resp.Count)
	}
	if resp.Schemes[0].SchemeID != "pm-kisan" || resp.Schemes[1].SchemeID != "rajasthan-kisan" {
		t.Fatalf("unexpected order: %s, %s", resp.Schemes[0].SchemeID, resp.Schemes[1].SchemeID)
	}
	if repo.lastFilter.Category != "Agriculture" || len(repo.lastFilter.Tags) != 1 {
		t.Fatalf("unexpected catalog filter: %+v", repo.lastFilter)
	}
}

func TestSearchCatalogFailureIsUnavailable(t *testing.T) {
	svc := New(&fakeRepo{err: errors.New("connection reset")}, logger.Discard())

	_, err := svc.Search(context.Background(), transport.SearchSchemesRequest{})
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestProfileFromSearchAgeOverrides(t *testing.T) {
	p := ProfileFromSearch(transport.SearchSchemesRequest{Age: intPtr(40), MaxAge: intPtr(60), Gender: "M"})

	if p.MinAge == nil || *p.MinAge != 40 {
		t.Fatalf("expected min age 40, got %v", p.MinAge)
	}
	if p.MaxAge == nil || *p.MaxAge != 60 {
		t.Fatalf("expected max age override 60, got %v", p.MaxAge)
	}
	if p.Gender != "Male" {
		t.Fatalf("expected normalised gender Male, got %q", p.Gender)
	}
}

func TestToRuleDropsBlankEntries(t *testing.T) {
	rule := toRule(transport.EligibilityCriteria{
		Gender:        "all",
		CasteCategory: []string{"obc", " "},
		Occupation:    []string{"Farmer"},
	})

	if rule.Gender != eligibility.WildcardAll {
		t.Fatalf("expected wildcard gender, got %q", rule.Gender)
	}
	if len(rule.CasteCategory) != 1 || rule.CasteCategory[0] != "OBC" {
		t.Fatalf("unexpected caste list: %#v", rule.CasteCategory)
	}
	if rule.Occupation[0] != "farmer" {
		t.Fatalf("expected lower-cased occupation, got %q", rule.Occupation[0])
	}
	if rule.Location != nil {
		t.Fatalf("expected nil location, got %#v", rule.Location)
	}
}
