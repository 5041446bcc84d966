package service

import (
	"context"
	"errors"
	"testing"

	"saarthi_backend/internal/schemes/repository"
	"saarthi_backend/internal/schemes/transport"
	"saarthi_backend/platform/apperr"
	"saarthi_backend/platform/logger"
	"saarthi_backend/platform/validator"
)

const sampleCatalog = `
schemes:
  - scheme_id: pm-kisan
    scheme_name: PM Kisan Samman Nidhi
    category: Agriculture
    benefit_amount: 6000
    eligibility_criteria:
      min_age: 18
      gender: All
      occupation: [Farmer]
      location: [All States]
    tags: [farmer, income-support]
    popularity_score: 95
  - scheme_id: pmay-g
    scheme_name: Pradhan Mantri Awas Yojana Gramin
    category: Housing
    is_active: false
`

type upsertRepo struct {
	repository.Repository
	saved []repository.Scheme
	fail  map[string]bool
}

func (r *upsertRepo) Upsert(_ context.Context, s repository.Scheme) (repository.Scheme, error) {
	if r.fail[s.SchemeID] {
		return repository.Scheme{}, errors.New("write failed")
	}
	r.saved = append(r.saved, s)
	return s, nil
}

func TestParseCatalogDecodesEntries(t *testing.T) {
	entries, err := ParseCatalog([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	kisan := entries[0]
	if kisan.Eligibility.MinAge == nil || *kisan.Eligibility.MinAge != 18 {
		t.Fatalf("expected min_age 18, got %v", kisan.Eligibility.MinAge)
	}
	if kisan.BenefitAmount == nil || *kisan.BenefitAmount != 6000 {
		t.Fatalf("expected benefit amount 6000, got %v", kisan.BenefitAmount)
	}
	if entries[1].IsActive == nil || *entries[1].IsActive {
		t.Fatal("expected second entry to be inactive")
	}
}

func TestParseCatalogRejectsDuplicates(t *testing.T) {
	doc := "schemes:\n  - scheme_id: a\n  - scheme_id: a\n"
	if _, err := ParseCatalog([]byte(doc)); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestParseCatalogRejectsMalformedYAML(t *testing.T) {
	if _, err := ParseCatalog([]byte("schemes: [")); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestImportContinuesPastFailures(t *testing.T) {
	repo := &upsertRepo{fail: map[string]bool{"pmay-g": true}}
	svc := New(repo, logger.Discard())

	entries := []transport.CreateSchemeRequest{
		{SchemeID: "pm-kisan", Name: "PM Kisan", Category: "Agriculture", Eligibility: transport.EligibilityCriteria{Occupation: []string{"Farmer"}}},
		{SchemeID: "x", Name: "Missing category"},
		{SchemeID: "pmay-g", Name: "PMAY Gramin", Category: "Housing"},
	}

	result, err := svc.Import(context.Background(), entries, validator.New())
	if err == nil {
		t.Fatal("expected joined error for failed entries")
	}
	if result.Upserted != 1 || len(result.Failed) != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !repo.saved[0].Active {
		t.Fatal("expected imported scheme to default to active")
	}
	if got := repo.saved[0].Eligibility.Occupation; len(got) != 1 || got[0] != "farmer" {
		t.Fatalf("expected normalized occupation, got %v", got)
	}
}
