package service

import (
	"context"
	"testing"

	"saarthi_backend/internal/citizens/repository"
	"saarthi_backend/internal/citizens/transport"
	"saarthi_backend/internal/eligibility"
	"saarthi_backend/internal/events"
	"saarthi_backend/platform/apperr"
	"saarthi_backend/platform/logger"
)

type fakeRepo struct {
	byPhone  map[string]repository.Citizen
	upserted repository.Citizen
	inserted bool
}

func (f *fakeRepo) GetByPhone(_ context.Context, phone string) (repository.Citizen, error) {
	c, ok := f.byPhone[phone]
	if !ok {
		return repository.Citizen{}, apperr.NotFound("citizen not found")
	}
	return c, nil
}

func (f *fakeRepo) Upsert(_ context.Context, c repository.Citizen) (repository.Citizen, bool, error) {
	f.upserted = c
	return c, f.inserted, nil
}

func (f *fakeRepo) List(context.Context, repository.ListParams) ([]repository.Citizen, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) DeleteByPhone(_ context.Context, phone string) error {
	if _, ok := f.byPhone[phone]; !ok {
		return apperr.NotFound("citizen not found")
	}
	delete(f.byPhone, phone)
	return nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) { b.published = append(b.published, e) }
func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}
func (b *recordingBus) Subscribe(string, events.Handler) {}

type fakeMatcher struct {
	profile eligibility.Profile
}

func (m *fakeMatcher) EligibleSchemes(_ context.Context, p eligibility.Profile) ([]transport.EligibleScheme, error) {
	m.profile = p
	return []transport.EligibleScheme{{SchemeID: "pm-kisan"}}, nil
}

func strPtr(v string) *string { return &v }

func TestUpsertNormalisesAndPublishesOnInsert(t *testing.T) {
	repo := &fakeRepo{inserted: true}
	bus := &recordingBus{}
	svc := New(repo, &fakeMatcher{}, bus, "IN", logger.Discard())

	_, err := svc.Upsert(context.Background(), transport.UpsertCitizenRequest{
		Phone:         "98765 43210",
		Name:          " <b>Sita</b> Devi ",
		Gender:        strPtr("f"),
		CasteCategory: strPtr("obc"),
		Occupation:    strPtr("Farmer"),
		State:         strPtr("  "),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := repo.upserted
	if got.Phone != "+919876543210" {
		t.Fatalf("expected E.164 phone, got %q", got.Phone)
	}
	if got.Name != "Sita Devi" {
		t.Fatalf("expected sanitised name, got %q", got.Name)
	}
	if *got.Gender != "Female" || *got.CasteCategory != "OBC" || *got.Occupation != "farmer" {
		t.Fatalf("unexpected normalised fields: %s %s %s", *got.Gender, *got.CasteCategory, *got.Occupation)
	}
	if got.State != nil {
		t.Fatalf("expected blank state to be nil, got %q", *got.State)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	if _, ok := bus.published[0].(events.CitizenRegistered); !ok {
		t.Fatalf("expected CitizenRegistered, got %T", bus.published[0])
	}
}

func TestUpsertExistingCitizenPublishesNothing(t *testing.T) {
	bus := &recordingBus{}
	svc := New(&fakeRepo{inserted: false}, &fakeMatcher{}, bus, "IN", logger.Discard())

	if _, err := svc.Upsert(context.Background(), transport.UpsertCitizenRequest{Phone: "9876543210", Name: "Ram"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no events, got %d", len(bus.published))
	}
}

func TestEligibleSchemesUsesStoredProfile(t *testing.T) {
	age := 30
	income := 80000.0
	repo := &fakeRepo{byPhone: map[string]repository.Citizen{
		"+919876543210": {
			Phone: "+919876543210", Age: &age, AnnualIncome: &income,
			Gender: strPtr("Female"), State: strPtr("Rajasthan"), Occupation: strPtr("farmer"),
		},
	}}
	matcher := &fakeMatcher{}
	svc := New(repo, matcher, &recordingBus{}, "IN", logger.Discard())

	resp, err := svc.EligibleSchemes(context.Background(), "09876543210")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("expected 1 scheme, got %d", resp.Count)
	}
	p := matcher.profile
	if *p.MinAge != 30 || *p.MaxAge != 30 || p.Location != "Rajasthan" || p.CasteCategory != "" {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestEligibleSchemesUnknownCitizen(t *testing.T) {
	svc := New(&fakeRepo{}, &fakeMatcher{}, &recordingBus{}, "IN", logger.Discard())

	_, err := svc.EligibleSchemes(context.Background(), "9876543210")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteNormalisesPhoneAndPublishes(t *testing.T) {
	repo := &fakeRepo{byPhone: map[string]repository.Citizen{"+919876543210": {Name: "Ramesh"}}}
	bus := &recordingBus{}
	svc := New(repo, &fakeMatcher{}, bus, "IN", logger.Discard())

	if err := svc.Delete(context.Background(), "09876543210"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.byPhone["+919876543210"]; ok {
		t.Fatal("expected citizen to be removed")
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	if ev, ok := bus.published[0].(events.CitizenRemoved); !ok || ev.Phone != "+919876543210" {
		t.Fatalf("unexpected event %#v", bus.published[0])
	}

	if err := svc.Delete(context.Background(), "9876543210"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if len(bus.published) != 1 {
		t.Fatal("expected no event for a missing citizen")
	}
}
