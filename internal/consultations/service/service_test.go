package service

import (
	"context"
	"testing"

	"saarthi_backend/internal/consultations/repository"
	"saarthi_backend/internal/consultations/transport"
	"saarthi_backend/internal/events"
	"saarthi_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	repository.Repository
	created    repository.Consultation
	listParams repository.ListParams
}

func (f *fakeRepo) Create(_ context.Context, c repository.Consultation) (repository.Consultation, error) {
	c.ID = uuid.New()
	f.created = c
	return c, nil
}

func (f *fakeRepo) List(_ context.Context, p repository.ListParams) ([]repository.Consultation, int, error) {
	f.listParams = p
	return nil, 0, nil
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

func TestCreateAppliesDefaultsAndPublishes(t *testing.T) {
	repo := &fakeRepo{}
	bus := &recordingBus{}
	svc := New(repo, bus, "IN", logger.Discard())

	email := "sita@example.com"
	resp, err := svc.Create(context.Background(), transport.CreateConsultationRequest{
		Phone:            "09876543210",
		CitizenName:      "Sita <script>x</script>",
		Email:            &email,
		ConsultationDate: "2026-11-02",
		ConsultationTime: "10:30",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.created.Phone != "+919876543210" {
		t.Fatalf("expected normalised phone, got %q", repo.created.Phone)
	}
	if repo.created.ConsultationType != "general" || repo.created.PreferredLanguage != "hindi" {
		t.Fatalf("unexpected defaults: %q %q", repo.created.ConsultationType, repo.created.PreferredLanguage)
	}
	if resp.Status != StatusScheduled {
		t.Fatalf("expected scheduled status, got %q", resp.Status)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	ev, ok := bus.published[0].(events.ConsultationCreated)
	if !ok {
		t.Fatalf("expected ConsultationCreated, got %T", bus.published[0])
	}
	if ev.Phone != "+919876543210" || ev.Email == nil || *ev.Email != email {
		t.Fatalf("unexpected event payload: %+v", ev)
	}
}

func TestListNormalisesPhoneFilter(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, &recordingBus{}, "IN", logger.Discard())

	raw := "98765 43210"
	resp, err := svc.List(context.Background(), transport.ListConsultationsRequest{Phone: &raw, PageSize: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listParams.Phone == nil || *repo.listParams.Phone != "+919876543210" {
		t.Fatalf("expected normalised phone filter, got %v", repo.listParams.Phone)
	}
	if resp.PageSize != 100 || repo.listParams.Limit != 100 {
		t.Fatalf("expected page size capped at 100, got %d", resp.PageSize)
	}
}
