package qualification

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeStore struct {
	citizen       *CitizenRecord
	consultations []ConsultationRecord
	benefits      []BenefitRecord
	citizenErr    error
	benefitErr    error
	listCalls     int32
}

func (f *fakeStore) FindCitizenByPhone(ctx context.Context, phone string) (*CitizenRecord, error) {
	return f.citizen, f.citizenErr
}

func (f *fakeStore) ListConsultationsByPhone(ctx context.Context, phone string) ([]ConsultationRecord, error) {
	atomic.AddInt32(&f.listCalls, 1)
	return f.consultations, nil
}

func (f *fakeStore) ListBenefitRecordsByPhone(ctx context.Context, phone string) ([]BenefitRecord, error) {
	atomic.AddInt32(&f.listCalls, 1)
	return f.benefits, f.benefitErr
}

func amount(v float64) *float64 { return &v }

func at(d int) time.Time { return *daysAgo(d) }

func TestSummarizeMetrics(t *testing.T) {
	future := fixedNow.Add(24 * time.Hour)
	past := fixedNow.Add(-time.Hour)

	h := Summarize(
		CitizenRecord{ID: uuid.New(), Name: "Asha"},
		[]ConsultationRecord{{CreatedAt: at(40)}, {CreatedAt: at(3)}},
		[]BenefitRecord{
			{Amount: amount(6000), CreatedAt: at(200), ValidUntil: &past},
			{Amount: nil, CreatedAt: at(100), RecurringEnrollment: true},
			{Amount: amount(4000), CreatedAt: at(8), ValidUntil: &future},
		},
		fixedNow,
	)

	if h.PastBenefitCount != 3 || h.ConsultationCount != 2 {
		t.Fatalf("unexpected counts: %+v", h)
	}
	if h.TotalBenefit != 10000 {
		t.Fatalf("expected total 10000, got %.2f", h.TotalBenefit)
	}
	if !h.HasActiveBenefit || !h.HasRecurringEnrollment {
		t.Fatalf("expected active benefit and recurring enrollment: %+v", h)
	}
	if h.LastInteractionAt == nil || !h.LastInteractionAt.Equal(at(3)) {
		t.Fatalf("expected last interaction 3 days ago, got %v", h.LastInteractionAt)
	}
	// 2*5 + 3*10 + 15 + 15
	if h.EngagementScore != 70 {
		t.Fatalf("expected engagement 70, got %d", h.EngagementScore)
	}
}

func TestSummarizeWithoutRecords(t *testing.T) {
	h := Summarize(CitizenRecord{Name: "Ravi"}, nil, nil, fixedNow)

	if h.LastInteractionAt != nil {
		t.Fatalf("expected no last interaction, got %v", h.LastInteractionAt)
	}
	if h.EngagementScore != 0 || h.TotalBenefit != 0 {
		t.Fatalf("expected zero metrics, got %+v", h)
	}
}

func TestSummarizeValidityMustBeStrictlyFuture(t *testing.T) {
	now := fixedNow
	h := Summarize(CitizenRecord{}, nil, []BenefitRecord{{ValidUntil: &now, CreatedAt: at(1)}}, fixedNow)
	if h.HasActiveBenefit {
		t.Fatal("expected validity ending now to be inactive")
	}
}

func TestEngagementScoreCaps(t *testing.T) {
	consultations := make([]ConsultationRecord, 20)
	benefits := make([]BenefitRecord, 20)
	for i := range benefits {
		benefits[i] = BenefitRecord{RecurringEnrollment: true, CreatedAt: at(i)}
	}
	future := fixedNow.Add(time.Hour)
	benefits[0].ValidUntil = &future

	h := Summarize(CitizenRecord{}, consultations, benefits, fixedNow)
	if h.EngagementScore != 100 {
		t.Fatalf("expected capped engagement 100, got %d", h.EngagementScore)
	}

	h = Summarize(CitizenRecord{}, consultations, nil, fixedNow)
	if h.EngagementScore != 30 {
		t.Fatalf("expected consultation cap 30, got %d", h.EngagementScore)
	}
}

func TestGetHistoryReturnsNilForUnknownPhone(t *testing.T) {
	store := &fakeStore{}
	h, err := NewAggregator(store).GetHistory(context.Background(), "+919876543210")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h != nil {
		t.Fatalf("expected nil history, got %+v", h)
	}
	if store.listCalls != 0 {
		t.Fatalf("expected no list calls for unknown citizen, got %d", store.listCalls)
	}
}

func TestGetHistoryPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection reset")

	_, err := NewAggregator(&fakeStore{citizenErr: boom}).GetHistory(context.Background(), "1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected citizen lookup error, got %v", err)
	}

	_, err = NewAggregator(&fakeStore{citizen: &CitizenRecord{}, benefitErr: boom}).GetHistory(context.Background(), "1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected benefit lookup error, got %v", err)
	}
}

func TestGetHistoryAggregatesBothLists(t *testing.T) {
	store := &fakeStore{
		citizen:       &CitizenRecord{ID: uuid.New(), Name: "Meena"},
		consultations: []ConsultationRecord{{CreatedAt: at(5)}},
		benefits:      []BenefitRecord{{Amount: amount(1200), CreatedAt: at(60)}},
	}
	agg := NewAggregator(store)
	agg.now = func() time.Time { return fixedNow }

	h, err := agg.GetHistory(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.CitizenName != "Meena" || h.ConsultationCount != 1 || h.PastBenefitCount != 1 {
		t.Fatalf("unexpected history: %+v", h)
	}
	if h.EngagementScore != 15 {
		t.Fatalf("expected engagement 15, got %d", h.EngagementScore)
	}
}
