package qualification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CitizenRecord is the part of a citizen row the aggregator needs.
type CitizenRecord struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// ConsultationRecord is one past service interaction.
type ConsultationRecord struct {
	CreatedAt time.Time
}

// BenefitRecord is one past application or disbursement.
type BenefitRecord struct {
	Amount              *float64
	ValidUntil          *time.Time
	RecurringEnrollment bool
	CreatedAt           time.Time
}

// HistoryStore is the phone-keyed persistence collaborator.
// FindCitizenByPhone returns nil, nil when no citizen exists.
type HistoryStore interface {
	FindCitizenByPhone(ctx context.Context, phone string) (*CitizenRecord, error)
	ListConsultationsByPhone(ctx context.Context, phone string) ([]ConsultationRecord, error)
	ListBenefitRecordsByPhone(ctx context.Context, phone string) ([]BenefitRecord, error)
}

// EngagementHistory is derived per qualification run and never stored as is.
type EngagementHistory struct {
	CitizenID              uuid.UUID  `json:"citizen_id"`
	CitizenName            string     `json:"citizen_name"`
	ConsultationCount      int        `json:"consultation_count"`
	PastBenefitCount       int        `json:"past_benefit_count"`
	TotalBenefit           float64    `json:"total_benefit"`
	HasActiveBenefit       bool       `json:"has_active_benefit"`
	HasRecurringEnrollment bool       `json:"has_recurring_enrollment"`
	LastInteractionAt      *time.Time `json:"last_interaction_at"`
	EngagementScore        int        `json:"engagement_score"`
}

// Aggregator builds EngagementHistory from a HistoryStore.
type Aggregator struct {
	store HistoryStore
	now   func() time.Time
}

// NewAggregator creates an aggregator using the wall clock.
func NewAggregator(store HistoryStore) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// GetHistory returns nil, nil for a phone with no citizen record. Store
// failures are returned, never reported as "no history".
func (a *Aggregator) GetHistory(ctx context.Context, phone string) (*EngagementHistory, error) {
	citizen, err := a.store.FindCitizenByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("find citizen: %w", err)
	}
	if citizen == nil {
		return nil, nil
	}

	var (
		consultations []ConsultationRecord
		benefits      []BenefitRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		consultations, err = a.store.ListConsultationsByPhone(gctx, phone)
		if err != nil {
			return fmt.Errorf("list consultations: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		benefits, err = a.store.ListBenefitRecordsByPhone(gctx, phone)
		if err != nil {
			return fmt.Errorf("list benefit records: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := Summarize(*citizen, consultations, benefits, a.now())
	return &h, nil
}

// Summarize computes the engagement metrics for one citizen at now.
func Summarize(citizen CitizenRecord, consultations []ConsultationRecord, benefits []BenefitRecord, now time.Time) EngagementHistory {
	h := EngagementHistory{
		CitizenID:         citizen.ID,
		CitizenName:       citizen.Name,
		ConsultationCount: len(consultations),
		PastBenefitCount:  len(benefits),
	}

	var last *time.Time
	observe := func(t time.Time) {
		if last == nil || t.After(*last) {
			ts := t
			last = &ts
		}
	}

	for _, c := range consultations {
		observe(c.CreatedAt)
	}
	for _, b := range benefits {
		observe(b.CreatedAt)
		if b.Amount != nil {
			h.TotalBenefit += *b.Amount
		}
		if b.ValidUntil != nil && b.ValidUntil.After(now) {
			h.HasActiveBenefit = true
		}
		if b.RecurringEnrollment {
			h.HasRecurringEnrollment = true
		}
	}
	h.LastInteractionAt = last
	h.EngagementScore = engagementScore(h)
	return h
}

func engagementScore(h EngagementHistory) int {
	score := min(h.ConsultationCount*5, 30) + min(h.PastBenefitCount*10, 40)
	if h.HasActiveBenefit {
		score += 15
	}
	if h.HasRecurringEnrollment {
		score += 15
	}
	return min(score, 100)
}
