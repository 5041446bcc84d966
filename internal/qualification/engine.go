// Package qualification scores inbound scheme inquiries. It looks up the
// caller's engagement history by phone, computes a lead score and an ideal
// citizen profile (ICP) match score, and derives a follow-up status.
package qualification

import (
	"context"
	"time"

	"saarthi_backend/platform/apperr"
	"saarthi_backend/platform/logger"
)

// ScoreVersion identifies the scoring model stored next to each result.
// Bump it whenever a weight or threshold changes.
const ScoreVersion = "icp-2026.1"

// HistoryProvider returns the engagement history for a phone, or nil for a
// new lead.
type HistoryProvider interface {
	GetHistory(ctx context.Context, phone string) (*EngagementHistory, error)
}

// Result is the full outcome of one qualification run.
type Result struct {
	LeadScore     int                `json:"lead_score"`
	ICPMatchScore int                `json:"icp_match_score"`
	Status        Status             `json:"qualification_status"`
	History       *EngagementHistory `json:"history,omitempty"`
	Factors       map[string]int     `json:"factors"`
	Version       string             `json:"score_version"`
	QualifiedAt   time.Time          `json:"qualified_at"`
}

// Returning reports whether the inquiry matched an existing citizen.
func (r Result) Returning() bool {
	return r.History != nil
}

// Engine wires Criteria to a history source. It holds no per-request state.
type Engine struct {
	criteria Criteria
	history  HistoryProvider
	now      func() time.Time
	log      *logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine.
func NewEngine(criteria Criteria, history HistoryProvider, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		criteria: criteria.Clone(),
		history:  history,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Criteria returns a copy of the threshold table in use.
func (e *Engine) Criteria() Criteria {
	return e.criteria.Clone()
}

// Qualify scores inq. A failed history lookup fails the run; it is never
// downgraded to new-lead scoring.
func (e *Engine) Qualify(ctx context.Context, inq Inquiry) (Result, error) {
	history, err := e.history.GetHistory(ctx, inq.Phone)
	if err != nil {
		return Result{}, apperr.Unavailable("engagement history lookup failed", err).WithOp("qualification.Qualify")
	}

	now := e.now()
	breakdown := LeadScoreBreakdown(e.criteria, inq, history, now)
	icp := ComputeICPMatchScore(e.criteria, inq, history, now)

	res := Result{
		LeadScore:     breakdown.Score,
		ICPMatchScore: icp,
		Status:        DeriveStatus(breakdown.Score, icp),
		History:       history,
		Factors:       breakdown.Factors,
		Version:       ScoreVersion,
		QualifiedAt:   now,
	}

	e.log.WithContext(ctx).Qualification(inq.Phone, res.LeadScore, res.ICPMatchScore, string(res.Status), res.Returning())
	return res, nil
}
