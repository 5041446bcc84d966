package scheduler

import (
	"context"
	"time"

	"saarthi_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultSweepInterval  = 24 * time.Hour
	defaultSweepBatchSize = 1000
)

// ActiveInquirySource lists the inquiries still worth re-scoring.
type ActiveInquirySource interface {
	ActiveIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
}

// RequalificationSweep periodically enqueues every open and contacted
// inquiry so that recency-based points decay without a new interaction.
type RequalificationSweep struct {
	source    ActiveInquirySource
	enqueuer  RequalifyEnqueuer
	log       *logger.Logger
	interval  time.Duration
	batchSize int
}

func NewRequalificationSweep(source ActiveInquirySource, enqueuer RequalifyEnqueuer, log *logger.Logger, interval time.Duration) *RequalificationSweep {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &RequalificationSweep{
		source:    source,
		enqueuer:  enqueuer,
		log:       log,
		interval:  interval,
		batchSize: defaultSweepBatchSize,
	}
}

func (s *RequalificationSweep) Run(ctx context.Context) {
	if s == nil || s.source == nil {
		return
	}

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep returns the number of inquiries enqueued.
func (s *RequalificationSweep) sweep(ctx context.Context) int {
	ids, err := s.source.ActiveIDs(ctx, s.batchSize)
	if err != nil {
		s.log.Warn("requalification sweep failed", "error", err)
		return 0
	}

	enqueued := 0
	for _, id := range ids {
		if err := s.enqueuer.EnqueueRequalification(ctx, id); err != nil {
			s.log.Warn("requalification enqueue failed", "inquiryId", id, "error", err)
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		s.log.Info("requalification sweep enqueued inquiries", "count", enqueued)
	}
	return enqueued
}
