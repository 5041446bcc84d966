package scheduler

import (
	"context"
	"fmt"

	"saarthi_backend/platform/apperr"
	"saarthi_backend/platform/config"
	"saarthi_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// InquiryRequalifier re-scores one stored inquiry.
type InquiryRequalifier interface {
	RequalifyInquiry(ctx context.Context, inquiryID uuid.UUID) error
}

type Worker struct {
	server      *asynq.Server
	mux         *asynq.ServeMux
	requalifier InquiryRequalifier
	log         *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, requalifier InquiryRequalifier, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:      server,
		mux:         mux,
		requalifier: requalifier,
		log:         log,
	}

	mux.HandleFunc(TaskRequalifyInquiry, w.handleRequalifyInquiry)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleRequalifyInquiry skips retries for malformed payloads and for
// inquiries deleted since the task was enqueued.
func (w *Worker) handleRequalifyInquiry(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRequalifyInquiryPayload(task)
	if err != nil {
		return fmt.Errorf("parse requalify payload: %v: %w", err, asynq.SkipRetry)
	}

	inquiryID, err := uuid.Parse(payload.InquiryID)
	if err != nil {
		return fmt.Errorf("parse inquiry id: %v: %w", err, asynq.SkipRetry)
	}

	if err := w.requalifier.RequalifyInquiry(ctx, inquiryID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			w.log.Info("requalify skipped, inquiry gone", "inquiryId", inquiryID)
			return nil
		}
		return err
	}
	return nil
}
