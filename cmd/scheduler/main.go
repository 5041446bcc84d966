package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"saarthi_backend/internal/adapters"
	"saarthi_backend/internal/email"
	"saarthi_backend/internal/events"
	"saarthi_backend/internal/inquiries"
	"saarthi_backend/internal/notification"
	"saarthi_backend/internal/qualification"
	"saarthi_backend/internal/scheduler"
	"saarthi_backend/platform/config"
	"saarthi_backend/platform/db"
	"saarthi_backend/platform/logger"
	"saarthi_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()

	val := validator.New()

	// Promotions found by background requalification still alert the ops inbox.
	notificationModule := notification.New(email.NewSender(cfg, log), cfg, val, log)
	notificationModule.RegisterHandlers(eventBus)

	// Worker-side inquiry wiring (no HTTP handlers required).
	inquiriesModule := inquiries.NewModule(pool, qualification.CriteriaFromConfig(cfg), eventBus, cfg.GetPhoneRegion(), val, log)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	sweep := scheduler.NewRequalificationSweep(inquiriesModule.Service(), client, log, cfg.GetRequalifySweepInterval())
	go sweep.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, adapters.NewInquiryRequalifier(inquiriesModule.Service()), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
