package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"saarthi_backend/internal/adapters"
	"saarthi_backend/internal/adapters/storage"
	"saarthi_backend/internal/applications"
	"saarthi_backend/internal/citizens"
	"saarthi_backend/internal/consultations"
	"saarthi_backend/internal/email"
	"saarthi_backend/internal/events"
	"saarthi_backend/internal/exports"
	apphttp "saarthi_backend/internal/http"
	"saarthi_backend/internal/http/router"
	"saarthi_backend/internal/inquiries"
	"saarthi_backend/internal/notification"
	"saarthi_backend/internal/qualification"
	"saarthi_backend/internal/scheduler"
	"saarthi_backend/internal/schemes"
	"saarthi_backend/migrations"
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
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	requalifyQueue, closeQueue := initRequalifyQueue(cfg, log)
	if closeQueue != nil {
		defer closeQueue()
	}

	exportStore := initExportStorage(ctx, cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	schemesModule := schemes.NewModule(pool, val, log)

	citizenMatcher := adapters.NewCitizenSchemeMatcher(schemesModule.Service())
	citizensModule := citizens.NewModule(pool, citizenMatcher, eventBus, cfg.GetPhoneRegion(), val, log)

	consultationsModule := consultations.NewModule(pool, eventBus, cfg.GetPhoneRegion(), val, log)

	schemeLookup := adapters.NewApplicationSchemeLookup(schemesModule.Service())
	applicationsModule := applications.NewModule(pool, schemeLookup, eventBus, cfg.GetPhoneRegion(), val, log)

	inquiriesModule := inquiries.NewModule(pool, qualification.CriteriaFromConfig(cfg), eventBus, cfg.GetPhoneRegion(), val, log)
	inquiriesModule.RegisterHandlers(eventBus)
	if requalifyQueue != nil {
		inquiriesModule.Service().SetRequalifyEnqueuer(requalifyQueue)
	}

	// Notification module reacts to consultation and qualification events
	notificationModule := notification.New(email.NewSender(cfg, log), cfg, val, log)
	notificationModule.RegisterHandlers(eventBus)

	exportsModule := exports.NewModule(pool, exportStore, cfg.GetMinioBucketExports(), log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			schemesModule,
			citizensModule,
			consultationsModule,
			applicationsModule,
			inquiriesModule,
			notificationModule,
			exportsModule,
		},
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRequalifyQueue(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; bulk requalification runs inline")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize requalification queue client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

// initExportStorage returns nil when MinIO is not configured; exports then
// stream CSV only and archive requests report unavailable.
func initExportStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage.ObjectStore {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; export archives disabled")
		return nil
	}

	store, err := storage.NewMinIOStore(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	bucket := cfg.GetMinioBucketExports()
	if err := withRetry(ctx, log, "ensure exports bucket", 5, 2*time.Second, func() error {
		return store.EnsureBucket(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "exportsBucket", bucket)
	return store
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
