package main

import (
	"context"
	"flag"
	"os"

	"saarthi_backend/internal/schemes/repository"
	"saarthi_backend/internal/schemes/service"
	"saarthi_backend/platform/config"
	"saarthi_backend/platform/db"
	"saarthi_backend/platform/logger"
	"saarthi_backend/platform/validator"
)

func main() {
	path := flag.String("file", "schemes.yaml", "path to the YAML scheme catalog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheme catalog seed", "file", *path)

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Error("failed to read catalog", "error", err)
		os.Exit(1)
	}

	entries, err := service.ParseCatalog(data)
	if err != nil {
		log.Error("failed to parse catalog", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	svc := service.New(repository.New(pool), log)
	result, err := svc.Import(ctx, entries, validator.New())
	if err != nil {
		log.Warn("some schemes were not imported", "failed", result.Failed, "error", err)
	}
	log.Info("scheme catalog seed complete", "upserted", result.Upserted, "failed", len(result.Failed))
}
