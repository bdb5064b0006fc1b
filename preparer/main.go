package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aman628/predictive-maintainance/internal/lineage"
	"github.com/aman628/predictive-maintainance/internal/platform/env"
	"github.com/aman628/predictive-maintainance/internal/platform/objectstore"
	"github.com/aman628/predictive-maintainance/internal/platform/postgres"
	"github.com/aman628/predictive-maintainance/internal/registry"
)

// lineageDB appends lineage events through the registry database.
type lineageDB struct {
	db *sql.DB
}

func (l lineageDB) Append(ctx context.Context, event lineage.Event) (int64, error) {
	return lineage.Insert(ctx, l.db, event)
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error("load .env", "error", err)
		os.Exit(2)
	}

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manifestPath := env.String("PREPARER_MANIFEST", "preparer.yaml")
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		logger.Error("invalid manifest", "error", err)
		os.Exit(2)
	}

	publish, err := env.Bool("PREPARER_PUBLISH", false)
	if err != nil {
		logger.Error("invalid env", "error", err)
		os.Exit(2)
	}

	var pub *publisher
	if publish {
		dbCfg, err := postgres.ConfigFromEnv()
		if err != nil {
			logger.Error("invalid database config", "error", err)
			os.Exit(2)
		}
		db, err := postgres.Open(ctx, dbCfg)
		if err != nil {
			logger.Error("database unavailable", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()

		storeCfg, err := objectstore.ConfigFromEnv()
		if err != nil {
			logger.Error("invalid object store config", "error", err)
			os.Exit(2)
		}
		store, err := objectstore.New(storeCfg)
		if err != nil {
			logger.Error("object store client init failed", "error", err)
			os.Exit(2)
		}
		startupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := store.EnsureBucket(startupCtx, storeCfg.Region); err != nil {
			cancel()
			logger.Error("object store unavailable", "error", err)
			os.Exit(1)
		}
		cancel()

		pub = &publisher{
			store:   registry.NewDatasetStore(db),
			objects: store,
			lineage: lineageDB{db: db},
			actor:   env.String("PREPARER_ACTOR", "preparer"),
		}
	}

	start := time.Now()
	results, err := newPipeline(logger, manifest, pub).run(ctx)
	if err != nil {
		logger.Error("preparation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("preparation complete",
		"dataset", manifest.Dataset,
		"splits", len(results),
		"published", publish,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
