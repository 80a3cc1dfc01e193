// Command train-model fits the price model on the current order ledger and
// persists the bundle where the API process will pick it up.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dyno/internal/config"
	"dyno/internal/db"
	"dyno/internal/ml"
	"dyno/internal/observability"
	"dyno/internal/order"
	"dyno/internal/storage"
	"dyno/internal/training"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("db_connect_failed", "error", err)
		return 1
	}
	defer pool.Close()

	store, err := storage.Open(ctx, cfg.Bundle)
	if err != nil {
		logger.Error("bundle_store_failed", "error", err)
		return 1
	}

	pipeline := training.NewPipeline(order.NewPostgresRepository(pool), store, ml.NewHandle(), logger)
	return report(os.Stdout, func() (*training.Result, error) { return pipeline.Run(ctx) }, logger)
}
