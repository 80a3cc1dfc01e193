package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dyno/internal/analytics"
	"dyno/internal/auth"
	"dyno/internal/config"
	"dyno/internal/db"
	"dyno/internal/menu"
	"dyno/internal/ml"
	"dyno/internal/observability"
	"dyno/internal/order"
	"dyno/internal/prediction"
	"dyno/internal/profile"
	"dyno/internal/router"
	"dyno/internal/storage"
	"dyno/internal/training"

	"github.com/gin-gonic/gin"
)

func main() {
	// ───────────────────────── CONFIG ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	if err := cfg.RequireServer(); err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ───────────────────────── DB ─────────────────────────
	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("db_connect_failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// ───────────────────────── STORAGE ─────────────────────────
	store, err := storage.Open(ctx, cfg.Bundle)
	if err != nil {
		logger.Error("bundle_store_failed", "error", err)
		os.Exit(1)
	}

	signer, err := auth.NewSigner(cfg.Auth.JWTSecret)
	if err != nil {
		logger.Error("jwt_signer_failed", "error", err)
		os.Exit(1)
	}

	// ───────────────────────── REPOS ─────────────────────────
	ledger := order.NewPostgresRepository(pool)
	profiles := profile.NewPostgresRepository(pool)
	menuRepo := menu.NewPostgresRepository(pool)

	// ───────────────────────── MODEL ─────────────────────────
	handle := ml.NewHandle()
	pipeline := training.NewPipeline(ledger, store, handle, logger.With("component", "training"))

	if err := pipeline.Reload(ctx); err != nil {
		if errors.Is(err, ml.ErrBundleMissing) {
			logger.Info("no_bundle_yet", "location", store.Location())
		} else {
			logger.Warn("bundle_load_failed", "location", store.Location(), "error", err)
		}
	}

	if every := cfg.Bundle.ReloadInterval; every > 0 {
		go reloadLoop(ctx, pipeline, every, logger)
	}

	// ───────────────────────── SERVICES ─────────────────────────
	predictions := prediction.NewService(ledger, handle, logger.With("component", "prediction"), cfg.Analytics.ClampNegative)
	analyticsService := analytics.NewService(ledger, profiles, menuRepo, predictions, logger, analytics.Options{
		RecentPredictions: cfg.Analytics.RecentPredictions,
		SuggestionLimit:   cfg.Analytics.SuggestionLimit,
		TopCustomers:      cfg.Analytics.TopCustomers,
	})

	r := router.NewRouter(router.Deps{
		Logger:             logger,
		Signer:             signer,
		Analytics:          analytics.NewHandler(analyticsService, predictions, pipeline),
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		TrainRatePerMinute: cfg.Server.TrainRatePerMinute,
	})

	// ───────────────────────── START ─────────────────────────
	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http_listen", "addr", srv.Addr, "bundle", store.Location())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	logger.Info("shutdown_signal", "signal", s.String())

	cancel()

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		logger.Error("http_shutdown_error", "error", err)
	}
	logger.Info("service_stopped")
}

// reloadLoop picks up bundles written by the train-model command.
func reloadLoop(ctx context.Context, p *training.Pipeline, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Reload(ctx); err != nil && !errors.Is(err, ml.ErrBundleMissing) {
				logger.Warn("bundle_reload_failed", "error", err)
			}
		}
	}
}
