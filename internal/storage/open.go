package storage

import (
	"context"
	"fmt"

	"dyno/internal/config"
)

// Open returns the bundle store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.BundleConfig) (BundleStore, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return NewFileStore(cfg.Path), nil
	case config.BackendR2:
		store, err := NewR2Store(ctx, R2Options{
			Endpoint:  cfg.R2.Endpoint,
			AccessKey: cfg.R2.AccessKey,
			SecretKey: cfg.R2.SecretKey,
			Bucket:    cfg.R2.Bucket,
			Key:       cfg.ObjectKey,
		})
		if err != nil {
			return nil, fmt.Errorf("init r2 bundle store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown bundle backend %q", cfg.Backend)
	}
}
