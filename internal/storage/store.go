package storage

import (
	"context"

	"dyno/internal/ml"
)

// BundleStore persists the single model bundle of a deployment.
// Save must be atomic: a concurrent Load sees either the old bundle or the
// new one, never a partial write.
type BundleStore interface {
	Save(ctx context.Context, b *ml.Bundle) error

	// Load returns ml.ErrBundleMissing when nothing was ever saved.
	Load(ctx context.Context) (*ml.Bundle, error)

	// Location describes where the bundle lives, for operator messages.
	Location() string
}
