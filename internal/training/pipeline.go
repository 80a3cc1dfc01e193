package training

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dyno/internal/ml"
	"dyno/internal/order"
	"dyno/internal/storage"

	"golang.org/x/sync/singleflight"
)

// Result describes a completed training run.
type Result struct {
	Bundle   *ml.Bundle
	Location string
	Shared   bool
}

// Pipeline reads the ledger, trains, persists and swaps the bundle.
// Concurrent Run calls share a single in-flight training.
type Pipeline struct {
	ledger order.Reader
	store  storage.BundleStore
	handle *ml.Handle
	logger *slog.Logger
	now    func() time.Time
	flight singleflight.Group
}

func NewPipeline(
	ledger order.Reader,
	store storage.BundleStore,
	handle *ml.Handle,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		ledger: ledger,
		store:  store,
		handle: handle,
		logger: logger,
		now:    time.Now,
	}
}

// Run trains on a fresh snapshot. On any error the persisted bundle and the
// handle keep their previous value.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	v, err, shared := p.flight.Do("train", func() (any, error) {
		return p.run(ctx)
	})
	if err != nil {
		return nil, err
	}

	res := *v.(*Result)
	res.Shared = shared
	return &res, nil
}

func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	start := p.now()
	p.logger.Info("training_started")

	snapshot, err := p.ledger.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	bundle, err := Train(snapshot, start)
	if err != nil {
		p.logger.Warn("training_skipped", "orders", len(snapshot), "error", err)
		return nil, err
	}

	if err := p.store.Save(ctx, bundle); err != nil {
		return nil, fmt.Errorf("persist bundle: %w", err)
	}
	p.handle.Swap(bundle)

	p.logger.Info("training_completed",
		"orders", len(snapshot),
		"rows", bundle.TrainingRows,
		"customers", bundle.CustomerEncoder.Len(),
		"regions", bundle.RegionEncoder.Len(),
		"items", bundle.ItemEncoder.Len(),
		"location", p.store.Location(),
		"duration", p.now().Sub(start),
	)

	return &Result{Bundle: bundle, Location: p.store.Location()}, nil
}

// Reload replaces the handle's bundle with the persisted one, if it is newer.
// It lets a long-running process pick up bundles trained elsewhere.
func (p *Pipeline) Reload(ctx context.Context) error {
	stored, err := p.store.Load(ctx)
	if err != nil {
		return err
	}

	current := p.handle.Current()
	if current != nil && !stored.TrainedAt.After(current.TrainedAt) {
		return nil
	}

	if !p.handle.CompareAndSwap(current, stored) {
		// a training run swapped in a newer bundle meanwhile
		return nil
	}
	p.logger.Info("bundle_loaded",
		"trained_at", stored.TrainedAt,
		"rows", stored.TrainingRows,
		"location", p.store.Location(),
	)
	return nil
}
