package training

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dyno/internal/ml"
	"dyno/internal/order"
	"dyno/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(t *testing.T, ledger order.Reader) (*Pipeline, *storage.FileStore, *ml.Handle) {
	t.Helper()
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "bundle.json"))
	handle := ml.NewHandle()
	p := NewPipeline(ledger, store, handle, discardLogger())
	p.now = func() time.Time { return trainedAt }
	return p, store, handle
}

func TestPipeline_RunPersistsAndSwaps(t *testing.T) {
	p, store, handle := newTestPipeline(t, order.NewInMemoryRepository(linearSnapshot()...))
	ctx := context.Background()

	res, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Location(), res.Location)
	assert.Same(t, res.Bundle, handle.Current())

	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Bundle.CustomerEncoder.Classes(), persisted.CustomerEncoder.Classes())
	assert.Equal(t, res.Bundle.TrainingRows, persisted.TrainingRows)
}

func TestPipeline_EmptyLedgerKeepsPreviousBundle(t *testing.T) {
	ledger := order.NewInMemoryRepository(linearSnapshot()...)
	p, store, handle := newTestPipeline(t, ledger)
	ctx := context.Background()

	first, err := p.Run(ctx)
	require.NoError(t, err)

	empty, _, _ := newTestPipeline(t, order.NewInMemoryRepository())
	empty.store = store
	empty.handle = handle

	_, err = empty.Run(ctx)
	require.ErrorIs(t, err, ml.ErrInsufficientData)

	assert.Same(t, first.Bundle, handle.Current())
	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Bundle.TrainingRows, persisted.TrainingRows)
}

type blockingLedger struct {
	order.Reader
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (b *blockingLedger) ListOrders(ctx context.Context) ([]order.Order, error) {
	if b.calls.Add(1) == 1 {
		close(b.entered)
	}
	<-b.release
	return b.Reader.ListOrders(ctx)
}

func TestPipeline_ConcurrentRunsShareOneTraining(t *testing.T) {
	ledger := &blockingLedger{
		Reader:  order.NewInMemoryRepository(linearSnapshot()...),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	p, _, _ := newTestPipeline(t, ledger)

	var wg sync.WaitGroup
	results := make([]*Result, 2)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := p.Run(context.Background())
			assert.NoError(t, err)
			results[i] = res
		}()
	}

	<-ledger.entered
	time.Sleep(50 * time.Millisecond)
	close(ledger.release)
	wg.Wait()

	assert.Equal(t, int32(1), ledger.calls.Load())
	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.Same(t, results[0].Bundle, results[1].Bundle)
}

type failingLedger struct{}

func (failingLedger) ListOrders(context.Context) ([]order.Order, error) {
	return nil, errors.New("connection refused")
}

func (failingLedger) RecentOrders(context.Context, int) ([]order.Order, error) {
	return nil, errors.New("connection refused")
}

func TestPipeline_LedgerErrorIsWrapped(t *testing.T) {
	p, _, handle := newTestPipeline(t, failingLedger{})

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read ledger")
	assert.Nil(t, handle.Current())
}

func TestPipeline_ReloadPicksUpNewerBundle(t *testing.T) {
	trainer, store, _ := newTestPipeline(t, order.NewInMemoryRepository(linearSnapshot()...))
	ctx := context.Background()

	reader := NewPipeline(order.NewInMemoryRepository(), store, ml.NewHandle(), discardLogger())
	require.ErrorIs(t, reader.Reload(ctx), ml.ErrBundleMissing)
	assert.Nil(t, reader.handle.Current())

	_, err := trainer.Run(ctx)
	require.NoError(t, err)

	require.NoError(t, reader.Reload(ctx))
	loaded := reader.handle.Current()
	require.NotNil(t, loaded)
	assert.Equal(t, 6, loaded.TrainingRows)

	// same trained_at: nothing to swap
	require.NoError(t, reader.Reload(ctx))
	assert.Same(t, loaded, reader.handle.Current())
}
