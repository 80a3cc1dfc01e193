package menu

import (
	"context"
	"sync"
)

type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[int64]Item
}

func NewInMemoryRepository(items ...Item) *InMemoryRepository {
	r := &InMemoryRepository{items: make(map[int64]Item)}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *InMemoryRepository) GetItems(ctx context.Context, ids []int64) (map[int64]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]Item, len(ids))
	for _, id := range ids {
		if it, ok := r.items[id]; ok {
			out[id] = it
		}
	}
	return out, nil
}
