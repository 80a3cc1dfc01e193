package profile

import (
	"context"
	"sync"
)

type InMemoryRepository struct {
	mu      sync.RWMutex
	regions map[string]string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{regions: make(map[string]string)}
}

func (r *InMemoryRepository) SetRegion(userID, region string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regions[userID] = region
}

func (r *InMemoryRepository) GetRegion(ctx context.Context, userID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	region, ok := r.regions[userID]
	if !ok {
		return "", ErrNotFound
	}
	return region, nil
}
