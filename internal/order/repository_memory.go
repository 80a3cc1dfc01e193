package order

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// InMemoryRepository is a ledger held in memory, used by tests and demos.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
}

func NewInMemoryRepository(orders ...Order) *InMemoryRepository {
	r := &InMemoryRepository{}
	for _, o := range orders {
		r.Add(o)
	}
	return r
}

// Add appends an order. A zero id is replaced with the next free id.
func (r *InMemoryRepository) Add(o Order) Order {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.ID == 0 {
		o.ID = int64(len(r.orders) + 1)
		for _, existing := range r.orders {
			if existing.ID >= o.ID {
				o.ID = existing.ID + 1
			}
		}
	}
	r.orders = append(r.orders, o)
	return o
}

func (r *InMemoryRepository) ListOrders(ctx context.Context) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := slices.Clone(r.orders)
	slices.SortStableFunc(out, func(a, b Order) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *InMemoryRepository) RecentOrders(ctx context.Context, limit int) ([]Order, error) {
	all, _ := r.ListOrders(ctx)
	slices.Reverse(all)
	if limit <= 0 {
		return []Order{}, nil
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
