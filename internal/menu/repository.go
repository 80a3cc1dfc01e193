package menu

import "context"

// Reader resolves item ids to menu records.
type Reader interface {
	// GetItems returns the items that still exist, keyed by id.
	// Unknown ids are simply absent from the result.
	GetItems(ctx context.Context, ids []int64) (map[int64]Item, error)
}
