package order

import "context"

// Reader is the read side of the order ledger.
// The analytics core never writes orders.
type Reader interface {
	// ListOrders returns every order ordered by id ascending.
	ListOrders(ctx context.Context) ([]Order, error)

	// RecentOrders returns the newest orders by id, newest first.
	RecentOrders(ctx context.Context, limit int) ([]Order, error)
}
