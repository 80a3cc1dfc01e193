package order

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectOrders = `
	SELECT
		o.id,
		u.username,
		o.city,
		o.food_item_id,
		o.item_name,
		o.quantity,
		o.price::text
	FROM accounts_order o
	LEFT JOIN auth_user u
	  ON u.id = o.user_id
`

// --------------------------------------------------
// Full snapshot (training + aggregation)
// --------------------------------------------------
func (r *PostgresRepository) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := r.db.Query(ctx, selectOrders+` ORDER BY o.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	return scanOrders(rows)
}

// --------------------------------------------------
// Recency window (inference display)
// --------------------------------------------------
func (r *PostgresRepository) RecentOrders(ctx context.Context, limit int) ([]Order, error) {
	if limit <= 0 {
		return []Order{}, nil
	}

	rows, err := r.db.Query(ctx, selectOrders+` ORDER BY o.id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent orders: %w", err)
	}
	return scanOrders(rows)
}

func scanOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		var (
			o     Order
			price *string
		)
		if err := rows.Scan(
			&o.ID,
			&o.CustomerID,
			&o.Region,
			&o.ItemID,
			&o.ItemName,
			&o.Quantity,
			&price,
		); err != nil {
			return nil, err
		}

		if price != nil {
			d, err := decimal.NewFromString(*price)
			if err != nil {
				return nil, fmt.Errorf("order %d price %q: %w", o.ID, *price, err)
			}
			o.Price = &d
		}

		orders = append(orders, o)
	}

	return orders, rows.Err()
}
