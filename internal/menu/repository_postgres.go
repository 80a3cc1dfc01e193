package menu

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetItems(ctx context.Context, ids []int64) (map[int64]Item, error) {
	items := make(map[int64]Item, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT
			id,
			name,
			price::text,
			COALESCE(image, ''),
			COALESCE(description, '')
		FROM accounts_fooditem
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("query food items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it    Item
			price string
		)
		if err := rows.Scan(&it.ID, &it.Name, &price, &it.Image, &it.Description); err != nil {
			return nil, err
		}

		it.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("food item %d price %q: %w", it.ID, price, err)
		}

		items[it.ID] = it
	}

	return items, rows.Err()
}
