package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetRegion(ctx context.Context, userID string) (string, error) {
	var city *string

	err := r.db.QueryRow(ctx, `
		SELECT city
		FROM accounts_profile
		WHERE user_id::text = $1
	`, userID).Scan(&city)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	if city == nil {
		return "", nil
	}
	return strings.TrimSpace(*city), nil
}
