// Package walletcounts tracks how many tickets each wallet holds per box.
package walletcounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ticketbox/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, boxAddress, wallet string) (int64, error) {
	query := `SELECT count FROM wallet_counts WHERE box_address = $1 AND wallet = $2 FOR UPDATE`
	var n int64
	err := r.db.QueryRowContext(ctx, query, boxAddress, wallet).Scan(&n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Increment(ctx context.Context, boxAddress, wallet string) (int64, error) {
	query := `
		INSERT INTO wallet_counts (box_address, wallet, count) VALUES ($1, $2, 1)
		ON CONFLICT (box_address, wallet) DO UPDATE SET count = wallet_counts.count + 1
		RETURNING count
	`
	var n int64
	if err := r.db.QueryRowContext(ctx, query, boxAddress, wallet).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
