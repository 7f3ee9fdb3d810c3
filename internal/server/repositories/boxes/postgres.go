// Package boxes provides PostgreSQL-backed and in-memory storage of ticket
// box configurations.
package boxes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/dbx"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const selectColumns = `address, id, creator, name, info_uri, start_at, end_at, total_supply, sold_count,
		per_wallet_limit, price, currency, transferable, escrow, collection_mint, created_at, updated_at`

// PostgresRepository implements box storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new box. A second box with the same address yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, box *models.Box) error {
	query := `
		INSERT INTO boxes (address, id, creator, name, info_uri, start_at, end_at, total_supply, sold_count,
			per_wallet_limit, price, currency, transferable, escrow, collection_mint, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.ExecContext(ctx, query,
		box.Address, box.ID, box.Creator, box.Name, box.InfoURI, box.StartAt,
		dbx.NullTime(box.EndAt), dbx.NullInt64(box.TotalSupply), box.SoldCount,
		dbx.NullInt64(box.PerWalletLimit), int64(box.Price), dbx.NullString(box.Currency),
		box.Transferable, box.Escrow, box.CollectionMint, box.CreatedAt, box.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Get returns the box stored under address.
func (r *PostgresRepository) Get(ctx context.Context, address string) (*models.Box, error) {
	query := `SELECT ` + selectColumns + ` FROM boxes WHERE address = $1`
	return scanBox(r.db.QueryRowContext(ctx, query, address))
}

// GetForUpdate returns the box and row-locks it for the current transaction.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, address string) (*models.Box, error) {
	query := `SELECT ` + selectColumns + ` FROM boxes WHERE address = $1 FOR UPDATE`
	return scanBox(r.db.QueryRowContext(ctx, query, address))
}

// Update overwrites the creator-mutable fields. id, creator, currency,
// escrow and sold_count are never written here.
func (r *PostgresRepository) Update(ctx context.Context, box *models.Box) error {
	query := `
		UPDATE boxes SET
			name = $2, info_uri = $3, start_at = $4, end_at = $5, total_supply = $6,
			per_wallet_limit = $7, price = $8, transferable = $9, updated_at = $10
		WHERE address = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		box.Address, box.Name, box.InfoURI, box.StartAt, dbx.NullTime(box.EndAt),
		dbx.NullInt64(box.TotalSupply), dbx.NullInt64(box.PerWalletLimit), int64(box.Price),
		box.Transferable, box.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// IncrementSold advances sold_count by exactly one.
func (r *PostgresRepository) IncrementSold(ctx context.Context, address string) (int64, error) {
	query := `
		UPDATE boxes SET sold_count = sold_count + 1
		WHERE address = $1 AND (total_supply IS NULL OR sold_count < total_supply)
		RETURNING sold_count
	`
	var sold int64
	err := r.db.QueryRowContext(ctx, query, address).Scan(&sold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrSoldOut
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return sold, nil
}

func scanBox(row *sql.Row) (*models.Box, error) {
	var (
		b              models.Box
		endAt          sql.NullTime
		totalSupply    sql.NullInt64
		perWalletLimit sql.NullInt64
		currency       sql.NullString
		price          int64
	)
	err := row.Scan(&b.Address, &b.ID, &b.Creator, &b.Name, &b.InfoURI, &b.StartAt, &endAt,
		&totalSupply, &b.SoldCount, &perWalletLimit, &price, &currency, &b.Transferable,
		&b.Escrow, &b.CollectionMint, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	b.EndAt = dbx.TimePtr(endAt)
	b.TotalSupply = dbx.Int64Ptr(totalSupply)
	b.PerWalletLimit = dbx.Int64Ptr(perWalletLimit)
	b.Currency = dbx.StringPtr(currency)
	b.Price = uint64(price)
	return &b, nil
}
