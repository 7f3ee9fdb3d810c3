// Package issuances persists the metadata, edition and collection state of
// issued tickets.
package issuances

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/dbx"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const selectColumns = `id, box_id, box_address, sequence, name, symbol, uri, mint, metadata_address,
		edition_address, update_authority, owner, collection_mint, collection_verified, seller_fee_bps,
		max_supply, transferable, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, iss *models.Issuance) error {
	maxSupply, err := nullMaxSupply(iss.MaxSupply)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO issuances (` + selectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err = r.db.ExecContext(ctx, query,
		iss.ID, iss.BoxID, iss.BoxAddress, iss.Sequence, iss.Name, iss.Symbol, iss.URI, iss.Mint,
		iss.MetadataAddress, iss.EditionAddress, iss.UpdateAuthority, iss.Owner, iss.CollectionMint,
		iss.CollectionVerified, int32(iss.SellerFeeBasisPoints), maxSupply, iss.Transferable, iss.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByMint(ctx context.Context, mint string) (*models.Issuance, error) {
	query := `SELECT ` + selectColumns + ` FROM issuances WHERE mint = $1`
	iss, err := scanIssuance(r.db.QueryRowContext(ctx, query, mint))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return iss, nil
}

func (r *PostgresRepository) Update(ctx context.Context, iss *models.Issuance) error {
	maxSupply, err := nullMaxSupply(iss.MaxSupply)
	if err != nil {
		return err
	}
	query := `UPDATE issuances SET edition_address = $2, max_supply = $3, collection_verified = $4 WHERE mint = $1`
	res, err := r.db.ExecContext(ctx, query, iss.Mint, iss.EditionAddress, maxSupply, iss.CollectionVerified)
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

func (r *PostgresRepository) ListByBox(ctx context.Context, boxAddress string) ([]models.Issuance, error) {
	query := `SELECT ` + selectColumns + ` FROM issuances WHERE box_address = $1 ORDER BY sequence`
	rows, err := r.db.QueryContext(ctx, query, boxAddress)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Issuance
	for rows.Next() {
		iss, err := scanIssuance(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *iss)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIssuance(s scanner) (*models.Issuance, error) {
	var (
		iss       models.Issuance
		fee       int32
		maxSupply sql.NullInt64
	)
	err := s.Scan(&iss.ID, &iss.BoxID, &iss.BoxAddress, &iss.Sequence, &iss.Name, &iss.Symbol, &iss.URI,
		&iss.Mint, &iss.MetadataAddress, &iss.EditionAddress, &iss.UpdateAuthority, &iss.Owner,
		&iss.CollectionMint, &iss.CollectionVerified, &fee, &maxSupply, &iss.Transferable, &iss.CreatedAt)
	if err != nil {
		return nil, err
	}
	iss.SellerFeeBasisPoints = uint16(fee)
	if maxSupply.Valid {
		v := uint64(maxSupply.Int64)
		iss.MaxSupply = &v
	}
	return &iss, nil
}

func nullMaxSupply(v *uint64) (sql.NullInt64, error) {
	if v == nil {
		return sql.NullInt64{}, nil
	}
	if *v > math.MaxInt64 {
		return sql.NullInt64{}, fmt.Errorf("max supply %d out of range", *v)
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}, nil
}
