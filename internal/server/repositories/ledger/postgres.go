// Package ledger stores native balances, token mints and token accounts.
package ledger

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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetNativeAccount(ctx context.Context, address string) (*models.NativeAccount, error) {
	query := `SELECT address, lamports FROM native_accounts WHERE address = $1`
	var (
		a        models.NativeAccount
		lamports int64
	)
	err := r.db.QueryRowContext(ctx, query, address).Scan(&a.Address, &lamports)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.Lamports = uint64(lamports)
	return &a, nil
}

func (r *PostgresRepository) CreditLamports(ctx context.Context, address string, amount uint64) (uint64, error) {
	if err := checkAmount(amount); err != nil {
		return 0, err
	}
	query := `
		INSERT INTO native_accounts (address, lamports) VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET lamports = native_accounts.lamports + EXCLUDED.lamports
		RETURNING lamports
	`
	var balance int64
	if err := r.db.QueryRowContext(ctx, query, address, int64(amount)).Scan(&balance); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return uint64(balance), nil
}

func (r *PostgresRepository) TransferLamports(ctx context.Context, from, to string, amount uint64) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	query := `UPDATE native_accounts SET lamports = lamports - $2 WHERE address = $1 AND lamports >= $2`
	res, err := r.db.ExecContext(ctx, query, from, int64(amount))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotEnoughSOL
	}
	_, err = r.CreditLamports(ctx, to, amount)
	return err
}

func (r *PostgresRepository) CreateMint(ctx context.Context, mint *models.TokenMint) error {
	query := `INSERT INTO token_mints (address, owner, decimals, initialized) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, mint.Address, mint.Owner, int16(mint.Decimals), mint.Initialized)
	return insertError(err)
}

func (r *PostgresRepository) GetMint(ctx context.Context, address string) (*models.TokenMint, error) {
	query := `SELECT address, owner, decimals, initialized FROM token_mints WHERE address = $1`
	var (
		m        models.TokenMint
		decimals int16
	)
	err := r.db.QueryRowContext(ctx, query, address).Scan(&m.Address, &m.Owner, &decimals, &m.Initialized)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	m.Decimals = uint8(decimals)
	return &m, nil
}

func (r *PostgresRepository) CreateTokenAccount(ctx context.Context, a *models.TokenAccount) error {
	if err := checkAmount(a.Amount); err != nil {
		return err
	}
	query := `
		INSERT INTO token_accounts (address, owner, wallet, mint, amount, initialized, delegate, delegated_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query, a.Address, a.Owner, a.Wallet, a.Mint, int64(a.Amount),
		a.Initialized, dbx.NullString(a.Delegate), int64(a.DelegatedAmount))
	return insertError(err)
}

func (r *PostgresRepository) GetTokenAccount(ctx context.Context, address string) (*models.TokenAccount, error) {
	query := `
		SELECT address, owner, wallet, mint, amount, initialized, delegate, delegated_amount
		FROM token_accounts WHERE address = $1
	`
	var (
		a                 models.TokenAccount
		amount, delegated int64
		delegate          sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, address).Scan(&a.Address, &a.Owner, &a.Wallet, &a.Mint,
		&amount, &a.Initialized, &delegate, &delegated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.Amount = uint64(amount)
	a.DelegatedAmount = uint64(delegated)
	a.Delegate = dbx.StringPtr(delegate)
	return &a, nil
}

func (r *PostgresRepository) MintTo(ctx context.Context, account string, amount uint64) (uint64, error) {
	if err := checkAmount(amount); err != nil {
		return 0, err
	}
	query := `UPDATE token_accounts SET amount = amount + $2 WHERE address = $1 RETURNING amount`
	var balance int64
	err := r.db.QueryRowContext(ctx, query, account, int64(amount)).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return uint64(balance), nil
}

func (r *PostgresRepository) Approve(ctx context.Context, account, delegate string, amount uint64) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	query := `UPDATE token_accounts SET delegate = $2, delegated_amount = $3 WHERE address = $1`
	res, err := r.db.ExecContext(ctx, query, account, delegate, int64(amount))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, common.ErrorNotFound)
}

// TransferTokens debits the source only when the authority may spend amount,
// then credits a destination holding the same mint. A failed credit leaves
// the debit for the caller's transaction to roll back.
func (r *PostgresRepository) TransferTokens(ctx context.Context, from, to, authority string, amount uint64) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	debit := `
		UPDATE token_accounts SET
			amount = amount - $2,
			delegated_amount = CASE WHEN wallet = $3 THEN delegated_amount ELSE delegated_amount - $2 END
		WHERE address = $1 AND initialized AND amount >= $2
			AND (wallet = $3 OR (delegate = $3 AND delegated_amount >= $2))
		RETURNING mint
	`
	var mint string
	err := r.db.QueryRowContext(ctx, debit, from, int64(amount), authority).Scan(&mint)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrTokenTransferFailed
		}
		return fmt.Errorf("db error: %w", err)
	}

	credit := `UPDATE token_accounts SET amount = amount + $2 WHERE address = $1 AND initialized AND mint = $3`
	res, err := r.db.ExecContext(ctx, credit, to, int64(amount), mint)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, common.ErrTokenTransferFailed)
}

func insertError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return common.ErrorAlreadyExists
	}
	return fmt.Errorf("db error: %w", err)
}

func expectOne(res sql.Result, none error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return none
	}
	return nil
}
