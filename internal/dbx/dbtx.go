// Package dbx provides the transaction boundary shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// and a helper that runs a unit of work inside one transaction.
package dbx

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Beginner starts transactions. *sql.DB implements it.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// ErrSerialization reports that the database aborted the transaction because
// a concurrent one touched the same rows.
var ErrSerialization = errors.New("transaction serialization failure")

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
// Nothing fn wrote is visible after a rollback, which is what lets a purchase
// treat payment and issuance as one unit:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    if err := ledger.TransferLamports(ctx, payer, escrow, price); err != nil {
//	        return err
//	    }
//	    return issue(ctx, tx)
//	})
func WithTx(ctx context.Context, db Beginner, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			err = classify(err)
			return
		}
		err = classify(tx.Commit())
	}()

	err = fn(ctx, tx)
	return err
}

// IsSerializationFailure reports whether err carries PostgreSQL SQLSTATE
// 40001 (serialization_failure) or 40P01 (deadlock_detected).
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func classify(err error) error {
	if err == nil || errors.Is(err, ErrSerialization) {
		return err
	}
	if IsSerializationFailure(err) {
		return errors.Join(ErrSerialization, err)
	}
	return err
}
