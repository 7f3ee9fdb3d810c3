// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose),
// and the Store implementations services run their transactions through.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/ticketbox/internal/dbx"
	"github.com/dmitrijs2005/ticketbox/internal/server/migrations"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/boxes"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/issuances"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/ledger"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/walletcounts"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Boxes(db dbx.DBTX) boxes.Repository {
	return boxes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Ledger(db dbx.DBTX) ledger.Repository {
	return ledger.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) WalletCounts(db dbx.DBTX) walletcounts.Repository {
	return walletcounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Issuances(db dbx.DBTX) issuances.Repository {
	return issuances.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

// PostgresStore runs each unit of work in one database transaction.
// Row locks taken with FOR UPDATE serialize purchases of the same box.
type PostgresStore struct {
	db      *sql.DB
	manager RepositoryManager
	opts    *sql.TxOptions
}

// OpenPostgresStore connects to dsn through the pgx driver and applies
// pending migrations.
func OpenPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	s := NewPostgresStore(db, NewPostgresRepositoryManager())
	if err := s.manager.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return s, nil
}

func NewPostgresStore(db *sql.DB, m RepositoryManager) *PostgresStore {
	return &PostgresStore{db: db, manager: m, opts: &sql.TxOptions{Isolation: sql.LevelReadCommitted}}
}

func (s *PostgresStore) InTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return dbx.WithTx(ctx, s.db, s.opts, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &txRepositories{manager: s.manager, tx: tx})
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

type txRepositories struct {
	manager RepositoryManager
	tx      dbx.DBTX
}

func (r *txRepositories) Boxes() boxes.Repository               { return r.manager.Boxes(r.tx) }
func (r *txRepositories) Ledger() ledger.Repository             { return r.manager.Ledger(r.tx) }
func (r *txRepositories) WalletCounts() walletcounts.Repository { return r.manager.WalletCounts(r.tx) }
func (r *txRepositories) Issuances() issuances.Repository       { return r.manager.Issuances(r.tx) }
