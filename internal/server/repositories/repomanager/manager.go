package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ticketbox/internal/dbx"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/boxes"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/issuances"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/ledger"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/walletcounts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Boxes(db dbx.DBTX) boxes.Repository
	Ledger(db dbx.DBTX) ledger.Repository
	WalletCounts(db dbx.DBTX) walletcounts.Repository
	Issuances(db dbx.DBTX) issuances.Repository
}

// Repositories is the set of repositories bound to one transaction.
type Repositories interface {
	Boxes() boxes.Repository
	Ledger() ledger.Repository
	WalletCounts() walletcounts.Repository
	Issuances() issuances.Repository
}

// Store runs units of work atomically. Everything fn writes through the
// Repositories it receives is committed when fn returns nil and discarded
// otherwise.
type Store interface {
	InTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	Ping(ctx context.Context) error
	Close() error
}
