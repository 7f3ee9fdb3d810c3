package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/boxes"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/issuances"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/ledger"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/walletcounts"
)

// MemoryStore keeps all state in process. Transactions are serialized by a
// single lock; each one works on a copy that replaces the live state only
// when fn succeeds.
type MemoryStore struct {
	mu    sync.Mutex
	state memoryState
}

type memoryState struct {
	boxes     *boxes.MemoryState
	ledger    *ledger.MemoryState
	wallets   *walletcounts.MemoryState
	issuances *issuances.MemoryState
}

func (s memoryState) clone() memoryState {
	return memoryState{
		boxes:     s.boxes.Clone(),
		ledger:    s.ledger.Clone(),
		wallets:   s.wallets.Clone(),
		issuances: s.issuances.Clone(),
	}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: memoryState{
		boxes:     boxes.NewMemoryState(),
		ledger:    ledger.NewMemoryState(),
		wallets:   walletcounts.NewMemoryState(),
		issuances: issuances.NewMemoryState(),
	}}
}

func (s *MemoryStore) InTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.state.clone()
	if err := fn(ctx, memoryRepositories(work)); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close() error { return nil }

type memoryRepositories memoryState

func (r memoryRepositories) Boxes() boxes.Repository {
	return boxes.NewMemoryRepository(r.boxes)
}

func (r memoryRepositories) Ledger() ledger.Repository {
	return ledger.NewMemoryRepository(r.ledger)
}

func (r memoryRepositories) WalletCounts() walletcounts.Repository {
	return walletcounts.NewMemoryRepository(r.wallets)
}

func (r memoryRepositories) Issuances() issuances.Repository {
	return issuances.NewMemoryRepository(r.issuances)
}
