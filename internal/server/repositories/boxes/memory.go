package boxes

import (
	"context"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
)

// MemoryState is the in-memory table of boxes. It is not safe for
// concurrent use; the owning store serializes access.
type MemoryState struct {
	boxes map[string]models.Box
}

func NewMemoryState() *MemoryState {
	return &MemoryState{boxes: make(map[string]models.Box)}
}

// Clone returns a deep copy used as a transaction snapshot.
func (s *MemoryState) Clone() *MemoryState {
	c := NewMemoryState()
	for k, v := range s.boxes {
		c.boxes[k] = copyBox(v)
	}
	return c
}

// MemoryRepository implements Repository over a MemoryState.
type MemoryRepository struct {
	state *MemoryState
}

func NewMemoryRepository(state *MemoryState) *MemoryRepository {
	return &MemoryRepository{state: state}
}

func (r *MemoryRepository) Create(_ context.Context, box *models.Box) error {
	if _, ok := r.state.boxes[box.Address]; ok {
		return common.ErrorAlreadyExists
	}
	r.state.boxes[box.Address] = copyBox(*box)
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, address string) (*models.Box, error) {
	b, ok := r.state.boxes[address]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := copyBox(b)
	return &c, nil
}

// GetForUpdate is Get; the memory store already holds a single writer lock.
func (r *MemoryRepository) GetForUpdate(ctx context.Context, address string) (*models.Box, error) {
	return r.Get(ctx, address)
}

func (r *MemoryRepository) Update(_ context.Context, box *models.Box) error {
	stored, ok := r.state.boxes[box.Address]
	if !ok {
		return common.ErrorNotFound
	}
	stored.Name = box.Name
	stored.InfoURI = box.InfoURI
	stored.StartAt = box.StartAt
	stored.EndAt = box.EndAt
	stored.TotalSupply = box.TotalSupply
	stored.PerWalletLimit = box.PerWalletLimit
	stored.Price = box.Price
	stored.Transferable = box.Transferable
	stored.UpdatedAt = box.UpdatedAt
	r.state.boxes[box.Address] = copyBox(stored)
	return nil
}

func (r *MemoryRepository) IncrementSold(_ context.Context, address string) (int64, error) {
	b, ok := r.state.boxes[address]
	if !ok {
		return 0, common.ErrSoldOut
	}
	if b.TotalSupply != nil && b.SoldCount >= *b.TotalSupply {
		return 0, common.ErrSoldOut
	}
	b.SoldCount++
	r.state.boxes[address] = b
	return b.SoldCount, nil
}

func copyBox(b models.Box) models.Box {
	if b.EndAt != nil {
		v := *b.EndAt
		b.EndAt = &v
	}
	if b.TotalSupply != nil {
		v := *b.TotalSupply
		b.TotalSupply = &v
	}
	if b.PerWalletLimit != nil {
		v := *b.PerWalletLimit
		b.PerWalletLimit = &v
	}
	if b.Currency != nil {
		v := *b.Currency
		b.Currency = &v
	}
	return b
}
