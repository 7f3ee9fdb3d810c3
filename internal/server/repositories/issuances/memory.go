package issuances

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
)

type MemoryState struct {
	byMint map[string]models.Issuance
}

func NewMemoryState() *MemoryState {
	return &MemoryState{byMint: make(map[string]models.Issuance)}
}

func (s *MemoryState) Clone() *MemoryState {
	c := NewMemoryState()
	for k, v := range s.byMint {
		c.byMint[k] = copyIssuance(v)
	}
	return c
}

type MemoryRepository struct {
	state *MemoryState
}

func NewMemoryRepository(state *MemoryState) *MemoryRepository {
	return &MemoryRepository{state: state}
}

func (r *MemoryRepository) Create(_ context.Context, iss *models.Issuance) error {
	if _, ok := r.state.byMint[iss.Mint]; ok {
		return common.ErrorAlreadyExists
	}
	for _, other := range r.state.byMint {
		if other.BoxAddress == iss.BoxAddress && other.Sequence == iss.Sequence {
			return common.ErrorAlreadyExists
		}
	}
	r.state.byMint[iss.Mint] = copyIssuance(*iss)
	return nil
}

func (r *MemoryRepository) GetByMint(_ context.Context, mint string) (*models.Issuance, error) {
	iss, ok := r.state.byMint[mint]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := copyIssuance(iss)
	return &c, nil
}

func (r *MemoryRepository) Update(_ context.Context, iss *models.Issuance) error {
	stored, ok := r.state.byMint[iss.Mint]
	if !ok {
		return common.ErrorNotFound
	}
	stored.EditionAddress = iss.EditionAddress
	stored.MaxSupply = iss.MaxSupply
	stored.CollectionVerified = iss.CollectionVerified
	r.state.byMint[iss.Mint] = copyIssuance(stored)
	return nil
}

func (r *MemoryRepository) ListByBox(_ context.Context, boxAddress string) ([]models.Issuance, error) {
	var out []models.Issuance
	for _, iss := range r.state.byMint {
		if iss.BoxAddress == boxAddress {
			out = append(out, copyIssuance(iss))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func copyIssuance(iss models.Issuance) models.Issuance {
	if iss.MaxSupply != nil {
		v := *iss.MaxSupply
		iss.MaxSupply = &v
	}
	return iss
}
