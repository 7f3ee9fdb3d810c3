package walletcounts

import "context"

type key struct {
	box, wallet string
}

type MemoryState struct {
	counts map[key]int64
}

func NewMemoryState() *MemoryState {
	return &MemoryState{counts: make(map[key]int64)}
}

func (s *MemoryState) Clone() *MemoryState {
	c := NewMemoryState()
	for k, v := range s.counts {
		c.counts[k] = v
	}
	return c
}

type MemoryRepository struct {
	state *MemoryState
}

func NewMemoryRepository(state *MemoryState) *MemoryRepository {
	return &MemoryRepository{state: state}
}

func (r *MemoryRepository) Get(_ context.Context, boxAddress, wallet string) (int64, error) {
	return r.state.counts[key{boxAddress, wallet}], nil
}

func (r *MemoryRepository) Increment(_ context.Context, boxAddress, wallet string) (int64, error) {
	k := key{boxAddress, wallet}
	r.state.counts[k]++
	return r.state.counts[k], nil
}
