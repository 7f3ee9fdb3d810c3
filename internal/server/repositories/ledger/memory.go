package ledger

import (
	"context"
	"math"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
)

// MemoryState holds ledger rows for the in-memory store.
type MemoryState struct {
	natives  map[string]uint64
	mints    map[string]models.TokenMint
	accounts map[string]models.TokenAccount
}

func NewMemoryState() *MemoryState {
	return &MemoryState{
		natives:  make(map[string]uint64),
		mints:    make(map[string]models.TokenMint),
		accounts: make(map[string]models.TokenAccount),
	}
}

func (s *MemoryState) Clone() *MemoryState {
	c := NewMemoryState()
	for k, v := range s.natives {
		c.natives[k] = v
	}
	for k, v := range s.mints {
		c.mints[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = copyAccount(v)
	}
	return c
}

type MemoryRepository struct {
	state *MemoryState
}

func NewMemoryRepository(state *MemoryState) *MemoryRepository {
	return &MemoryRepository{state: state}
}

func (r *MemoryRepository) GetNativeAccount(_ context.Context, address string) (*models.NativeAccount, error) {
	lamports, ok := r.state.natives[address]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.NativeAccount{Address: address, Lamports: lamports}, nil
}

func (r *MemoryRepository) CreditLamports(_ context.Context, address string, amount uint64) (uint64, error) {
	balance := r.state.natives[address]
	if err := checkSum(balance, amount); err != nil {
		return 0, err
	}
	balance += amount
	r.state.natives[address] = balance
	return balance, nil
}

func (r *MemoryRepository) TransferLamports(ctx context.Context, from, to string, amount uint64) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	balance, ok := r.state.natives[from]
	if !ok || balance < amount {
		return common.ErrNotEnoughSOL
	}
	if err := checkSum(r.state.natives[to], amount); err != nil && from != to {
		return err
	}
	r.state.natives[from] = balance - amount
	_, err := r.CreditLamports(ctx, to, amount)
	return err
}

func (r *MemoryRepository) CreateMint(_ context.Context, mint *models.TokenMint) error {
	if _, ok := r.state.mints[mint.Address]; ok {
		return common.ErrorAlreadyExists
	}
	r.state.mints[mint.Address] = *mint
	return nil
}

func (r *MemoryRepository) GetMint(_ context.Context, address string) (*models.TokenMint, error) {
	m, ok := r.state.mints[address]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &m, nil
}

func (r *MemoryRepository) CreateTokenAccount(_ context.Context, a *models.TokenAccount) error {
	if err := checkAmount(a.Amount); err != nil {
		return err
	}
	if _, ok := r.state.accounts[a.Address]; ok {
		return common.ErrorAlreadyExists
	}
	r.state.accounts[a.Address] = copyAccount(*a)
	return nil
}

func (r *MemoryRepository) GetTokenAccount(_ context.Context, address string) (*models.TokenAccount, error) {
	a, ok := r.state.accounts[address]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := copyAccount(a)
	return &c, nil
}

func (r *MemoryRepository) MintTo(_ context.Context, account string, amount uint64) (uint64, error) {
	a, ok := r.state.accounts[account]
	if !ok {
		return 0, common.ErrorNotFound
	}
	if err := checkSum(a.Amount, amount); err != nil {
		return 0, err
	}
	a.Amount += amount
	r.state.accounts[account] = a
	return a.Amount, nil
}

func (r *MemoryRepository) Approve(_ context.Context, account, delegate string, amount uint64) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	a, ok := r.state.accounts[account]
	if !ok {
		return common.ErrorNotFound
	}
	a.Delegate = &delegate
	a.DelegatedAmount = amount
	r.state.accounts[account] = a
	return nil
}

func (r *MemoryRepository) TransferTokens(_ context.Context, from, to, authority string, amount uint64) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	src, ok := r.state.accounts[from]
	if !ok || !src.Initialized || src.Amount < amount {
		return common.ErrTokenTransferFailed
	}
	viaDelegate := src.Wallet != authority
	if viaDelegate && (src.Delegate == nil || *src.Delegate != authority || src.DelegatedAmount < amount) {
		return common.ErrTokenTransferFailed
	}
	dst, ok := r.state.accounts[to]
	if !ok || !dst.Initialized || dst.Mint != src.Mint {
		return common.ErrTokenTransferFailed
	}

	if from != to {
		if err := checkSum(dst.Amount, amount); err != nil {
			return err
		}
	}

	src.Amount -= amount
	if viaDelegate {
		src.DelegatedAmount -= amount
	}
	if from == to {
		src.Amount += amount
		r.state.accounts[from] = src
		return nil
	}
	r.state.accounts[from] = src
	dst.Amount += amount
	r.state.accounts[to] = dst
	return nil
}

func checkSum(balance, amount uint64) error {
	if amount > math.MaxInt64 || balance > math.MaxInt64-amount {
		return ErrAmountOutOfRange
	}
	return nil
}

func copyAccount(a models.TokenAccount) models.TokenAccount {
	if a.Delegate != nil {
		v := *a.Delegate
		a.Delegate = &v
	}
	return a
}
