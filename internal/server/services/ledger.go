package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/logging"
	"github.com/dmitrijs2005/ticketbox/internal/server/auth"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ticketbox/internal/solanax"
)

// LedgerService funds wallets and sets up token accounts. It stands in for
// the faucet and token program a local deployment does not have.
type LedgerService struct {
	store  repomanager.Store
	logger logging.Logger
}

func NewLedgerService(store repomanager.Store, logger logging.Logger) *LedgerService {
	return &LedgerService{store: store, logger: logger.With("module", "ledger_service")}
}

// Airdrop credits lamports to wallet and returns the new balance.
func (s *LedgerService) Airdrop(ctx context.Context, wallet string, lamports uint64) (uint64, error) {
	if err := requireAddress(wallet); err != nil {
		return 0, err
	}
	var balance uint64
	err := s.store.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		balance, err = r.Ledger().CreditLamports(ctx, wallet, lamports)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "airdrop", "wallet", wallet, "lamports", lamports)
	return balance, nil
}

// Balance returns the lamports held by wallet; unknown wallets hold none.
func (s *LedgerService) Balance(ctx context.Context, wallet string) (uint64, error) {
	var balance uint64
	err := s.store.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		acc, err := r.Ledger().GetNativeAccount(ctx, wallet)
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		balance = acc.Lamports
		return nil
	})
	return balance, err
}

// CreateMint registers a new token mint at a fresh address.
func (s *LedgerService) CreateMint(ctx context.Context, decimals uint8) (*models.TokenMint, error) {
	mint := &models.TokenMint{
		Address:     solanax.NewKeypairAddress(),
		Owner:       solanax.TokenProgramID,
		Decimals:    decimals,
		Initialized: true,
	}
	err := s.store.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		return r.Ledger().CreateMint(ctx, mint)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "mint created", "mint", mint.Address)
	return mint, nil
}

// CreateTokenAccount opens the associated token account of (wallet, mint).
func (s *LedgerService) CreateTokenAccount(ctx context.Context, wallet, mint string) (*models.TokenAccount, error) {
	ata, err := solanax.AssociatedTokenAddress(wallet, mint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidAddress, err)
	}
	acc := &models.TokenAccount{
		Address:     ata,
		Owner:       solanax.TokenProgramID,
		Wallet:      wallet,
		Mint:        mint,
		Initialized: true,
	}
	err = s.store.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if _, err := r.Ledger().GetMint(ctx, mint); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUninitialized
			}
			return err
		}
		return r.Ledger().CreateTokenAccount(ctx, acc)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "token account created", "account", ata, "wallet", wallet, "mint", mint)
	return acc, nil
}

// MintTo adds amount to a token account and returns its new balance.
func (s *LedgerService) MintTo(ctx context.Context, account string, amount uint64) (uint64, error) {
	var balance uint64
	err := s.store.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		balance, err = r.Ledger().MintTo(ctx, account, amount)
		return err
	})
	return balance, err
}

// Approve lets delegate spend up to amount from caller's token account.
func (s *LedgerService) Approve(ctx context.Context, caller, account, delegate string, amount uint64) error {
	if err := requireAddress(delegate); err != nil {
		return err
	}
	return s.store.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		acc, err := r.Ledger().GetTokenAccount(ctx, account)
		if err != nil {
			return err
		}
		if err := auth.VerifySigner(caller, acc.Wallet); err != nil {
			return err
		}
		return r.Ledger().Approve(ctx, account, delegate, amount)
	})
}
