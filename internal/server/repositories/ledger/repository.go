package ledger

import (
	"context"
	"errors"
	"math"

	"github.com/dmitrijs2005/ticketbox/internal/server/models"
)

// ErrAmountOutOfRange is returned for amounts a ledger column cannot hold.
var ErrAmountOutOfRange = errors.New("amount out of range")

// Repository is the wallet and token state purchases settle against.
// Transfers move the exact amount or fail without side effects.
type Repository interface {
	GetNativeAccount(ctx context.Context, address string) (*models.NativeAccount, error)
	// CreditLamports adds amount to address, creating the account if needed,
	// and returns the new balance.
	CreditLamports(ctx context.Context, address string, amount uint64) (uint64, error)
	// TransferLamports fails with common.ErrNotEnoughSOL when from holds
	// less than amount.
	TransferLamports(ctx context.Context, from, to string, amount uint64) error

	CreateMint(ctx context.Context, mint *models.TokenMint) error
	GetMint(ctx context.Context, address string) (*models.TokenMint, error)

	CreateTokenAccount(ctx context.Context, account *models.TokenAccount) error
	GetTokenAccount(ctx context.Context, address string) (*models.TokenAccount, error)
	MintTo(ctx context.Context, account string, amount uint64) (uint64, error)
	// Approve lets delegate move up to amount out of account.
	Approve(ctx context.Context, account, delegate string, amount uint64) error
	// TransferTokens moves amount from one token account to another of the
	// same mint. authority must be the source wallet or a delegate whose
	// allowance covers amount; otherwise common.ErrTokenTransferFailed.
	TransferTokens(ctx context.Context, from, to, authority string, amount uint64) error
}

func checkAmount(amount uint64) error {
	if amount > math.MaxInt64 {
		return ErrAmountOutOfRange
	}
	return nil
}
