package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/ledger"
	"github.com/dmitrijs2005/ticketbox/internal/solanax"
)

// Settler moves the ticket price from the buyer to the box escrow. Every
// check runs before the first transfer, and each transfer moves exactly the
// price or fails.
type Settler struct{}

// Settle charges req.Buyer for one ticket of box. Free boxes charge nothing.
// A delegate may only pay for a priced token box, out of its allowance.
func (Settler) Settle(ctx context.Context, l ledger.Repository, box *models.Box, req models.PurchaseRequest) error {
	if delegated(req) && (box.IsNative() || box.Price == 0) {
		return common.ErrPublicKeyMismatch
	}
	if box.Price == 0 {
		return nil
	}
	if box.IsNative() {
		return settleNative(ctx, l, box, req.Buyer)
	}
	return settleToken(ctx, l, box, req)
}

func settleNative(ctx context.Context, l ledger.Repository, box *models.Box, buyer string) error {
	acc, err := l.GetNativeAccount(ctx, buyer)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrNotEnoughSOL
		}
		return err
	}
	if acc.Lamports < box.Price {
		return common.ErrNotEnoughSOL
	}
	return l.TransferLamports(ctx, buyer, box.Escrow, box.Price)
}

func settleToken(ctx context.Context, l ledger.Repository, box *models.Box, req models.PurchaseRequest) error {
	mint := *box.Currency

	src, err := paymentAccount(ctx, l, req.TokenAccount, req.Buyer, mint)
	if err != nil {
		return err
	}
	if src.Amount < box.Price {
		return common.ErrNotEnoughTokens
	}

	escrow, err := l.GetTokenAccount(ctx, box.Escrow)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUninitialized
		}
		return err
	}
	if escrow.Mint != mint {
		return common.ErrInvalidTokenAccountMint
	}

	authority := req.TransferAuthority
	if authority == "" {
		authority = req.Buyer
	}
	return l.TransferTokens(ctx, src.Address, box.Escrow, authority, box.Price)
}

func delegated(req models.PurchaseRequest) bool {
	return req.TransferAuthority != "" && req.TransferAuthority != req.Buyer
}

// paymentAccount loads the buyer's token account and checks that it is the
// canonical associated account of (buyer, mint).
func paymentAccount(ctx context.Context, l ledger.Repository, address, buyer, mint string) (*models.TokenAccount, error) {
	if address == "" {
		return nil, common.ErrUninitialized
	}
	acc, err := l.GetTokenAccount(ctx, address)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUninitialized
		}
		return nil, err
	}
	if acc.Owner != solanax.TokenProgramID {
		return nil, common.ErrInvalidTokenAccountOwner
	}
	if !acc.Initialized {
		return nil, common.ErrUninitialized
	}
	if acc.Wallet != buyer {
		return nil, common.ErrInvalidTokenAccountOwner
	}
	if acc.Mint != mint {
		return nil, common.ErrMintMismatch
	}
	ata, err := solanax.AssociatedTokenAddress(buyer, mint)
	if err != nil {
		return nil, err
	}
	if ata != acc.Address {
		return nil, common.ErrAddressMismatch
	}
	return acc, nil
}
