package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/ledger"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ticketbox/internal/solanax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenSetup struct {
	mint   string
	escrow string
	box    *models.Box
}

// tokenBox creates a box priced in a fresh mint with an escrow owned by the creator.
func (h *harness) tokenBox(t *testing.T, price uint64) tokenSetup {
	t.Helper()
	ctx := context.Background()

	mint, err := h.ledger.CreateMint(ctx, 6)
	require.NoError(t, err)
	escrow, err := h.ledger.CreateTokenAccount(ctx, h.creator, mint.Address)
	require.NoError(t, err)

	box, err := h.boxes.Create(ctx, h.creator, models.CreateBoxParams{
		Name:         "Token show #",
		InfoURI:      "https://example.org/token.json",
		StartAt:      t0,
		Price:        price,
		Escrow:       escrow.Address,
		CurrencyMint: &mint.Address,
	})
	require.NoError(t, err)
	return tokenSetup{mint: mint.Address, escrow: escrow.Address, box: box}
}

func (h *harness) holder(t *testing.T, mint string, amount uint64) (wallet, account string) {
	t.Helper()
	ctx := context.Background()
	wallet = solanax.NewKeypairAddress()
	acc, err := h.ledger.CreateTokenAccount(ctx, wallet, mint)
	require.NoError(t, err)
	if amount > 0 {
		_, err = h.ledger.MintTo(ctx, acc.Address, amount)
		require.NoError(t, err)
	}
	return wallet, acc.Address
}

func (h *harness) tokens(t *testing.T, account string) uint64 {
	t.Helper()
	var amount uint64
	err := h.store.InTx(context.Background(), func(ctx context.Context, r repomanager.Repositories) error {
		acc, err := r.Ledger().GetTokenAccount(ctx, account)
		if err != nil {
			return err
		}
		amount = acc.Amount
		return nil
	})
	require.NoError(t, err)
	return amount
}

func TestPurchase_TokenPath(t *testing.T) {
	h := newHarness(t)
	ts := h.tokenBox(t, 250)
	h.clock.Set(t0.Add(time.Minute))
	buyer, account := h.holder(t, ts.mint, 1000)

	res, err := h.purchases.Purchase(context.Background(), buyer, models.PurchaseRequest{
		BoxID: ts.box.ID, Creator: h.creator, TokenAccount: account,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(250), res.Paid)
	assert.Equal(t, uint64(750), h.tokens(t, account))
	assert.Equal(t, uint64(250), h.tokens(t, ts.escrow))
}

func TestPurchase_TokenDelegate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ts := h.tokenBox(t, 100)
	buyer, account := h.holder(t, ts.mint, 300)
	delegate := solanax.NewKeypairAddress()

	req := models.PurchaseRequest{BoxID: ts.box.ID, Creator: h.creator, Buyer: buyer, TokenAccount: account, TransferAuthority: delegate}

	_, err := h.purchases.Purchase(ctx, delegate, req)
	require.ErrorIs(t, err, common.ErrTokenTransferFailed, "no allowance yet")

	err = h.ledger.Approve(ctx, delegate, account, delegate, 150)
	require.ErrorIs(t, err, common.ErrPublicKeyMismatch, "only the wallet may approve")

	require.NoError(t, h.ledger.Approve(ctx, buyer, account, delegate, 150))

	// The buyer cannot spend an allowance it granted to someone else.
	_, err = h.purchases.Purchase(ctx, buyer, req)
	require.ErrorIs(t, err, common.ErrPublicKeyMismatch)
	assert.Equal(t, uint64(300), h.tokens(t, account))

	res, err := h.purchases.Purchase(ctx, delegate, req)
	require.NoError(t, err)
	assert.Equal(t, buyer, res.Issuance.Owner)

	// 50 left on the allowance is less than the price.
	_, err = h.purchases.Purchase(ctx, delegate, req)
	require.ErrorIs(t, err, common.ErrTokenTransferFailed)
	assert.Equal(t, uint64(200), h.tokens(t, account))
	assert.Equal(t, uint64(100), h.tokens(t, ts.escrow))
}

func TestPurchase_DelegateNeedsPricedTokenBox(t *testing.T) {
	h := newHarness(t)
	h.clock.Set(t0.Add(time.Minute))
	buyer := h.fund(t, 1000)
	delegate := solanax.NewKeypairAddress()

	priced, _ := h.nativeBox(t, 100, nil, nil)
	free, _ := h.nativeBox(t, 0, nil, nil)
	for _, box := range []*models.Box{priced, free} {
		_, err := h.purchases.Purchase(context.Background(), delegate, models.PurchaseRequest{
			BoxID: box.ID, Creator: h.creator, Buyer: buyer, TransferAuthority: delegate,
		})
		require.ErrorIs(t, err, common.ErrPublicKeyMismatch, "box %s", box.ID)

		sold, err := h.purchases.ListIssuances(context.Background(), h.creator, box.ID)
		require.NoError(t, err)
		assert.Empty(t, sold)
	}
	assert.Equal(t, uint64(1000), h.balance(t, buyer))
}

func TestPurchase_TokenAccountChecks(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ts := h.tokenBox(t, 100)
	other := h.tokenBox(t, 100)

	buyer, _ := h.holder(t, ts.mint, 1000)
	wrongMintAcc, err := h.ledger.CreateTokenAccount(ctx, buyer, other.mint)
	require.NoError(t, err)
	_, err = h.ledger.MintTo(ctx, wrongMintAcc.Address, 1000)
	require.NoError(t, err)
	_, strangerAcc := h.holder(t, ts.mint, 1000)
	poor, poorAcc := h.holder(t, ts.mint, 99)

	// A funded account of the right mint that is not the derived ATA.
	stray := solanax.NewKeypairAddress()
	err = h.store.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if err := r.Ledger().CreateTokenAccount(ctx, &models.TokenAccount{
			Address: stray, Owner: solanax.TokenProgramID, Wallet: buyer, Mint: ts.mint, Initialized: true,
		}); err != nil {
			return err
		}
		_, err := r.Ledger().MintTo(ctx, stray, 1000)
		return err
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		caller  string
		account string
		want    error
	}{
		{"no account", buyer, "", common.ErrUninitialized},
		{"unknown account", buyer, solanax.NewKeypairAddress(), common.ErrUninitialized},
		{"someone else's account", buyer, strangerAcc, common.ErrInvalidTokenAccountOwner},
		{"wrong mint", buyer, wrongMintAcc.Address, common.ErrMintMismatch},
		{"not the associated account", buyer, stray, common.ErrAddressMismatch},
		{"not enough tokens", poor, poorAcc, common.ErrNotEnoughTokens},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.purchases.Purchase(ctx, tt.caller, models.PurchaseRequest{
				BoxID: ts.box.ID, Creator: h.creator, TokenAccount: tt.account,
			})
			require.ErrorIs(t, err, tt.want)
		})
	}

	assert.Equal(t, uint64(1000), h.tokens(t, wrongMintAcc.Address))
	assert.Equal(t, uint64(1000), h.tokens(t, stray))
	assert.Equal(t, uint64(99), h.tokens(t, poorAcc))
	assert.Equal(t, uint64(0), h.tokens(t, ts.escrow))
}

func TestSettler_EscrowMintChecked(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository(ledger.NewMemoryState())

	usdc, other := solanax.NewKeypairAddress(), solanax.NewKeypairAddress()
	buyer := solanax.NewKeypairAddress()
	ata, err := solanax.AssociatedTokenAddress(buyer, usdc)
	require.NoError(t, err)
	escrow := solanax.NewKeypairAddress()

	for _, a := range []*models.TokenAccount{
		{Address: ata, Owner: solanax.TokenProgramID, Wallet: buyer, Mint: usdc, Initialized: true},
		{Address: escrow, Owner: solanax.TokenProgramID, Wallet: solanax.NewKeypairAddress(), Mint: other, Initialized: true},
	} {
		require.NoError(t, repo.CreateTokenAccount(ctx, a))
	}
	_, err = repo.MintTo(ctx, ata, 10)
	require.NoError(t, err)

	box := &models.Box{Price: 10, Currency: &usdc, Escrow: escrow}
	err = Settler{}.Settle(ctx, repo, box, models.PurchaseRequest{Buyer: buyer, TokenAccount: ata})
	require.ErrorIs(t, err, common.ErrInvalidTokenAccountMint)

	acc, err := repo.GetTokenAccount(ctx, ata)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), acc.Amount)
}

func TestSettler_FreeAndNative(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository(ledger.NewMemoryState())
	buyer, escrow := solanax.NewKeypairAddress(), solanax.NewKeypairAddress()

	require.NoError(t, Settler{}.Settle(ctx, repo, &models.Box{Escrow: escrow}, models.PurchaseRequest{Buyer: buyer}))

	box := &models.Box{Price: 5, Escrow: escrow}
	err := Settler{}.Settle(ctx, repo, box, models.PurchaseRequest{Buyer: buyer})
	require.ErrorIs(t, err, common.ErrNotEnoughSOL, "unknown payer")

	_, err = repo.CreditLamports(ctx, buyer, 7)
	require.NoError(t, err)
	require.NoError(t, Settler{}.Settle(ctx, repo, box, models.PurchaseRequest{Buyer: buyer}))

	payer, err := repo.GetNativeAccount(ctx, buyer)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), payer.Lamports)
	dest, err := repo.GetNativeAccount(ctx, escrow)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), dest.Lamports)
}
