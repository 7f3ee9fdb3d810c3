package grpc

import (
	"context"

	"github.com/dmitrijs2005/ticketbox/internal/server/models"
	"github.com/dmitrijs2005/ticketbox/internal/server/services"
)

type fakeBoxes struct {
	caller  string
	created models.CreateBoxParams
	updated models.UpdateBoxParams
	box     *models.Box
	upload  *services.AssetUpload
	err     error
}

func (f *fakeBoxes) Create(ctx context.Context, caller string, p models.CreateBoxParams) (*models.Box, error) {
	f.caller, f.created = caller, p
	return f.box, f.err
}

func (f *fakeBoxes) Update(ctx context.Context, caller, creator, boxID string, p models.UpdateBoxParams) (*models.Box, error) {
	f.caller, f.updated = caller, p
	return f.box, f.err
}

func (f *fakeBoxes) Get(ctx context.Context, creator, boxID string) (*models.Box, error) {
	return f.box, f.err
}

func (f *fakeBoxes) RequestAssetUpload(ctx context.Context, caller, creator, boxID string) (*services.AssetUpload, error) {
	f.caller = caller
	return f.upload, f.err
}

type fakePurchases struct {
	caller string
	req    models.PurchaseRequest
	result *models.PurchaseResult
	list   []models.Issuance
	err    error
}

func (f *fakePurchases) Purchase(ctx context.Context, caller string, req models.PurchaseRequest) (*models.PurchaseResult, error) {
	f.caller, f.req = caller, req
	return f.result, f.err
}

func (f *fakePurchases) ListIssuances(ctx context.Context, creator, boxID string) ([]models.Issuance, error) {
	return f.list, f.err
}

type fakeLedger struct {
	caller  string
	balance uint64
	err     error
}

func (f *fakeLedger) Airdrop(ctx context.Context, wallet string, lamports uint64) (uint64, error) {
	f.balance += lamports
	return f.balance, f.err
}

func (f *fakeLedger) Balance(ctx context.Context, wallet string) (uint64, error) {
	return f.balance, f.err
}

func (f *fakeLedger) CreateMint(ctx context.Context, decimals uint8) (*models.TokenMint, error) {
	return &models.TokenMint{Address: "Mint", Decimals: decimals}, f.err
}

func (f *fakeLedger) CreateTokenAccount(ctx context.Context, wallet, mint string) (*models.TokenAccount, error) {
	return &models.TokenAccount{Address: "Ata", Wallet: wallet, Mint: mint}, f.err
}

func (f *fakeLedger) MintTo(ctx context.Context, account string, amount uint64) (uint64, error) {
	return amount, f.err
}

func (f *fakeLedger) Approve(ctx context.Context, caller, account, delegate string, amount uint64) error {
	f.caller = caller
	return f.err
}
