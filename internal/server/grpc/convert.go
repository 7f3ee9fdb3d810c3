package grpc

import (
	"github.com/dmitrijs2005/ticketbox/internal/api"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
)

func boxToAPI(b *models.Box) *api.Box {
	return &api.Box{
		ID:             b.ID,
		Creator:        b.Creator,
		Address:        b.Address,
		Name:           b.Name,
		InfoURI:        b.InfoURI,
		StartAt:        b.StartAt,
		EndAt:          b.EndAt,
		TotalSupply:    b.TotalSupply,
		SoldCount:      b.SoldCount,
		Remaining:      b.Remaining(),
		PerWalletLimit: b.PerWalletLimit,
		Price:          b.Price,
		Currency:       b.Currency,
		Transferable:   b.Transferable,
		Escrow:         b.Escrow,
		CollectionMint: b.CollectionMint,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func issuanceToAPI(i *models.Issuance) api.Issuance {
	return api.Issuance{
		ID:                   i.ID,
		BoxID:                i.BoxID,
		BoxAddress:           i.BoxAddress,
		Sequence:             i.Sequence,
		Name:                 i.Name,
		Symbol:               i.Symbol,
		URI:                  i.URI,
		Mint:                 i.Mint,
		MetadataAddress:      i.MetadataAddress,
		EditionAddress:       i.EditionAddress,
		UpdateAuthority:      i.UpdateAuthority,
		Owner:                i.Owner,
		CollectionMint:       i.CollectionMint,
		CollectionVerified:   i.CollectionVerified,
		SellerFeeBasisPoints: i.SellerFeeBasisPoints,
		MaxSupply:            i.MaxSupply,
		Transferable:         i.Transferable,
		CreatedAt:            i.CreatedAt,
	}
}

func tokenAccountToAPI(a *models.TokenAccount) *api.TokenAccount {
	return &api.TokenAccount{
		Address:         a.Address,
		Wallet:          a.Wallet,
		Mint:            a.Mint,
		Amount:          a.Amount,
		Delegate:        a.Delegate,
		DelegatedAmount: a.DelegatedAmount,
	}
}
