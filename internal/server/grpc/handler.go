package grpc

import (
	"context"

	"github.com/dmitrijs2005/ticketbox/internal/api"
	"github.com/dmitrijs2005/ticketbox/internal/server/auth"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
)

// Login exchanges a signed login message for an access token.
func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	now := s.now()
	if err := auth.VerifyLogin(req.Wallet, req.Message, req.Signature, now); err != nil {
		s.logger.Info(ctx, "login rejected", "wallet", req.Wallet, "error", err)
		return nil, s.toStatus(ctx, err)
	}

	token, err := auth.GenerateToken(req.Wallet, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Logged in", "wallet", req.Wallet)
	return &api.LoginResponse{AccessToken: token, ExpiresAt: now.Add(s.tokenTTL)}, nil
}

func (s *GRPCServer) CreateBox(ctx context.Context, req *api.CreateBoxRequest) (*api.Box, error) {
	box, err := s.boxes.Create(ctx, caller(ctx), models.CreateBoxParams{
		ID:             req.ID,
		Name:           req.Name,
		InfoURI:        req.InfoURI,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		TotalSupply:    req.TotalSupply,
		PerWalletLimit: req.PerWalletLimit,
		Price:          req.Price,
		Transferable:   req.Transferable,
		Escrow:         req.Escrow,
		CurrencyMint:   req.CurrencyMint,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return boxToAPI(box), nil
}

func (s *GRPCServer) UpdateBox(ctx context.Context, req *api.UpdateBoxRequest) (*api.Box, error) {
	box, err := s.boxes.Update(ctx, caller(ctx), req.Creator, req.BoxID, models.UpdateBoxParams{
		Name:           req.Name,
		InfoURI:        req.InfoURI,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		TotalSupply:    req.TotalSupply,
		PerWalletLimit: req.PerWalletLimit,
		Price:          req.Price,
		Transferable:   req.Transferable,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return boxToAPI(box), nil
}

func (s *GRPCServer) GetBox(ctx context.Context, req *api.BoxRef) (*api.Box, error) {
	box, err := s.boxes.Get(ctx, req.Creator, req.BoxID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return boxToAPI(box), nil
}

func (s *GRPCServer) RequestAssetUpload(ctx context.Context, req *api.BoxRef) (*api.AssetUpload, error) {
	up, err := s.boxes.RequestAssetUpload(ctx, caller(ctx), req.Creator, req.BoxID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.AssetUpload{Key: up.Key, URL: up.URL, ExpiresAt: up.ExpiresAt}, nil
}

func (s *GRPCServer) Purchase(ctx context.Context, req *api.PurchaseRequest) (*api.PurchaseResponse, error) {
	res, err := s.purchases.Purchase(ctx, caller(ctx), models.PurchaseRequest{
		BoxID:             req.BoxID,
		Creator:           req.Creator,
		Buyer:             req.Buyer,
		TokenAccount:      req.TokenAccount,
		TransferAuthority: req.TransferAuthority,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.PurchaseResponse{
		Issuance:  issuanceToAPI(res.Issuance),
		SoldCount: res.SoldCount,
		Paid:      res.Paid,
		State:     string(res.State),
	}, nil
}

func (s *GRPCServer) ListIssuances(ctx context.Context, req *api.BoxRef) (*api.ListIssuancesResponse, error) {
	list, err := s.purchases.ListIssuances(ctx, req.Creator, req.BoxID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := make([]api.Issuance, 0, len(list))
	for i := range list {
		out = append(out, issuanceToAPI(&list[i]))
	}
	return &api.ListIssuancesResponse{Issuances: out}, nil
}

func (s *GRPCServer) Airdrop(ctx context.Context, req *api.AirdropRequest) (*api.BalanceResponse, error) {
	balance, err := s.ledger.Airdrop(ctx, req.Wallet, req.Lamports)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.BalanceResponse{Amount: balance}, nil
}

func (s *GRPCServer) Balance(ctx context.Context, req *api.BalanceRequest) (*api.BalanceResponse, error) {
	balance, err := s.ledger.Balance(ctx, req.Wallet)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.BalanceResponse{Amount: balance}, nil
}

func (s *GRPCServer) CreateMint(ctx context.Context, req *api.CreateMintRequest) (*api.Mint, error) {
	mint, err := s.ledger.CreateMint(ctx, req.Decimals)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Mint{Address: mint.Address, Decimals: mint.Decimals}, nil
}

func (s *GRPCServer) CreateTokenAccount(ctx context.Context, req *api.CreateTokenAccountRequest) (*api.TokenAccount, error) {
	acc, err := s.ledger.CreateTokenAccount(ctx, req.Wallet, req.Mint)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return tokenAccountToAPI(acc), nil
}

func (s *GRPCServer) MintTo(ctx context.Context, req *api.MintToRequest) (*api.BalanceResponse, error) {
	amount, err := s.ledger.MintTo(ctx, req.Account, req.Amount)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.BalanceResponse{Amount: amount}, nil
}

func (s *GRPCServer) Approve(ctx context.Context, req *api.ApproveRequest) (*api.Empty, error) {
	if err := s.ledger.Approve(ctx, caller(ctx), req.Account, req.Delegate, req.Amount); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}
