// Package client talks to the ticketbox server over gRPC, logging in with
// the wallet key on demand.
package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/dmitrijs2005/ticketbox/internal/api"
	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/server/auth"
	"github.com/mr-tron/base58"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	conn   *grpc.ClientConn
	client *api.TicketBoxClient
	signer types.Account

	mu          sync.Mutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// NewTicketBoxClient connects to endpointURL acting as signer.
func NewTicketBoxClient(endpointURL string, signer types.Account, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{signer: signer}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewTicketBoxClient(conn)
	return c, nil
}

// Wallet is the address the client signs as.
func (s *GRPCClient) Wallet() string {
	return s.signer.PublicKey.ToBase58()
}

func (s *GRPCClient) token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// accessTokenInterceptor attaches the access token, logging in first when
// there is none, and logs in again once if the server reports it expired.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if method == api.FullMethod(api.MethodLogin) {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	if s.token() == "" {
		if err := s.Login(ctx); err != nil {
			return err
		}
	}

	err := invoker(withAccessToken(ctx, s.token()), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}

	if err := s.Login(ctx); err != nil {
		return err
	}
	return invoker(withAccessToken(ctx, s.token()), method, req, reply, cc, opts...)
}

// Login signs a fresh login message and stores the access token.
func (s *GRPCClient) Login(ctx context.Context) error {
	wallet := s.Wallet()
	msg := auth.LoginMessage(wallet, time.Now())

	resp, err := s.client.Login(ctx, &api.LoginRequest{
		Wallet:    wallet,
		Message:   msg,
		Signature: base58.Encode(s.signer.Sign([]byte(msg))),
	})
	if err != nil {
		return s.mapError(err)
	}

	s.mu.Lock()
	s.accessToken = resp.AccessToken
	s.mu.Unlock()
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Unavailable:
		// An issuance step failing is reported as Unavailable too.
		if strings.HasPrefix(st.Message(), common.ErrExternalIssuance.Error()) {
			return fmt.Errorf("rpc error: %s", st.Message())
		}
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) CreateBox(ctx context.Context, req *api.CreateBoxRequest) (*api.Box, error) {
	resp, err := s.client.CreateBox(ctx, req)
	return resp, s.mapError(err)
}

func (s *GRPCClient) UpdateBox(ctx context.Context, req *api.UpdateBoxRequest) (*api.Box, error) {
	resp, err := s.client.UpdateBox(ctx, req)
	return resp, s.mapError(err)
}

func (s *GRPCClient) GetBox(ctx context.Context, creator, boxID string) (*api.Box, error) {
	resp, err := s.client.GetBox(ctx, &api.BoxRef{Creator: creator, BoxID: boxID})
	return resp, s.mapError(err)
}

func (s *GRPCClient) RequestAssetUpload(ctx context.Context, boxID string) (*api.AssetUpload, error) {
	resp, err := s.client.RequestAssetUpload(ctx, &api.BoxRef{Creator: s.Wallet(), BoxID: boxID})
	return resp, s.mapError(err)
}

func (s *GRPCClient) Purchase(ctx context.Context, req *api.PurchaseRequest) (*api.PurchaseResponse, error) {
	resp, err := s.client.Purchase(ctx, req)
	return resp, s.mapError(err)
}

func (s *GRPCClient) ListIssuances(ctx context.Context, creator, boxID string) ([]api.Issuance, error) {
	resp, err := s.client.ListIssuances(ctx, &api.BoxRef{Creator: creator, BoxID: boxID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Issuances, nil
}

func (s *GRPCClient) Airdrop(ctx context.Context, wallet string, lamports uint64) (uint64, error) {
	resp, err := s.client.Airdrop(ctx, &api.AirdropRequest{Wallet: wallet, Lamports: lamports})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Amount, nil
}

func (s *GRPCClient) Balance(ctx context.Context, wallet string) (uint64, error) {
	resp, err := s.client.Balance(ctx, &api.BalanceRequest{Wallet: wallet})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Amount, nil
}

func (s *GRPCClient) CreateMint(ctx context.Context, decimals uint8) (*api.Mint, error) {
	resp, err := s.client.CreateMint(ctx, &api.CreateMintRequest{Decimals: decimals})
	return resp, s.mapError(err)
}

func (s *GRPCClient) CreateTokenAccount(ctx context.Context, wallet, mint string) (*api.TokenAccount, error) {
	resp, err := s.client.CreateTokenAccount(ctx, &api.CreateTokenAccountRequest{Wallet: wallet, Mint: mint})
	return resp, s.mapError(err)
}

func (s *GRPCClient) MintTo(ctx context.Context, account string, amount uint64) (uint64, error) {
	resp, err := s.client.MintTo(ctx, &api.MintToRequest{Account: account, Amount: amount})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Amount, nil
}

func (s *GRPCClient) Approve(ctx context.Context, account, delegate string, amount uint64) error {
	_, err := s.client.Approve(ctx, &api.ApproveRequest{Account: account, Delegate: delegate, Amount: amount})
	return s.mapError(err)
}
