package grpc

import (
	"context"
	"path"
	"time"

	"github.com/dmitrijs2005/ticketbox/internal/api"
	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// signedMethods act on behalf of a wallet and need an access token.
var signedMethods = map[string]bool{
	api.FullMethod(api.MethodCreateBox):          true,
	api.FullMethod(api.MethodUpdateBox):          true,
	api.FullMethod(api.MethodRequestAssetUpload): true,
	api.FullMethod(api.MethodPurchase):           true,
	api.FullMethod(api.MethodApprove):            true,
}

// faucetMethods credit funds out of thin air.
var faucetMethods = map[string]bool{
	api.FullMethod(api.MethodAirdrop): true,
	api.FullMethod(api.MethodMintTo):  true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if faucetMethods[info.FullMethod] && !s.faucet {
		return nil, status.Error(codes.PermissionDenied, "faucet disabled")
	}

	if signedMethods[info.FullMethod] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, common.ErrMissingSigner.Error())
		}

		wallet, err := auth.WalletFromToken(accessToken, s.jwtSecret)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		ctx = auth.WithWallet(ctx, wallet)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	started := time.Now()
	resp, err := handler(ctx, req)
	s.metrics.ObserveRPC(path.Base(info.FullMethod), status.Code(err).String(), time.Since(started))
	return resp, err
}

// caller returns the wallet the access token was issued to.
func caller(ctx context.Context) string {
	wallet, _ := auth.WalletFromContext(ctx)
	return wallet
}
