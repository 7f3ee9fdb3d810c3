package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/ticketbox/internal/api"
	"github.com/dmitrijs2005/ticketbox/internal/logging"
	"github.com/dmitrijs2005/ticketbox/internal/server/metrics"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
	"github.com/dmitrijs2005/ticketbox/internal/server/services"
	"google.golang.org/grpc"
)

type BoxService interface {
	Create(ctx context.Context, caller string, p models.CreateBoxParams) (*models.Box, error)
	Update(ctx context.Context, caller, creator, boxID string, p models.UpdateBoxParams) (*models.Box, error)
	Get(ctx context.Context, creator, boxID string) (*models.Box, error)
	RequestAssetUpload(ctx context.Context, caller, creator, boxID string) (*services.AssetUpload, error)
}

type PurchaseService interface {
	Purchase(ctx context.Context, caller string, req models.PurchaseRequest) (*models.PurchaseResult, error)
	ListIssuances(ctx context.Context, creator, boxID string) ([]models.Issuance, error)
}

type LedgerService interface {
	Airdrop(ctx context.Context, wallet string, lamports uint64) (uint64, error)
	Balance(ctx context.Context, wallet string) (uint64, error)
	CreateMint(ctx context.Context, decimals uint8) (*models.TokenMint, error)
	CreateTokenAccount(ctx context.Context, wallet, mint string) (*models.TokenAccount, error)
	MintTo(ctx context.Context, account string, amount uint64) (uint64, error)
	Approve(ctx context.Context, caller, account, delegate string, amount uint64) error
}

type GRPCServer struct {
	address   string
	boxes     BoxService
	purchases PurchaseService
	ledger    LedgerService
	metrics   *metrics.Metrics
	logger    logging.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
	faucet    bool
	now       func() time.Time
}

func NewGRPCServer(a string, l logging.Logger, bs BoxService, ps PurchaseService, ls LedgerService,
	m *metrics.Metrics, secretKey string, tokenTTL time.Duration) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		boxes:     bs,
		purchases: ps,
		ledger:    ls,
		metrics:   m,
		jwtSecret: []byte(secretKey),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// EnableFaucet serves Airdrop and MintTo, which are refused otherwise.
func (s *GRPCServer) EnableFaucet() {
	s.faucet = true
}

// NewServer builds the gRPC server with the service and interceptors registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor))
	api.RegisterTicketBoxServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
