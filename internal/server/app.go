// Package server initializes and runs the ticket box server: it opens the
// configured store, builds the sale services and serves them over gRPC next
// to an ops HTTP endpoint for metrics and health checks.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/ticketbox/internal/logging"
	"github.com/dmitrijs2005/ticketbox/internal/server/config"
	gs "github.com/dmitrijs2005/ticketbox/internal/server/grpc"
	"github.com/dmitrijs2005/ticketbox/internal/server/issuance"
	"github.com/dmitrijs2005/ticketbox/internal/server/metrics"
	"github.com/dmitrijs2005/ticketbox/internal/server/ops"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ticketbox/internal/server/services"
	"github.com/dmitrijs2005/ticketbox/internal/solanax"
	"golang.org/x/sync/errgroup"
)

var openPostgresStore = func(ctx context.Context, dsn string) (repomanager.Store, error) {
	return repomanager.OpenPostgresStore(ctx, dsn)
}

type App struct {
	config    *config.Config
	logger    logging.Logger
	store     repomanager.Store
	metrics   *metrics.Metrics
	boxes     *services.BoxService
	purchases *services.PurchaseService
	ledger    *services.LedgerService
}

func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, out)
	if err != nil {
		return nil, err
	}

	addresser, err := solanax.NewAddresser(c.ProgramID)
	if err != nil {
		return nil, err
	}

	var store repomanager.Store
	switch c.Storage {
	case config.StorageMemory:
		store = repomanager.NewMemoryStore()
	default:
		store, err = openPostgresStore(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	m := metrics.New()
	return &App{
		config:    c,
		logger:    logger,
		store:     store,
		metrics:   m,
		boxes:     services.NewBoxService(store, addresser, c, m, logger),
		purchases: services.NewPurchaseService(store, addresser, issuance.NewLedgerIssuer(), m, logger),
		ledger:    services.NewLedgerService(store, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx ends, a signal arrives or one of the servers fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage)

	app.initSignalHandler(cancelFunc)

	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.boxes, app.purchases, app.ledger,
		app.metrics, app.config.SecretKey, app.config.AccessTokenValidityDuration)
	if app.config.Faucet() {
		grpcServer.EnableFaucet()
	}
	opsServer := ops.NewServer(app.config.EndpointAddrHTTP, ops.NewRouter(app.metrics.Handler(), app.store, app.logger), app.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return grpcServer.Run(gctx) })
	g.Go(func() error { return opsServer.Run(gctx) })

	err := g.Wait()

	if cerr := app.store.Close(); cerr != nil {
		app.logger.Error(ctx, "closing store", "error", cerr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
