package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/ticketbox/internal/api"
	"github.com/dmitrijs2005/ticketbox/internal/logging"
	"github.com/dmitrijs2005/ticketbox/internal/server/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func newBareServer(addr string) *GRPCServer {
	s := NewGRPCServer(addr, logging.Nop(), &fakeBoxes{}, &fakePurchases{}, &fakeLedger{}, metrics.New(), "secret", time.Minute)
	s.EnableFaucet()
	return s
}

func TestServe_AnswersOverTCPUntilCanceled(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := newBareServer(lis.Addr().String())
	srv.ledger = &fakeLedger{balance: 42}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	callCtx, callCancel := context.WithTimeout(ctx, 2*time.Second)
	defer callCancel()
	res, err := api.NewTicketBoxClient(conn).Balance(callCtx, &api.BalanceRequest{Wallet: "w"}, grpc.WaitForReady(true))
	require.NoError(t, err)
	assert.Equal(t, uint64(42), res.Amount)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err, "graceful stop must not be reported as an error")
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := newBareServer("127.0.0.1:99999")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.Error(t, srv.Run(ctx))
}
