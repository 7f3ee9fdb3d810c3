package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/ticketbox/internal/logging"
	sc "github.com/dmitrijs2005/ticketbox/internal/server/config"
	"github.com/dmitrijs2005/ticketbox/internal/server/issuance"
	"github.com/dmitrijs2005/ticketbox/internal/server/metrics"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ticketbox/internal/solanax"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type harness struct {
	store     *repomanager.MemoryStore
	clock     *clock
	boxes     *BoxService
	purchases *PurchaseService
	ledger    *LedgerService
	metrics   *metrics.Metrics
	creator   string
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithIssuer(t, issuance.NewLedgerIssuer())
}

func newHarnessWithIssuer(t *testing.T, issuer Issuer) *harness {
	t.Helper()
	addresser, err := solanax.NewAddresser(solanax.DefaultProgramID)
	require.NoError(t, err)

	cfg := &sc.Config{}
	cfg.LoadDefaults()

	h := &harness{
		store:   repomanager.NewMemoryStore(),
		clock:   &clock{now: t0},
		metrics: metrics.New(),
		creator: solanax.NewKeypairAddress(),
	}
	h.boxes = NewBoxService(h.store, addresser, cfg, h.metrics, logging.Nop())
	h.boxes.now = h.clock.Now
	h.purchases = NewPurchaseService(h.store, addresser, issuer, h.metrics, logging.Nop())
	h.purchases.now = h.clock.Now
	h.ledger = NewLedgerService(h.store, logging.Nop())
	return h
}

func i64(v int64) *int64 { return &v }

func tp(t time.Time) *time.Time { return &t }

// nativeBox creates a lamport-priced box that opens at t0 and closes a day later.
func (h *harness) nativeBox(t *testing.T, price uint64, total, perWallet *int64) (*models.Box, string) {
	t.Helper()
	escrow := solanax.NewKeypairAddress()
	box, err := h.boxes.Create(context.Background(), h.creator, models.CreateBoxParams{
		Name:           "Show #",
		InfoURI:        "https://example.org/show.json",
		StartAt:        t0,
		EndAt:          tp(t0.Add(24 * time.Hour)),
		TotalSupply:    total,
		PerWalletLimit: perWallet,
		Price:          price,
		Escrow:         escrow,
	})
	require.NoError(t, err)
	return box, escrow
}

func (h *harness) fund(t *testing.T, lamports uint64) string {
	t.Helper()
	wallet := solanax.NewKeypairAddress()
	if lamports > 0 {
		_, err := h.ledger.Airdrop(context.Background(), wallet, lamports)
		require.NoError(t, err)
	}
	return wallet
}

func (h *harness) balance(t *testing.T, wallet string) uint64 {
	t.Helper()
	b, err := h.ledger.Balance(context.Background(), wallet)
	require.NoError(t, err)
	return b
}

func (h *harness) buy(box *models.Box, buyer string) (*models.PurchaseResult, error) {
	return h.purchases.Purchase(context.Background(), buyer, models.PurchaseRequest{
		BoxID: box.ID, Creator: box.Creator, Buyer: buyer,
	})
}
