package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/logging"
	"github.com/dmitrijs2005/ticketbox/internal/server/auth"
	"github.com/dmitrijs2005/ticketbox/internal/server/metrics"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ticketbox/internal/server/sale"
	"github.com/dmitrijs2005/ticketbox/internal/solanax"
)

// PurchaseService sells tickets. A purchase authorizes, settles, issues and
// counts inside one transaction, so it either completes entirely or leaves
// no trace.
type PurchaseService struct {
	store       repomanager.Store
	addresser   *solanax.Addresser
	settler     Settler
	coordinator *Coordinator
	metrics     *metrics.Metrics
	logger      logging.Logger
	now         func() time.Time
}

func NewPurchaseService(store repomanager.Store, addresser *solanax.Addresser, issuer Issuer, m *metrics.Metrics, logger logging.Logger) *PurchaseService {
	return &PurchaseService{
		store:       store,
		addresser:   addresser,
		coordinator: NewCoordinator(issuer),
		metrics:     m,
		logger:      logger.With("module", "purchase_service"),
		now:         time.Now,
	}
}

// Purchase buys one ticket of box (req.BoxID, req.Creator) for req.Buyer,
// which defaults to caller. The caller must be the buyer, or the transfer
// authority when a delegate pays from the buyer's token account.
func (s *PurchaseService) Purchase(ctx context.Context, caller string, req models.PurchaseRequest) (*models.PurchaseResult, error) {
	started := time.Now()
	if req.Buyer == "" {
		req.Buyer = caller
	}
	trace := NewTrace(s.logger.With("box", req.BoxID, "buyer", req.Buyer))

	result, currency, err := s.purchase(ctx, caller, req, trace)
	if err != nil {
		trace.reject(ctx, err)
		s.metrics.ObservePurchase(common.KindOf(err).Error(), time.Since(started))
		return nil, err
	}

	s.metrics.ObservePurchase("ok", time.Since(started))
	s.metrics.ObserveIssued(currency, result.Paid)
	s.logger.Info(ctx, "ticket sold", "box", req.BoxID, "buyer", req.Buyer,
		"sequence", result.Issuance.Sequence, "mint", result.Issuance.Mint, "sold", result.SoldCount)
	return result, nil
}

func (s *PurchaseService) purchase(ctx context.Context, caller string, req models.PurchaseRequest, trace *Trace) (*models.PurchaseResult, string, error) {
	if err := auth.VerifySigner(caller, signerOf(req)); err != nil {
		return nil, "", err
	}
	if err := requireAddress(req.Buyer); err != nil {
		return nil, "", err
	}
	address, err := boxAddress(s.addresser, req.BoxID, req.Creator)
	if err != nil {
		return nil, "", err
	}

	var (
		result   *models.PurchaseResult
		currency string
	)
	err = s.store.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		box, err := r.Boxes().GetForUpdate(ctx, address)
		if err != nil {
			return err
		}
		held, err := r.WalletCounts().Get(ctx, address, req.Buyer)
		if err != nil {
			return err
		}

		now := s.now()
		if err := sale.Authorize(box, held, now); err != nil {
			return err
		}
		if err := trace.advance(ctx, models.StateAuthorized); err != nil {
			return err
		}

		if err := s.settler.Settle(ctx, r.Ledger(), box, req); err != nil {
			return err
		}
		if err := trace.advance(ctx, models.StatePaid); err != nil {
			return err
		}

		iss, err := s.coordinator.Issue(ctx, r.Issuances(), box, req.Buyer, now, trace)
		if err != nil {
			return err
		}

		sold, err := r.Boxes().IncrementSold(ctx, address)
		if err != nil {
			return err
		}
		if _, err := r.WalletCounts().Increment(ctx, address, req.Buyer); err != nil {
			return err
		}

		currency = currencyLabel(box)
		result = &models.PurchaseResult{Issuance: iss, SoldCount: sold, Paid: box.Price, State: trace.State}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return result, currency, nil
}

// ListIssuances returns the tickets of box (boxID, creator) by sequence.
func (s *PurchaseService) ListIssuances(ctx context.Context, creator, boxID string) ([]models.Issuance, error) {
	address, err := boxAddress(s.addresser, boxID, creator)
	if err != nil {
		return nil, err
	}
	var out []models.Issuance
	err = s.store.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if _, err := r.Boxes().Get(ctx, address); err != nil {
			return err
		}
		out, err = r.Issuances().ListByBox(ctx, address)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// signerOf returns the wallet that must sign req.
func signerOf(req models.PurchaseRequest) string {
	if req.TransferAuthority != "" {
		return req.TransferAuthority
	}
	return req.Buyer
}

func currencyLabel(box *models.Box) string {
	if box.IsNative() {
		return "native"
	}
	return *box.Currency
}
