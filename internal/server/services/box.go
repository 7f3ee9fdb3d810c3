package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/logging"
	"github.com/dmitrijs2005/ticketbox/internal/server/auth"
	sc "github.com/dmitrijs2005/ticketbox/internal/server/config"
	"github.com/dmitrijs2005/ticketbox/internal/server/metrics"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/ledger"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ticketbox/internal/server/sale"
	"github.com/dmitrijs2005/ticketbox/internal/solanax"
	"github.com/google/uuid"
)

// BoxService creates, updates and reads ticket box configurations.
type BoxService struct {
	store     repomanager.Store
	addresser *solanax.Addresser
	config    *sc.Config
	metrics   *metrics.Metrics
	logger    logging.Logger
	now       func() time.Time
}

func NewBoxService(store repomanager.Store, addresser *solanax.Addresser, cfg *sc.Config, m *metrics.Metrics, logger logging.Logger) *BoxService {
	return &BoxService{
		store:     store,
		addresser: addresser,
		config:    cfg,
		metrics:   m,
		logger:    logger.With("module", "box_service"),
		now:       time.Now,
	}
}

// NewBoxID returns a random id that fits a PDA seed.
func NewBoxID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Create stores a new box owned by caller. The box address is derived from
// (id, caller), so the same creator cannot reuse an id.
func (s *BoxService) Create(ctx context.Context, caller string, p models.CreateBoxParams) (*models.Box, error) {
	if err := requireAddress(caller); err != nil {
		return nil, err
	}
	if err := requireAddress(p.Escrow); err != nil {
		return nil, err
	}
	if p.CurrencyMint != nil {
		if err := requireAddress(*p.CurrencyMint); err != nil {
			return nil, err
		}
	}
	if p.ID == "" {
		p.ID = NewBoxID()
	}
	if len(p.ID) > solanax.MaxSeedLength {
		return nil, common.ErrInvalidBoxID
	}

	now := s.now()
	if err := sale.ValidateNew(p, now); err != nil {
		return nil, err
	}

	address, err := s.addresser.BoxAddress(p.ID, caller)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidBoxID, err)
	}

	box := &models.Box{
		ID:             p.ID,
		Creator:        caller,
		Address:        address,
		Name:           p.Name,
		InfoURI:        p.InfoURI,
		StartAt:        p.StartAt,
		EndAt:          p.EndAt,
		TotalSupply:    p.TotalSupply,
		PerWalletLimit: p.PerWalletLimit,
		Price:          p.Price,
		Currency:       p.CurrencyMint,
		Transferable:   p.Transferable,
		Escrow:         p.Escrow,
		CollectionMint: solanax.NewKeypairAddress(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.store.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if box.Currency != nil {
			if err := checkTokenCurrency(ctx, r.Ledger(), *box.Currency, box.Escrow); err != nil {
				return err
			}
		}
		return r.Boxes().Create(ctx, box)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.BoxCreated()
	s.logger.Info(ctx, "box created", "box", box.ID, "address", box.Address, "creator", box.Creator)
	return box, nil
}

// Update applies the present fields of p to the box (boxID, creator).
// Only the creator may update; invariants are checked on the merged box
// while its row is locked.
func (s *BoxService) Update(ctx context.Context, caller, creator, boxID string, p models.UpdateBoxParams) (*models.Box, error) {
	if err := auth.VerifySigner(caller, creator); err != nil {
		return nil, err
	}
	address, err := boxAddress(s.addresser, boxID, creator)
	if err != nil {
		return nil, err
	}

	var updated *models.Box
	err = s.store.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		box, err := r.Boxes().GetForUpdate(ctx, address)
		if err != nil {
			return err
		}
		if err := auth.VerifySigner(caller, box.Creator); err != nil {
			return err
		}
		if p.IsEmpty() {
			updated = box
			return nil
		}
		merged, err := sale.ApplyUpdate(box, p, s.now())
		if err != nil {
			return err
		}
		if err := r.Boxes().Update(ctx, merged); err != nil {
			return err
		}
		updated = merged
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.BoxUpdated()
	s.logger.Info(ctx, "box updated", "box", boxID, "address", address)
	return updated, nil
}

// Get returns the box (boxID, creator).
func (s *BoxService) Get(ctx context.Context, creator, boxID string) (*models.Box, error) {
	address, err := boxAddress(s.addresser, boxID, creator)
	if err != nil {
		return nil, err
	}
	var box *models.Box
	err = s.store.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		box, err = r.Boxes().Get(ctx, address)
		return err
	})
	if err != nil {
		return nil, err
	}
	return box, nil
}

// boxAddress derives the storage key of box (boxID, creator).
func boxAddress(a *solanax.Addresser, boxID, creator string) (string, error) {
	if err := requireAddress(creator); err != nil {
		return "", err
	}
	address, err := a.BoxAddress(boxID, creator)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidBoxID, err)
	}
	return address, nil
}

func requireAddress(s string) error {
	if err := solanax.ValidateAddress(s); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidAddress, err)
	}
	return nil
}

// checkTokenCurrency verifies that mint is an initialized token mint and
// escrow an initialized token account of that mint.
func checkTokenCurrency(ctx context.Context, l ledger.Repository, mint, escrow string) error {
	m, err := l.GetMint(ctx, mint)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUninitialized
		}
		return err
	}
	if m.Owner != solanax.TokenProgramID {
		return common.ErrInvalidTokenAccountOwner
	}
	if !m.Initialized {
		return common.ErrUninitialized
	}

	acc, err := l.GetTokenAccount(ctx, escrow)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUninitialized
		}
		return err
	}
	if acc.Owner != solanax.TokenProgramID {
		return common.ErrInvalidTokenAccountOwner
	}
	if !acc.Initialized {
		return common.ErrUninitialized
	}
	if acc.Mint != mint {
		return common.ErrMintMismatch
	}
	return nil
}
