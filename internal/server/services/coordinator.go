package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/logging"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/issuances"
	"github.com/dmitrijs2005/ticketbox/internal/server/sale"
	"github.com/dmitrijs2005/ticketbox/internal/solanax"
	"github.com/google/uuid"
)

// Issuer produces the artifacts of one ticket. Each step acts with the box
// address as authority.
type Issuer interface {
	CreateDescription(ctx context.Context, repo issuances.Repository, authority string, iss *models.Issuance) error
	CreateAuthenticity(ctx context.Context, repo issuances.Repository, authority, mint string) (*models.Issuance, error)
	VerifyCollection(ctx context.Context, repo issuances.Repository, authority, collectionMint, mint string) (*models.Issuance, error)
}

var transitions = map[models.PurchaseState][]models.PurchaseState{
	models.StateRequested:     {models.StateAuthorized},
	models.StateAuthorized:    {models.StatePaid},
	models.StatePaid:          {models.StateDescribed},
	models.StateDescribed:     {models.StateAuthenticated},
	models.StateAuthenticated: {models.StateCollectionVerified},
}

// Trace follows one purchase through its states.
type Trace struct {
	State  models.PurchaseState
	logger logging.Logger
}

func NewTrace(logger logging.Logger) *Trace {
	return &Trace{State: models.StateRequested, logger: logger}
}

func (t *Trace) advance(ctx context.Context, next models.PurchaseState) error {
	for _, allowed := range transitions[t.State] {
		if allowed == next {
			t.logger.Debug(ctx, "purchase state", "from", t.State, "to", next)
			t.State = next
			return nil
		}
	}
	return fmt.Errorf("%w: purchase cannot move from %s to %s", common.ErrorInternal, t.State, next)
}

// reject ends the trace. The state it failed in is kept in the log.
func (t *Trace) reject(ctx context.Context, err error) {
	t.logger.Info(ctx, "purchase rejected", "state", t.State, "error", err)
	t.State = models.StateRejected
}

// Coordinator runs the three issuance steps in order. A failed step aborts
// the remaining ones; the caller's transaction discards what earlier steps
// wrote.
type Coordinator struct {
	issuer Issuer
}

func NewCoordinator(issuer Issuer) *Coordinator {
	return &Coordinator{issuer: issuer}
}

// Issue creates ticket number SoldCount+1 of box for owner.
func (c *Coordinator) Issue(ctx context.Context, repo issuances.Repository, box *models.Box, owner string, now time.Time, trace *Trace) (*models.Issuance, error) {
	seq := sale.NextSequence(box)
	iss := &models.Issuance{
		ID:                   uuid.NewString(),
		BoxID:                box.ID,
		BoxAddress:           box.Address,
		Sequence:             seq,
		Name:                 sale.IssuanceName(box.Name, seq),
		Symbol:               common.TicketSymbol,
		URI:                  box.InfoURI,
		Mint:                 solanax.NewKeypairAddress(),
		Owner:                owner,
		CollectionMint:       box.CollectionMint,
		SellerFeeBasisPoints: common.SellerFeeBasisPoints,
		Transferable:         box.Transferable,
		CreatedAt:            now,
	}

	if err := c.issuer.CreateDescription(ctx, repo, box.Address, iss); err != nil {
		return nil, stepFailed("create description", err)
	}
	if err := trace.advance(ctx, models.StateDescribed); err != nil {
		return nil, err
	}

	if _, err := c.issuer.CreateAuthenticity(ctx, repo, box.Address, iss.Mint); err != nil {
		return nil, stepFailed("create authenticity", err)
	}
	if err := trace.advance(ctx, models.StateAuthenticated); err != nil {
		return nil, err
	}

	verified, err := c.issuer.VerifyCollection(ctx, repo, box.Address, box.CollectionMint, iss.Mint)
	if err != nil {
		return nil, stepFailed("verify collection", err)
	}
	if err := trace.advance(ctx, models.StateCollectionVerified); err != nil {
		return nil, err
	}
	return verified, nil
}

func stepFailed(step string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrIssuanceFailed, step, err)
}
