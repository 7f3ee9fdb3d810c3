// Package issuance records the three artifacts that make a ticket a verified
// collection member: its description (metadata), its authenticity record
// (a master edition that can never be printed) and the collection
// verification flag.
package issuance

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
	"github.com/dmitrijs2005/ticketbox/internal/server/repositories/issuances"
	"github.com/dmitrijs2005/ticketbox/internal/solanax"
)

var (
	ErrAlreadyAuthenticated = errors.New("authenticity record already exists")
	ErrNotAuthenticated     = errors.New("authenticity record missing")
	ErrAlreadyVerified      = errors.New("collection already verified")
)

// LedgerIssuer keeps issuance records in the issuances repository of the
// purchase transaction, so a failed purchase leaves none of them behind.
type LedgerIssuer struct{}

func NewLedgerIssuer() *LedgerIssuer {
	return &LedgerIssuer{}
}

// CreateDescription stores the metadata record of iss.Mint. The box address
// becomes the update authority and the collection starts unverified.
func (i *LedgerIssuer) CreateDescription(ctx context.Context, repo issuances.Repository, authority string, iss *models.Issuance) error {
	meta, err := solanax.MetadataAddress(iss.Mint)
	if err != nil {
		return err
	}
	iss.MetadataAddress = meta
	iss.UpdateAuthority = authority
	iss.CollectionVerified = false
	iss.MaxSupply = nil
	iss.EditionAddress = ""
	return repo.Create(ctx, iss)
}

// CreateAuthenticity adds the master edition with a max supply of zero.
func (i *LedgerIssuer) CreateAuthenticity(ctx context.Context, repo issuances.Repository, authority, mint string) (*models.Issuance, error) {
	iss, err := authorized(ctx, repo, authority, mint)
	if err != nil {
		return nil, err
	}
	if iss.Authenticated() {
		return nil, ErrAlreadyAuthenticated
	}
	edition, err := solanax.MasterEditionAddress(mint)
	if err != nil {
		return nil, err
	}
	var zero uint64
	iss.EditionAddress = edition
	iss.MaxSupply = &zero
	if err := repo.Update(ctx, iss); err != nil {
		return nil, err
	}
	return iss, nil
}

// VerifyCollection marks the ticket as a verified member of collectionMint.
// Only an authenticated record whose update authority is the box qualifies.
func (i *LedgerIssuer) VerifyCollection(ctx context.Context, repo issuances.Repository, authority, collectionMint, mint string) (*models.Issuance, error) {
	iss, err := authorized(ctx, repo, authority, mint)
	if err != nil {
		return nil, err
	}
	if iss.CollectionMint != collectionMint {
		return nil, common.ErrMintMismatch
	}
	if !iss.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if iss.CollectionVerified {
		return nil, ErrAlreadyVerified
	}
	iss.CollectionVerified = true
	if err := repo.Update(ctx, iss); err != nil {
		return nil, err
	}
	return iss, nil
}

func authorized(ctx context.Context, repo issuances.Repository, authority, mint string) (*models.Issuance, error) {
	iss, err := repo.GetByMint(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("issuance %s: %w", mint, err)
	}
	if iss.UpdateAuthority != authority {
		return nil, common.ErrPublicKeyMismatch
	}
	return iss, nil
}
