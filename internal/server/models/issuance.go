package models

import "time"

// Issuance is the ticket produced by one successful purchase.
type Issuance struct {
	ID                   string
	BoxID                string
	BoxAddress           string
	Sequence             int64
	Name                 string
	Symbol               string
	URI                  string
	Mint                 string
	MetadataAddress      string
	EditionAddress       string
	UpdateAuthority      string
	Owner                string
	CollectionMint       string
	CollectionVerified   bool
	SellerFeeBasisPoints uint16
	// MaxSupply is the number of prints the master edition allows; nil
	// until the authenticity record exists, 0 afterwards.
	MaxSupply    *uint64
	Transferable bool
	CreatedAt    time.Time
}

// Authenticated reports whether the master edition record exists.
func (i *Issuance) Authenticated() bool {
	return i.MaxSupply != nil
}
