// Package models defines server-side data models persisted in the database.
package models

import "time"

// Box is one configured ticket sale. Optional fields are pointers: nil means
// unbounded (EndAt, TotalSupply, PerWalletLimit) or native payment (Currency).
type Box struct {
	ID             string
	Creator        string
	Address        string
	Name           string
	InfoURI        string
	StartAt        time.Time
	EndAt          *time.Time
	TotalSupply    *int64
	SoldCount      int64
	PerWalletLimit *int64
	Price          uint64
	Currency       *string
	Transferable   bool
	Escrow         string
	CollectionMint string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsNative reports whether the box is paid in lamports.
func (b *Box) IsNative() bool {
	return b.Currency == nil
}

// Remaining returns the unsold supply, or nil when supply is unbounded.
func (b *Box) Remaining() *int64 {
	if b.TotalSupply == nil {
		return nil
	}
	r := *b.TotalSupply - b.SoldCount
	return &r
}

// CreateBoxParams are the creator-supplied inputs of a new box.
type CreateBoxParams struct {
	ID             string
	Name           string
	InfoURI        string
	StartAt        time.Time
	EndAt          *time.Time
	TotalSupply    *int64
	PerWalletLimit *int64
	Price          uint64
	Transferable   bool
	// Escrow is the wallet receiving lamports, or the escrow token account
	// when CurrencyMint is set.
	Escrow       string
	CurrencyMint *string
}

// UpdateBoxParams carries optional overwrites; nil fields are left untouched.
type UpdateBoxParams struct {
	Name           *string
	InfoURI        *string
	StartAt        *time.Time
	EndAt          *time.Time
	TotalSupply    *int64
	PerWalletLimit *int64
	Price          *uint64
	Transferable   *bool
}

// IsEmpty reports whether the update changes nothing.
func (p UpdateBoxParams) IsEmpty() bool {
	return p.Name == nil && p.InfoURI == nil && p.StartAt == nil && p.EndAt == nil &&
		p.TotalSupply == nil && p.PerWalletLimit == nil && p.Price == nil && p.Transferable == nil
}
