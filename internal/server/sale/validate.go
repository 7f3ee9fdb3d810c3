// Package sale holds the pure rules of a ticket box: which configurations are
// valid, how a partial update merges into a stored box, and whether a box may
// sell one more ticket right now. Nothing here touches storage.
package sale

import (
	"math"
	"time"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
)

// ValidateStart requires the sale to start no earlier than now. Times are
// compared at second resolution, the granularity boxes are configured in.
func ValidateStart(startAt, now time.Time) error {
	if startAt.Unix() < now.Unix() {
		return common.ErrInvalidStartAt
	}
	return nil
}

// ValidateEnd requires a present end to be strictly after the start.
func ValidateEnd(startAt time.Time, endAt *time.Time) error {
	if endAt != nil && !endAt.After(startAt) {
		return common.ErrInvalidEndAt
	}
	return nil
}

// ValidateSupply checks the supply cap against the per-wallet cap: a capped
// box must cap wallets too, strictly below the supply.
func ValidateSupply(totalSupply, perWalletLimit *int64) error {
	if perWalletLimit != nil && *perWalletLimit < 1 {
		return common.ErrInvalidTicketPerWallet
	}
	if totalSupply == nil {
		return nil
	}
	if *totalSupply < 1 {
		return common.ErrInvalidTicketSupply
	}
	if perWalletLimit == nil || *totalSupply <= *perWalletLimit {
		return common.ErrInvalidTicketPerWallet
	}
	return nil
}

// ValidatePrice bounds the price to what the ledger can store.
func ValidatePrice(price uint64) error {
	if price > math.MaxInt64 {
		return common.ErrInvalidTicketPrice
	}
	return nil
}

// ValidateNew checks the creation parameters of a box against now.
func ValidateNew(p models.CreateBoxParams, now time.Time) error {
	if err := ValidateStart(p.StartAt, now); err != nil {
		return err
	}
	if err := ValidateEnd(p.StartAt, p.EndAt); err != nil {
		return err
	}
	if err := ValidateSupply(p.TotalSupply, p.PerWalletLimit); err != nil {
		return err
	}
	return ValidatePrice(p.Price)
}

// ApplyUpdate merges p into a copy of box and validates the merged result.
// The stored box is never modified. A new StartAt must not lie in the past;
// the end and supply rules are always checked on the merged values, so an
// update carrying only EndAt is compared with the stored StartAt.
func ApplyUpdate(box *models.Box, p models.UpdateBoxParams, now time.Time) (*models.Box, error) {
	merged := *box

	if p.Name != nil {
		merged.Name = *p.Name
	}
	if p.InfoURI != nil {
		merged.InfoURI = *p.InfoURI
	}
	if p.StartAt != nil {
		if err := ValidateStart(*p.StartAt, now); err != nil {
			return nil, err
		}
		merged.StartAt = *p.StartAt
	}
	if p.EndAt != nil {
		end := *p.EndAt
		merged.EndAt = &end
	}
	if p.TotalSupply != nil {
		total := *p.TotalSupply
		merged.TotalSupply = &total
	}
	if p.PerWalletLimit != nil {
		limit := *p.PerWalletLimit
		merged.PerWalletLimit = &limit
	}
	if p.Price != nil {
		if err := ValidatePrice(*p.Price); err != nil {
			return nil, err
		}
		merged.Price = *p.Price
	}
	if p.Transferable != nil {
		merged.Transferable = *p.Transferable
	}

	if err := ValidateEnd(merged.StartAt, merged.EndAt); err != nil {
		return nil, err
	}
	if err := ValidateSupply(merged.TotalSupply, merged.PerWalletLimit); err != nil {
		return nil, err
	}
	if merged.TotalSupply != nil && *merged.TotalSupply < merged.SoldCount {
		return nil, common.ErrInvalidTicketSupply
	}

	merged.UpdatedAt = now
	return &merged, nil
}
