package sale

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
)

// Authorize decides whether box may sell one more ticket to a buyer who
// already holds walletCount of its tickets. It must run against the locked,
// current box state.
func Authorize(box *models.Box, walletCount int64, now time.Time) error {
	if now.Before(box.StartAt) {
		return common.ErrEventNotStarted
	}
	if box.EndAt != nil && !now.Before(*box.EndAt) {
		return common.ErrEventEnded
	}
	if box.TotalSupply != nil && box.SoldCount >= *box.TotalSupply {
		return common.ErrSoldOut
	}
	if box.PerWalletLimit != nil && walletCount >= *box.PerWalletLimit {
		return common.ErrWalletLimitReached
	}
	return nil
}

// NextSequence is the sequence number the next issuance of box receives.
func NextSequence(box *models.Box) int64 {
	return box.SoldCount + 1
}

// IssuanceName is the display name of ticket number seq: the box name
// directly followed by the number.
func IssuanceName(boxName string, seq int64) string {
	return boxName + strconv.FormatInt(seq, 10)
}
