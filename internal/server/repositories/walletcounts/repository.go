package walletcounts

import "context"

// Repository counts tickets bought per (box, wallet).
type Repository interface {
	// Get returns 0 for a wallet that never bought from the box.
	Get(ctx context.Context, boxAddress, wallet string) (int64, error)
	Increment(ctx context.Context, boxAddress, wallet string) (int64, error)
}
