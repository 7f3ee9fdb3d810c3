package boxes

import (
	"context"

	"github.com/dmitrijs2005/ticketbox/internal/server/models"
)

// Repository stores boxes keyed by their derived address.
type Repository interface {
	Create(ctx context.Context, box *models.Box) error
	Get(ctx context.Context, address string) (*models.Box, error)
	// GetForUpdate reads the box and holds its write lock until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, address string) (*models.Box, error)
	Update(ctx context.Context, box *models.Box) error
	// IncrementSold advances sold_count by one and returns the new value.
	// It refuses to pass total_supply.
	IncrementSold(ctx context.Context, address string) (int64, error)
}
