package issuances

import (
	"context"

	"github.com/dmitrijs2005/ticketbox/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, iss *models.Issuance) error
	GetByMint(ctx context.Context, mint string) (*models.Issuance, error)
	// Update writes the edition and collection verification state.
	Update(ctx context.Context, iss *models.Issuance) error
	ListByBox(ctx context.Context, boxAddress string) ([]models.Issuance, error)
}
