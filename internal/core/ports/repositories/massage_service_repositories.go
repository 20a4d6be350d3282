package repositories

import (
	"context"

	"github.com/spread/footspa_backend/internal/core/domain"
)

// MassageServiceRepository defines operations for massage service data.
type MassageServiceRepository interface {
	GetAllMassageServices(ctx context.Context, tx Tx) ([]domain.MassageService, error)

	SaveMassageServices(ctx context.Context, tx Tx, services []domain.MassageService) ([]int64, error)

	MassageServiceExists(ctx context.Context, tx Tx, id int64) (bool, error)
}
