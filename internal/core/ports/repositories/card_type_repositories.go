package repositories

import (
	"context"

	"github.com/spread/footspa_backend/internal/core/domain"
)

// CardTypeRepository defines operations for card type data.
type CardTypeRepository interface {
	GetAllCardTypes(ctx context.Context, tx Tx) ([]domain.CardType, error)

	// GetCardType retrieves one card type by id, apperrors.ErrNotFound if absent.
	GetCardType(ctx context.Context, tx Tx, id int64) (*domain.CardType, error)

	SaveCardTypes(ctx context.Context, tx Tx, cardTypes []domain.CardType) ([]int64, error)

	CardTypeExists(ctx context.Context, tx Tx, id int64) (bool, error)
}
