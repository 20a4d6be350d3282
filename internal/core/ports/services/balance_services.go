package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/spread/footspa_backend/internal/core/domain"
)

// BalanceSvcFacade derives card ownership and balances by replaying bills.
type BalanceSvcFacade interface {
	// ResolveOwner returns the unique customer that has funded the card.
	// Zero or multiple owners fail with apperrors.ErrInvariant.
	ResolveOwner(ctx context.Context, card domain.MoneyNode) (*domain.MoneyNode, error)

	// ResolveBalance folds all valid bills touching the card: owner→card
	// deposits add, card→outside uses subtract. The fold is commutative,
	// so the result does not depend on bill order.
	ResolveBalance(ctx context.Context, card domain.MoneyNode) (decimal.Decimal, error)
}
