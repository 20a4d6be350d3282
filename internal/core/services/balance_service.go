package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/spread/footspa_backend/internal/apperrors"
	"github.com/spread/footspa_backend/internal/core/domain"
	portsrepo "github.com/spread/footspa_backend/internal/core/ports/repositories"
	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
)

// balanceService derives card ownership and balances by replaying the bill
// history. Nothing is cached: every call reads the current bill set.
type balanceService struct {
	repo portsrepo.LedgerRepository
}

// NewBalanceService creates the balance derivation service.
func NewBalanceService(repo portsrepo.LedgerRepository) portssvc.BalanceSvcFacade {
	return &balanceService{repo: repo}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

func (s *balanceService) ResolveOwner(ctx context.Context, card domain.MoneyNode) (*domain.MoneyNode, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	return resolveOwnerInTx(ctx, s.repo, tx, card)
}

func (s *balanceService) ResolveBalance(ctx context.Context, card domain.MoneyNode) (decimal.Decimal, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	return resolveBalanceInTx(ctx, s.repo, tx, card)
}

// resolveOwnerInTx finds the unique customer that has sent money to the card.
// Invalidated bills still count: soft-invalidating a card's funding history
// must not orphan it. The consumption service reuses this inside its submit
// transaction.
func resolveOwnerInTx(ctx context.Context, repo portsrepo.LedgerRepository, tx portsrepo.Tx, card domain.MoneyNode) (*domain.MoneyNode, error) {
	if card.Type != domain.Card {
		return nil, fmt.Errorf("%w: node %q is not a card", apperrors.ErrValidation, card.Name)
	}

	bills, err := repo.GetAllBills(ctx, tx)
	if err != nil {
		return nil, err
	}
	nodes, err := repo.GetAllMoneyNodes(ctx, tx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.MoneyNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	ownerIDs := map[int64]struct{}{}
	for _, b := range bills {
		if b.ToID != card.ID {
			continue
		}
		if from, ok := byID[b.FromID]; ok && from.Type == domain.Customer {
			ownerIDs[from.ID] = struct{}{}
		}
	}
	if len(ownerIDs) != 1 {
		return nil, fmt.Errorf("%w: card %q has %d crediting customers, want 1", apperrors.ErrInvariant, card.Name, len(ownerIDs))
	}
	for id := range ownerIDs {
		owner := byID[id]
		return &owner, nil
	}
	return nil, apperrors.ErrInvariant
}

// resolveBalanceInTx folds the card's valid bills: owner to card adds,
// card to outside subtracts. Addition commutes, so bill order is irrelevant.
func resolveBalanceInTx(ctx context.Context, repo portsrepo.LedgerRepository, tx portsrepo.Tx, card domain.MoneyNode) (decimal.Decimal, error) {
	owner, err := resolveOwnerInTx(ctx, repo, tx, card)
	if err != nil {
		return decimal.Zero, err
	}
	outside, err := repo.GetUniqueMoneyNodeByType(ctx, tx, domain.Outside)
	if err != nil {
		return decimal.Zero, err
	}

	bills, err := repo.GetAllBills(ctx, tx)
	if err != nil {
		return decimal.Zero, err
	}
	balance := decimal.Zero
	for _, b := range bills {
		if !b.Valid {
			continue
		}
		switch {
		case b.FromID == owner.ID && b.ToID == card.ID:
			balance = balance.Add(b.Money)
		case b.FromID == card.ID && b.ToID == outside.ID:
			balance = balance.Sub(b.Money)
		}
	}
	return balance, nil
}
