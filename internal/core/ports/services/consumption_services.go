package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/spread/footspa_backend/internal/core/domain"
)

// BalanceTrace records how a batch of consumption entries moves one card's
// balance: the balance before the batch, the deposit and use amounts applied
// in batch order, and the resulting balance.
type BalanceTrace struct {
	OriginBalance decimal.Decimal
	Deposits      []decimal.Decimal
	Uses          []decimal.Decimal
	Balance       decimal.Decimal
}

// CardTrace pairs a card with its balance trace.
type CardTrace struct {
	Card  domain.MoneyNode
	Trace BalanceTrace
}

// CustomerTrace groups the card traces belonging to one customer.
type CustomerTrace struct {
	Customer domain.MoneyNode
	Cards    []CardTrace
}

// ConsumptionSvcFacade assembles multi-step consumption entries, stages
// brand-new accounts without persisting them, previews resulting balances,
// and commits the whole batch atomically.
type ConsumptionSvcFacade interface {
	// Stage captures a new account for the entry. Nodes already persisted
	// or already staged are skipped.
	Stage(ctx context.Context, c *domain.Consumption, nodes ...domain.MoneyNode) error

	// MergeStaged appends staged nodes of the given type to target (for
	// picker candidate lists). For cards, only the given customer's staged
	// cards are merged.
	MergeStaged(target []domain.MoneyNode, nodeType domain.MoneyNodeType, customer *domain.MoneyNode) []domain.MoneyNode

	// GetPreviewInfo computes, without committing, the balance trace of
	// every (customer, card) pair touched by deposit and use-card entries
	// in the batch. Pairing rule violations fail with
	// apperrors.ErrValidation; owner mismatches with apperrors.ErrInvariant.
	GetPreviewInfo(ctx context.Context, consumptions []*domain.Consumption) ([]CustomerTrace, error)

	// Submit flushes staged accounts and inserts the synthesized bills for
	// all ready entries in one atomic transaction, then clears the staged
	// cache. Either everything persists or nothing does.
	Submit(ctx context.Context, consumptions []*domain.Consumption) error

	// Clear drops all staged accounts.
	Clear(ctx context.Context) error
}
