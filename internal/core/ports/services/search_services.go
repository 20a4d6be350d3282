package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/spread/footspa_backend/internal/core/domain"
)

// MoneyNodeQuery holds the knobs of a fuzzy node search.
type MoneyNodeQuery struct {
	MinScore int
	Top      int
	// Types restricts candidates to the given node types; empty means all.
	Types []domain.MoneyNodeType
	// Filter, when set, further restricts candidates.
	Filter func(domain.MoneyNode) bool
}

// CardBalance pairs a card node with its derived balance.
type CardBalance struct {
	Card    domain.MoneyNode
	Balance decimal.Decimal
}

// SearchSvcFacade ranks candidate nodes and services against a free-text
// query across several derived fields (name, contact keys, phonetic
// transliteration, price), merging and deduplicating the per-field rankings.
type SearchSvcFacade interface {
	QueryMoneyNodes(ctx context.Context, query string, q MoneyNodeQuery) ([]domain.MoneyNode, error)

	// QueryCards searches the valid cards funded by the customer. An empty
	// query returns those cards directly with no ranking.
	QueryCards(ctx context.Context, query string, customer domain.MoneyNode, minScore, top int) ([]domain.MoneyNode, error)

	// QueryCardsWithBalance is QueryCards with each card's derived balance
	// attached.
	QueryCardsWithBalance(ctx context.Context, query string, customer domain.MoneyNode, minScore, top int) ([]CardBalance, error)

	QueryMassageServices(ctx context.Context, query string, services []domain.MassageService, minScore, top int) ([]domain.MassageService, error)
}
