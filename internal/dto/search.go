package dto

import (
	"github.com/shopspring/decimal"

	"github.com/spread/footspa_backend/internal/core/domain"
	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
)

// SearchParams are the shared query-string knobs of the search endpoints.
type SearchParams struct {
	Query    string `form:"q"`
	MinScore int    `form:"minScore,default=60" binding:"gte=0,lte=100"`
	Top      int    `form:"top,default=10" binding:"gte=1,lte=100"`
}

type SearchMoneyNodesParams struct {
	SearchParams
	// Types narrows candidates, passed as a repeated query parameter:
	// ?type=customer&type=employee. Empty means all types.
	Types []string `form:"type" binding:"dive,oneof=public outside third employer employee customer card"`
}

func (p SearchMoneyNodesParams) NodeTypes() []domain.MoneyNodeType {
	types := make([]domain.MoneyNodeType, 0, len(p.Types))
	for _, t := range p.Types {
		types = append(types, domain.MoneyNodeTypeOf(t))
	}
	return types
}

type SearchCardsParams struct {
	SearchParams
	CustomerID int64 `form:"customerId" binding:"required"`
}

type CardBalanceResponse struct {
	Card    MoneyNodeResponse `json:"card"`
	Balance decimal.Decimal   `json:"balance"`
}

func ToCardBalanceResponses(results []portssvc.CardBalance) []CardBalanceResponse {
	out := make([]CardBalanceResponse, 0, len(results))
	for _, r := range results {
		out = append(out, CardBalanceResponse{
			Card:    ToMoneyNodeResponse(r.Card),
			Balance: r.Balance,
		})
	}
	return out
}

type BalanceResponse struct {
	CardID  int64           `json:"cardId"`
	Balance decimal.Decimal `json:"balance"`
}

type OwnerResponse struct {
	CardID int64             `json:"cardId"`
	Owner  MoneyNodeResponse `json:"owner"`
}
