package dto

import (
	"github.com/shopspring/decimal"

	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
)

// NewAccountRequest describes an account that does not exist yet and should
// be staged with the batch (a first-visit customer or a card sold today).
type NewAccountRequest struct {
	Name         string   `json:"name" binding:"required"`
	PhoneNumbers []string `json:"phoneNumbers"`
	// CardTypeID is required when the new account is a card.
	CardTypeID int64 `json:"cardTypeId"`
}

// ConsumptionEntryRequest is one entry of a consumption batch. Exactly one of
// the ID reference and the New* variant must be set for the customer; the
// card follows the same rule for types that take a card.
type ConsumptionEntryRequest struct {
	Type string `json:"type" binding:"required,oneof=purchase deposit use_card third_party"`

	CustomerID  int64              `json:"customerId"`
	NewCustomer *NewAccountRequest `json:"newCustomer"`

	CardID  int64              `json:"cardId"`
	NewCard *NewAccountRequest `json:"newCard"`

	ServiceID int64 `json:"serviceId"`
	ServantID int64 `json:"servantId"`
	ThirdID   int64 `json:"thirdId"`

	Money      *decimal.Decimal `json:"money"`
	MoneyThird *decimal.Decimal `json:"moneyThird"`
	Remark     string           `json:"remark"`
}

// ConsumptionBatchRequest is the payload of both preview and submit.
type ConsumptionBatchRequest struct {
	Entries []ConsumptionEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

type BalanceTraceResponse struct {
	OriginBalance decimal.Decimal   `json:"originBalance"`
	Deposits      []decimal.Decimal `json:"deposits"`
	Uses          []decimal.Decimal `json:"uses"`
	Balance       decimal.Decimal   `json:"balance"`
}

type CardTraceResponse struct {
	Card  MoneyNodeResponse    `json:"card"`
	Trace BalanceTraceResponse `json:"trace"`
}

type CustomerTraceResponse struct {
	Customer MoneyNodeResponse   `json:"customer"`
	Cards    []CardTraceResponse `json:"cards"`
}

func ToCustomerTraceResponses(traces []portssvc.CustomerTrace) []CustomerTraceResponse {
	out := make([]CustomerTraceResponse, 0, len(traces))
	for _, t := range traces {
		resp := CustomerTraceResponse{Customer: ToMoneyNodeResponse(t.Customer)}
		for _, ct := range t.Cards {
			resp.Cards = append(resp.Cards, CardTraceResponse{
				Card: ToMoneyNodeResponse(ct.Card),
				Trace: BalanceTraceResponse{
					OriginBalance: ct.Trace.OriginBalance,
					Deposits:      ct.Trace.Deposits,
					Uses:          ct.Trace.Uses,
					Balance:       ct.Trace.Balance,
				},
			})
		}
		out = append(out, resp)
	}
	return out
}
