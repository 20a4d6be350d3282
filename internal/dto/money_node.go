package dto

import (
	"github.com/spread/footspa_backend/internal/core/domain"
)

// CreatePersonRequest covers customers, employees and employers: a name plus
// optional contact keys.
type CreatePersonRequest struct {
	Name         string   `json:"name" binding:"required"`
	PhoneNumbers []string `json:"phoneNumbers"`
}

type CreateThirdPartyRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateCardRequest struct {
	Name         string   `json:"name" binding:"required"`
	PhoneNumbers []string `json:"phoneNumbers"`
	CardTypeID   int64    `json:"cardTypeId" binding:"required"`
}

type MoneyNodeResponse struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Keys       []string `json:"keys"`
	CardTypeID *int64   `json:"cardTypeId,omitempty"`
	CardValid  *bool    `json:"cardValid,omitempty"`
}

func ToMoneyNodeResponse(n domain.MoneyNode) MoneyNodeResponse {
	return MoneyNodeResponse{
		ID:         n.ID,
		Name:       n.Name,
		Type:       string(n.Type),
		Keys:       n.Keys,
		CardTypeID: n.CardTypeID,
		CardValid:  n.CardValid,
	}
}

func ToMoneyNodeResponses(nodes []domain.MoneyNode) []MoneyNodeResponse {
	out := make([]MoneyNodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, ToMoneyNodeResponse(n))
	}
	return out
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type SetCardValidRequest struct {
	Valid *bool `json:"valid" binding:"required"`
}
