package dto

import (
	"github.com/shopspring/decimal"

	"github.com/spread/footspa_backend/internal/core/domain"
)

type CreateCardTypeRequest struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price" binding:"dgt0"`
	// Discount is a free-form descriptor ("0.8", "buy 10 get 1 free").
	Discount string `json:"discount"`
	Legacy   bool   `json:"legacy"`
}

func (r CreateCardTypeRequest) ToDomain() domain.CardType {
	return domain.CardType{
		Name:     r.Name,
		Price:    r.Price,
		Discount: r.Discount,
		Legacy:   r.Legacy,
		Valid:    true,
	}
}

type CardTypeResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Discount string          `json:"discount"`
	Legacy   bool            `json:"legacy"`
	Valid    bool            `json:"valid"`
}

func ToCardTypeResponse(ct domain.CardType) CardTypeResponse {
	return CardTypeResponse{
		ID:       ct.ID,
		Name:     ct.Name,
		Price:    ct.Price,
		Discount: ct.Discount,
		Legacy:   ct.Legacy,
		Valid:    ct.Valid,
	}
}

func ToCardTypeResponses(cardTypes []domain.CardType) []CardTypeResponse {
	out := make([]CardTypeResponse, 0, len(cardTypes))
	for _, ct := range cardTypes {
		out = append(out, ToCardTypeResponse(ct))
	}
	return out
}
