package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spread/footspa_backend/internal/core/domain"
)

type CreateMassageServiceRequest struct {
	Name  string          `json:"name" binding:"required"`
	Desc  string          `json:"desc"`
	Price decimal.Decimal `json:"price" binding:"dgt0"`
}

func (r CreateMassageServiceRequest) ToDomain() domain.MassageService {
	return domain.MassageService{
		Name:       r.Name,
		Desc:       r.Desc,
		Price:      r.Price,
		CreateTime: time.Now().UTC(),
	}
}

type MassageServiceResponse struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Desc       string          `json:"desc"`
	Price      decimal.Decimal `json:"price"`
	CreateTime time.Time       `json:"createTime"`
}

func ToMassageServiceResponse(m domain.MassageService) MassageServiceResponse {
	return MassageServiceResponse{
		ID:         m.ID,
		Name:       m.Name,
		Desc:       m.Desc,
		Price:      m.Price,
		CreateTime: m.CreateTime,
	}
}

func ToMassageServiceResponses(services []domain.MassageService) []MassageServiceResponse {
	out := make([]MassageServiceResponse, 0, len(services))
	for _, m := range services {
		out = append(out, ToMassageServiceResponse(m))
	}
	return out
}
