package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spread/footspa_backend/internal/core/domain"
)

type CreateBillRequest struct {
	FromID    int64           `json:"fromId" binding:"required"`
	ToID      int64           `json:"toId" binding:"required"`
	Money     decimal.Decimal `json:"money" binding:"required"`
	Tags      []string        `json:"tags"`
	Remark    string          `json:"remark"`
	ServiceID int64           `json:"serviceId"`
	ServantID int64           `json:"servantId"`
}

func (r CreateBillRequest) ToDomain() (domain.Bill, error) {
	return domain.NewBill(r.FromID, r.ToID, r.Money, r.Tags, r.Remark, r.ServiceID, r.ServantID)
}

type BillResponse struct {
	ID        int64           `json:"id"`
	Date      time.Time       `json:"date"`
	FromID    int64           `json:"fromId"`
	ToID      int64           `json:"toId"`
	Money     decimal.Decimal `json:"money"`
	Valid     bool            `json:"valid"`
	Tags      []string        `json:"tags"`
	Remark    string          `json:"remark"`
	ServiceID int64           `json:"serviceId,omitempty"`
	ServantID int64           `json:"servantId,omitempty"`
}

func ToBillResponse(b domain.Bill) BillResponse {
	return BillResponse{
		ID:        b.ID,
		Date:      b.Date,
		FromID:    b.FromID,
		ToID:      b.ToID,
		Money:     b.Money,
		Valid:     b.Valid,
		Tags:      b.Tags,
		Remark:    b.Remark,
		ServiceID: b.ServiceID,
		ServantID: b.ServantID,
	}
}

func ToBillResponses(bills []domain.Bill) []BillResponse {
	out := make([]BillResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, ToBillResponse(b))
	}
	return out
}
