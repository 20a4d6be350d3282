package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MassageService is a priced service offered by the shop.
type MassageService struct {
	ID         int64
	Name       string
	Desc       string
	Price      decimal.Decimal
	CreateTime time.Time
}

// Equal is the identity comparison used when deduplicating search results.
// Price is intentionally excluded so that repricing a service does not break
// identity checks against references captured before the edit.
func (s MassageService) Equal(other MassageService) bool {
	return s.ID == other.ID &&
		s.Name == other.Name &&
		s.Desc == other.Desc &&
		s.CreateTime.Equal(other.CreateTime)
}
