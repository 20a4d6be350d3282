package domain

import (
	"github.com/shopspring/decimal"
)

// CardType is a priced stored-value card template. Many card nodes may
// reference one card type.
type CardType struct {
	ID   int64
	Name string
	// Price is the minimum top-up amount for cards of this type.
	Price    decimal.Decimal
	Discount string
	// Legacy marks card types from old pricing schemes that can no longer
	// be sold but still have live cards attached.
	Legacy bool
	Valid  bool
}
