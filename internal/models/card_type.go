package models

import "github.com/shopspring/decimal"

// CardType mirrors the card_type table.
type CardType struct {
	ID       int64           `db:"id"`
	Name     string          `db:"name"`
	Price    decimal.Decimal `db:"price"`
	Discount string          `db:"discount"`
	Legacy   bool            `db:"legacy"`
	Valid    bool            `db:"valid"`
}
