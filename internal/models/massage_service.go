package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MassageService mirrors the massage_service table.
type MassageService struct {
	ID         int64           `db:"id"`
	Name       string          `db:"name"`
	Desc       string          `db:"desc"`
	Price      decimal.Decimal `db:"price"`
	CreateTime time.Time       `db:"create_time"`
}
