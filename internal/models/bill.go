package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill mirrors the bills_all table. Bills are insert-only.
type Bill struct {
	ID        int64           `db:"id"`
	Date      time.Time       `db:"date"`
	FromID    int64           `db:"money_from"`
	ToID      int64           `db:"money_to"`
	Money     decimal.Decimal `db:"money"`
	Valid     bool            `db:"valid"`
	Tags      []string        `db:"tags"`
	Remark    string          `db:"remark"`
	ServiceID int64           `db:"service"`
	ServantID int64           `db:"servant"`
}
