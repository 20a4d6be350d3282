package models

// MoneyNode mirrors the money_node table.
type MoneyNode struct {
	ID         int64    `db:"id"`
	Name       string   `db:"name"`
	Type       string   `db:"type"`
	Keys       []string `db:"keys"`
	CardTypeID *int64   `db:"card_type_id"`
	CardValid  *bool    `db:"card_valid"`
}
