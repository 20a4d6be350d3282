package repositories

import (
	"context"

	"github.com/spread/footspa_backend/internal/core/domain"
)

// MoneyNodeReader defines read operations for money node data. A nil Tx
// runs the read against the pool outside any transaction.
type MoneyNodeReader interface {
	// GetAllMoneyNodes returns the full node set in storage order.
	GetAllMoneyNodes(ctx context.Context, tx Tx) ([]domain.MoneyNode, error)

	// GetMoneyNode retrieves one node by id, apperrors.ErrNotFound if absent.
	GetMoneyNode(ctx context.Context, tx Tx, id int64) (*domain.MoneyNode, error)

	// GetUniqueMoneyNodeByType retrieves the single node of the given type.
	// It fails with apperrors.ErrInvariant when zero or multiple exist.
	GetUniqueMoneyNodeByType(ctx context.Context, tx Tx, nodeType domain.MoneyNodeType) (*domain.MoneyNode, error)

	// MoneyNodeExists reports whether a node with the id is persisted.
	MoneyNodeExists(ctx context.Context, tx Tx, id int64) (bool, error)
}

// MoneyNodeWriter defines write operations for money node data.
type MoneyNodeWriter interface {
	// SaveMoneyNodes inserts nodes and returns their generated ids in
	// input order. The batch fails atomically.
	SaveMoneyNodes(ctx context.Context, tx Tx, nodes []domain.MoneyNode) ([]int64, error)

	// SetCardValid toggles the soft-invalidation flag of a card node.
	SetCardValid(ctx context.Context, tx Tx, id int64, valid bool) error
}

// MoneyNodeRepository combines node reads and writes.
type MoneyNodeRepository interface {
	MoneyNodeReader
	MoneyNodeWriter
}
