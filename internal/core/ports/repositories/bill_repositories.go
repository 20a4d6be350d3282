package repositories

import (
	"context"

	"github.com/spread/footspa_backend/internal/core/domain"
)

// BillRepository defines operations for bill data. Bills are insert-only;
// there is no update or delete.
type BillRepository interface {
	// GetAllBills returns every bill in storage order.
	GetAllBills(ctx context.Context, tx Tx) ([]domain.Bill, error)

	// SaveBills inserts bills and returns their generated ids in input
	// order. The batch fails atomically.
	SaveBills(ctx context.Context, tx Tx, bills []domain.Bill) ([]int64, error)

	// BillExists reports whether a bill with the id is persisted.
	BillExists(ctx context.Context, tx Tx, id int64) (bool, error)
}
