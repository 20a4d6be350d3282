package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spread/footspa_backend/internal/core/domain"
	portsrepo "github.com/spread/footspa_backend/internal/core/ports/repositories"
	"github.com/spread/footspa_backend/internal/models"
)

func toModelBill(d domain.Bill) models.Bill {
	return models.Bill{
		ID:        d.ID,
		Date:      d.Date,
		FromID:    d.FromID,
		ToID:      d.ToID,
		Money:     d.Money,
		Valid:     d.Valid,
		Tags:      d.Tags,
		Remark:    d.Remark,
		ServiceID: d.ServiceID,
		ServantID: d.ServantID,
	}
}

func toDomainBill(m models.Bill) domain.Bill {
	return domain.Bill{
		ID:        m.ID,
		Date:      m.Date,
		FromID:    m.FromID,
		ToID:      m.ToID,
		Money:     m.Money,
		Valid:     m.Valid,
		Tags:      m.Tags,
		Remark:    m.Remark,
		ServiceID: m.ServiceID,
		ServantID: m.ServantID,
	}
}

const billColumns = `id, date, money_from, money_to, money, valid, tags, remark, service, servant`

// GetAllBills returns every bill in insertion order.
func (r *LedgerRepository) GetAllBills(ctx context.Context, tx portsrepo.Tx) ([]domain.Bill, error) {
	q, err := r.q(tx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+billColumns+` FROM bills_all ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	bills := []domain.Bill{}
	for rows.Next() {
		var m models.Bill
		err := rows.Scan(&m.ID, &m.Date, &m.FromID, &m.ToID, &m.Money, &m.Valid, &m.Tags, &m.Remark, &m.ServiceID, &m.ServantID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill row: %w", err)
		}
		bills = append(bills, toDomainBill(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bill rows: %w", err)
	}
	return bills, nil
}

// SaveBills inserts bills and returns their generated ids in input order.
// Bills are immutable once inserted; there is no update path.
func (r *LedgerRepository) SaveBills(ctx context.Context, tx portsrepo.Tx, bills []domain.Bill) ([]int64, error) {
	if len(bills) == 0 {
		return []int64{}, nil
	}
	q, err := r.q(tx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO bills_all (date, money_from, money_to, money, valid, tags, remark, service, servant)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;
	`
	batch := &pgx.Batch{}
	for _, bill := range bills {
		m := toModelBill(bill)
		batch.Queue(query, m.Date, m.FromID, m.ToID, m.Money, m.Valid, m.Tags, m.Remark, m.ServiceID, m.ServantID)
	}

	br := q.SendBatch(ctx, batch)
	ids := make([]int64, 0, len(bills))
	var batchErr error
	for i := range bills {
		var id int64
		if err := br.QueryRow().Scan(&id); err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to insert bill %d->%d: %w", bills[i].FromID, bills[i].ToID, err)
			}
			continue
		}
		ids = append(ids, id)
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close bill insert batch: %w", err)
	}
	if batchErr != nil {
		return nil, batchErr
	}
	return ids, nil
}

// BillExists reports whether a bill with the id is persisted.
func (r *LedgerRepository) BillExists(ctx context.Context, tx portsrepo.Tx, id int64) (bool, error) {
	q, err := r.q(tx)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bills_all WHERE id = $1);`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check bill %d existence: %w", id, err)
	}
	return exists, nil
}
