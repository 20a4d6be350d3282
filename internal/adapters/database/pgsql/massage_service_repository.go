package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spread/footspa_backend/internal/core/domain"
	portsrepo "github.com/spread/footspa_backend/internal/core/ports/repositories"
	"github.com/spread/footspa_backend/internal/models"
)

func toDomainMassageService(m models.MassageService) domain.MassageService {
	return domain.MassageService{
		ID:         m.ID,
		Name:       m.Name,
		Desc:       m.Desc,
		Price:      m.Price,
		CreateTime: m.CreateTime,
	}
}

// GetAllMassageServices returns every massage service in insertion order.
func (r *LedgerRepository) GetAllMassageServices(ctx context.Context, tx portsrepo.Tx) ([]domain.MassageService, error) {
	q, err := r.q(tx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT id, name, "desc", price, create_time FROM massage_service ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query massage services: %w", err)
	}
	defer rows.Close()

	services := []domain.MassageService{}
	for rows.Next() {
		var m models.MassageService
		if err := rows.Scan(&m.ID, &m.Name, &m.Desc, &m.Price, &m.CreateTime); err != nil {
			return nil, fmt.Errorf("failed to scan massage service row: %w", err)
		}
		services = append(services, toDomainMassageService(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating massage service rows: %w", err)
	}
	return services, nil
}

// SaveMassageServices inserts services and returns their generated ids in input order.
func (r *LedgerRepository) SaveMassageServices(ctx context.Context, tx portsrepo.Tx, services []domain.MassageService) ([]int64, error) {
	if len(services) == 0 {
		return []int64{}, nil
	}
	q, err := r.q(tx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO massage_service (name, "desc", price, create_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	batch := &pgx.Batch{}
	for _, s := range services {
		batch.Queue(query, s.Name, s.Desc, s.Price, s.CreateTime)
	}

	br := q.SendBatch(ctx, batch)
	ids := make([]int64, 0, len(services))
	var batchErr error
	for i := range services {
		var id int64
		if err := br.QueryRow().Scan(&id); err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to insert massage service %q: %w", services[i].Name, err)
			}
			continue
		}
		ids = append(ids, id)
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close massage service insert batch: %w", err)
	}
	if batchErr != nil {
		return nil, batchErr
	}
	return ids, nil
}

// MassageServiceExists reports whether a service with the id is persisted.
func (r *LedgerRepository) MassageServiceExists(ctx context.Context, tx portsrepo.Tx, id int64) (bool, error) {
	q, err := r.q(tx)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM massage_service WHERE id = $1);`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check massage service %d existence: %w", id, err)
	}
	return exists, nil
}
