package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spread/footspa_backend/internal/apperrors"
	"github.com/spread/footspa_backend/internal/core/domain"
	portsrepo "github.com/spread/footspa_backend/internal/core/ports/repositories"
	"github.com/spread/footspa_backend/internal/models"
)

func toDomainCardType(m models.CardType) domain.CardType {
	return domain.CardType{
		ID:       m.ID,
		Name:     m.Name,
		Price:    m.Price,
		Discount: m.Discount,
		Legacy:   m.Legacy,
		Valid:    m.Valid,
	}
}

const cardTypeColumns = `id, name, price, discount, legacy, valid`

func scanCardType(row pgx.Row) (domain.CardType, error) {
	var m models.CardType
	err := row.Scan(&m.ID, &m.Name, &m.Price, &m.Discount, &m.Legacy, &m.Valid)
	if err != nil {
		return domain.CardType{}, err
	}
	return toDomainCardType(m), nil
}

// GetAllCardTypes returns every card type in insertion order.
func (r *LedgerRepository) GetAllCardTypes(ctx context.Context, tx portsrepo.Tx) ([]domain.CardType, error) {
	q, err := r.q(tx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+cardTypeColumns+` FROM card_type ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query card types: %w", err)
	}
	defer rows.Close()

	cardTypes := []domain.CardType{}
	for rows.Next() {
		ct, err := scanCardType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card type row: %w", err)
		}
		cardTypes = append(cardTypes, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card type rows: %w", err)
	}
	return cardTypes, nil
}

// GetCardType retrieves one card type by id.
func (r *LedgerRepository) GetCardType(ctx context.Context, tx portsrepo.Tx, id int64) (*domain.CardType, error) {
	q, err := r.q(tx)
	if err != nil {
		return nil, err
	}

	ct, err := scanCardType(q.QueryRow(ctx, `SELECT `+cardTypeColumns+` FROM card_type WHERE id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find card type %d: %w", id, err)
	}
	return &ct, nil
}

// SaveCardTypes inserts card types and returns their generated ids in input order.
func (r *LedgerRepository) SaveCardTypes(ctx context.Context, tx portsrepo.Tx, cardTypes []domain.CardType) ([]int64, error) {
	if len(cardTypes) == 0 {
		return []int64{}, nil
	}
	q, err := r.q(tx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO card_type (name, price, discount, legacy, valid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	batch := &pgx.Batch{}
	for _, ct := range cardTypes {
		batch.Queue(query, ct.Name, ct.Price, ct.Discount, ct.Legacy, ct.Valid)
	}

	br := q.SendBatch(ctx, batch)
	ids := make([]int64, 0, len(cardTypes))
	var batchErr error
	for i := range cardTypes {
		var id int64
		if err := br.QueryRow().Scan(&id); err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to insert card type %q: %w", cardTypes[i].Name, err)
			}
			continue
		}
		ids = append(ids, id)
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close card type insert batch: %w", err)
	}
	if batchErr != nil {
		return nil, batchErr
	}
	return ids, nil
}

// CardTypeExists reports whether a card type with the id is persisted.
func (r *LedgerRepository) CardTypeExists(ctx context.Context, tx portsrepo.Tx, id int64) (bool, error) {
	q, err := r.q(tx)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM card_type WHERE id = $1);`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check card type %d existence: %w", id, err)
	}
	return exists, nil
}
