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

func toModelMoneyNode(d domain.MoneyNode) models.MoneyNode {
	return models.MoneyNode{
		ID:         d.ID,
		Name:       d.Name,
		Type:       string(d.Type),
		Keys:       d.Keys,
		CardTypeID: d.CardTypeID,
		CardValid:  d.CardValid,
	}
}

func toDomainMoneyNode(m models.MoneyNode) domain.MoneyNode {
	return domain.MoneyNode{
		ID:         m.ID,
		Name:       m.Name,
		Type:       domain.MoneyNodeTypeOf(m.Type),
		Keys:       m.Keys,
		CardTypeID: m.CardTypeID,
		CardValid:  m.CardValid,
	}
}

const moneyNodeColumns = `id, name, type, keys, card_type_id, card_valid`

func scanMoneyNode(row pgx.Row) (domain.MoneyNode, error) {
	var m models.MoneyNode
	err := row.Scan(&m.ID, &m.Name, &m.Type, &m.Keys, &m.CardTypeID, &m.CardValid)
	if err != nil {
		return domain.MoneyNode{}, err
	}
	return toDomainMoneyNode(m), nil
}

// GetAllMoneyNodes returns every money node in insertion order.
func (r *LedgerRepository) GetAllMoneyNodes(ctx context.Context, tx portsrepo.Tx) ([]domain.MoneyNode, error) {
	q, err := r.q(tx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+moneyNodeColumns+` FROM money_node ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query money nodes: %w", err)
	}
	defer rows.Close()

	nodes := []domain.MoneyNode{}
	for rows.Next() {
		node, err := scanMoneyNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan money node row: %w", err)
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating money node rows: %w", err)
	}
	return nodes, nil
}

// GetMoneyNode retrieves one node by id.
func (r *LedgerRepository) GetMoneyNode(ctx context.Context, tx portsrepo.Tx, id int64) (*domain.MoneyNode, error) {
	q, err := r.q(tx)
	if err != nil {
		return nil, err
	}

	node, err := scanMoneyNode(q.QueryRow(ctx, `SELECT `+moneyNodeColumns+` FROM money_node WHERE id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find money node %d: %w", id, err)
	}
	return &node, nil
}

// GetUniqueMoneyNodeByType retrieves the single node of the given type.
// Zero or multiple matches violate the ledger invariant.
func (r *LedgerRepository) GetUniqueMoneyNodeByType(ctx context.Context, tx portsrepo.Tx, nodeType domain.MoneyNodeType) (*domain.MoneyNode, error) {
	q, err := r.q(tx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+moneyNodeColumns+` FROM money_node WHERE type = $1;`, string(nodeType))
	if err != nil {
		return nil, fmt.Errorf("failed to query money nodes of type %s: %w", nodeType, err)
	}
	defer rows.Close()

	matches := []domain.MoneyNode{}
	for rows.Next() {
		node, err := scanMoneyNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan money node row: %w", err)
		}
		matches = append(matches, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating money node rows: %w", err)
	}

	if len(matches) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one %s node, found %d", apperrors.ErrInvariant, nodeType, len(matches))
	}
	return &matches[0], nil
}

// MoneyNodeExists reports whether a node with the id is persisted.
func (r *LedgerRepository) MoneyNodeExists(ctx context.Context, tx portsrepo.Tx, id int64) (bool, error) {
	q, err := r.q(tx)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM money_node WHERE id = $1);`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check money node %d existence: %w", id, err)
	}
	return exists, nil
}

// SaveMoneyNodes inserts nodes and returns their generated ids in input order.
func (r *LedgerRepository) SaveMoneyNodes(ctx context.Context, tx portsrepo.Tx, nodes []domain.MoneyNode) ([]int64, error) {
	if len(nodes) == 0 {
		return []int64{}, nil
	}
	q, err := r.q(tx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO money_node (name, type, keys, card_type_id, card_valid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	batch := &pgx.Batch{}
	for _, node := range nodes {
		m := toModelMoneyNode(node)
		batch.Queue(query, m.Name, m.Type, m.Keys, m.CardTypeID, m.CardValid)
	}

	br := q.SendBatch(ctx, batch)
	ids := make([]int64, 0, len(nodes))
	var batchErr error
	for i := range nodes {
		var id int64
		if err := br.QueryRow().Scan(&id); err != nil {
			if batchErr == nil {
				if isUniqueViolation(err) {
					batchErr = fmt.Errorf("%w: a node of type %s already exists", apperrors.ErrDuplicate, nodes[i].Type)
				} else {
					batchErr = fmt.Errorf("failed to insert money node %q: %w", nodes[i].Name, err)
				}
			}
			continue
		}
		ids = append(ids, id)
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close money node insert batch: %w", err)
	}
	if batchErr != nil {
		return nil, batchErr
	}
	return ids, nil
}

// SetCardValid toggles a card node's soft-invalidation flag.
func (r *LedgerRepository) SetCardValid(ctx context.Context, tx portsrepo.Tx, id int64, valid bool) error {
	q, err := r.q(tx)
	if err != nil {
		return err
	}

	cmdTag, err := q.Exec(ctx, `UPDATE money_node SET card_valid = $2 WHERE id = $1 AND type = $3;`, id, valid, string(domain.Card))
	if err != nil {
		return fmt.Errorf("failed to set card %d validity: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
