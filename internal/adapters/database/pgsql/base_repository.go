package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/spread/footspa_backend/internal/core/ports/repositories"
)

// LedgerRepository is the PostgreSQL implementation of the ledger store.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates the pgx-backed ledger repository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

var _ portsrepo.LedgerRepository = (*LedgerRepository)(nil)

// TxHandle adapts a pgx transaction to the ports Tx interface.
type TxHandle struct {
	tx pgx.Tx
}

func (h *TxHandle) Commit(ctx context.Context) error {
	if err := h.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (h *TxHandle) Rollback(ctx context.Context) error {
	if err := h.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// Begin starts a serializable transaction; all multi-step reads and writes
// of the full ledger state run inside one of these.
func (r *LedgerRepository) Begin(ctx context.Context) (portsrepo.Tx, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &TxHandle{tx: tx}, nil
}

// querier abstracts over pool-level and transaction-level execution.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// q resolves the executor for an optional transaction handle.
func (r *LedgerRepository) q(tx portsrepo.Tx) (querier, error) {
	if tx == nil {
		return r.pool, nil
	}
	h, ok := tx.(*TxHandle)
	if !ok {
		return nil, fmt.Errorf("transaction handle %T does not belong to the pgsql adapter", tx)
	}
	return h.tx, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
