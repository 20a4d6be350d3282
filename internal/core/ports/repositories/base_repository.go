package repositories

import "context"

// Tx is an opaque handle for a single store transaction. Every read or
// write that must observe one consistent snapshot is given the same Tx
// explicitly; there is no reentrant or nested transaction support. The
// concrete type belongs to the adapter that produced it.
type Tx interface {
	// Commit makes the transaction's writes visible atomically.
	Commit(ctx context.Context) error

	// Rollback discards the transaction. Rolling back an already
	// committed transaction is a no-op.
	Rollback(ctx context.Context) error
}

// TransactionManager starts store transactions.
type TransactionManager interface {
	Begin(ctx context.Context) (Tx, error)
}
