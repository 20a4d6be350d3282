package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
// Nothing has been persisted; the operation is safe to retry after the
// input is corrected.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvariant indicates the ledger itself is in an inconsistent state
// (e.g. more than one public node, a card with zero or multiple owners).
// The operation in progress must not proceed to commit.
var ErrInvariant = errors.New("ledger invariant violated")
