package domain

import "errors"

// Sentinel errors for the reconciliation committer. Repository and service
// layers wrap these with the operation name and the ids involved so the
// caller can render a useful message.
var (
	// ErrNotFound means the referenced transaction or ledger record no
	// longer exists at commit time.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyReconciled means the guarded ledger update found the record
	// reconciled already: a lost race or a stale candidate.
	ErrAlreadyReconciled = errors.New("record already reconciled")

	// ErrNoSelection means a manual-only commit was attempted with neither
	// a gateway label nor a note.
	ErrNoSelection = errors.New("no gateway label or note supplied")

	// ErrNotReconciled means revert was called on an unreconciled transaction.
	ErrNotReconciled = errors.New("transaction is not reconciled")

	// ErrValidation means malformed input.
	ErrValidation = errors.New("validation failed")
)
