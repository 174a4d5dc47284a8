package repositories

import (
	"context"
)

// TransactionManager runs a unit of work inside a single database transaction.
type TransactionManager interface {
	// WithinTx calls fn with a context bound to a new transaction. The transaction is
	// committed if fn returns nil and rolled back otherwise. If ctx is already bound to
	// a transaction, fn joins it.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// JobLocker serializes batch runs that must not overlap.
type JobLocker interface {
	// TryLock acquires the lock for key without waiting. When acquired is true the
	// caller must call unlock once done.
	TryLock(ctx context.Context, key string) (unlock func(), acquired bool, err error)
}
