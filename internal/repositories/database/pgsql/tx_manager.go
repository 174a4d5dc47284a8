package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTxManager binds a pgx transaction to the context handed to the unit of work.
type PgxTxManager struct {
	BaseRepository
}

func newPgxTxManager(pool *pgxpool.Pool) portsrepo.TransactionManager {
	return &PgxTxManager{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionManager = (*PgxTxManager)(nil)

// WithinTx runs fn in a transaction, joining the one already bound to ctx if any.
func (m *PgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txCtxKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = m.Rollback(ctx, tx)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txCtxKey{}, tx)); err != nil {
		if rbErr := m.Rollback(ctx, tx); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	return m.Commit(ctx, tx)
}

// PgxAdvisoryLocker implements JobLocker with session level advisory locks.
type PgxAdvisoryLocker struct {
	BaseRepository
}

func newPgxAdvisoryLocker(pool *pgxpool.Pool) portsrepo.JobLocker {
	return &PgxAdvisoryLocker{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JobLocker = (*PgxAdvisoryLocker)(nil)

// TryLock takes pg_try_advisory_lock on a dedicated connection, which is held
// until unlock is called.
func (l *PgxAdvisoryLocker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	conn, err := l.Pool.Acquire(ctx)
	if err != nil {
		return nil, false, apperrors.NewAppError(500, "failed to acquire connection for lock "+key, err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock(hashtext($1))`, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, apperrors.NewAppError(500, "failed to take advisory lock "+key, err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		// The caller's ctx may already be cancelled; the lock must still be released.
		if _, err := conn.Exec(context.Background(), `SELECT pg_advisory_unlock(hashtext($1))`, key); err != nil {
			conn.Conn().Close(context.Background())
		}
		conn.Release()
	}
	return unlock, true, nil
}
