package pgsql

import (
	"context"
	"strconv"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxManagedAccountRepository struct {
	BaseRepository
}

func newPgxManagedAccountRepository(pool *pgxpool.Pool) portsrepo.ManagedAccountRepository {
	return &PgxManagedAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ManagedAccountRepository = (*PgxManagedAccountRepository)(nil)

func (r *PgxManagedAccountRepository) IsManagedBankAccount(ctx context.Context, account int) (bool, error) {
	var managed bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM managed_bank_accounts WHERE account = $1);`, account,
	).Scan(&managed)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to look up managed account "+strconv.Itoa(account), err)
	}
	return managed, nil
}
