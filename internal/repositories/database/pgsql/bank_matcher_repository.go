package pgsql

import (
	"context"
	"strconv"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBankMatcherRepository struct {
	BaseRepository
}

func newPgxBankMatcherRepository(pool *pgxpool.Pool) portsrepo.BankMatcherRepositoryFacade {
	return &PgxBankMatcherRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BankMatcherRepositoryFacade = (*PgxBankMatcherRepository)(nil)

const matcherColumns = `matcher_id, account, pattern, amount, entry_id, created_at`

func scanMatcher(row pgx.Row) (domain.PendingBankMatcher, error) {
	var m domain.PendingBankMatcher
	err := row.Scan(&m.ID, &m.Account, &m.Pattern, &m.Amount, &m.EntryID, &m.CreatedAt)
	return m, err
}

func (r *PgxBankMatcherRepository) SaveMatcher(ctx context.Context, matcher domain.PendingBankMatcher) error {
	query := `INSERT INTO pending_bank_matchers (` + matcherColumns + `) VALUES ($1, $2, $3, $4, $5, $6);`
	_, err := r.conn(ctx).Exec(ctx, query,
		matcher.ID, matcher.Account, matcher.Pattern, matcher.Amount, matcher.EntryID, matcher.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert bank matcher for entry "+matcher.EntryID, err)
	}
	return nil
}

func (r *PgxBankMatcherRepository) FindMatchersByAccount(ctx context.Context, account int) ([]domain.PendingBankMatcher, error) {
	query := `SELECT ` + matcherColumns + ` FROM pending_bank_matchers WHERE account = $1 ORDER BY created_at, matcher_id;`
	rows, err := r.conn(ctx).Query(ctx, query, account)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bank matchers for account "+strconv.Itoa(account), err)
	}
	matchers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PendingBankMatcher, error) {
		return scanMatcher(row)
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan bank matchers", err)
	}
	return matchers, nil
}

func (r *PgxBankMatcherRepository) FindMatcherByEntryID(ctx context.Context, entryID string) (*domain.PendingBankMatcher, error) {
	query := `SELECT ` + matcherColumns + ` FROM pending_bank_matchers WHERE entry_id = $1;`
	m, err := scanMatcher(r.conn(ctx).QueryRow(ctx, query, entryID))
	if err != nil {
		return nil, notFoundOr(err, "failed to find bank matcher for entry "+entryID)
	}
	return &m, nil
}

func (r *PgxBankMatcherRepository) DeleteMatcher(ctx context.Context, matcherID string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM pending_bank_matchers WHERE matcher_id = $1;`, matcherID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete bank matcher "+matcherID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
