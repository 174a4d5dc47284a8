package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	"github.com/SscSPs/payment_reconciler/internal/models"
	"github.com/SscSPs/payment_reconciler/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// SaveEntry inserts the entry and queues all of its rows in one batch.
func (r *PgxLedgerRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	modelEntry, modelRows := mapping.ToModelLedgerEntry(entry)
	db := r.conn(ctx)

	entryQuery := `
		INSERT INTO ledger_entries (entry_id, entry_date, currency_code, closed, created_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := db.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.EntryDate,
		modelEntry.CurrencyCode,
		modelEntry.Closed,
		modelEntry.CreatedAt,
		modelEntry.ClosedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger entry "+modelEntry.EntryID, err)
	}

	batch := &pgx.Batch{}
	rowQuery := `
		INSERT INTO ledger_rows (entry_id, position, account, description, amount, object)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, row := range modelRows {
		batch.Queue(rowQuery, row.EntryID, row.Position, row.Account, row.Description, row.Amount, row.Object)
	}

	br := db.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert rows for ledger entry "+modelEntry.EntryID, err)
	}
	return nil
}

// CloseEntry flags an open entry as closed.
func (r *PgxLedgerRepository) CloseEntry(ctx context.Context, entryID string, closedAt time.Time) error {
	query := `UPDATE ledger_entries SET closed = TRUE, closed_at = $2 WHERE entry_id = $1 AND NOT closed;`
	tag, err := r.conn(ctx).Exec(ctx, query, entryID, closedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to close ledger entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindEntryByID loads an entry and its rows.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	db := r.conn(ctx)

	var entry models.LedgerEntry
	err := db.QueryRow(ctx, `
		SELECT entry_id, entry_date, currency_code, closed, created_at, closed_at
		FROM ledger_entries
		WHERE entry_id = $1;
	`, entryID).Scan(
		&entry.EntryID,
		&entry.EntryDate,
		&entry.CurrencyCode,
		&entry.Closed,
		&entry.CreatedAt,
		&entry.ClosedAt,
	)
	if err != nil {
		return nil, notFoundOr(err, "failed to find ledger entry "+entryID)
	}

	rows, err := db.Query(ctx, `
		SELECT entry_id, position, account, description, amount, object
		FROM ledger_rows
		WHERE entry_id = $1
		ORDER BY position;
	`, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query rows for ledger entry "+entryID, err)
	}
	modelRows, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.LedgerRow, error) {
		var m models.LedgerRow
		err := row.Scan(&m.EntryID, &m.Position, &m.Account, &m.Description, &m.Amount, &m.Object)
		return m, err
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan rows for ledger entry "+entryID, err)
	}

	d := mapping.ToDomainLedgerEntry(entry, modelRows)
	return &d, nil
}

// AccountBalance sums every row ever posted to the account, open entries included.
func (r *PgxLedgerRepository) AccountBalance(ctx context.Context, account int) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.conn(ctx).QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM ledger_rows WHERE account = $1;`, account).Scan(&balance)
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to compute balance of account "+strconv.Itoa(account), err)
	}
	return balance, nil
}
