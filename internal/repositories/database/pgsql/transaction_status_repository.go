package pgsql

import (
	"context"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionStatusRepository struct {
	BaseRepository
}

func newPgxTransactionStatusRepository(pool *pgxpool.Pool) portsrepo.TransactionStatusRepositoryFacade {
	return &PgxTransactionStatusRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionStatusRepositoryFacade = (*PgxTransactionStatusRepository)(nil)

// FindByPSPReference loads the status row and locks it for the rest of the transaction.
func (r *PgxTransactionStatusRepository) FindByPSPReference(ctx context.Context, paymentMethodID int, pspReference string) (*domain.TransactionStatus, error) {
	query := `
		SELECT status_id, payment_method_id, psp_reference, amount, captured_at, settled_at,
		       settled_amount, method, accounting_object
		FROM transaction_statuses
		WHERE payment_method_id = $1 AND psp_reference = $2
		FOR UPDATE;
	`
	var s domain.TransactionStatus
	var method, object *string
	err := r.conn(ctx).QueryRow(ctx, query, paymentMethodID, pspReference).Scan(
		&s.ID, &s.PaymentMethodID, &s.PSPReference, &s.Amount, &s.CapturedAt, &s.SettledAt,
		&s.SettledAmount, &method, &object,
	)
	if err != nil {
		return nil, notFoundOr(err, "failed to find transaction "+pspReference)
	}
	if method != nil {
		s.Method = *method
	}
	if object != nil {
		s.AccountingObject = *object
	}
	return &s, nil
}

// UpdateTransactionStatus persists capture and settlement data.
func (r *PgxTransactionStatusRepository) UpdateTransactionStatus(ctx context.Context, status domain.TransactionStatus) error {
	query := `
		UPDATE transaction_statuses
		SET captured_at = $2, settled_at = $3, settled_amount = $4, method = NULLIF($5, '')
		WHERE status_id = $1;
	`
	tag, err := r.conn(ctx).Exec(ctx, query, status.ID, status.CapturedAt, status.SettledAt, status.SettledAmount, status.Method)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update transaction "+status.PSPReference, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
