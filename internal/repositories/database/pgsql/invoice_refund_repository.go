package pgsql

import (
	"context"
	"strconv"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxInvoiceRefundRepository struct {
	BaseRepository
}

func newPgxInvoiceRefundRepository(pool *pgxpool.Pool) portsrepo.InvoiceRefundRepositoryFacade {
	return &PgxInvoiceRefundRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRefundRepositoryFacade = (*PgxInvoiceRefundRepository)(nil)

func (r *PgxInvoiceRefundRepository) FindInvoiceRefundByID(ctx context.Context, refundID int64) (*domain.InvoiceRefund, error) {
	var ref domain.InvoiceRefund
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT refund_id, invoice_id, amount, completed_at
		FROM invoice_refunds
		WHERE refund_id = $1
		FOR UPDATE;
	`, refundID).Scan(&ref.ID, &ref.InvoiceID, &ref.Amount, &ref.CompletedAt)
	if err != nil {
		return nil, notFoundOr(err, "failed to find invoice refund "+strconv.FormatInt(refundID, 10))
	}
	return &ref, nil
}

func (r *PgxInvoiceRefundRepository) UpdateInvoiceRefund(ctx context.Context, refund domain.InvoiceRefund) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE invoice_refunds SET completed_at = $2 WHERE refund_id = $1;`, refund.ID, refund.CompletedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invoice refund "+strconv.FormatInt(refund.ID, 10), err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
