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

type PgxWiseRepository struct {
	BaseRepository
}

func newPgxWiseRepository(pool *pgxpool.Pool) portsrepo.WiseRepositoryFacade {
	return &PgxWiseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WiseRepositoryFacade = (*PgxWiseRepository)(nil)

const wiseTransactionColumns = `transaction_id, payment_method_id, reference, date_time, amount, fee_amount,
	type, payment_ref, full_description, counterpart_name, counterpart_account, counterpart_valid_iban`

func scanWiseTransaction(row pgx.Row) (*domain.WiseTransaction, error) {
	var t domain.WiseTransaction
	err := row.Scan(
		&t.ID, &t.PaymentMethodID, &t.Reference, &t.DateTime, &t.Amount, &t.FeeAmount,
		&t.Type, &t.PaymentRef, &t.FullDescription, &t.CounterpartName, &t.CounterpartAccount, &t.CounterpartValidIBAN,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgxWiseRepository) FindTransactionByReference(ctx context.Context, paymentMethodID int, reference string) (*domain.WiseTransaction, error) {
	query := `SELECT ` + wiseTransactionColumns + ` FROM wise_transactions WHERE payment_method_id = $1 AND reference = $2;`
	t, err := scanWiseTransaction(r.conn(ctx).QueryRow(ctx, query, paymentMethodID, reference))
	if err != nil {
		return nil, notFoundOr(err, "failed to find wise transaction "+reference)
	}
	return t, nil
}

func (r *PgxWiseRepository) FindTransactionByID(ctx context.Context, id int64) (*domain.WiseTransaction, error) {
	query := `SELECT ` + wiseTransactionColumns + ` FROM wise_transactions WHERE transaction_id = $1;`
	t, err := scanWiseTransaction(r.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "failed to find wise transaction "+strconv.FormatInt(id, 10))
	}
	return t, nil
}

// CreateTransaction inserts the transaction and returns the generated ID.
func (r *PgxWiseRepository) CreateTransaction(ctx context.Context, txn domain.WiseTransaction) (int64, error) {
	query := `
		INSERT INTO wise_transactions (
			payment_method_id, reference, date_time, amount, fee_amount, type, payment_ref,
			full_description, counterpart_name, counterpart_account, counterpart_valid_iban
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING transaction_id;
	`
	var id int64
	err := r.conn(ctx).QueryRow(ctx, query,
		txn.PaymentMethodID, txn.Reference, txn.DateTime, txn.Amount, txn.FeeAmount, txn.Type, txn.PaymentRef,
		txn.FullDescription, txn.CounterpartName, txn.CounterpartAccount, txn.CounterpartValidIBAN,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.ErrDuplicate
		}
		return 0, apperrors.NewAppError(500, "failed to insert wise transaction "+txn.Reference, err)
	}
	return id, nil
}

func (r *PgxWiseRepository) FindRefundByTransferID(ctx context.Context, transferID string) (*domain.WiseRefund, error) {
	var ref domain.WiseRefund
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT wise_refund_id, refund_id, transfer_id, completed_at, refund_transaction_id
		FROM wise_refunds
		WHERE transfer_id = $1
		FOR UPDATE;
	`, transferID).Scan(&ref.ID, &ref.RefundID, &ref.TransferID, &ref.CompletedAt, &ref.RefundTransactionID)
	if err != nil {
		return nil, notFoundOr(err, "failed to find wise refund for transfer "+transferID)
	}
	return &ref, nil
}

func (r *PgxWiseRepository) UpdateRefund(ctx context.Context, refund domain.WiseRefund) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE wise_refunds SET completed_at = $2, refund_transaction_id = $3 WHERE wise_refund_id = $1;`,
		refund.ID, refund.CompletedAt, refund.RefundTransactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update wise refund for transfer "+refund.TransferID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxWiseRepository) FindPayoutByReference(ctx context.Context, reference string) (*domain.WisePayout, error) {
	var p domain.WisePayout
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT payout_id, payment_method_id, reference, amount, completed_at, completed_transaction_id
		FROM wise_payouts
		WHERE reference = $1
		FOR UPDATE;
	`, reference).Scan(&p.ID, &p.PaymentMethodID, &p.Reference, &p.Amount, &p.CompletedAt, &p.CompletedTransactionID)
	if err != nil {
		return nil, notFoundOr(err, "failed to find wise payout "+reference)
	}
	return &p, nil
}

func (r *PgxWiseRepository) UpdatePayout(ctx context.Context, payout domain.WisePayout) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE wise_payouts SET completed_at = $2, completed_transaction_id = $3 WHERE payout_id = $1;`,
		payout.ID, payout.CompletedAt, payout.CompletedTransactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update wise payout "+payout.Reference, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
