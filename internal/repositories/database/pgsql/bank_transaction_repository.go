package pgsql

import (
	"context"
	"strconv"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxBankTransactionRepository struct {
	BaseRepository
}

func newPgxBankTransactionRepository(pool *pgxpool.Pool) portsrepo.BankTransactionRepositoryFacade {
	return &PgxBankTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BankTransactionRepositoryFacade = (*PgxBankTransactionRepository)(nil)

func (r *PgxBankTransactionRepository) SavePendingBankTransaction(ctx context.Context, txn domain.PendingBankTransaction) error {
	query := `
		INSERT INTO pending_bank_transactions (
			bank_transaction_id, payment_method_id, external_id, amount, reference,
			description, valid_iban, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.conn(ctx).Exec(ctx, query,
		txn.ID, txn.PaymentMethodID, txn.ExternalID, txn.Amount, txn.Reference,
		txn.Description, txn.ValidIBAN, txn.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert pending bank transaction "+txn.ExternalID, err)
	}
	return nil
}

// SumPendingByMethod totals the unclaimed transactions of a payment method.
func (r *PgxBankTransactionRepository) SumPendingByMethod(ctx context.Context, paymentMethodID int) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM pending_bank_transactions WHERE payment_method_id = $1;`,
		paymentMethodID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum pending bank transactions for payment method "+strconv.Itoa(paymentMethodID), err)
	}
	return sum, nil
}
