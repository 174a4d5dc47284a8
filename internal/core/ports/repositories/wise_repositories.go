package repositories

import (
	"context"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
)

// WiseTransactionRepository defines persistence of fetched Wise transactions
type WiseTransactionRepository interface {
	// FindTransactionByReference returns apperrors.ErrNotFound if the transaction was never stored.
	FindTransactionByReference(ctx context.Context, paymentMethodID int, reference string) (*domain.WiseTransaction, error)
	FindTransactionByID(ctx context.Context, id int64) (*domain.WiseTransaction, error)

	// CreateTransaction stores the transaction and returns its assigned ID.
	CreateTransaction(ctx context.Context, txn domain.WiseTransaction) (int64, error)
}

// WiseTransferRepository defines access to refunds and payouts initiated through Wise
type WiseTransferRepository interface {
	FindRefundByTransferID(ctx context.Context, transferID string) (*domain.WiseRefund, error)
	UpdateRefund(ctx context.Context, refund domain.WiseRefund) error
	FindPayoutByReference(ctx context.Context, reference string) (*domain.WisePayout, error)
	UpdatePayout(ctx context.Context, payout domain.WisePayout) error
}

// WiseRepositoryFacade combines all Wise-related repository interfaces
type WiseRepositoryFacade interface {
	WiseTransactionRepository
	WiseTransferRepository
}
