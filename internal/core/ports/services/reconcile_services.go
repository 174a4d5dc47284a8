package services

import (
	"context"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
)

// WiseReconcilerSvc imports and classifies Wise transactions.
type WiseReconcilerSvc interface {
	// FetchTransactions runs one reconciliation pass. since nil means the provider default window.
	FetchTransactions(ctx context.Context, method domain.WiseMethod, since *time.Time) error
}

// BalanceVerifierSvc compares provider balances with the ledger.
type BalanceVerifierSvc interface {
	// VerifyBalance returns true if the balances agree. A mismatch is mailed, not returned as error.
	VerifyBalance(ctx context.Context, method domain.GoCardlessMethod) (bool, error)
}
