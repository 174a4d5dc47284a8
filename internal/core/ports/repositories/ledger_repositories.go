package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations for ledger entries
type LedgerReader interface {
	// FindEntryByID retrieves an entry with its rows.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// AccountBalance returns the sum of all rows ever posted to the account.
	AccountBalance(ctx context.Context, account int) (decimal.Decimal, error)
}

// LedgerWriter defines write operations for ledger entries
type LedgerWriter interface {
	// SaveEntry persists an entry and all of its rows.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry) error

	// CloseEntry flags an open entry as closed.
	CloseEntry(ctx context.Context, entryID string, closedAt time.Time) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}

// BankMatcherRepositoryFacade defines persistence of pending bank matchers
type BankMatcherRepositoryFacade interface {
	SaveMatcher(ctx context.Context, matcher domain.PendingBankMatcher) error
	FindMatchersByAccount(ctx context.Context, account int) ([]domain.PendingBankMatcher, error)
	FindMatcherByEntryID(ctx context.Context, entryID string) (*domain.PendingBankMatcher, error)
	DeleteMatcher(ctx context.Context, matcherID string) error
}

// BankTransactionRepositoryFacade defines persistence of pending bank transactions
type BankTransactionRepositoryFacade interface {
	SavePendingBankTransaction(ctx context.Context, txn domain.PendingBankTransaction) error
	SumPendingByMethod(ctx context.Context, paymentMethodID int) (decimal.Decimal, error)
}

// InvoiceRefundRepositoryFacade defines access to invoice-side refunds
type InvoiceRefundRepositoryFacade interface {
	FindInvoiceRefundByID(ctx context.Context, refundID int64) (*domain.InvoiceRefund, error)
	UpdateInvoiceRefund(ctx context.Context, refund domain.InvoiceRefund) error
}

// ManagedAccountRepository answers which bank accounts are reconciled automatically
type ManagedAccountRepository interface {
	IsManagedBankAccount(ctx context.Context, account int) (bool, error)
}
