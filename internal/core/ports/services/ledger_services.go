package services

import (
	"context"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerPosterSvc appends entries to the accounting ledger.
type LedgerPosterSvc interface {
	// PostEntry records rows as one entry. Closed entries must balance; open entries
	// are left pending a later event and may be unbalanced.
	PostEntry(ctx context.Context, rows []domain.AccountingRow, leaveOpen bool) (*domain.LedgerEntry, error)

	// CloseEntry flags an open entry as closed. The entry must balance by then.
	CloseEntry(ctx context.Context, entryID string) error

	// AccountBalance returns the current balance of an account.
	AccountBalance(ctx context.Context, account int) (decimal.Decimal, error)
}

// BankMatcherSvc keeps the registry of expected bank statement lines.
type BankMatcherSvc interface {
	// RegisterMatcher expects a statement line on account matching pattern for exactly amount.
	RegisterMatcher(ctx context.Context, account int, pattern string, amount decimal.Decimal, entryID string) (*domain.PendingBankMatcher, error)

	// MatchStatementLine closes the entry of the single matcher that fits the line.
	// It returns false if no matcher, or more than one, fits.
	MatchStatementLine(ctx context.Context, account int, text string, amount decimal.Decimal) (bool, error)
}

// ManagedAccountSvc answers whether a bank account is reconciled automatically.
type ManagedAccountSvc interface {
	IsManagedBankAccount(ctx context.Context, account int) (bool, error)
}
