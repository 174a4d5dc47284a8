package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountingRow is a single line of a ledger entry. Positive amounts are debits.
type AccountingRow struct {
	Account     int             `json:"account"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Object      string          `json:"object,omitempty"` // Optional cost object
}

// LedgerEntry is a set of rows recorded together. Closed entries always balance;
// open entries are pending a future completing event.
type LedgerEntry struct {
	ID           string          `json:"id"`
	EntryDate    time.Time       `json:"entryDate"`
	CurrencyCode string          `json:"currencyCode"`
	Rows         []AccountingRow `json:"rows"`
	Closed       bool            `json:"closed"`
	CreatedAt    time.Time       `json:"createdAt"`
	ClosedAt     *time.Time      `json:"closedAt"`
}

// Balance returns the sum of all row amounts.
func (e *LedgerEntry) Balance() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range e.Rows {
		sum = sum.Add(r.Amount)
	}
	return sum
}

// PendingBankMatcher waits for a bank statement line that settles an open entry.
type PendingBankMatcher struct {
	ID        string          `json:"id"`
	Account   int             `json:"account"`
	Pattern   string          `json:"pattern"`
	Amount    decimal.Decimal `json:"amount"`
	EntryID   string          `json:"entryID"`
	CreatedAt time.Time       `json:"createdAt"`
}

// PendingBankTransaction is a provider transaction nothing has claimed yet.
type PendingBankTransaction struct {
	ID              string          `json:"id"`
	PaymentMethodID int             `json:"paymentMethodID"`
	ExternalID      string          `json:"externalID"`
	Amount          decimal.Decimal `json:"amount"`
	Reference       string          `json:"reference"`
	Description     string          `json:"description"`
	ValidIBAN       bool            `json:"validIBAN"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// InvoiceRefund is the invoice-side record of a refund that is paid out through a provider.
type InvoiceRefund struct {
	ID          int64           `json:"id"`
	InvoiceID   int64           `json:"invoiceID"`
	Amount      decimal.Decimal `json:"amount"`
	CompletedAt *time.Time      `json:"completedAt"`
}
