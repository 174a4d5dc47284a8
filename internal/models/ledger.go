package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the ledger_entries row. Rows are loaded separately.
type LedgerEntry struct {
	EntryID      string     `json:"entryID"` // Primary Key (UUID)
	EntryDate    time.Time  `json:"entryDate"`
	CurrencyCode string     `json:"currencyCode"`
	Closed       bool       `json:"closed"`
	CreatedAt    time.Time  `json:"createdAt"`
	ClosedAt     *time.Time `json:"closedAt"`
}

// LedgerRow is the ledger_rows row.
type LedgerRow struct {
	EntryID     string          `json:"entryID"`  // FK -> ledger_entries
	Position    int             `json:"position"` // Order within the entry
	Account     int             `json:"account"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // Positive is debit
	Object      *string         `json:"object"` // Nullable cost object
}
