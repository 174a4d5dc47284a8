package accounting

import (
	"errors"
	"fmt"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrEntryUnbalanced is returned when the rows of a closed entry do not sum to zero.
var ErrEntryUnbalanced = errors.New("ledger entry does not balance to zero")

// ErrEntryEmpty is returned when a closed entry has no rows.
var ErrEntryEmpty = errors.New("ledger entry must have at least one row")

// SumRows returns the signed sum of all row amounts.
func SumRows(rows []domain.AccountingRow) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.Amount)
	}
	return sum
}

// ValidateBalanced checks that rows can be recorded as a closed entry.
// All rows of an entry share the entry currency, so a zero sum is a zero sum per currency.
func ValidateBalanced(rows []domain.AccountingRow) error {
	if len(rows) == 0 {
		return ErrEntryEmpty
	}
	if sum := SumRows(rows); !sum.IsZero() {
		return fmt.Errorf("%w: sum is %s", ErrEntryUnbalanced, sum.String())
	}
	return nil
}

// ValidateRows checks row fields that must hold for open and closed entries alike.
func ValidateRows(rows []domain.AccountingRow) error {
	for i, r := range rows {
		if r.Account <= 0 {
			return fmt.Errorf("row %d: invalid account number %d", i, r.Account)
		}
		if r.Description == "" {
			return fmt.Errorf("row %d: description is required", i)
		}
	}
	return nil
}
