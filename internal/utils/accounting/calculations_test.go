package accounting

import (
	"testing"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func row(account int, amount string) domain.AccountingRow {
	return domain.AccountingRow{Account: account, Description: "test", Amount: decimal.RequireFromString(amount)}
}

func TestValidateBalanced(t *testing.T) {
	assert.ErrorIs(t, ValidateBalanced(nil), ErrEntryEmpty)
	assert.NoError(t, ValidateBalanced([]domain.AccountingRow{row(1621, "-105.00"), row(1622, "100.00"), row(6040, "5.00")}))

	err := ValidateBalanced([]domain.AccountingRow{row(1621, "-105.00"), row(1622, "100.00")})
	assert.ErrorIs(t, err, ErrEntryUnbalanced)
	assert.Contains(t, err.Error(), "-5")
}

func TestValidateRows(t *testing.T) {
	assert.NoError(t, ValidateRows([]domain.AccountingRow{row(1930, "1")}))
	assert.Error(t, ValidateRows([]domain.AccountingRow{row(0, "1")}))
	assert.Error(t, ValidateRows([]domain.AccountingRow{{Account: 1930, Amount: decimal.NewFromInt(1)}}))
}

func TestSumRows(t *testing.T) {
	assert.True(t, SumRows(nil).IsZero())
	assert.Equal(t, "0.5", SumRows([]domain.AccountingRow{row(1, "1.25"), row(2, "-0.75")}).String())
}
