package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportMappingNullsEmptyBatch(t *testing.T) {
	d := domain.Report{
		ID:              "r1",
		PaymentMethodID: 3,
		URL:             "https://ca-test.adyen.com/reports/download/payments_accounting_report_2024_01_01.csv",
		Kind:            domain.ReportKindPaymentsAccounting,
		ReceivedAt:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	m := ToModelReport(d)
	assert.Nil(t, m.BatchNumber)
	assert.Equal(t, d, ToDomainReport(m))

	d.BatchNumber = "42"
	m = ToModelReport(d)
	require.NotNil(t, m.BatchNumber)
	assert.Equal(t, "42", *m.BatchNumber)
}

func TestLedgerMappingKeepsRowOrder(t *testing.T) {
	d := domain.LedgerEntry{
		ID:           "e1",
		EntryDate:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		CurrencyCode: "EUR",
		Rows: []domain.AccountingRow{
			{Account: 1621, Description: "a", Amount: decimal.RequireFromString("-100")},
			{Account: 1622, Description: "b", Amount: decimal.RequireFromString("95"), Object: "conf"},
			{Account: 6040, Description: "c", Amount: decimal.RequireFromString("5")},
		},
	}

	entry, rows := ToModelLedgerEntry(d)
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, 3, rows[2].Position)
	assert.Nil(t, rows[0].Object)
	assert.Equal(t, "e1", rows[1].EntryID)

	back := ToDomainLedgerEntry(entry, rows)
	assert.Equal(t, d, back)
}
