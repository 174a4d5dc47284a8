package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCapture(t *testing.T) {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := domain.TransactionStatus{PSPReference: "PSP1"}

	assert.True(t, ts.RecordCapture(first, "visa"))
	assert.False(t, ts.RecordCapture(first.Add(24*time.Hour), "mc"))
	assert.Equal(t, first, *ts.CapturedAt)
	assert.Equal(t, "visa", ts.Method)
}

func TestRecordSettlement(t *testing.T) {
	day := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	t.Run("backfills capture", func(t *testing.T) {
		ts := domain.TransactionStatus{PSPReference: "PSP1", Amount: decimal.RequireFromString("105.00")}
		outcome, err := ts.RecordSettlement(day, decimal.RequireFromString("100.004"))
		require.NoError(t, err)
		assert.Equal(t, domain.SettlementApplied, outcome)
		assert.Equal(t, day, *ts.CapturedAt)
		assert.Equal(t, "100.00", ts.SettledAmount.Decimal.StringFixed(2))
		assert.True(t, ts.SettlementFee().Equal(decimal.RequireFromString("5")))
	})

	t.Run("half cents round to even", func(t *testing.T) {
		down := domain.TransactionStatus{PSPReference: "PSP1"}
		_, err := down.RecordSettlement(day, decimal.RequireFromString("10.125"))
		require.NoError(t, err)
		assert.Equal(t, "10.12", down.SettledAmount.Decimal.StringFixed(2))

		up := domain.TransactionStatus{PSPReference: "PSP2"}
		_, err = up.RecordSettlement(day, decimal.RequireFromString("10.135"))
		require.NoError(t, err)
		assert.Equal(t, "10.14", up.SettledAmount.Decimal.StringFixed(2))
	})

	t.Run("same amount is a duplicate", func(t *testing.T) {
		ts := domain.TransactionStatus{PSPReference: "PSP1", Amount: decimal.RequireFromString("105.00")}
		_, err := ts.RecordSettlement(day, decimal.RequireFromString("100"))
		require.NoError(t, err)

		outcome, err := ts.RecordSettlement(day.Add(time.Hour), decimal.RequireFromString("100.00"))
		require.NoError(t, err)
		assert.Equal(t, domain.SettlementDuplicate, outcome)
		assert.Equal(t, day, *ts.SettledAt)
	})

	t.Run("different amount is an inconsistency", func(t *testing.T) {
		ts := domain.TransactionStatus{PSPReference: "PSP1", Amount: decimal.RequireFromString("105.00")}
		_, err := ts.RecordSettlement(day, decimal.RequireFromString("100"))
		require.NoError(t, err)

		_, err = ts.RecordSettlement(day.Add(time.Hour), decimal.RequireFromString("99.00"))
		require.ErrorIs(t, err, apperrors.ErrInconsistency)
		assert.Equal(t, day, *ts.SettledAt)
		assert.Equal(t, "100.00", ts.SettledAmount.Decimal.StringFixed(2))
	})
}
