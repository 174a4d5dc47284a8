package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankMatcher_MatchStatementLine(t *testing.T) {
	store := newMemStore()
	ledger := services.NewLedgerService(store, "EUR")
	matchers := services.NewBankMatcherService(store, store, ledger)
	ctx := context.Background()

	entry, err := ledger.PostEntry(ctx, balancedRows(), true)
	require.NoError(t, err)
	_, err = matchers.RegisterMatcher(ctx, acctPayout, ".*ADYEN.*BATCH 42[ ,].*", dec("10.00"), entry.ID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		account int
		text    string
		amount  string
	}{
		{"wrong account", acctPayable, "ADYEN BV BATCH 42, PAYOUT", "10.00"},
		{"wrong amount", acctPayout, "ADYEN BV BATCH 42, PAYOUT", "10.01"},
		{"different batch", acctPayout, "ADYEN BV BATCH 421 PAYOUT", "10.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := matchers.MatchStatementLine(ctx, tt.account, tt.text, dec(tt.amount))
			require.NoError(t, err)
			assert.False(t, matched)
		})
	}
	assert.False(t, store.ledgerEntries()[0].Closed)

	matched, err := matchers.MatchStatementLine(ctx, acctPayout, "ADYEN BV BATCH 42, PAYOUT", dec("10"))
	require.NoError(t, err)
	assert.True(t, matched)
	assert.True(t, store.ledgerEntries()[0].Closed)
	assert.Empty(t, store.allMatchers())
}

func TestBankMatcher_AmbiguousMatchLeavesEntriesOpen(t *testing.T) {
	store := newMemStore()
	ledger := services.NewLedgerService(store, "EUR")
	matchers := services.NewBankMatcherService(store, store, ledger)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		entry, err := ledger.PostEntry(ctx, balancedRows(), true)
		require.NoError(t, err)
		_, err = matchers.RegisterMatcher(ctx, acctPayout, ".*TW.*payout.*7.*", dec("10.00"), entry.ID)
		require.NoError(t, err)
	}

	matched, err := matchers.MatchStatementLine(ctx, acctPayout, "TW payout 7", dec("10.00"))
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Len(t, store.allMatchers(), 2)
}

func TestBankMatcher_RegisterValidation(t *testing.T) {
	store := newMemStore()
	ledger := services.NewLedgerService(store, "EUR")
	matchers := services.NewBankMatcherService(store, store, ledger)
	ctx := context.Background()

	_, err := matchers.RegisterMatcher(ctx, acctPayout, "(unclosed", dec("1"), "entry")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = matchers.RegisterMatcher(ctx, acctPayout, ".*", dec("1"), "entry")
	require.NoError(t, err)
	_, err = matchers.RegisterMatcher(ctx, acctPayout, ".*", dec("1"), "entry")
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}
