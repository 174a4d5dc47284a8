package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCounterpartAccount(t *testing.T) {
	assert.Equal(t, "DE89370400440532013000", domain.NormalizeCounterpartAccount("DE89 3704 0044 0532 0130 00"))
	assert.Equal(t, "DE89370400440532013000", domain.NormalizeCounterpartAccount("(COBADEFFXXX)DE89370400440532013000"))
	assert.Equal(t, "", domain.NormalizeCounterpartAccount("Unknownbankaccount"))
	assert.Equal(t, "", domain.NormalizeCounterpartAccount(""))
	assert.Equal(t, "(bic)DE89", domain.NormalizeCounterpartAccount("(bic)DE89"))
}

func TestAwaitingEnrichment(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f := domain.WiseFeedTransaction{Type: domain.WiseTypeUnknown, Date: now.Add(-30 * time.Minute)}
	assert.True(t, f.AwaitingEnrichment(now))

	f.Description = "No information"
	assert.True(t, f.AwaitingEnrichment(now))

	f.Date = now.Add(-3 * time.Hour)
	assert.False(t, f.AwaitingEnrichment(now))

	f.Date = now.Add(-30 * time.Minute)
	f.Description = "Received money from ACME"
	assert.False(t, f.AwaitingEnrichment(now))

	f.Description = ""
	f.Type = domain.WiseTypeTransfer
	assert.False(t, f.AwaitingEnrichment(now))
}

func TestNewWiseTransaction(t *testing.T) {
	f := domain.WiseFeedTransaction{
		Reference:        "TRANSFER-42",
		Amount:           decimal.RequireFromString("-101"),
		FeeAmount:        decimal.RequireFromString("1"),
		Type:             domain.WiseTypeTransfer,
		PaymentReference: strings.Repeat("x", 250),
		SenderAccount:    "(ABCDEFGH)NL91ABNA0417164300",
	}
	tr := domain.NewWiseTransaction(7, f)
	assert.Equal(t, 7, tr.PaymentMethodID)
	assert.Len(t, tr.PaymentRef, 200)
	assert.Equal(t, "NL91ABNA0417164300", tr.CounterpartAccount)
	assert.Equal(t, "100", tr.GrossAmount().String())
}
