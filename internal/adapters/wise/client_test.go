package wise

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const statementJSON = `{
  "transactions": [
    {
      "type": "CREDIT",
      "date": "2024-03-02T09:15:00.000Z",
      "amount": {"value": 250.00, "currency": "EUR"},
      "totalFees": {"value": 0.00, "currency": "EUR"},
      "details": {
        "type": "DEPOSIT",
        "description": "Received money from Jane Doe",
        "senderName": "Jane Doe",
        "senderAccount": "(DEUTDEFF) DE89 3704 0044 0532 0130 00",
        "paymentReference": "INVOICE 1234"
      },
      "referenceNumber": "TRANSFER-2"
    },
    {
      "type": "DEBIT",
      "date": "2024-03-01T12:00:00.000Z",
      "amount": {"value": -100.00, "currency": "EUR"},
      "totalFees": {"value": 0.50, "currency": "EUR"},
      "details": {"type": "TRANSFER", "description": "Sent money to PGEU"},
      "referenceNumber": "TRANSFER-1"
    }
  ]
}`

func testMethod() domain.WiseMethod {
	return domain.WiseMethod{ID: 2, Name: "Wise EUR", APIToken: "tok-123", ProfileID: 11, BalanceID: 22, Currency: "EUR"}
}

func TestTransactions(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "/v1/profiles/11/balance-statements/22/statement.json", r.URL.Path)
		gotQuery = map[string]string{
			"currency":      r.URL.Query().Get("currency"),
			"intervalStart": r.URL.Query().Get("intervalStart"),
			"intervalEnd":   r.URL.Query().Get("intervalEnd"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(statementJSON))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", 5*time.Second, rate.NewLimiter(rate.Inf, 1))
	client.now = func() time.Time { return now }

	txns, err := client.Transactions(context.Background(), testMethod(), nil)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "EUR", gotQuery["currency"])
	assert.Equal(t, "2024-02-25T00:00:00Z", gotQuery["intervalStart"])
	assert.Equal(t, "2024-03-10T00:00:00Z", gotQuery["intervalEnd"])

	// Oldest first
	assert.Equal(t, "TRANSFER-1", txns[0].Reference)
	assert.Equal(t, domain.WiseTypeTransfer, txns[0].Type)
	assert.Equal(t, "-100", txns[0].Amount.String())
	assert.Equal(t, "0.5", txns[0].FeeAmount.String())

	assert.Equal(t, "TRANSFER-2", txns[1].Reference)
	assert.Equal(t, "INVOICE 1234", txns[1].PaymentReference)
	assert.Equal(t, "(DEUTDEFF) DE89 3704 0044 0532 0130 00", txns[1].SenderAccount)

	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = client.Transactions(context.Background(), testMethod(), &since)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T00:00:00Z", gotQuery["intervalStart"])
}

func TestTransactionsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("currency") == "SEK" {
			_, _ = w.Write([]byte(statementJSON))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nil)

	_, err := client.Transactions(context.Background(), testMethod(), nil)
	assert.ErrorIs(t, err, apperrors.ErrTransient)

	sek := testMethod()
	sek.Currency = "SEK"
	_, err = client.Transactions(context.Background(), sek, nil)
	assert.ErrorIs(t, err, apperrors.ErrInconsistency)
}
