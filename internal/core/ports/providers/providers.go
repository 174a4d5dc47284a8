// Package providers declares the outbound ports to payment provider APIs.
package providers

import (
	"context"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportSource downloads report files. A non-200 response or an empty body is
// returned as an apperrors.ErrTransient error.
type ReportSource interface {
	FetchReport(ctx context.Context, url, user, password string) (string, error)
}

// WiseFeed lists balance statement transactions, oldest first.
type WiseFeed interface {
	Transactions(ctx context.Context, method domain.WiseMethod, since *time.Time) ([]domain.WiseFeedTransaction, error)
}

// BalanceSource returns the current booked balance of a provider account.
type BalanceSource interface {
	AccountBalance(ctx context.Context, method domain.GoCardlessMethod) (decimal.Decimal, error)
}
