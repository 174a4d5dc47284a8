package domain

import (
	"time"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionStatus tracks the capture and settlement of a single card payment.
type TransactionStatus struct {
	ID               string              `json:"id"`
	PaymentMethodID  int                 `json:"paymentMethodID"`
	PSPReference     string              `json:"pspReference"`
	Amount           decimal.Decimal     `json:"amount"` // Originally authorized amount
	CapturedAt       *time.Time          `json:"capturedAt"`
	SettledAt        *time.Time          `json:"settledAt"`
	SettledAmount    decimal.NullDecimal `json:"settledAmount"`
	Method           string              `json:"method"`
	AccountingObject string              `json:"accountingObject"`
}

// SettlementOutcome tells the caller whether a settlement changed anything.
type SettlementOutcome int

const (
	SettlementApplied SettlementOutcome = iota
	// SettlementDuplicate means the same settlement was already recorded.
	SettlementDuplicate
)

// RecordCapture sets the capture date unless one is already known. It returns
// true if the record was modified.
func (t *TransactionStatus) RecordCapture(at time.Time, method string) bool {
	if t.CapturedAt != nil {
		return false
	}
	t.CapturedAt = &at
	t.Method = method
	return true
}

// RecordSettlement records the settlement date and amount, rounded to two decimals.
// Settling again with the same amount is reported as a duplicate; settling again
// with a different amount is an inconsistency and leaves the record untouched.
func (t *TransactionStatus) RecordSettlement(at time.Time, amount decimal.Decimal) (SettlementOutcome, error) {
	rounded := amount.RoundBank(2)
	if t.SettledAt != nil {
		if t.SettledAmount.Valid && t.SettledAmount.Decimal.Equal(rounded) {
			return SettlementDuplicate, nil
		}
		return SettlementDuplicate, apperrors.Inconsistency("transaction %s settled more than once with a different amount (%s vs %s)",
			t.PSPReference, t.SettledAmount.Decimal.StringFixed(2), rounded.StringFixed(2))
	}
	if t.CapturedAt == nil {
		t.CapturedAt = &at
	}
	t.SettledAt = &at
	t.SettledAmount = decimal.NewNullDecimal(rounded)
	return SettlementApplied, nil
}

// SettlementFee is the amount withheld by the provider (authorized minus settled).
func (t *TransactionStatus) SettlementFee() decimal.Decimal {
	if !t.SettledAmount.Valid {
		return decimal.Zero
	}
	return t.Amount.Sub(t.SettledAmount.Decimal)
}
