package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Wise transaction types we act on.
const (
	WiseTypeTransfer = "TRANSFER"
	WiseTypeUnknown  = "UNKNOWN"
)

const (
	// WiseEnrichmentGrace is how long an UNKNOWN transaction without details is left
	// alone before we store it as is.
	WiseEnrichmentGrace = 2 * time.Hour

	maxPaymentReferenceLength = 200
	unknownCounterpartAccount = "Unknownbankaccount"
)

var bicPrefixedAccount = regexp.MustCompile(`^\([A-Z0-9]{8,11}\)([A-Z0-9]+)$`)

// WiseFeedTransaction is a transaction as reported by the Wise statement API.
type WiseFeedTransaction struct {
	Reference        string
	Date             time.Time
	Amount           decimal.Decimal
	FeeAmount        decimal.Decimal
	Type             string
	Description      string
	PaymentReference string
	SenderName       string
	SenderAccount    string
}

// AwaitingEnrichment reports whether Wise is likely to fill in details later.
func (f WiseFeedTransaction) AwaitingEnrichment(now time.Time) bool {
	if f.Type != WiseTypeUnknown {
		return false
	}
	if f.Description != "" && f.Description != "No information" {
		return false
	}
	return now.Sub(f.Date) < WiseEnrichmentGrace
}

// WiseTransaction is a stored Wise transaction. Once stored it is never changed.
type WiseTransaction struct {
	ID                   int64           `json:"id"`
	PaymentMethodID      int             `json:"paymentMethodID"`
	Reference            string          `json:"reference"`
	DateTime             time.Time       `json:"dateTime"`
	Amount               decimal.Decimal `json:"amount"`
	FeeAmount            decimal.Decimal `json:"feeAmount"`
	Type                 string          `json:"type"`
	PaymentRef           string          `json:"paymentRef"`
	FullDescription      string          `json:"fullDescription"`
	CounterpartName      string          `json:"counterpartName"`
	CounterpartAccount   string          `json:"counterpartAccount"`
	CounterpartValidIBAN bool            `json:"counterpartValidIBAN"`
}

// NewWiseTransaction normalizes a feed transaction into its stored form. The IBAN
// validity flag is left for the caller.
func NewWiseTransaction(methodID int, f WiseFeedTransaction) WiseTransaction {
	ref := f.PaymentReference
	if r := []rune(ref); len(r) > maxPaymentReferenceLength {
		ref = string(r[:maxPaymentReferenceLength])
	}
	return WiseTransaction{
		PaymentMethodID:    methodID,
		Reference:          f.Reference,
		DateTime:           f.Date,
		Amount:             f.Amount,
		FeeAmount:          f.FeeAmount,
		Type:               f.Type,
		PaymentRef:         ref,
		FullDescription:    f.Description,
		CounterpartName:    f.SenderName,
		CounterpartAccount: NormalizeCounterpartAccount(f.SenderAccount),
	}
}

// GrossAmount is the amount that left (or entered) the balance excluding fees,
// with the sign flipped: -(amount + fee).
func (t *WiseTransaction) GrossAmount() decimal.Decimal {
	return t.Amount.Add(t.FeeAmount).Neg()
}

// NormalizeCounterpartAccount strips spaces, drops a "(BIC)" prefix and maps the
// placeholder Wise uses for unknown accounts to the empty string.
func NormalizeCounterpartAccount(raw string) string {
	acct := strings.ReplaceAll(raw, " ", "")
	if m := bicPrefixedAccount.FindStringSubmatch(acct); m != nil {
		acct = m[1]
	}
	if acct == unknownCounterpartAccount {
		return ""
	}
	return acct
}

// WiseRefund is an outgoing refund transfer created through Wise.
type WiseRefund struct {
	ID                  int64      `json:"id"`
	RefundID            int64      `json:"refundID"` // Invoice refund
	TransferID          string     `json:"transferID"`
	CompletedAt         *time.Time `json:"completedAt"`
	RefundTransactionID *int64     `json:"refundTransactionID"`
}

// WisePayout is a payout from the Wise balance to one of our own accounts.
type WisePayout struct {
	ID                     int64           `json:"id"`
	PaymentMethodID        int             `json:"paymentMethodID"`
	Reference              string          `json:"reference"`
	Amount                 decimal.Decimal `json:"amount"`
	CompletedAt            *time.Time      `json:"completedAt"`
	CompletedTransactionID *int64          `json:"completedTransactionID"`
}

// Complete flags the payout as completed by the given transaction.
func (p *WisePayout) Complete(at time.Time, transactionID int64) {
	p.CompletedAt = &at
	p.CompletedTransactionID = &transactionID
}
