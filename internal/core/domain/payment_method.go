package domain

import "github.com/shopspring/decimal"

// AdyenMethod is the configuration of one Adyen payment method.
type AdyenMethod struct {
	ID                   int
	Name                 string
	ReportUser           string
	ReportPassword       string
	AuthorizedAccount    int
	PayableAccount       int
	FeeAccount           int
	PayoutAccount        int
	MerchantAccount      int // Deposit held by Adyen
	RefundAccount        int
	NotificationReceiver string
}

// WiseMethod is the configuration of one Wise balance.
type WiseMethod struct {
	ID                   int
	Name                 string
	APIToken             string
	ProfileID            int64
	BalanceID            int64
	Currency             string
	BankAccount          int
	FeeAccount           int
	PayoutAccount        int
	NotificationReceiver string
}

// GoCardlessMethod is the configuration of one GoCardless bank data connection.
type GoCardlessMethod struct {
	ID                   int
	Name                 string
	SecretID             string
	SecretKey            string
	AccountID            string
	BankAccount          int
	VerifyBalances       bool
	NotificationReceiver string
}

// RefundCompletion describes a refund that the provider reports as paid out.
// NetAmount is what reached the customer, FeeAmount what the provider charged,
// both as reported (fees negative).
type RefundCompletion struct {
	RefundID        int64
	NetAmount       decimal.Decimal
	FeeAmount       decimal.Decimal
	BankAccount     int
	FeeAccount      int
	URLs            []string
	PaymentMethodID int
}
