package services

import (
	"context"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BankTransactionSvc registers provider transactions nothing else has claimed.
type BankTransactionSvc interface {
	RegisterBankTransaction(ctx context.Context, methodID int, externalID string, amount decimal.Decimal, reference, description string, validIBAN bool) error
}

// InvoicePaymentMatcher is implemented by the invoicing system. It returns true if
// the payment settled an outstanding invoice.
type InvoicePaymentMatcher interface {
	MatchInvoicePayment(ctx context.Context, methodID int, amount decimal.Decimal, reference string) (bool, error)
}

// RefundCompleterSvc books refunds that a provider has paid out.
type RefundCompleterSvc interface {
	CompleteRefund(ctx context.Context, completion domain.RefundCompletion) error
}

// NotificationSvc enqueues mail for delivery.
type NotificationSvc interface {
	SendSimpleMail(ctx context.Context, sender, receiver, subject, body string) error
}

// AuditLoggerSvc appends to the provider audit log.
type AuditLoggerSvc interface {
	Log(ctx context.Context, provider domain.Provider, methodID int, message string, isError bool) error
}
