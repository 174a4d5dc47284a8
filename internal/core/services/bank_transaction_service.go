package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type bankTransactionService struct {
	BaseService
	repo    portsrepo.BankTransactionRepositoryFacade
	matcher portssvc.InvoicePaymentMatcher
}

// NewBankTransactionService creates the pending bank transaction registry. matcher
// may be nil when no invoicing system is attached.
func NewBankTransactionService(repo portsrepo.BankTransactionRepositoryFacade, matcher portssvc.InvoicePaymentMatcher) portssvc.BankTransactionSvc {
	if matcher == nil {
		matcher = noInvoiceMatcher{}
	}
	return &bankTransactionService{repo: repo, matcher: matcher}
}

var _ portssvc.BankTransactionSvc = (*bankTransactionService)(nil)

func (s *bankTransactionService) RegisterBankTransaction(ctx context.Context, methodID int, externalID string, amount decimal.Decimal, reference, description string, validIBAN bool) error {
	matched, err := s.matcher.MatchInvoicePayment(ctx, methodID, amount, reference)
	if err != nil {
		return fmt.Errorf("failed to match invoice payment for %s: %w", externalID, err)
	}
	if matched {
		s.LogInfo(ctx, "Bank transaction completed an invoice payment",
			slog.Int("payment_method", methodID),
			slog.String("external_id", externalID))
		return nil
	}

	txn := domain.PendingBankTransaction{
		ID:              uuid.NewString(),
		PaymentMethodID: methodID,
		ExternalID:      externalID,
		Amount:          amount,
		Reference:       reference,
		Description:     description,
		ValidIBAN:       validIBAN,
		CreatedAt:       s.Now(),
	}
	if err := s.repo.SavePendingBankTransaction(ctx, txn); err != nil {
		return fmt.Errorf("failed to save pending bank transaction %s: %w", externalID, err)
	}
	s.LogInfo(ctx, "Registered pending bank transaction",
		slog.Int("payment_method", methodID),
		slog.String("external_id", externalID),
		slog.String("amount", amount.String()))
	return nil
}

// noInvoiceMatcher never matches.
type noInvoiceMatcher struct{}

func (noInvoiceMatcher) MatchInvoicePayment(context.Context, int, decimal.Decimal, string) (bool, error) {
	return false, nil
}
