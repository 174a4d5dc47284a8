package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/SscSPs/payment_reconciler/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
)

const balanceMismatchBody = `GoCardless balance (%s) for %s does not match the accounting system (%s)!

This could be because some entry has been missed in the accounting
(automatic or manual), or because of an ongoing booking of something
that the system doesn't know about.

Better go check manually!
`

type balanceVerifierService struct {
	BaseService
	source      providers.BalanceSource
	ledger      portssvc.LedgerPosterSvc
	bankTxnRepo portsrepo.BankTransactionRepositoryFacade
	notifier    portssvc.NotificationSvc
	senderEmail string
}

// NewBalanceVerifierService creates the GoCardless balance verifier.
func NewBalanceVerifierService(source providers.BalanceSource, ledger portssvc.LedgerPosterSvc, bankTxnRepo portsrepo.BankTransactionRepositoryFacade, notifier portssvc.NotificationSvc, senderEmail string) portssvc.BalanceVerifierSvc {
	return &balanceVerifierService{
		source:      source,
		ledger:      ledger,
		bankTxnRepo: bankTxnRepo,
		notifier:    notifier,
		senderEmail: senderEmail,
	}
}

var _ portssvc.BalanceVerifierSvc = (*balanceVerifierService)(nil)

func (s *balanceVerifierService) VerifyBalance(ctx context.Context, method domain.GoCardlessMethod) (bool, error) {
	balance, err := s.source.AccountBalance(ctx, method)
	if err != nil {
		return false, fmt.Errorf("failed to get gocardless balance: %w", err)
	}
	accounted, err := s.ledger.AccountBalance(ctx, method.BankAccount)
	if err != nil {
		return false, err
	}
	pending, err := s.bankTxnRepo.SumPendingByMethod(ctx, method.ID)
	if err != nil {
		return false, fmt.Errorf("failed to sum pending bank transactions: %w", err)
	}

	expected := accounted.Add(pending)
	if expected.Equal(balance) {
		s.LogInfo(ctx, "GoCardless balance matches", slog.String("balance", balance.String()))
		return true, nil
	}

	s.LogWarn(ctx, "GoCardless balance mismatch",
		slog.String("provider_balance", balance.String()),
		slog.String("accounting_balance", expected.String()))
	body := fmt.Sprintf(balanceMismatchBody, balance, method.Name, expected)
	if err := s.notifier.SendSimpleMail(ctx, s.senderEmail, method.NotificationReceiver, "Gocardless balance mismatch!", body); err != nil {
		return false, err
	}
	return false, nil
}
