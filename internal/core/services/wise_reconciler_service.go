package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/SscSPs/payment_reconciler/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
	"github.com/SscSPs/payment_reconciler/internal/utils/iban"
)

const twPayoutPrefix = "TW payout "

var transferReferenceRegexp = regexp.MustCompile(`^TRANSFER-(\d+)$`)

type wiseReconcilerService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	feed         providers.WiseFeed
	wiseRepo     portsrepo.WiseRepositoryFacade
	ledger       portssvc.LedgerPosterSvc
	matchers     portssvc.BankMatcherSvc
	managed      portssvc.ManagedAccountSvc
	bankTxns     portssvc.BankTransactionSvc
	refunds      portssvc.RefundCompleterSvc
	audit        portssvc.AuditLoggerSvc
	orgShortname string

	returnedPaymentRegexp *regexp.Regexp
}

// WiseReconcilerDeps groups the collaborators of the Wise reconciler.
type WiseReconcilerDeps struct {
	TxManager    portsrepo.TransactionManager
	Feed         providers.WiseFeed
	WiseRepo     portsrepo.WiseRepositoryFacade
	Ledger       portssvc.LedgerPosterSvc
	Matchers     portssvc.BankMatcherSvc
	Managed      portssvc.ManagedAccountSvc
	BankTxns     portssvc.BankTransactionSvc
	Refunds      portssvc.RefundCompleterSvc
	Audit        portssvc.AuditLoggerSvc
	OrgShortname string
	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// NewWiseReconcilerService creates the Wise transaction reconciler.
func NewWiseReconcilerService(deps WiseReconcilerDeps) portssvc.WiseReconcilerSvc {
	return &wiseReconcilerService{
		BaseService:           BaseService{Clock: deps.Clock},
		txManager:             deps.TxManager,
		feed:                  deps.Feed,
		wiseRepo:              deps.WiseRepo,
		ledger:                deps.Ledger,
		matchers:              deps.Matchers,
		managed:               deps.Managed,
		bankTxns:              deps.BankTxns,
		refunds:               deps.Refunds,
		audit:                 deps.Audit,
		orgShortname:          deps.OrgShortname,
		returnedPaymentRegexp: regexp.MustCompile(`^` + regexp.QuoteMeta(deps.OrgShortname) + ` returned payment (\d+)$`),
	}
}

var _ portssvc.WiseReconcilerSvc = (*wiseReconcilerService)(nil)

// FetchTransactions stores and classifies all new transactions of the method. The
// whole pass is one transaction; any inconsistency rolls everything back and is
// recorded in the provider log afterwards.
func (s *wiseReconcilerService) FetchTransactions(ctx context.Context, method domain.WiseMethod, since *time.Time) error {
	feed, err := s.feed.Transactions(ctx, method, since)
	if err != nil {
		err = fmt.Errorf("failed to fetch wise transactions: %w", err)
		return s.auditFailure(ctx, method, err)
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		for _, ft := range feed {
			if err := s.handleFeedTransaction(ctx, method, ft); err != nil {
				return fmt.Errorf("transaction %s: %w", ft.Reference, err)
			}
		}
		return nil
	})
	if err != nil {
		return s.auditFailure(ctx, method, err)
	}
	return nil
}

func (s *wiseReconcilerService) auditFailure(ctx context.Context, method domain.WiseMethod, err error) error {
	s.LogError(ctx, err, "Wise reconciliation failed", "payment_method", method.ID)
	if auditErr := s.audit.Log(ctx, domain.ProviderWise, method.ID, fmt.Sprintf("Failed to reconcile transactions: %v", err), true); auditErr != nil {
		return errors.Join(err, auditErr)
	}
	return err
}

func (s *wiseReconcilerService) handleFeedTransaction(ctx context.Context, method domain.WiseMethod, ft domain.WiseFeedTransaction) error {
	// Transactions show up as UNKNOWN without text at first and get details later.
	if ft.AwaitingEnrichment(s.Now()) {
		s.LogInfo(ctx, "Skipping UNKNOWN transaction, no data and less than 2 hours old", slog.String("reference", ft.Reference))
		return nil
	}

	_, err := s.wiseRepo.FindTransactionByReference(ctx, method.ID, ft.Reference)
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("failed to look up transaction: %w", err)
	}

	trans := domain.NewWiseTransaction(method.ID, ft)
	if trans.CounterpartAccount != "" {
		trans.CounterpartValidIBAN = iban.Valid(trans.CounterpartAccount)
	}
	id, err := s.wiseRepo.CreateTransaction(ctx, trans)
	if err != nil {
		return fmt.Errorf("failed to store transaction: %w", err)
	}
	trans.ID = id
	if err := s.audit.Log(ctx, domain.ProviderWise, method.ID,
		fmt.Sprintf("Stored %s transaction %s of %s", trans.Type, trans.Reference, trans.Amount.StringFixed(2)), false); err != nil {
		return err
	}

	if trans.Type == domain.WiseTypeTransfer {
		switch {
		case strings.HasPrefix(trans.PaymentRef, s.orgShortname+" refund"):
			return s.handleRefund(ctx, method, &trans)
		case strings.HasPrefix(trans.PaymentRef, s.orgShortname+" returned payment"):
			return s.handleReturnedPayment(ctx, method, &trans)
		case strings.HasPrefix(trans.PaymentRef, twPayoutPrefix):
			return s.handlePayout(ctx, method, &trans)
		}
	}

	// May immediately complete an invoice payment.
	return s.bankTxns.RegisterBankTransaction(ctx, method.ID, strconv.FormatInt(trans.ID, 10), trans.Amount,
		trans.PaymentRef, trans.FullDescription, trans.CounterpartValidIBAN)
}

func (s *wiseReconcilerService) handleRefund(ctx context.Context, method domain.WiseMethod, trans *domain.WiseTransaction) error {
	m := transferReferenceRegexp.FindStringSubmatch(trans.Reference)
	if m == nil {
		return apperrors.Inconsistency("could not find TRANSFER info in transfer reference %s", trans.Reference)
	}
	transferID := m[1]

	refund, err := s.wiseRepo.FindRefundByTransferID(ctx, transferID)
	if isNotFound(err) {
		s.LogWarn(ctx, "Could not find wise refund, registering as manual bank transaction", slog.String("transfer_id", transferID))
		return s.bankTxns.RegisterBankTransaction(ctx, method.ID, strconv.FormatInt(trans.ID, 10), trans.Amount,
			trans.PaymentRef, trans.FullDescription, false)
	}
	if err != nil {
		return fmt.Errorf("failed to look up refund %s: %w", transferID, err)
	}
	if refund.RefundTransactionID != nil || refund.CompletedAt != nil {
		return apperrors.Inconsistency("wise refund for transfer %s has already been processed", transferID)
	}

	now := s.Now()
	refund.CompletedAt = &now
	refund.RefundTransactionID = &trans.ID
	if err := s.wiseRepo.UpdateRefund(ctx, *refund); err != nil {
		return fmt.Errorf("failed to flag refund %s completed: %w", transferID, err)
	}

	return s.refunds.CompleteRefund(ctx, domain.RefundCompletion{
		RefundID:        refund.RefundID,
		NetAmount:       trans.GrossAmount(),
		FeeAmount:       trans.FeeAmount.Neg(),
		BankAccount:     method.BankAccount,
		FeeAccount:      method.FeeAccount,
		PaymentMethodID: method.ID,
	})
}

func (s *wiseReconcilerService) handleReturnedPayment(ctx context.Context, method domain.WiseMethod, trans *domain.WiseTransaction) error {
	payout, err := s.wiseRepo.FindPayoutByReference(ctx, trans.PaymentRef)
	if err != nil {
		if isNotFound(err) {
			return apperrors.Inconsistency("could not find wise payout for %s", trans.PaymentRef)
		}
		return fmt.Errorf("failed to look up payout %s: %w", trans.PaymentRef, err)
	}

	m := s.returnedPaymentRegexp.FindStringSubmatch(trans.PaymentRef)
	if m == nil {
		return apperrors.Inconsistency("could not find returned transaction id in reference %q", trans.PaymentRef)
	}
	originalID, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return apperrors.Inconsistency("invalid returned transaction id in reference %q", trans.PaymentRef)
	}
	original, err := s.wiseRepo.FindTransactionByID(ctx, originalID)
	if err != nil {
		if isNotFound(err) {
			return apperrors.Inconsistency("returned transaction %d not found", originalID)
		}
		return fmt.Errorf("failed to load returned transaction %d: %w", originalID, err)
	}
	if !original.Amount.Equal(trans.GrossAmount()) {
		return apperrors.Inconsistency("original amount %s does not match returned amount %s", original.Amount, trans.GrossAmount())
	}

	payout.Complete(s.Now(), trans.ID)
	if err := s.wiseRepo.UpdatePayout(ctx, *payout); err != nil {
		return fmt.Errorf("failed to flag payout %s completed: %w", payout.Reference, err)
	}

	desc := fmt.Sprintf("Wise returned payment %s", trans.Reference)
	rows := []domain.AccountingRow{
		{Account: method.BankAccount, Description: desc, Amount: trans.Amount},
		{Account: method.BankAccount, Description: desc, Amount: trans.GrossAmount()},
	}
	if !trans.FeeAmount.IsZero() {
		rows = append(rows, domain.AccountingRow{Account: method.FeeAccount, Description: desc, Amount: trans.FeeAmount})
	}
	_, err = s.ledger.PostEntry(ctx, rows, false)
	return err
}

func (s *wiseReconcilerService) handlePayout(ctx context.Context, method domain.WiseMethod, trans *domain.WiseTransaction) error {
	payout, err := s.wiseRepo.FindPayoutByReference(ctx, trans.PaymentRef)
	if err != nil {
		if isNotFound(err) {
			return apperrors.Inconsistency("could not find wise payout for %s", trans.PaymentRef)
		}
		return fmt.Errorf("failed to look up payout %s: %w", trans.PaymentRef, err)
	}

	refno, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(trans.PaymentRef, twPayoutPrefix)))
	if err != nil {
		return apperrors.Inconsistency("invalid payout number in reference %q", trans.PaymentRef)
	}

	gross := trans.GrossAmount()
	if !payout.Amount.Equal(gross) {
		return apperrors.Inconsistency("wise payout %d returned transaction with amount %s instead of %s", refno, gross, payout.Amount)
	}

	payout.Complete(s.Now(), trans.ID)
	if err := s.wiseRepo.UpdatePayout(ctx, *payout); err != nil {
		return fmt.Errorf("failed to flag payout %s completed: %w", payout.Reference, err)
	}

	rows := []domain.AccountingRow{
		{Account: method.BankAccount, Description: trans.PaymentRef, Amount: trans.Amount},
		{Account: method.PayoutAccount, Description: trans.PaymentRef, Amount: gross},
	}
	if !trans.FeeAmount.IsZero() {
		rows = append(rows, domain.AccountingRow{Account: method.FeeAccount, Description: trans.PaymentRef, Amount: trans.FeeAmount})
	}

	managed, err := s.managed.IsManagedBankAccount(ctx, method.PayoutAccount)
	if err != nil {
		return err
	}
	if !managed {
		_, err = s.ledger.PostEntry(ctx, rows, false)
		return err
	}

	entry, err := s.ledger.PostEntry(ctx, rows, true)
	if err != nil {
		return err
	}
	_, err = s.matchers.RegisterMatcher(ctx, method.PayoutAccount, fmt.Sprintf(".*TW.*payout.*%d.*", refno), gross, entry.ID)
	return err
}
