package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
	"github.com/SscSPs/payment_reconciler/internal/parsers/adyen"
	"github.com/shopspring/decimal"
)

func reportContents(report domain.Report) (string, error) {
	if report.Contents == nil {
		return "", fmt.Errorf("%w: report %s has no contents", apperrors.ErrValidation, report.URL)
	}
	return *report.Contents, nil
}

// PaymentsAccountingHandler records captures and settlements of card payments.
type PaymentsAccountingHandler struct {
	BaseService
	transactionRepo portsrepo.TransactionStatusRepositoryFacade
	ledger          portssvc.LedgerPosterSvc
	audit           portssvc.AuditLoggerSvc
}

// NewPaymentsAccountingHandler creates the payments accounting report handler.
func NewPaymentsAccountingHandler(transactionRepo portsrepo.TransactionStatusRepositoryFacade, ledger portssvc.LedgerPosterSvc, audit portssvc.AuditLoggerSvc) *PaymentsAccountingHandler {
	return &PaymentsAccountingHandler{
		transactionRepo: transactionRepo,
		ledger:          ledger,
		audit:           audit,
	}
}

var _ portssvc.ReportHandler = (*PaymentsAccountingHandler)(nil)

func (h *PaymentsAccountingHandler) Handle(ctx context.Context, method domain.AdyenMethod, report domain.Report) error {
	contents, err := reportContents(report)
	if err != nil {
		return err
	}
	lines, err := adyen.ParsePaymentsAccounting(contents)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInconsistency, err)
	}

	for _, line := range lines {
		trans, err := h.transactionRepo.FindByPSPReference(ctx, method.ID, line.PSPReference)
		if err != nil {
			if isNotFound(err) {
				return apperrors.Inconsistency("transaction %s not found", line.PSPReference)
			}
			return fmt.Errorf("failed to load transaction %s: %w", line.PSPReference, err)
		}

		if line.IsSettlement() {
			err = h.settle(ctx, method, trans, line)
		} else {
			err = h.capture(ctx, method, trans, line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (h *PaymentsAccountingHandler) capture(ctx context.Context, method domain.AdyenMethod, trans *domain.TransactionStatus, line adyen.AccountingLine) error {
	// Point of sale payments usually had their capture notified separately.
	if !trans.RecordCapture(line.BookingDate, line.PaymentMethod) {
		return nil
	}
	if err := h.transactionRepo.UpdateTransactionStatus(ctx, *trans); err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", trans.PSPReference, err)
	}
	h.LogDebug(ctx, "Sent for settle", slog.String("psp_reference", trans.PSPReference))
	return h.audit.Log(ctx, domain.ProviderAdyen, method.ID,
		fmt.Sprintf("Transaction %s captured at %s", trans.PSPReference, line.BookingDate.Format(bookingDateFormat)), false)
}

func (h *PaymentsAccountingHandler) settle(ctx context.Context, method domain.AdyenMethod, trans *domain.TransactionStatus, line adyen.AccountingLine) error {
	outcome, err := trans.RecordSettlement(line.BookingDate, line.MainAmount)
	if err != nil {
		return err
	}
	if outcome == domain.SettlementDuplicate {
		h.LogWarn(ctx, "Transaction already settled, not creating accounting record",
			slog.String("psp_reference", trans.PSPReference),
			slog.Time("settled_at", *trans.SettledAt))
		return nil
	}

	if err := h.transactionRepo.UpdateTransactionStatus(ctx, *trans); err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", trans.PSPReference, err)
	}
	if err := h.audit.Log(ctx, domain.ProviderAdyen, method.ID,
		fmt.Sprintf("Transaction %s settled at %s", trans.PSPReference, line.BookingDate.Format(bookingDateFormat)), false); err != nil {
		return err
	}

	desc := fmt.Sprintf("Adyen settlement %s", trans.PSPReference)
	rows := []domain.AccountingRow{
		{Account: method.AuthorizedAccount, Description: desc, Amount: trans.Amount.Neg()},
		{Account: method.PayableAccount, Description: desc, Amount: trans.SettledAmount.Decimal},
		{Account: method.FeeAccount, Description: desc, Amount: trans.SettlementFee(), Object: trans.AccountingObject},
	}
	if _, err := h.ledger.PostEntry(ctx, rows, false); err != nil {
		return err
	}
	h.LogDebug(ctx, "Settled", slog.String("psp_reference", trans.PSPReference), slog.String("amount", trans.SettledAmount.Decimal.StringFixed(2)))
	return nil
}

const bookingDateFormat = "2006-01-02 15:04:05"

// ReceivedPaymentsHandler keeps received payments reports for reference only.
type ReceivedPaymentsHandler struct{}

func (ReceivedPaymentsHandler) Handle(context.Context, domain.AdyenMethod, domain.Report) error {
	return nil
}

// SettlementDetailHandler books settlement batches and mails a summary of each.
type SettlementDetailHandler struct {
	BaseService
	ledger      portssvc.LedgerPosterSvc
	matchers    portssvc.BankMatcherSvc
	managed     portssvc.ManagedAccountSvc
	notifier    portssvc.NotificationSvc
	senderEmail string
}

// NewSettlementDetailHandler creates the settlement detail batch report handler.
func NewSettlementDetailHandler(ledger portssvc.LedgerPosterSvc, matchers portssvc.BankMatcherSvc, managed portssvc.ManagedAccountSvc, notifier portssvc.NotificationSvc, senderEmail string) *SettlementDetailHandler {
	return &SettlementDetailHandler{
		ledger:      ledger,
		matchers:    matchers,
		managed:     managed,
		notifier:    notifier,
		senderEmail: senderEmail,
	}
}

var _ portssvc.ReportHandler = (*SettlementDetailHandler)(nil)

// settlementAccount returns the account a settlement detail type is booked against.
func settlementAccount(method domain.AdyenMethod, t string) (int, bool) {
	switch t {
	case adyen.TypeSettled, adyen.TypeSettledBulk:
		return method.PayableAccount, true
	case adyen.TypeMerchantPayout:
		return method.PayoutAccount, true
	case adyen.TypeDepositCorrection, adyen.TypeBalanceTransfer, adyen.TypeBalanceTransferOut, adyen.TypeReserveAdjustment:
		return method.MerchantAccount, true
	case adyen.TypeInvoiceDeduction:
		return method.FeeAccount, true
	case adyen.TypeRefunded, adyen.TypeRefundedBulk:
		return method.RefundAccount, true
	default:
		return 0, false
	}
}

func (h *SettlementDetailHandler) Handle(ctx context.Context, method domain.AdyenMethod, report domain.Report) error {
	contents, err := reportContents(report)
	if err != nil {
		return err
	}
	if report.BatchNumber == "" {
		return apperrors.Inconsistency("no batch number in settlement report %s", report.URL)
	}
	summary, err := adyen.ParseSettlementDetail(contents)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInconsistency, err)
	}

	batch := report.BatchNumber
	merchant := report.MerchantAccount
	desc := fmt.Sprintf("Adyen settlement batch %s for %s", batch, merchant)

	totals := summary.Sorted()
	rows := make([]domain.AccountingRow, 0, len(totals))
	payout := decimal.Zero
	for _, t := range totals {
		account, known := settlementAccount(method, t.Type)
		if !known {
			continue
		}
		rows = append(rows, domain.AccountingRow{Account: account, Description: desc, Amount: t.Amount.Neg()})
		if t.Type == adyen.TypeMerchantPayout {
			// Payouts show up as negative
			payout = payout.Sub(t.Amount)
		}
	}

	var msg strings.Builder
	text := summary.Text()
	switch {
	case len(rows) != len(totals):
		if _, err := h.ledger.PostEntry(ctx, rows, true); err != nil {
			return err
		}
		fmt.Fprintf(&msg, "A settlement batch with Adyen has completed for merchant account %s. At least one entry in this was UNKNOWN, and therefore the accounting record has been left open, and needs to be adjusted manually!\nA summary of the entries are:\n\n%s\n\n", merchant, text)
	case len(rows) == 0:
		h.LogWarn(ctx, "Settlement batch without entries", slog.String("batch", batch))
		fmt.Fprintf(&msg, "A settlement batch with Adyen has completed for merchant account %s. It contained no entries.\n\n", merchant)
	default:
		managed, err := h.managed.IsManagedBankAccount(ctx, method.PayoutAccount)
		if err != nil {
			return err
		}
		if managed && payout.IsPositive() {
			entry, err := h.ledger.PostEntry(ctx, rows, true)
			if err != nil {
				return err
			}
			// Only the most important keywords of the Adyen payout text are matched.
			pattern := fmt.Sprintf(".*ADYEN.*BATCH %s[ ,].*", batch)
			if _, err := h.matchers.RegisterMatcher(ctx, method.PayoutAccount, pattern, payout, entry.ID); err != nil {
				return err
			}
			fmt.Fprintf(&msg, "A settlement batch with Adyen has completed for merchant account %s. A summary of the entries are:\n\n%s\n\nAccounting entry %s was created and will automatically be closed once the payout has arrived.", merchant, text, entry.ID)
		} else {
			if _, err := h.ledger.PostEntry(ctx, rows, false); err != nil {
				return err
			}
			fmt.Fprintf(&msg, "A settlement batch with Adyen has completed for merchant account %s. A summary of the entries are:\n\n%s\n\n", merchant, text)
		}
	}

	return h.notifier.SendSimpleMail(ctx, h.senderEmail, method.NotificationReceiver,
		fmt.Sprintf("Adyen settlement batch %s completed", batch), msg.String())
}
