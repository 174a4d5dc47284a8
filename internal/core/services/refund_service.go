package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
)

type refundService struct {
	BaseService
	refundRepo    portsrepo.InvoiceRefundRepositoryFacade
	ledger        portssvc.LedgerPosterSvc
	refundAccount int
}

// NewRefundService creates the refund completer. Refunds are booked against refundAccount.
func NewRefundService(refundRepo portsrepo.InvoiceRefundRepositoryFacade, ledger portssvc.LedgerPosterSvc, refundAccount int) portssvc.RefundCompleterSvc {
	return &refundService{
		refundRepo:    refundRepo,
		ledger:        ledger,
		refundAccount: refundAccount,
	}
}

var _ portssvc.RefundCompleterSvc = (*refundService)(nil)

// CompleteRefund books the bank outflow of a refund. The bank is credited with the
// net amount plus the fee, the fee account is debited with the fee.
func (s *refundService) CompleteRefund(ctx context.Context, c domain.RefundCompletion) error {
	refund, err := s.refundRepo.FindInvoiceRefundByID(ctx, c.RefundID)
	if err != nil {
		return fmt.Errorf("failed to load invoice refund %d: %w", c.RefundID, err)
	}
	if refund.CompletedAt != nil {
		return apperrors.Inconsistency("invoice refund %d is already completed", c.RefundID)
	}

	desc := fmt.Sprintf("Refund of invoice %d", refund.InvoiceID)
	rows := []domain.AccountingRow{
		{Account: c.BankAccount, Description: desc, Amount: c.NetAmount.Sub(c.FeeAmount).Neg()},
		{Account: s.refundAccount, Description: desc, Amount: c.NetAmount},
	}
	if !c.FeeAmount.IsZero() {
		rows = append(rows, domain.AccountingRow{Account: c.FeeAccount, Description: desc, Amount: c.FeeAmount.Neg()})
	}
	entry, err := s.ledger.PostEntry(ctx, rows, false)
	if err != nil {
		return fmt.Errorf("failed to book refund %d: %w", c.RefundID, err)
	}

	now := s.Now()
	refund.CompletedAt = &now
	if err := s.refundRepo.UpdateInvoiceRefund(ctx, *refund); err != nil {
		return fmt.Errorf("failed to flag invoice refund %d completed: %w", c.RefundID, err)
	}

	s.LogInfo(ctx, "Refund completed",
		slog.Int64("refund_id", c.RefundID),
		slog.Int("payment_method", c.PaymentMethodID),
		slog.String("entry_id", entry.ID))
	return nil
}
