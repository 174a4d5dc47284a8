package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
	"github.com/SscSPs/payment_reconciler/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService appends entries to the ledger.
type ledgerService struct {
	BaseService
	ledgerRepo   portsrepo.LedgerRepositoryFacade
	currencyCode string
}

// NewLedgerService creates a ledger poster booking in the given currency.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, currencyCode string) portssvc.LedgerPosterSvc {
	return &ledgerService{
		ledgerRepo:   ledgerRepo,
		currencyCode: currencyCode,
	}
}

var _ portssvc.LedgerPosterSvc = (*ledgerService)(nil)

func (s *ledgerService) PostEntry(ctx context.Context, rows []domain.AccountingRow, leaveOpen bool) (*domain.LedgerEntry, error) {
	if err := accounting.ValidateRows(rows); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	if !leaveOpen {
		if err := accounting.ValidateBalanced(rows); err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
	}

	now := s.Now()
	entry := domain.LedgerEntry{
		ID:           uuid.NewString(),
		EntryDate:    now,
		CurrencyCode: s.currencyCode,
		Rows:         append([]domain.AccountingRow(nil), rows...),
		Closed:       !leaveOpen,
		CreatedAt:    now,
	}
	if entry.Closed {
		entry.ClosedAt = &now
	}

	if err := s.ledgerRepo.SaveEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save ledger entry", slog.String("entry_id", entry.ID))
		return nil, fmt.Errorf("failed to save ledger entry: %w", err)
	}

	s.LogDebug(ctx, "Ledger entry posted",
		slog.String("entry_id", entry.ID),
		slog.Bool("closed", entry.Closed),
		slog.Int("rows", len(entry.Rows)))
	return &entry, nil
}

func (s *ledgerService) CloseEntry(ctx context.Context, entryID string) error {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to load ledger entry %s: %w", entryID, err)
	}
	if entry.Closed {
		return fmt.Errorf("%w: ledger entry %s is already closed", apperrors.ErrValidation, entryID)
	}
	if err := accounting.ValidateBalanced(entry.Rows); err != nil {
		return fmt.Errorf("%w: cannot close ledger entry %s: %w", apperrors.ErrValidation, entryID, err)
	}
	if err := s.ledgerRepo.CloseEntry(ctx, entryID, s.Now()); err != nil {
		return fmt.Errorf("failed to close ledger entry %s: %w", entryID, err)
	}
	return nil
}

func (s *ledgerService) AccountBalance(ctx context.Context, account int) (decimal.Decimal, error) {
	balance, err := s.ledgerRepo.AccountBalance(ctx, account)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balance of account %d: %w", account, err)
	}
	return balance, nil
}
