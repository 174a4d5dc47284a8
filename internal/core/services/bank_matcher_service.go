package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type bankMatcherService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	matcherRepo portsrepo.BankMatcherRepositoryFacade
	ledger      portssvc.LedgerPosterSvc
}

// NewBankMatcherService creates the registry of pending bank matchers.
func NewBankMatcherService(txManager portsrepo.TransactionManager, matcherRepo portsrepo.BankMatcherRepositoryFacade, ledger portssvc.LedgerPosterSvc) portssvc.BankMatcherSvc {
	return &bankMatcherService{
		txManager:   txManager,
		matcherRepo: matcherRepo,
		ledger:      ledger,
	}
}

var _ portssvc.BankMatcherSvc = (*bankMatcherService)(nil)

func (s *bankMatcherService) RegisterMatcher(ctx context.Context, account int, pattern string, amount decimal.Decimal, entryID string) (*domain.PendingBankMatcher, error) {
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, fmt.Errorf("%w: invalid matcher pattern %q: %w", apperrors.ErrValidation, pattern, err)
	}
	if existing, err := s.matcherRepo.FindMatcherByEntryID(ctx, entryID); err == nil {
		return nil, fmt.Errorf("%w: ledger entry %s already has matcher %s", apperrors.ErrDuplicate, entryID, existing.ID)
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("failed to look up matcher for entry %s: %w", entryID, err)
	}

	matcher := domain.PendingBankMatcher{
		ID:        uuid.NewString(),
		Account:   account,
		Pattern:   pattern,
		Amount:    amount,
		EntryID:   entryID,
		CreatedAt: s.Now(),
	}
	if err := s.matcherRepo.SaveMatcher(ctx, matcher); err != nil {
		return nil, fmt.Errorf("failed to save bank matcher: %w", err)
	}

	s.LogInfo(ctx, "Registered pending bank matcher",
		slog.Int("account", account),
		slog.String("pattern", pattern),
		slog.String("amount", amount.String()),
		slog.String("entry_id", entryID))
	return &matcher, nil
}

func (s *bankMatcherService) MatchStatementLine(ctx context.Context, account int, text string, amount decimal.Decimal) (bool, error) {
	matched := false
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		matchers, err := s.matcherRepo.FindMatchersByAccount(ctx, account)
		if err != nil {
			return fmt.Errorf("failed to list matchers for account %d: %w", account, err)
		}

		var hits []domain.PendingBankMatcher
		for _, m := range matchers {
			if !m.Amount.Equal(amount) {
				continue
			}
			re, err := regexp.Compile(m.Pattern)
			if err != nil {
				s.LogWarn(ctx, "Skipping matcher with invalid pattern", slog.String("matcher_id", m.ID))
				continue
			}
			if re.MatchString(text) {
				hits = append(hits, m)
			}
		}
		if len(hits) != 1 {
			if len(hits) > 1 {
				s.LogWarn(ctx, "Statement line matches more than one pending matcher",
					slog.Int("account", account),
					slog.String("text", text))
			}
			return nil
		}

		hit := hits[0]
		if err := s.ledger.CloseEntry(ctx, hit.EntryID); err != nil {
			return err
		}
		if err := s.matcherRepo.DeleteMatcher(ctx, hit.ID); err != nil {
			return fmt.Errorf("failed to delete matcher %s: %w", hit.ID, err)
		}
		matched = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return matched, nil
}
