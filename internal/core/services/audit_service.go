package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
	"github.com/google/uuid"
)

type auditService struct {
	BaseService
	repo portsrepo.ProviderLogRepository
}

// NewAuditService creates the provider audit logger.
func NewAuditService(repo portsrepo.ProviderLogRepository) portssvc.AuditLoggerSvc {
	return &auditService{repo: repo}
}

var _ portssvc.AuditLoggerSvc = (*auditService)(nil)

func (s *auditService) Log(ctx context.Context, provider domain.Provider, methodID int, message string, isError bool) error {
	entry := domain.ProviderLogEntry{
		ID:              uuid.NewString(),
		PaymentMethodID: methodID,
		Provider:        provider,
		Message:         message,
		IsError:         isError,
		CreatedAt:       s.Now(),
	}
	if err := s.repo.AppendLog(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to append provider log", "message", message)
		return fmt.Errorf("failed to append provider log: %w", err)
	}
	return nil
}
