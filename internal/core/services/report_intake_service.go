package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
	"github.com/SscSPs/payment_reconciler/internal/dto"
	"github.com/google/uuid"
)

type reportIntakeService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	reportRepo portsrepo.ReportRepositoryFacade
	audit      portssvc.AuditLoggerSvc
}

// NewReportIntakeService creates the receiver of report availability notifications.
func NewReportIntakeService(txManager portsrepo.TransactionManager, reportRepo portsrepo.ReportRepositoryFacade, audit portssvc.AuditLoggerSvc) portssvc.ReportIntakeSvc {
	return &reportIntakeService{
		txManager:  txManager,
		reportRepo: reportRepo,
		audit:      audit,
	}
}

var _ portssvc.ReportIntakeSvc = (*reportIntakeService)(nil)

func (s *reportIntakeService) RegisterReport(ctx context.Context, req dto.ReportNotificationRequest) (bool, error) {
	report := req.ToReport(uuid.NewString(), s.Now())

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.reportRepo.CreateReport(ctx, report); err != nil {
			return err
		}
		return s.audit.Log(ctx, domain.ProviderAdyen, req.PaymentMethodID,
			fmt.Sprintf("Received notification for report %s", req.URL), false)
	})
	if errors.Is(err, apperrors.ErrDuplicate) {
		s.LogInfo(ctx, "Report already known, ignoring notification", slog.String("url", req.URL))
		return false, nil
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to register report", slog.String("url", req.URL))
		return false, fmt.Errorf("failed to register report %s: %w", req.URL, err)
	}

	s.LogInfo(ctx, "Report registered",
		slog.String("url", req.URL),
		slog.String("kind", string(report.Kind)),
		slog.Int("payment_method", req.PaymentMethodID))
	return true, nil
}
