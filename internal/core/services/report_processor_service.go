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

type reportProcessorService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	reportRepo portsrepo.ReportRepositoryFacade
	audit      portssvc.AuditLoggerSvc
	handlers   map[domain.ReportKind]portssvc.ReportHandler
}

// ReportProcessorOption configures the report processor
type ReportProcessorOption func(*reportProcessorService)

// WithReportHandler registers h for reports of the given kind, replacing any previous handler.
func WithReportHandler(kind domain.ReportKind, h portssvc.ReportHandler) ReportProcessorOption {
	return func(s *reportProcessorService) {
		s.handlers[kind] = h
	}
}

// NewReportProcessorService creates a report processor. Handlers for each report
// kind are registered through options.
func NewReportProcessorService(txManager portsrepo.TransactionManager, reportRepo portsrepo.ReportRepositoryFacade, audit portssvc.AuditLoggerSvc, options ...ReportProcessorOption) portssvc.ReportProcessorSvc {
	svc := &reportProcessorService{
		txManager:  txManager,
		reportRepo: reportRepo,
		audit:      audit,
		handlers:   make(map[domain.ReportKind]portssvc.ReportHandler),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportProcessorSvc = (*reportProcessorService)(nil)

// ProcessReports applies every downloaded but unprocessed report of the method in
// download order, each in its own transaction.
func (s *reportProcessorService) ProcessReports(ctx context.Context, method domain.AdyenMethod) error {
	reports, err := s.reportRepo.FindReportsPendingProcessing(ctx, method.ID)
	if err != nil {
		return fmt.Errorf("failed to list reports pending processing: %w", err)
	}

	for _, report := range reports {
		logger := s.GetLogger(ctx).With(slog.String("url", report.URL), slog.String("kind", string(report.Kind)))
		logger.Info("Processing report")

		if err := s.processReport(ctx, method, report); err != nil {
			logger.Error("Failed to process report", slog.String("error", err.Error()))
			if auditErr := s.audit.Log(ctx, domain.ProviderAdyen, method.ID,
				fmt.Sprintf("Failed to process report %s: %v", report.URL, err), true); auditErr != nil {
				return auditErr
			}
		}
	}
	return nil
}

func (s *reportProcessorService) processReport(ctx context.Context, method domain.AdyenMethod, report domain.Report) error {
	handler, ok := s.handlers[report.Kind]
	if !ok {
		return fmt.Errorf("%w: unknown report type in file %q", apperrors.ErrValidation, report.URL)
	}

	return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := handler.Handle(ctx, method, report); err != nil {
			return err
		}
		if err := report.MarkProcessed(s.Now()); err != nil {
			return err
		}
		if err := s.reportRepo.UpdateReport(ctx, report); err != nil {
			return fmt.Errorf("failed to flag report processed: %w", err)
		}
		return s.audit.Log(ctx, domain.ProviderAdyen, method.ID, fmt.Sprintf("Processed report %s", report.URL), false)
	})
}
