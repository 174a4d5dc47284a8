package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/SscSPs/payment_reconciler/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
)

type reportFetcherService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	reportRepo portsrepo.ReportRepositoryFacade
	source     providers.ReportSource
	audit      portssvc.AuditLoggerSvc
}

// NewReportFetcherService creates the downloader of pending Adyen reports.
func NewReportFetcherService(txManager portsrepo.TransactionManager, reportRepo portsrepo.ReportRepositoryFacade, source providers.ReportSource, audit portssvc.AuditLoggerSvc) portssvc.ReportFetcherSvc {
	return &reportFetcherService{
		txManager:  txManager,
		reportRepo: reportRepo,
		source:     source,
		audit:      audit,
	}
}

var _ portssvc.ReportFetcherSvc = (*reportFetcherService)(nil)

// DownloadReports fetches every report of the method that has not been downloaded,
// oldest first. A failing report is left for the next run and does not stop the others.
func (s *reportFetcherService) DownloadReports(ctx context.Context, method domain.AdyenMethod) error {
	reports, err := s.reportRepo.FindReportsPendingDownload(ctx, method.ID)
	if err != nil {
		return fmt.Errorf("failed to list reports pending download: %w", err)
	}

	for _, report := range reports {
		logger := s.GetLogger(ctx).With(slog.String("url", report.URL))

		if report.FileType() != domain.FileTypeCSV {
			if err := s.skipReport(ctx, method, report); err != nil {
				logger.Error("Failed to flag non-csv report", slog.String("error", err.Error()))
			}
			continue
		}

		logger.Info("Downloading report")
		err := s.downloadReport(ctx, method, report)
		if err == nil {
			continue
		}
		if errors.Is(err, apperrors.ErrTransient) {
			logger.Warn("Report not stored, will try again", slog.String("error", err.Error()))
		} else {
			logger.Error("Failed to download report", slog.String("error", err.Error()))
		}
		// The download transaction is rolled back, so the audit entry goes in its own.
		if auditErr := s.audit.Log(ctx, domain.ProviderAdyen, method.ID,
			fmt.Sprintf("Failed to download report %s: %v", report.URL, err), true); auditErr != nil {
			return auditErr
		}
	}
	return nil
}

func (s *reportFetcherService) skipReport(ctx context.Context, method domain.AdyenMethod, report domain.Report) error {
	return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		report.MarkSkipped(s.Now())
		if err := s.reportRepo.UpdateReport(ctx, report); err != nil {
			return err
		}
		if report.FileType() == domain.FileTypeDocument {
			return s.audit.Log(ctx, domain.ProviderAdyen, method.ID,
				fmt.Sprintf("Report %s is not of type csv, ignoring but flagging as downloaded and processed", report.URL), false)
		}
		return s.audit.Log(ctx, domain.ProviderAdyen, method.ID,
			fmt.Sprintf("Report %s is of unknown type, ignoring but flagging as downloaded and processed", report.URL), true)
	})
}

func (s *reportFetcherService) downloadReport(ctx context.Context, method domain.AdyenMethod, report domain.Report) error {
	return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		contents, err := s.source.FetchReport(ctx, report.URL, method.ReportUser, method.ReportPassword)
		if err != nil {
			return err
		}
		report.MarkDownloaded(s.Now(), contents)
		if err := s.reportRepo.UpdateReport(ctx, report); err != nil {
			return fmt.Errorf("failed to store report contents: %w", err)
		}
		return s.audit.Log(ctx, domain.ProviderAdyen, method.ID, fmt.Sprintf("Downloaded report %s", report.URL), false)
	})
}
