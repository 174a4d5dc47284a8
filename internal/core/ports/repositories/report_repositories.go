package repositories

import (
	"context"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
)

// ReportReader defines read operations for provider reports
type ReportReader interface {
	// FindReportsPendingDownload returns reports of a payment method without a
	// download timestamp, oldest received first.
	FindReportsPendingDownload(ctx context.Context, paymentMethodID int) ([]domain.Report, error)

	// FindReportsPendingProcessing returns downloaded but unprocessed reports of a
	// payment method, oldest download first.
	FindReportsPendingProcessing(ctx context.Context, paymentMethodID int) ([]domain.Report, error)
}

// ReportWriter defines write operations for provider reports
type ReportWriter interface {
	// CreateReport stores a new report. It returns apperrors.ErrDuplicate if the URL is known.
	CreateReport(ctx context.Context, report domain.Report) error

	// UpdateReport persists the content and timestamps of a report.
	UpdateReport(ctx context.Context, report domain.Report) error
}

// ReportRepositoryFacade combines all report-related repository interfaces
type ReportRepositoryFacade interface {
	ReportReader
	ReportWriter
}

// TransactionStatusRepositoryFacade defines persistence of card payment statuses
type TransactionStatusRepositoryFacade interface {
	// FindByPSPReference returns apperrors.ErrNotFound if the reference is unknown for the method.
	FindByPSPReference(ctx context.Context, paymentMethodID int, pspReference string) (*domain.TransactionStatus, error)

	UpdateTransactionStatus(ctx context.Context, status domain.TransactionStatus) error
}
