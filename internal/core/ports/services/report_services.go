package services

import (
	"context"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/SscSPs/payment_reconciler/internal/dto"
)

// ReportFetcherSvc downloads pending reports of a payment method.
type ReportFetcherSvc interface {
	DownloadReports(ctx context.Context, method domain.AdyenMethod) error
}

// ReportProcessorSvc processes downloaded reports of a payment method.
type ReportProcessorSvc interface {
	ProcessReports(ctx context.Context, method domain.AdyenMethod) error
}

// ReportHandler applies one kind of downloaded report. It runs inside the
// transaction of the report.
type ReportHandler interface {
	Handle(ctx context.Context, method domain.AdyenMethod, report domain.Report) error
}

// ReportIntakeSvc accepts report availability notifications.
type ReportIntakeSvc interface {
	// RegisterReport stores the report if its URL is new. created is false for duplicates.
	RegisterReport(ctx context.Context, req dto.ReportNotificationRequest) (created bool, err error)
}
