package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyReportURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		kind     domain.ReportKind
		fileType domain.ReportFileType
		batch    string
	}{
		{"payments accounting", "https://ca-test.adyen.com/reports/download/MerchantAccount/X/payments_accounting_report_2024_01_02.csv", domain.ReportKindPaymentsAccounting, domain.FileTypeCSV, ""},
		{"received payments", "https://example.com/a/received_payments_report_2024_01_02.csv", domain.ReportKindReceivedPayments, domain.FileTypeCSV, ""},
		{"settlement batch", "https://example.com/a/settlement_detail_report_batch_123.csv", domain.ReportKindSettlementDetail, domain.FileTypeCSV, "123"},
		{"settlement batch pdf", "https://example.com/a/settlement_detail_report_batch_123.pdf", domain.ReportKindUnknown, domain.FileTypeDocument, ""},
		{"monthly invoice", "https://example.com/a/monthly_invoice_2024.xlsx", domain.ReportKindUnknown, domain.FileTypeDocument, ""},
		{"zip", "https://example.com/a/something.zip", domain.ReportKindUnknown, domain.FileTypeUnknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := domain.ClassifyReportURL(tt.url)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, tt.fileType, c.FileType)
			assert.Equal(t, tt.batch, c.BatchNumber)
		})
	}
}

func TestReportLifecycle(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	r := domain.Report{URL: "https://example.com/payments_accounting_report_1.csv"}

	err := r.MarkProcessed(now)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, r.ProcessedAt)

	r.MarkDownloaded(now, "header\n")
	require.NoError(t, r.MarkProcessed(now.Add(time.Minute)))
	require.NotNil(t, r.ProcessedAt)

	err = r.MarkProcessed(now.Add(time.Hour))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, now.Add(time.Minute), *r.ProcessedAt)
}

func TestReportMarkSkipped(t *testing.T) {
	now := time.Now().UTC()
	r := domain.Report{URL: "https://example.com/x.pdf"}
	r.MarkSkipped(now)
	require.NotNil(t, r.DownloadedAt)
	require.NotNil(t, r.ProcessedAt)
	assert.Nil(t, r.Contents)
	assert.Equal(t, domain.FileTypeDocument, r.FileType())
}
