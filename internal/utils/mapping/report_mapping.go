package mapping

import (
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/SscSPs/payment_reconciler/internal/models"
)

// ToModelReport converts a domain Report to a model Report
func ToModelReport(d domain.Report) models.Report {
	return models.Report{
		ReportID:        d.ID,
		PaymentMethodID: d.PaymentMethodID,
		URL:             d.URL,
		Kind:            models.ReportKind(d.Kind),
		BatchNumber:     nullableString(d.BatchNumber),
		MerchantAccount: d.MerchantAccount,
		Contents:        d.Contents,
		ReceivedAt:      d.ReceivedAt,
		DownloadedAt:    d.DownloadedAt,
		ProcessedAt:     d.ProcessedAt,
	}
}

// ToDomainReport converts a model Report to a domain Report
func ToDomainReport(m models.Report) domain.Report {
	return domain.Report{
		ID:              m.ReportID,
		PaymentMethodID: m.PaymentMethodID,
		URL:             m.URL,
		Kind:            domain.ReportKind(m.Kind),
		BatchNumber:     stringOrEmpty(m.BatchNumber),
		MerchantAccount: m.MerchantAccount,
		Contents:        m.Contents,
		ReceivedAt:      m.ReceivedAt,
		DownloadedAt:    m.DownloadedAt,
		ProcessedAt:     m.ProcessedAt,
	}
}

// ToDomainReports converts a slice of model Reports
func ToDomainReports(ms []models.Report) []domain.Report {
	ds := make([]domain.Report, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReport(m)
	}
	return ds
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
