package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
)

// ReportKind is the report variant, derived from the report file name once at intake.
type ReportKind string

const (
	ReportKindPaymentsAccounting ReportKind = "PAYMENTS_ACCOUNTING"
	ReportKindReceivedPayments   ReportKind = "RECEIVED_PAYMENTS"
	ReportKindSettlementDetail   ReportKind = "SETTLEMENT_DETAIL_BATCH"
	ReportKindUnknown            ReportKind = "UNKNOWN"
)

// ReportFileType groups report URLs by extension.
type ReportFileType int

const (
	FileTypeCSV ReportFileType = iota
	// FileTypeDocument covers formats we know about but never parse.
	FileTypeDocument
	FileTypeUnknown
)

var batchNumberRegexp = regexp.MustCompile(`settlement_detail_report_batch_(\d+)\.csv$`)

// ReportClassification is the result of classifying a report URL.
type ReportClassification struct {
	Kind        ReportKind
	FileType    ReportFileType
	BatchNumber string
}

// ClassifyReportURL derives kind, file type and (for settlement batches) the batch number from a URL.
func ClassifyReportURL(url string) ReportClassification {
	c := ReportClassification{Kind: ReportKindUnknown, FileType: fileTypeOf(url)}

	filename := url
	if i := strings.LastIndex(url, "/"); i >= 0 {
		filename = url[i+1:]
	}

	switch {
	case strings.HasPrefix(filename, "payments_accounting_report_"):
		c.Kind = ReportKindPaymentsAccounting
	case strings.HasPrefix(filename, "received_payments_report"):
		c.Kind = ReportKindReceivedPayments
	case strings.HasPrefix(filename, "settlement_detail_report_batch_"):
		if m := batchNumberRegexp.FindStringSubmatch(url); m != nil {
			c.Kind = ReportKindSettlementDetail
			c.BatchNumber = m[1]
		}
	}
	return c
}

func fileTypeOf(url string) ReportFileType {
	switch {
	case strings.HasSuffix(url, ".csv"):
		return FileTypeCSV
	case strings.HasSuffix(url, ".pdf"), strings.HasSuffix(url, ".xlsx"):
		return FileTypeDocument
	default:
		return FileTypeUnknown
	}
}

// Report is one provider-issued report file.
type Report struct {
	ID              string     `json:"id"`
	PaymentMethodID int        `json:"paymentMethodID"`
	URL             string     `json:"url"`
	Kind            ReportKind `json:"kind"`
	BatchNumber     string     `json:"batchNumber"`
	MerchantAccount string     `json:"merchantAccount"`
	Contents        *string    `json:"-"`
	ReceivedAt      time.Time  `json:"receivedAt"`
	DownloadedAt    *time.Time `json:"downloadedAt"`
	ProcessedAt     *time.Time `json:"processedAt"`
}

// FileType returns the file type implied by the report URL.
func (r *Report) FileType() ReportFileType {
	return fileTypeOf(r.URL)
}

// MarkDownloaded stores the fetched contents.
func (r *Report) MarkDownloaded(at time.Time, contents string) {
	r.DownloadedAt = &at
	r.Contents = &contents
}

// MarkSkipped flags a report we never parse as both downloaded and processed.
func (r *Report) MarkSkipped(at time.Time) {
	r.DownloadedAt = &at
	r.ProcessedAt = &at
}

// MarkProcessed flags the report as processed. A report can only be processed once,
// and only after it has been downloaded.
func (r *Report) MarkProcessed(at time.Time) error {
	if r.DownloadedAt == nil {
		return fmt.Errorf("%w: report %s has not been downloaded", apperrors.ErrValidation, r.URL)
	}
	if r.ProcessedAt != nil {
		return fmt.Errorf("%w: report %s already processed at %s", apperrors.ErrValidation, r.URL, r.ProcessedAt.Format(time.RFC3339))
	}
	r.ProcessedAt = &at
	return nil
}
