package models

import "time"

// ReportKind mirrors the report_kind column values.
type ReportKind string

// Report is the payment_reports row.
type Report struct {
	ReportID        string     `json:"reportID"`        // Primary Key (UUID)
	PaymentMethodID int        `json:"paymentMethodID"` // Not Null
	URL             string     `json:"url"`             // Unique
	Kind            ReportKind `json:"kind"`
	BatchNumber     *string    `json:"batchNumber"` // Only for settlement batches
	MerchantAccount string     `json:"merchantAccount"`
	Contents        *string    `json:"contents"`    // Null until downloaded
	ReceivedAt      time.Time  `json:"receivedAt"`
	DownloadedAt    *time.Time `json:"downloadedAt"`
	ProcessedAt     *time.Time `json:"processedAt"`
}
