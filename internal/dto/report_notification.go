package dto

import (
	"time"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
)

// ReportNotificationRequest is the report availability notification posted by Adyen.
type ReportNotificationRequest struct {
	PaymentMethodID     int       `json:"paymentMethodId" binding:"required,gt=0"`
	URL                 string    `json:"url" binding:"required,url"`
	MerchantAccountCode string    `json:"merchantAccountCode" binding:"required"`
	EventDate           time.Time `json:"eventDate"`
}

// ReportNotificationResponse is returned for accepted notifications.
type ReportNotificationResponse struct {
	Status string            `json:"status"`
	Kind   domain.ReportKind `json:"kind"`
}

// ToReport converts a notification into a new, not yet downloaded report.
func (r ReportNotificationRequest) ToReport(id string, receivedAt time.Time) domain.Report {
	c := domain.ClassifyReportURL(r.URL)
	return domain.Report{
		ID:              id,
		PaymentMethodID: r.PaymentMethodID,
		URL:             r.URL,
		Kind:            c.Kind,
		BatchNumber:     c.BatchNumber,
		MerchantAccount: r.MerchantAccountCode,
		ReceivedAt:      receivedAt,
	}
}
