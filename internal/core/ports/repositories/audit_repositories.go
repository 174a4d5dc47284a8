package repositories

import (
	"context"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
)

// ProviderLogRepository appends to the provider audit log
type ProviderLogRepository interface {
	AppendLog(ctx context.Context, entry domain.ProviderLogEntry) error
}

// MailQueueRepository hands mail to the delivery queue
type MailQueueRepository interface {
	EnqueueMail(ctx context.Context, mail domain.QueuedMail) error
}
