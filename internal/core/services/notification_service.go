package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
	"github.com/google/uuid"
)

type notificationService struct {
	BaseService
	mailRepo portsrepo.MailQueueRepository
}

// NewNotificationService creates a notifier writing to the mail queue.
func NewNotificationService(mailRepo portsrepo.MailQueueRepository) portssvc.NotificationSvc {
	return &notificationService{mailRepo: mailRepo}
}

var _ portssvc.NotificationSvc = (*notificationService)(nil)

func (s *notificationService) SendSimpleMail(ctx context.Context, sender, receiver, subject, body string) error {
	if receiver == "" {
		return fmt.Errorf("%w: mail %q has no receiver", apperrors.ErrValidation, subject)
	}
	now := s.Now()
	mail := domain.QueuedMail{
		ID:           uuid.NewString(),
		Sender:       sender,
		Receiver:     receiver,
		Subject:      subject,
		Body:         body,
		SendAt:       now,
		RegisteredAt: now,
	}
	if err := s.mailRepo.EnqueueMail(ctx, mail); err != nil {
		return fmt.Errorf("failed to enqueue mail %q: %w", subject, err)
	}
	s.LogDebug(ctx, "Mail enqueued", slog.String("subject", subject), slog.String("receiver", receiver))
	return nil
}
