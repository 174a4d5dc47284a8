package pgsql

import (
	"context"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProviderLogRepository struct {
	BaseRepository
}

func newPgxProviderLogRepository(pool *pgxpool.Pool) portsrepo.ProviderLogRepository {
	return &PgxProviderLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProviderLogRepository = (*PgxProviderLogRepository)(nil)

func (r *PgxProviderLogRepository) AppendLog(ctx context.Context, entry domain.ProviderLogEntry) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO provider_log (log_id, payment_method_id, provider, message, is_error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`, entry.ID, entry.PaymentMethodID, entry.Provider, entry.Message, entry.IsError, entry.CreatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to append provider log", err)
	}
	return nil
}

type PgxMailQueueRepository struct {
	BaseRepository
}

func newPgxMailQueueRepository(pool *pgxpool.Pool) portsrepo.MailQueueRepository {
	return &PgxMailQueueRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MailQueueRepository = (*PgxMailQueueRepository)(nil)

// EnqueueMail stores the mail in the same transaction as the work that triggered it.
func (r *PgxMailQueueRepository) EnqueueMail(ctx context.Context, mail domain.QueuedMail) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO mail_queue (mail_id, sender, receiver, subject, body, send_at, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`, mail.ID, mail.Sender, mail.Receiver, mail.Subject, mail.Body, mail.SendAt, mail.RegisteredAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to enqueue mail to "+mail.Receiver, err)
	}
	return nil
}
