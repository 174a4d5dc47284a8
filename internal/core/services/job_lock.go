package services

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	"github.com/SscSPs/payment_reconciler/internal/middleware"
)

// RunExclusive runs fn while holding the job lock for key. If another run holds the
// lock, fn is skipped and RunExclusive returns false.
func RunExclusive(ctx context.Context, locker portsrepo.JobLocker, key string, fn func(ctx context.Context) error) (bool, error) {
	unlock, acquired, err := locker.TryLock(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to acquire job lock %s: %w", key, err)
	}
	if !acquired {
		middleware.GetLoggerFromCtx(ctx).Warn("Job already running, skipping", slog.String("lock", key))
		return false, nil
	}
	defer unlock()

	return true, fn(ctx)
}
