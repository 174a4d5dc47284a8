package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestNotFoundOr(t *testing.T) {
	assert.ErrorIs(t, notFoundOr(pgx.ErrNoRows, "lookup"), apperrors.ErrNotFound)
	assert.ErrorIs(t, notFoundOr(fmt.Errorf("scan: %w", pgx.ErrNoRows), "lookup"), apperrors.ErrNotFound)

	cause := errors.New("conn closed")
	err := notFoundOr(cause, "lookup")
	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.Code)
	assert.ErrorIs(t, err, cause)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
