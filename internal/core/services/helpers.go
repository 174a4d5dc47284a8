package services

import (
	"errors"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
)

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
