package service

import (
	"bus_booking/apperror"
	"context"
	"log/slog"
)

// retryInternal runs fn again once when it fails with an InternalError.
// Contention, expiry and validation errors are returned as they are.
func retryInternal[T any](ctx context.Context, op string, fn func() (T, error)) (T, error) {
	result, err := fn()
	if err == nil || !apperror.IsInternal(err) || ctx.Err() != nil {
		return result, err
	}
	slog.Warn("retrying after internal error", "op", op, "error", err)
	return fn()
}
