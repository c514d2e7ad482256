package service

import (
	"context"
	"errors"
	"time"

	"github.com/avolkov/ipod-store/internal/domain"
)

// storeCaller bounds every repository call with the configured timeout
// and maps the resulting context errors to the storage error kinds, so
// they are never mistaken for credential failures upstream.
type storeCaller struct {
	timeout time.Duration
}

func (s storeCaller) call(ctx context.Context, op func(context.Context) error) error {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return mapStorageErr(op(opCtx))
}

// callWithRetry additionally retries once, immediately, on a transient
// failure. Only safe for reads and idempotent writes.
func (s storeCaller) callWithRetry(ctx context.Context, op func(context.Context) error) error {
	err := s.call(ctx, op)
	if err == nil || !transient(err) || ctx.Err() != nil {
		return err
	}
	return s.call(ctx, op)
}

func mapStorageErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return domain.ErrStorageTimeout
	default:
		return err
	}
}

// transient reports whether a failure is worth one more attempt. Only
// storage-level outages qualify; every other outcome is deterministic
// and a retry would just repeat it.
func transient(err error) bool {
	return errors.Is(err, domain.ErrStorageTimeout) || errors.Is(err, domain.ErrStorageUnavailable)
}
