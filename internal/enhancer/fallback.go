package enhancer

import (
	"context"
	"time"
)

// WithFallback runs primary under a timeout and returns its value with true on
// success. On any failure, including a nil-enhancer ErrDisabled, it returns
// fallback's value, false and the primary's error. The error is for logging
// only; callers must not surface it. A timeout <= 0 applies no extra deadline.
func WithFallback[T any](ctx context.Context, timeout time.Duration, primary func(context.Context) (T, error), fallback func() T) (T, bool, error) {
	if err := ctx.Err(); err != nil {
		return fallback(), false, err
	}

	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	value, err := primary(callCtx)
	if err != nil {
		return fallback(), false, err
	}
	return value, true, nil
}
