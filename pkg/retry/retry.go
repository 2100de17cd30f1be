package retry

import (
	"context"
)

// Do runs operation until it succeeds, fails with an error the policy does not
// retry, or the policy budget has been spent waiting.
//
// On failure the error of the last attempt is returned unchanged, so callers see
// exactly what a single unguarded call would have produced.
//
// name identifies the operation in log records.
func Do[T any](ctx context.Context, p Policy, name string, operation func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if v, ok := p.Classifier.(validator); ok {
		if err := v.Validate(); err != nil {
			return zero, err
		}
	}

	logger := p.logger()
	jitter := p.jitter()

	for attempt := 1; ; attempt++ {
		result, err := operation(ctx)
		if err == nil {
			return result, nil
		}

		attrs := []any{"operation", name, "attempt", attempt, "elapsed", jitter.Elapsed()}
		if p.LogErrors {
			attrs = append(attrs, "error", err)
		}
		logger.Debug("Operation attempt failed", attrs...)

		// A cancelled caller cannot use another attempt.
		if ctx.Err() != nil {
			return zero, err
		}

		if !p.retryable(err) {
			return zero, err
		}

		if jitter.Elapsed() > p.Budget {
			logger.Debug("Retry budget exhausted", "operation", name, "attempts", attempt, "budget", p.Budget)
			return zero, err
		}

		jitter.Backoff()
	}
}

// Run is Do for operations without a result.
func Run(ctx context.Context, p Policy, name string, operation func(ctx context.Context) error) error {
	_, err := Do(ctx, p, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	})
	return err
}
