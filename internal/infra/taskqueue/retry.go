package taskqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 100 * time.Millisecond
)

// retryPolicy doubles the delay after every failed attempt.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
}

func newRetryPolicy(maxAttempts int) retryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return retryPolicy{
		maxAttempts: maxAttempts,
		baseDelay:   defaultBaseDelay,
	}
}

func (p retryPolicy) delay(attempt int) time.Duration {
	return p.baseDelay << (attempt - 1)
}

// register runs attempt until it succeeds, the attempts are spent or ctx ends.
func (p retryPolicy) register(
	ctx context.Context,
	taskName string,
	attempt func(context.Context) (*TaskResponse, error),
) (*TaskResponse, error) {
	var lastErr error
	for n := 0; n < p.maxAttempts; n++ {
		if n > 0 {
			wait := p.delay(n)
			slog.DebugContext(ctx, "backing off before next enqueue attempt",
				slog.String("task_name", taskName),
				slog.Int("attempt", n+1),
				slog.Duration("wait", wait),
			)

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		resp, err := attempt(ctx)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	slog.ErrorContext(ctx, "giving up on reminder group enqueue",
		slog.String("task_name", taskName),
		slog.Int("attempts", p.maxAttempts),
		slog.String("error", lastErr.Error()),
	)
	return nil, fmt.Errorf("enqueue %s failed after %d attempts: %w", taskName, p.maxAttempts, lastErr)
}
