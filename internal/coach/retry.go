package coach

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/mmynk/moneymates/internal/metrics"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 3
)

// Retrying wraps a Completer with a per-attempt timeout and bounded
// exponential backoff. Configuration errors and cancellation of the
// caller's context stop the retries immediately.
type Retrying struct {
	next        Completer
	timeout     time.Duration
	maxAttempts int
	newBackOff  func() backoff.BackOff
}

// NewRetrying wraps next. Zero values fall back to a 10s timeout and three
// attempts.
func NewRetrying(next Completer, timeout time.Duration, maxAttempts int) *Retrying {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Retrying{
		next:        next,
		timeout:     timeout,
		maxAttempts: maxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 4 * time.Second
			return b
		},
	}
}

// Complete calls the wrapped completer until it succeeds or the attempts
// run out.
func (r *Retrying) Complete(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	defer func() {
		metrics.CompletionDuration.Observe(time.Since(start).Seconds())
	}()

	var text string
	attempt := 0
	op := func() error {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		out, err := r.next.Complete(attemptCtx, req)
		if err == nil {
			text = out
			return nil
		}
		if errors.Is(err, ErrMissingAPIKey) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		slog.Warn("Completion attempt failed", "attempt", attempt, "max_attempts", r.maxAttempts, "error", err)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(r.newBackOff(), uint64(r.maxAttempts-1)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		metrics.CompletionRequests.WithLabelValues(outcome(err)).Inc()
		return "", err
	}
	metrics.CompletionRequests.WithLabelValues("ok").Inc()
	return text, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return "unconfigured"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
