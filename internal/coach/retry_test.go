package coach

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// fastRetrying skips the backoff waits.
func fastRetrying(next Completer, timeout time.Duration, attempts int) *Retrying {
	r := NewRetrying(next, timeout, attempts)
	r.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return r
}

func TestRetryingSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	next := CompleterFunc(func(ctx context.Context, req Request) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("503 overloaded")
		}
		return "Ramen.", nil
	})

	got, err := fastRetrying(next, time.Second, 3).Complete(context.Background(), Request{Prompt: "p"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "Ramen." || calls != 3 {
		t.Errorf("got %q after %d calls, want Ramen. after 3", got, calls)
	}
}

func TestRetryingGivesUp(t *testing.T) {
	calls := 0
	errDown := errors.New("down")
	next := CompleterFunc(func(context.Context, Request) (string, error) {
		calls++
		return "", errDown
	})

	_, err := fastRetrying(next, time.Second, 3).Complete(context.Background(), Request{})
	if !errors.Is(err, errDown) {
		t.Errorf("error = %v, want down", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryingDoesNotRetryMissingKey(t *testing.T) {
	calls := 0
	next := CompleterFunc(func(ctx context.Context, req Request) (string, error) {
		calls++
		return Unavailable{}.Complete(ctx, req)
	})

	_, err := fastRetrying(next, time.Second, 5).Complete(context.Background(), Request{})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("error = %v, want ErrMissingAPIKey", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryingAppliesAttemptTimeout(t *testing.T) {
	next := CompleterFunc(func(ctx context.Context, req Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	start := time.Now()
	_, err := fastRetrying(next, 20*time.Millisecond, 2).Complete(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("took %v, attempts should time out quickly", elapsed)
	}
}

func TestNewWithoutKeyIsUnavailable(t *testing.T) {
	c, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := c.Complete(context.Background(), Request{Prompt: "hi"}); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("error = %v, want ErrMissingAPIKey", err)
	}
	if ErrMissingAPIKey.Error() != "AI Chat requires a Gemini API key" {
		t.Errorf("message = %q", ErrMissingAPIKey.Error())
	}
}
