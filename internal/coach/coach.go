// Package coach talks to the text-completion backend used by the money
// coach chat and the decision game.
package coach

import (
	"context"
	"errors"
	"time"
)

// ErrMissingAPIKey is a configuration error: no completion credential is
// configured. It is never retried.
var ErrMissingAPIKey = errors.New("AI Chat requires a Gemini API key")

// ErrEmptyCompletion is returned when the backend answers with no text.
var ErrEmptyCompletion = errors.New("empty completion")

// Request is one stateless completion call.
type Request struct {
	Prompt string
	System string
}

// Completer produces a text response for a prompt.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Unavailable is the completer used when no credential is configured.
type Unavailable struct{}

// Complete always fails with ErrMissingAPIKey.
func (Unavailable) Complete(context.Context, Request) (string, error) {
	return "", ErrMissingAPIKey
}

// Config configures the completion backend.
type Config struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
}

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash-lite"

// New returns a retrying Gemini completer, or Unavailable when cfg carries
// no API key.
func New(ctx context.Context, cfg Config) (Completer, error) {
	if cfg.APIKey == "" {
		return Unavailable{}, nil
	}
	g, err := NewGemini(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, err
	}
	return NewRetrying(g, cfg.Timeout, cfg.MaxAttempts), nil
}
