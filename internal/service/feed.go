package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/moneymates/internal/calculator"
	"github.com/mmynk/moneymates/internal/models"
	"github.com/mmynk/moneymates/internal/realtime"
	"github.com/mmynk/moneymates/internal/storage"
)

// Feed loads the full current state of a topic and publishes it to the hub
// after writes. Subscribers get the whole collection on every change, never
// a diff.
type Feed struct {
	*core
}

// Load returns the current state of topic. The game topic yields the raw
// session, which callers must redact per viewer before sending.
func (f *Feed) Load(ctx context.Context, topic realtime.Topic) (any, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	switch topic {
	case realtime.TopicProfiles:
		return f.store.ListProfiles(ctx)
	case realtime.TopicTransactions:
		return f.store.ListTransactions(ctx)
	case realtime.TopicGoals:
		return f.store.ListGoals(ctx)
	case realtime.TopicTarget:
		t, err := f.target(ctx)
		if t == nil {
			return nil, err
		}
		return t, nil
	case realtime.TopicPeriods:
		return f.store.ListCutoffPeriods(ctx)
	case realtime.TopicStats:
		return f.stats(ctx)
	case realtime.TopicGame:
		s, err := f.store.GetGameSession(ctx)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return s, err
	}
	return nil, fmt.Errorf("unknown topic %q", topic)
}

// publish reloads and broadcasts each topic. Failures are logged and never
// reach the caller: the write that triggered them has already committed.
func (f *Feed) publish(ctx context.Context, topics ...realtime.Topic) {
	if f.opts.Hub == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, topic := range topics {
		data, err := f.Load(ctx, topic)
		if err != nil {
			slog.Warn("Publish failed", "topic", topic, "error", err)
			continue
		}
		f.opts.Hub.Publish(topic, data)
	}
}

// target returns the stored target, or nil when none was ever set.
func (c *core) target(ctx context.Context) (*models.SavingsTarget, error) {
	t, err := c.store.GetTarget(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// stats recomputes the current period from the target and the full ledger.
func (c *core) stats(ctx context.Context) (*calculator.PeriodStats, error) {
	t, err := c.store.GetTarget(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load target: %w", err)
	}
	if !t.IsActive {
		return nil, nil
	}
	txs, err := c.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return calculator.ComputeStats(t, txs, c.now()), nil
}
