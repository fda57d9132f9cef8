package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/moneymates/internal/calculator"
	"github.com/mmynk/moneymates/internal/coach"
	"github.com/mmynk/moneymates/internal/models"
	"github.com/mmynk/moneymates/internal/money"
)

// CoachService answers chat messages about the shared ledger.
type CoachService struct {
	*core
	completer coach.Completer
}

// Chat answers message given the earlier chat history. The reply is
// grounded in a fresh snapshot of the ledger.
func (s *CoachService) Chat(ctx context.Context, actor string, history []coach.Message, message string) (*coach.Message, error) {
	slog.Info("CoachChat request received", "profile_id", actor, "history", len(history))

	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	text, err := s.completer.Complete(ctx, coach.Request{
		Prompt: coach.BuildChatPrompt(history, message),
		System: coach.BuildSystemPrompt(snap, money.NewFormatter(s.opts.Currency)),
	})
	if err != nil {
		slog.Error("CoachChat failed", "profile_id", actor, "error", err)
		return nil, err
	}
	return &coach.Message{Role: coach.RoleAssistant, Content: text}, nil
}

func (s *CoachService) snapshot(ctx context.Context) (*coach.Snapshot, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	periods, err := s.store.ListCutoffPeriods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	goals, err := s.store.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	target, err := s.target(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load target: %w", err)
	}

	snap := &coach.Snapshot{
		Profiles:     make(map[string]models.Profile, len(profiles)),
		Totals:       calculator.Totals(txs),
		Periods:      periods,
		Transactions: txs,
		Goals:        goals,
		Target:       target,
	}
	for _, p := range profiles {
		snap.Profiles[p.ID] = p
	}
	return snap, nil
}
