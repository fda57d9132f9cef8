package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/moneymates/internal/calculator"
	"github.com/mmynk/moneymates/internal/models"
	"github.com/mmynk/moneymates/internal/realtime"
)

// GoalService manages shared savings goals.
type GoalService struct {
	*core
}

// Create adds a goal owned by actor.
func (s *GoalService) Create(ctx context.Context, actor string, in models.NewGoal) (*models.Goal, error) {
	slog.Info("CreateGoal request received", "profile_id", actor, "title", in.Title)

	if !models.IsProfileID(actor) {
		return nil, calculator.ErrUnknownProfile
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	target, err := parseAmount(in.TargetAmount)
	if err != nil {
		return nil, err
	}
	if in.Deadline != "" {
		if _, err := calculator.ParseDate(in.Deadline, s.opts.Location); err != nil {
			return nil, err
		}
	}
	emoji := strings.TrimSpace(in.Emoji)
	if emoji == "" {
		emoji = models.DefaultGoalEmoji
	}

	g := &models.Goal{
		Title:         title,
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		Deadline:      in.Deadline,
		Emoji:         emoji,
		CreatedBy:     actor,
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.store.CreateGoal(ctx, g); err != nil {
		slog.Error("CreateGoal failed", "error", err)
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}

	slog.Info("Goal created", "goal_id", g.ID)
	s.feed.publish(ctx, realtime.TopicGoals)
	return g, nil
}

// List returns all goals, newest first.
func (s *GoalService) List(ctx context.Context) ([]models.Goal, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	goals, err := s.store.ListGoals(ctx)
	if err != nil {
		slog.Error("ListGoals failed", "error", err)
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

// SetAmount overwrites a goal's current amount. Zero is allowed.
func (s *GoalService) SetAmount(ctx context.Context, id, amount string) (*models.Goal, error) {
	slog.Info("SetGoalAmount request received", "goal_id", id, "amount", amount)

	d, err := decimal.NewFromString(amount)
	if err != nil || d.IsNegative() {
		return nil, ErrInvalidAmount
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.store.SetGoalAmount(ctx, id, d.Round(2)); err != nil {
		return nil, err
	}
	return s.reload(ctx, id)
}

// Contribute atomically adds amount to a goal, so contributions from both
// profiles at the same time all count.
func (s *GoalService) Contribute(ctx context.Context, id, amount string) (*models.Goal, error) {
	slog.Info("ContributeGoal request received", "goal_id", id, "amount", amount)

	d, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.store.IncrementGoal(ctx, id, d); err != nil {
		return nil, err
	}
	return s.reload(ctx, id)
}

// Delete removes a goal. Either profile may delete any goal.
func (s *GoalService) Delete(ctx context.Context, id string) error {
	slog.Info("DeleteGoal request received", "goal_id", id)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return err
	}
	s.feed.publish(ctx, realtime.TopicGoals)
	return nil
}

func (s *GoalService) reload(ctx context.Context, id string) (*models.Goal, error) {
	g, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	s.feed.publish(ctx, realtime.TopicGoals)
	return g, nil
}
