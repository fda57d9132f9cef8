package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/moneymates/internal/calculator"
	"github.com/mmynk/moneymates/internal/metrics"
	"github.com/mmynk/moneymates/internal/models"
	"github.com/mmynk/moneymates/internal/realtime"
	"github.com/mmynk/moneymates/internal/storage"
)

// TargetService manages the savings target, current period stats and the
// settlement of closed periods.
type TargetService struct {
	*core
}

// TargetInput is a target change merged over the stored target. Empty or
// nil fields keep their stored value.
type TargetInput struct {
	TargetAmount string  `json:"targetAmount"`
	IsActive     *bool   `json:"isActive"`
	CutoffDays   *[2]int `json:"cutoffDays"`
}

// Get returns the target, or nil when none was ever set.
func (s *TargetService) Get(ctx context.Context) (*models.SavingsTarget, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	t, err := s.target(ctx)
	if err != nil {
		slog.Error("GetTarget failed", "error", err)
		return nil, fmt.Errorf("failed to load target: %w", err)
	}
	return t, nil
}

// Set merges in over the stored target, or creates it. A new target is
// active with the configured cutoff days unless in says otherwise. The
// original creation time is kept.
func (s *TargetService) Set(ctx context.Context, in TargetInput) (*models.SavingsTarget, error) {
	slog.Info("SetTarget request received", "amount", in.TargetAmount)

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	t := &models.SavingsTarget{
		ID:         models.TargetID,
		IsActive:   true,
		CutoffDays: s.opts.CutoffDays,
		CreatedAt:  s.now(),
	}
	if current != nil {
		*t = *current
	}

	if in.TargetAmount != "" {
		amount, err := parseAmount(in.TargetAmount)
		if err != nil {
			return nil, err
		}
		t.TargetAmount = amount
	} else if current == nil {
		return nil, ErrInvalidAmount
	}
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}
	if in.CutoffDays != nil {
		t.CutoffDays = *in.CutoffDays
	}
	if err := calculator.ValidateCutoffs(t.CutoffDays); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.store.PutTarget(ctx, t); err != nil {
		slog.Error("SetTarget failed", "error", err)
		return nil, fmt.Errorf("failed to save target: %w", err)
	}

	slog.Info("Target saved", "amount", t.TargetAmount, "active", t.IsActive, "cutoffs", t.CutoffDays)
	s.feed.publish(ctx, realtime.TopicTarget, realtime.TopicStats)
	return t, nil
}

// SetActive toggles period tracking without touching the rest of the
// target.
func (s *TargetService) SetActive(ctx context.Context, active bool) (*models.SavingsTarget, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("savings target: %w", storage.ErrNotFound)
	}
	return s.Set(ctx, TargetInput{IsActive: &active})
}

// Stats returns the current period stats, or nil when tracking is off.
func (s *TargetService) Stats(ctx context.Context) (*calculator.PeriodStats, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	stats, err := s.stats(ctx)
	if err != nil {
		slog.Error("Stats failed", "error", err)
		return nil, err
	}
	return stats, nil
}

// Periods returns the closed periods, latest end date first.
func (s *TargetService) Periods(ctx context.Context) ([]models.CutoffPeriod, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	periods, err := s.store.ListCutoffPeriods(ctx)
	if err != nil {
		slog.Error("ListCutoffPeriods failed", "error", err)
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	return periods, nil
}

// TotalOwed returns the accumulated shortfall across all closed periods.
func (s *TargetService) TotalOwed(ctx context.Context) (models.PerProfile, error) {
	periods, err := s.Periods(ctx)
	if err != nil {
		return models.PerProfile{}, err
	}
	return calculator.TotalOwed(periods), nil
}

// ClosePeriod freezes the current period. Closing the same period again
// rewrites the same record.
func (s *TargetService) ClosePeriod(ctx context.Context, actor string) (*models.CutoffPeriod, error) {
	slog.Info("ClosePeriod request received", "profile_id", actor)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	stats, err := s.stats(ctx)
	if err != nil {
		return nil, err
	}
	period, err := calculator.ClosePeriod(stats, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.PutCutoffPeriod(ctx, period); err != nil {
		slog.Error("ClosePeriod failed", "period_id", period.ID, "error", err)
		return nil, fmt.Errorf("failed to save period: %w", err)
	}

	metrics.PeriodsClosed.Inc()
	slog.Info("Period closed",
		"period_id", period.ID,
		"owed_pea", period.OwedAmounts.Pea,
		"owed_cam", period.OwedAmounts.Cam,
	)
	s.feed.publish(ctx, realtime.TopicPeriods)
	return period, nil
}

// Repay lowers profileID's owed amount in period periodID, floored at zero.
// A period that does not exist is left alone and yields nil.
func (s *TargetService) Repay(ctx context.Context, periodID, profileID, amount string) (*models.CutoffPeriod, error) {
	slog.Info("Repay request received", "period_id", periodID, "profile_id", profileID, "amount", amount)

	d, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}
	if !models.IsProfileID(profileID) {
		return nil, calculator.ErrUnknownProfile
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	period, err := s.store.UpdateCutoffPeriod(ctx, periodID, func(p *models.CutoffPeriod) error {
		_, err := calculator.Repay(p, profileID, d)
		return err
	})
	if errors.Is(err, storage.ErrNotFound) {
		slog.Warn("Repay skipped, period not found", "period_id", periodID)
		return nil, nil
	}
	if err != nil {
		slog.Error("Repay failed", "period_id", periodID, "error", err)
		return nil, err
	}

	s.feed.publish(ctx, realtime.TopicPeriods)
	return period, nil
}
