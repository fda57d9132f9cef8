package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/moneymates/internal/models"
)

const goalColumns = "id, title, target_amount, current_amount, deadline, emoji, created_by, created_at"

func scanGoal(row rowScanner) (*models.Goal, error) {
	g := &models.Goal{}
	var createdAt int64
	if err := row.Scan(&g.ID, &g.Title, inCents(&g.TargetAmount), inCents(&g.CurrentAmount),
		&g.Deadline, &g.Emoji, &g.CreatedBy, &createdAt); err != nil {
		return nil, err
	}
	g.CreatedAt = time.UnixMilli(createdAt)
	return g, nil
}

// CreateGoal persists a new goal to the database.
func (s *SQLStore) CreateGoal(ctx context.Context, g *models.Goal) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, s.q(
		`INSERT INTO goals (`+goalColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		g.ID, g.Title, inCents(&g.TargetAmount), inCents(&g.CurrentAmount), g.Deadline, g.Emoji,
		g.CreatedBy, g.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

// GetGoal retrieves a goal by id.
func (s *SQLStore) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	g, err := scanGoal(s.db.QueryRowContext(ctx,
		s.q("SELECT "+goalColumns+" FROM goals WHERE id = ?"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("goal", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

// ListGoals returns every goal, newest first.
func (s *SQLStore) ListGoals(ctx context.Context) ([]models.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+goalColumns+" FROM goals ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}
	return goals, nil
}

// SetGoalAmount overwrites a goal's current amount.
func (s *SQLStore) SetGoalAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx,
		s.q("UPDATE goals SET current_amount = ? WHERE id = ?"), inCents(&amount), id)
	if err != nil {
		return fmt.Errorf("failed to set goal amount: %w", err)
	}
	return execOne(res, "goal", id)
}

// IncrementGoal adds delta to a goal's current amount server-side.
func (s *SQLStore) IncrementGoal(ctx context.Context, id string, delta decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx,
		s.q("UPDATE goals SET current_amount = current_amount + ? WHERE id = ?"), inCents(&delta), id)
	if err != nil {
		return fmt.Errorf("failed to increment goal: %w", err)
	}
	return execOne(res, "goal", id)
}

// DeleteGoal removes a goal by id. Transactions linked to it keep their
// goal id.
func (s *SQLStore) DeleteGoal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q("DELETE FROM goals WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return execOne(res, "goal", id)
}
