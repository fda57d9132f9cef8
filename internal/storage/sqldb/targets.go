package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/moneymates/internal/models"
)

// GetTarget retrieves the singleton savings target.
func (s *SQLStore) GetTarget(ctx context.Context) (*models.SavingsTarget, error) {
	t := &models.SavingsTarget{}
	var createdAt int64
	err := s.db.QueryRowContext(ctx, s.q(
		`SELECT id, target_amount, is_active, cutoff_first, cutoff_second, created_at
		 FROM savings_targets WHERE id = ?`), models.TargetID,
	).Scan(&t.ID, inCents(&t.TargetAmount), &t.IsActive, &t.CutoffDays[0], &t.CutoffDays[1], &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("target", models.TargetID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get target: %w", err)
	}
	t.CreatedAt = time.UnixMilli(createdAt)
	return t, nil
}

// PutTarget creates or replaces the singleton savings target.
func (s *SQLStore) PutTarget(ctx context.Context, t *models.SavingsTarget) error {
	t.ID = models.TargetID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO savings_targets (id, target_amount, is_active, cutoff_first, cutoff_second, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			target_amount = excluded.target_amount,
			is_active = excluded.is_active,
			cutoff_first = excluded.cutoff_first,
			cutoff_second = excluded.cutoff_second,
			created_at = excluded.created_at`),
		t.ID, inCents(&t.TargetAmount), t.IsActive, t.CutoffDays[0], t.CutoffDays[1], t.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save target: %w", err)
	}
	return nil
}

const periodColumns = `id, start_date, end_date, target_amount, contribution_pea, contribution_cam,
	owed_pea, owed_cam, is_complete, created_at`

func scanPeriod(row rowScanner) (*models.CutoffPeriod, error) {
	p := &models.CutoffPeriod{}
	var createdAt int64
	if err := row.Scan(&p.ID, &p.StartDate, &p.EndDate, inCents(&p.TargetAmount),
		inCents(&p.Contributions.Pea), inCents(&p.Contributions.Cam),
		inCents(&p.OwedAmounts.Pea), inCents(&p.OwedAmounts.Cam),
		&p.IsComplete, &createdAt); err != nil {
		return nil, err
	}
	p.CreatedAt = time.UnixMilli(createdAt)
	return p, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLStore) putPeriod(ctx context.Context, db execer, p *models.CutoffPeriod) error {
	_, err := db.ExecContext(ctx, s.q(`
		INSERT INTO cutoff_periods (`+periodColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			target_amount = excluded.target_amount,
			contribution_pea = excluded.contribution_pea,
			contribution_cam = excluded.contribution_cam,
			owed_pea = excluded.owed_pea,
			owed_cam = excluded.owed_cam,
			is_complete = excluded.is_complete,
			created_at = excluded.created_at`),
		p.ID, p.StartDate, p.EndDate, inCents(&p.TargetAmount),
		inCents(&p.Contributions.Pea), inCents(&p.Contributions.Cam),
		inCents(&p.OwedAmounts.Pea), inCents(&p.OwedAmounts.Cam),
		p.IsComplete, p.CreatedAt.UnixMilli(),
	)
	return err
}

// PutCutoffPeriod writes a period record, replacing any earlier record for
// the same period.
func (s *SQLStore) PutCutoffPeriod(ctx context.Context, p *models.CutoffPeriod) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if err := s.putPeriod(ctx, s.db, p); err != nil {
		return fmt.Errorf("failed to save cutoff period: %w", err)
	}
	return nil
}

// GetCutoffPeriod retrieves a period record by id.
func (s *SQLStore) GetCutoffPeriod(ctx context.Context, id string) (*models.CutoffPeriod, error) {
	p, err := scanPeriod(s.db.QueryRowContext(ctx,
		s.q("SELECT "+periodColumns+" FROM cutoff_periods WHERE id = ?"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("cutoff period", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cutoff period: %w", err)
	}
	return p, nil
}

// ListCutoffPeriods returns all period records, latest end date first.
func (s *SQLStore) ListCutoffPeriods(ctx context.Context) ([]models.CutoffPeriod, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+periodColumns+" FROM cutoff_periods ORDER BY end_date DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list cutoff periods: %w", err)
	}
	defer rows.Close()

	var periods []models.CutoffPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cutoff period: %w", err)
		}
		periods = append(periods, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cutoff periods: %w", err)
	}
	return periods, nil
}

// UpdateCutoffPeriod applies fn to a period record inside a transaction.
func (s *SQLStore) UpdateCutoffPeriod(ctx context.Context, id string, fn func(*models.CutoffPeriod) error) (*models.CutoffPeriod, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := scanPeriod(tx.QueryRowContext(ctx,
		s.q("SELECT "+periodColumns+" FROM cutoff_periods WHERE id = ?"+s.forUpdate()), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("cutoff period", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cutoff period: %w", err)
	}

	if err := fn(p); err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.putPeriod(ctx, tx, p); err != nil {
		return nil, fmt.Errorf("failed to save cutoff period: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return p, nil
}
