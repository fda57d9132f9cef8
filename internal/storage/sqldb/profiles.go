package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/moneymates/internal/models"
)

const profileColumns = "id, name, emoji, theme, pin_hash"

func scanProfile(row rowScanner) (*models.Profile, error) {
	p := &models.Profile{}
	if err := row.Scan(&p.ID, &p.Name, &p.Emoji, &p.Theme, &p.PINHash); err != nil {
		return nil, err
	}
	return p, nil
}

// ListProfiles returns all stored profiles ordered by id.
func (s *SQLStore) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+profileColumns+" FROM profiles ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}

// GetProfile retrieves a profile by id.
func (s *SQLStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx,
		s.q("SELECT "+profileColumns+" FROM profiles WHERE id = ?"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("profile", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// PutProfile creates or replaces a profile.
func (s *SQLStore) PutProfile(ctx context.Context, p *models.Profile) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO profiles (id, name, emoji, theme, pin_hash)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			emoji = excluded.emoji,
			theme = excluded.theme,
			pin_hash = excluded.pin_hash`),
		p.ID, p.Name, p.Emoji, p.Theme, p.PINHash,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
