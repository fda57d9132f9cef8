package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/moneymates/internal/game"
	"github.com/mmynk/moneymates/internal/storage"
)

// CreateGameSession stores s unless a session already exists.
func (s *SQLStore) CreateGameSession(ctx context.Context, session *game.Session) error {
	session.ID = game.SessionID
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode game session: %w", err)
	}

	res, err := s.db.ExecContext(ctx, s.q(
		`INSERT INTO game_sessions (id, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`),
		session.ID, string(payload), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert game session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("game session: %w", storage.ErrAlreadyExists)
	}
	return nil
}

func decodeSession(payload string) (*game.Session, error) {
	session := &game.Session{}
	if err := json.Unmarshal([]byte(payload), session); err != nil {
		return nil, fmt.Errorf("failed to decode game session: %w", err)
	}
	return session, nil
}

// GetGameSession retrieves the current session.
func (s *SQLStore) GetGameSession(ctx context.Context) (*game.Session, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		s.q("SELECT payload FROM game_sessions WHERE id = ?"), game.SessionID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("game session", game.SessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}
	return decodeSession(payload)
}

// UpdateGameSession applies fn to the session inside a transaction.
func (s *SQLStore) UpdateGameSession(ctx context.Context, fn func(*game.Session) error) (*game.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var payload string
	err = tx.QueryRowContext(ctx,
		s.q("SELECT payload FROM game_sessions WHERE id = ?"+s.forUpdate()), game.SessionID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("game session", game.SessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}

	session, err := decodeSession(payload)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}

	updated, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode game session: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		s.q("UPDATE game_sessions SET payload = ?, updated_at = ? WHERE id = ?"),
		string(updated), time.Now().UnixMilli(), game.SessionID,
	); err != nil {
		return nil, fmt.Errorf("failed to update game session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return session, nil
}

// DeleteGameSession removes the session if present.
func (s *SQLStore) DeleteGameSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		s.q("DELETE FROM game_sessions WHERE id = ?"), game.SessionID); err != nil {
		return fmt.Errorf("failed to delete game session: %w", err)
	}
	return nil
}
