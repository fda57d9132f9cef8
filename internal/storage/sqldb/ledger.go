package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/moneymates/internal/models"
)

const transactionColumns = "id, profile_id, amount, date, period, note, goal_id, created_at"

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var createdAt int64
	if err := row.Scan(&tx.ID, &tx.ProfileID, inCents(&tx.Amount), &tx.Date, &tx.Period,
		&tx.Note, &tx.GoalID, &createdAt); err != nil {
		return nil, err
	}
	tx.CreatedAt = time.UnixMilli(createdAt)
	return tx, nil
}

// CreateTransaction persists a new transaction to the database.
func (s *SQLStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	// Generate ID if not set
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, s.q(
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		tx.ID, tx.ProfileID, inCents(&tx.Amount), tx.Date, tx.Period, tx.Note, tx.GoalID,
		tx.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by id.
func (s *SQLStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	tx, err := scanTransaction(s.db.QueryRowContext(ctx,
		s.q("SELECT "+transactionColumns+" FROM transactions WHERE id = ?"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("transaction", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// ListTransactions returns every transaction, newest date first.
func (s *SQLStore) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions ORDER BY date DESC, created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}

// DeleteTransaction removes a transaction by id.
func (s *SQLStore) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q("DELETE FROM transactions WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return execOne(res, "transaction", id)
}
