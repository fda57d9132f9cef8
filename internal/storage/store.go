// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mmynk/moneymates/internal/game"
	"github.com/mmynk/moneymates/internal/models"
)

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when creating a document whose id is taken.
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the interface for all Money Mates collections.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	ProfileStore
	LedgerStore
	GoalStore
	TargetStore
	GameStore

	// Close releases any resources held by the store.
	Close() error
}

// ProfileStore holds the two profile documents.
type ProfileStore interface {
	// ListProfiles returns all stored profiles ordered by id.
	ListProfiles(ctx context.Context) ([]models.Profile, error)

	// GetProfile returns ErrNotFound when the profile was never written.
	GetProfile(ctx context.Context, id string) (*models.Profile, error)

	// PutProfile creates or replaces a profile.
	PutProfile(ctx context.Context, p *models.Profile) error
}

// LedgerStore holds the shared transaction ledger.
type LedgerStore interface {
	// CreateTransaction persists a new transaction. The ID and CreatedAt
	// fields are populated by the store when empty.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)

	// ListTransactions returns all transactions, newest date first.
	ListTransactions(ctx context.Context) ([]models.Transaction, error)

	DeleteTransaction(ctx context.Context, id string) error
}

// GoalStore holds shared goals.
type GoalStore interface {
	// CreateGoal persists a new goal. The ID and CreatedAt fields are
	// populated by the store when empty.
	CreateGoal(ctx context.Context, g *models.Goal) error

	GetGoal(ctx context.Context, id string) (*models.Goal, error)

	// ListGoals returns all goals, newest first.
	ListGoals(ctx context.Context) ([]models.Goal, error)

	// SetGoalAmount overwrites the current amount.
	SetGoalAmount(ctx context.Context, id string, amount decimal.Decimal) error

	// IncrementGoal adds delta to the current amount in a single atomic
	// statement, so concurrent increments are never lost.
	IncrementGoal(ctx context.Context, id string, delta decimal.Decimal) error

	DeleteGoal(ctx context.Context, id string) error
}

// TargetStore holds the singleton savings target and closed cutoff periods.
type TargetStore interface {
	// GetTarget returns ErrNotFound when no target was ever configured.
	GetTarget(ctx context.Context) (*models.SavingsTarget, error)

	// PutTarget creates or replaces the singleton target.
	PutTarget(ctx context.Context, t *models.SavingsTarget) error

	// PutCutoffPeriod writes a period record keyed by its id, replacing any
	// earlier record for the same period.
	PutCutoffPeriod(ctx context.Context, p *models.CutoffPeriod) error

	GetCutoffPeriod(ctx context.Context, id string) (*models.CutoffPeriod, error)

	// ListCutoffPeriods returns all records, latest end date first.
	ListCutoffPeriods(ctx context.Context) ([]models.CutoffPeriod, error)

	// UpdateCutoffPeriod reads, modifies and writes a period record in one
	// transaction. fn must not call back into the store.
	UpdateCutoffPeriod(ctx context.Context, id string, fn func(*models.CutoffPeriod) error) (*models.CutoffPeriod, error)
}

// GameStore holds the singleton game session.
type GameStore interface {
	// CreateGameSession returns ErrAlreadyExists when a session is already
	// stored.
	CreateGameSession(ctx context.Context, s *game.Session) error

	// GetGameSession returns ErrNotFound when no session exists.
	GetGameSession(ctx context.Context) (*game.Session, error)

	// UpdateGameSession reads, modifies and writes the session in one
	// transaction. When fn returns an error nothing is written. fn must not
	// call back into the store.
	UpdateGameSession(ctx context.Context, fn func(*game.Session) error) (*game.Session, error)

	// DeleteGameSession removes the session. Deleting a missing session
	// is not an error.
	DeleteGameSession(ctx context.Context) error
}
