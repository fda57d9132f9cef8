package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal represents a shared savings goal.
//
// CurrentAmount grows through contributions, which are applied as atomic
// increments at the storage layer so concurrent contributions from both
// profiles never lose an update. It can also be set directly.
type Goal struct {
	// ID is the unique identifier (UUID format).
	ID string `json:"id"`

	Title         string          `json:"title"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`

	// Deadline is an optional YYYY-MM-DD date.
	Deadline string `json:"deadline,omitempty"`

	Emoji     string    `json:"emoji"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// DefaultGoalEmoji is used when a goal is created without one.
const DefaultGoalEmoji = "🎯"

// NewGoal carries user input for a goal before validation.
type NewGoal struct {
	Title        string `json:"title"`
	TargetAmount string `json:"targetAmount"`
	Deadline     string `json:"deadline"`
	Emoji        string `json:"emoji"`
}

// Progress returns the completion percentage, capped at 100.
func (g *Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.NewFromInt(100)
	}
	p := g.CurrentAmount.Mul(decimal.NewFromInt(100)).Div(g.TargetAmount)
	return decimal.Min(p, decimal.NewFromInt(100))
}
