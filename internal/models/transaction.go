package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a savings contribution on the shared ledger.
// Transactions are immutable once created, except for deletion.
type Transaction struct {
	// ID is the unique identifier (UUID format).
	ID string `json:"id"`

	// ProfileID is the profile that logged the contribution.
	ProfileID string `json:"profileId"`

	// Amount is the positive contribution amount.
	Amount decimal.Decimal `json:"amount"`

	// Date is the contribution date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Period is the display label derived from Date at creation time,
	// e.g. "Jan 1-15, 2026".
	Period string `json:"period"`

	// Note is optional free text.
	Note string `json:"note,omitempty"`

	// GoalID links the contribution to a goal. Empty means no goal.
	GoalID string `json:"goalId,omitempty"`

	// CreatedAt is when the transaction was recorded.
	CreatedAt time.Time `json:"createdAt"`
}

// NewTransaction carries user input for a transaction before validation.
type NewTransaction struct {
	Amount string `json:"amount"`
	Date   string `json:"date"`
	Note   string `json:"note"`
	GoalID string `json:"goalId"`
}
