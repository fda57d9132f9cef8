package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TargetID is the fixed id of the singleton savings target.
const TargetID = "current"

// LastDayOfMonth is the cutoff-day sentinel meaning "last calendar day".
const LastDayOfMonth = 0

// SavingsTarget is the singleton bi-monthly savings target configuration.
type SavingsTarget struct {
	// ID is always TargetID.
	ID string `json:"id"`

	// TargetAmount is the amount each person should save per cutoff period.
	TargetAmount decimal.Decimal `json:"targetAmount"`

	// IsActive enables period tracking. An inactive target behaves like
	// no target at all.
	IsActive bool `json:"isActive"`

	// CutoffDays holds the two cutoff days, each 1-28 or LastDayOfMonth.
	CutoffDays [2]int `json:"cutoffDays"`

	CreatedAt time.Time `json:"createdAt"`
}

// CutoffPeriod is the record of a closed cutoff period. It is frozen once
// written, except that owed amounts can be decreased by repayments.
type CutoffPeriod struct {
	// ID is derived from the end date (YYYY-MM-DD), so closing the same
	// period twice writes the same record.
	ID string `json:"id"`

	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	// TargetAmount is the target in effect when the period closed.
	TargetAmount decimal.Decimal `json:"targetAmount"`

	// Contributions is the per-profile sum of transactions in the period.
	Contributions PerProfile `json:"contributions"`

	// OwedAmounts is the per-profile shortfall, never negative.
	OwedAmounts PerProfile `json:"owedAmounts"`

	IsComplete bool      `json:"isComplete"`
	CreatedAt  time.Time `json:"createdAt"`
}
