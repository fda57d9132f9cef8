package calculator

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/moneymates/internal/models"
)

var (
	ErrNoActivePeriod = errors.New("no active savings target")
	ErrInvalidRepay   = errors.New("repayment amount must be positive")
	ErrUnknownProfile = errors.New("unknown profile")
)

// TotalOwed sums the owed amounts across all closed periods.
func TotalOwed(periods []models.CutoffPeriod) models.PerProfile {
	var total models.PerProfile
	for _, p := range periods {
		total = total.Add(p.OwedAmounts)
	}
	return total
}

// ClosePeriod builds the immutable record for the period described by
// stats. The owed amounts are the remaining shortfalls, so the same stats
// always produce the same record id and amounts.
func ClosePeriod(stats *PeriodStats, now time.Time) (*models.CutoffPeriod, error) {
	if stats == nil {
		return nil, ErrNoActivePeriod
	}
	return &models.CutoffPeriod{
		ID:            stats.Period.ID(),
		StartDate:     stats.StartDate,
		EndDate:       stats.EndDate,
		TargetAmount:  stats.TargetAmount,
		Contributions: stats.Contributions,
		OwedAmounts:   stats.Remaining,
		IsComplete:    true,
		CreatedAt:     now,
	}, nil
}

// Repay decreases the owed amount of profileID in period by amount,
// floored at zero. It returns the amount actually applied.
func Repay(period *models.CutoffPeriod, profileID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !models.IsProfileID(profileID) {
		return decimal.Zero, ErrUnknownProfile
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidRepay
	}
	owed := period.OwedAmounts.Get(profileID)
	newOwed := decimal.Max(decimal.Zero, owed.Sub(amount))
	period.OwedAmounts.Set(profileID, newOwed)
	return owed.Sub(newOwed), nil
}
