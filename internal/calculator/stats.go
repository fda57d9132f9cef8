package calculator

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/moneymates/internal/models"
)

// UrgentDays is the number of remaining days at or below which an open
// period is flagged urgent.
const UrgentDays = 3

var hundred = decimal.NewFromInt(100)

// PeriodStats is the derived state of the current cutoff period. It is
// never persisted; recompute it from the full transaction set on every read.
type PeriodStats struct {
	Period Period `json:"-"`

	StartDate    string          `json:"startDate"`
	EndDate      string          `json:"endDate"`
	TargetAmount decimal.Decimal `json:"targetAmount"`

	// Contributions is the per-profile sum of transactions dated within
	// the period.
	Contributions models.PerProfile `json:"contributions"`

	// Progress is min(100, contribution / target * 100) per profile.
	Progress models.PerProfile `json:"progress"`

	// Remaining is max(0, target - contribution) per profile.
	Remaining models.PerProfile `json:"remaining"`

	DaysRemaining int  `json:"daysRemaining"`
	TotalDays     int  `json:"totalDays"`
	IsUrgent      bool `json:"isUrgent"`
	IsOverdue     bool `json:"isOverdue"`
}

// ComputeStats derives the current period stats for target at now.
//
// It returns nil when there is no target or the target is inactive; callers
// must treat that as "tracking disabled" rather than as zero progress.
func ComputeStats(target *models.SavingsTarget, txs []models.Transaction, now time.Time) *PeriodStats {
	if target == nil || !target.IsActive {
		return nil
	}

	period := CurrentPeriod(now, target.CutoffDays)
	stats := &PeriodStats{
		Period:        period,
		StartDate:     period.StartDate(),
		EndDate:       period.EndDate(),
		TargetAmount:  target.TargetAmount,
		Contributions: Contributions(txs, period),
	}

	for _, id := range models.ProfileIDs {
		contributed := stats.Contributions.Get(id)
		stats.Progress.Set(id, progress(contributed, target.TargetAmount))
		stats.Remaining.Set(id, Shortfall(target.TargetAmount, contributed))
	}

	days := ceilDays(period.End.Sub(now))
	stats.DaysRemaining = max(0, days)
	stats.TotalDays = ceilDays(period.End.Sub(period.Start))
	stats.IsUrgent = days > 0 && days <= UrgentDays
	stats.IsOverdue = days <= 0

	return stats
}

// Contributions sums the transactions dated within period, per profile.
// Transactions owned by unknown profiles are ignored.
func Contributions(txs []models.Transaction, period Period) models.PerProfile {
	var sums models.PerProfile
	for _, tx := range txs {
		if !models.IsProfileID(tx.ProfileID) || !period.Contains(tx.Date) {
			continue
		}
		sums.Set(tx.ProfileID, sums.Get(tx.ProfileID).Add(tx.Amount))
	}
	return sums
}

// Shortfall returns max(0, target - contributed).
func Shortfall(target, contributed decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, target.Sub(contributed))
}

func progress(contributed, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() || contributed.GreaterThanOrEqual(target) {
		return hundred
	}
	return decimal.Min(hundred, contributed.Mul(hundred).Div(target))
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}
