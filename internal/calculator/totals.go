package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/moneymates/internal/models"
)

// MonthTotal is one row of the monthly savings breakdown.
type MonthTotal struct {
	Month      string            `json:"month"` // YYYY-MM
	Total      decimal.Decimal   `json:"total"`
	ByProfile  models.PerProfile `json:"byProfile"`
	Cumulative decimal.Decimal   `json:"cumulative"`
}

// Totals returns the lifetime savings per profile.
func Totals(txs []models.Transaction) models.PerProfile {
	var totals models.PerProfile
	for _, tx := range txs {
		totals.Set(tx.ProfileID, totals.Get(tx.ProfileID).Add(tx.Amount))
	}
	return totals
}

// MonthlyBreakdown groups transactions by calendar month, oldest first,
// with a running cumulative total.
func MonthlyBreakdown(txs []models.Transaction) []MonthTotal {
	byMonth := make(map[string]*MonthTotal)
	for _, tx := range txs {
		if len(tx.Date) < 7 {
			continue
		}
		key := tx.Date[:7]
		m, ok := byMonth[key]
		if !ok {
			m = &MonthTotal{Month: key}
			byMonth[key] = m
		}
		m.Total = m.Total.Add(tx.Amount)
		m.ByProfile.Set(tx.ProfileID, m.ByProfile.Get(tx.ProfileID).Add(tx.Amount))
	}

	months := make([]MonthTotal, 0, len(byMonth))
	for _, m := range byMonth {
		months = append(months, *m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	running := decimal.Zero
	for i := range months {
		running = running.Add(months[i].Total)
		months[i].Cumulative = running
	}
	return months
}
