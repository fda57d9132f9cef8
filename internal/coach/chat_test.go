package coach

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/moneymates/internal/models"
	"github.com/mmynk/moneymates/internal/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBuildChatPromptKeepsLastSixMessages(t *testing.T) {
	var history []Message
	for i := 1; i <= 8; i++ {
		role := RoleUser
		if i%2 == 0 {
			role = RoleAssistant
		}
		history = append(history, Message{Role: role, Content: fmt.Sprintf("msg%d", i)})
	}

	prompt := BuildChatPrompt(history, "  Who owes more? ")
	if strings.Contains(prompt, "msg2") {
		t.Errorf("prompt should drop messages older than the last six:\n%s", prompt)
	}
	if !strings.Contains(prompt, "User: msg3\nAssistant: msg4") {
		t.Errorf("prompt missing history:\n%s", prompt)
	}
	if !strings.Contains(prompt, "User: Who owes more?\n") {
		t.Errorf("prompt missing trimmed message:\n%s", prompt)
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	snap := &Snapshot{
		Profiles: map[string]models.Profile{
			models.Pea: {ID: models.Pea, Name: "Pea"},
			models.Cam: {ID: models.Cam, Name: "Cam"},
		},
		Totals: models.PerProfile{Pea: dec("12000"), Cam: dec("8000")},
		Target: &models.SavingsTarget{TargetAmount: dec("5000"), IsActive: true, CutoffDays: [2]int{15, 0}},
		Periods: []models.CutoffPeriod{{
			StartDate: "2026-01-01", EndDate: "2026-01-15", IsComplete: true,
			Contributions: models.PerProfile{Pea: dec("3000"), Cam: dec("5000")},
			OwedAmounts:   models.PerProfile{Pea: dec("2000")},
		}},
		Transactions: []models.Transaction{{ProfileID: models.Cam, Amount: dec("500"), Date: "2026-01-20"}},
		Goals:        []models.Goal{{Emoji: "🗾", Title: "Japan", TargetAmount: dec("80000"), CurrentAmount: dec("20000")}},
	}

	prompt := BuildSystemPrompt(snap, money.NewFormatter("₱"))
	for _, want := range []string{
		"Total Combined Savings: ₱20,000",
		"Pea's contribution: ₱12,000",
		"Active target: ₱5,000 per person per cutoff (cutoffs on 15th and last day of each month)",
		"2026-01-01 to 2026-01-15 (Complete):",
		"  - Pea: Saved ₱3,000, owes ₱2,000",
		"- Pea owes: ₱2,000",
		"- Cam owes: ₱0",
		"Cam: ₱500 on 2026-01-20 (no note)",
		"🗾 Japan: ₱20,000/₱80,000 (25%)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildSystemPromptEmptyLedger(t *testing.T) {
	prompt := BuildSystemPrompt(&Snapshot{}, money.NewFormatter(""))
	for _, want := range []string{
		"No bi-monthly target set",
		"No cutoff periods tracked yet",
		"No transactions yet",
		"No goals set yet",
		"- Pea owes: ₱0",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}
