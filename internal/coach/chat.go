package coach

import (
	"fmt"
	"strings"

	"github.com/mmynk/moneymates/internal/calculator"
	"github.com/mmynk/moneymates/internal/models"
	"github.com/mmynk/moneymates/internal/money"
)

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryWindow is how many earlier chat messages go into each prompt.
const HistoryWindow = 6

const (
	recentPeriods      = 3
	recentTransactions = 10
)

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Snapshot is the ledger state the coach is told about.
type Snapshot struct {
	Profiles     map[string]models.Profile
	Totals       models.PerProfile
	Target       *models.SavingsTarget
	Periods      []models.CutoffPeriod // latest end date first
	Transactions []models.Transaction  // newest first
	Goals        []models.Goal
}

func (s *Snapshot) name(id string) string {
	if p, ok := s.Profiles[id]; ok && p.Name != "" {
		return p.Name
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

// BuildSystemPrompt renders the coach instructions and the financial
// summary it answers from.
func BuildSystemPrompt(s *Snapshot, f *money.Formatter) string {
	var b strings.Builder

	b.WriteString(`You are a friendly, encouraging AI financial coach for a couple's joint savings app called "Money Mates".`)
	b.WriteString("\n\nCURRENT FINANCIAL STATUS:\n")
	fmt.Fprintf(&b, "- Total Combined Savings: %s\n", f.Format(s.Totals.Total()))
	for _, id := range models.ProfileIDs {
		fmt.Fprintf(&b, "- %s's contribution: %s\n", s.name(id), f.Format(s.Totals.Get(id)))
	}

	b.WriteString("\nBI-MONTHLY SAVINGS TARGET:\n")
	if s.Target != nil && s.Target.IsActive {
		days := make([]string, 0, 2)
		for _, d := range s.Target.CutoffDays {
			if d == models.LastDayOfMonth {
				days = append(days, "last day")
			} else {
				days = append(days, fmt.Sprintf("%dth", d))
			}
		}
		fmt.Fprintf(&b, "Active target: %s per person per cutoff (cutoffs on %s of each month)\n",
			f.Format(s.Target.TargetAmount), strings.Join(days, " and "))
	} else {
		b.WriteString("No bi-monthly target set\n")
	}

	b.WriteString("\nCUTOFF PERIOD HISTORY (Most Recent):\n")
	if len(s.Periods) == 0 {
		b.WriteString("No cutoff periods tracked yet\n")
	}
	for i, p := range s.Periods {
		if i == recentPeriods {
			break
		}
		if i > 0 {
			b.WriteString("\n")
		}
		status := "In Progress"
		if p.IsComplete {
			status = "Complete"
		}
		fmt.Fprintf(&b, "%s to %s (%s):\n", p.StartDate, p.EndDate, status)
		for _, id := range models.ProfileIDs {
			fmt.Fprintf(&b, "  - %s: Saved %s", s.name(id), f.Format(p.Contributions.Get(id)))
			if owed := p.OwedAmounts.Get(id); owed.IsPositive() {
				fmt.Fprintf(&b, ", owes %s", f.Format(owed))
			}
			b.WriteString("\n")
		}
	}

	owed := calculator.TotalOwed(s.Periods)
	b.WriteString("\nOWED AMOUNTS (Accumulated):\n")
	for _, id := range models.ProfileIDs {
		fmt.Fprintf(&b, "- %s owes: %s\n", s.name(id), f.Format(owed.Get(id)))
	}

	b.WriteString("\nRECENT TRANSACTIONS:\n")
	if len(s.Transactions) == 0 {
		b.WriteString("No transactions yet\n")
	}
	for i, tx := range s.Transactions {
		if i == recentTransactions {
			break
		}
		note := tx.Note
		if note == "" {
			note = "no note"
		}
		fmt.Fprintf(&b, "%s: %s on %s (%s)\n", s.name(tx.ProfileID), f.Format(tx.Amount), tx.Date, note)
	}

	b.WriteString("\nSAVINGS GOALS:\n")
	if len(s.Goals) == 0 {
		b.WriteString("No goals set yet\n")
	}
	for _, g := range s.Goals {
		fmt.Fprintf(&b, "%s %s: %s/%s (%s%%)\n", g.Emoji, g.Title,
			f.Format(g.CurrentAmount), f.Format(g.TargetAmount), g.Progress().Round(0).String())
	}

	b.WriteString(`
INSTRUCTIONS:
- Be supportive, warm, and encouraging
- Give practical financial advice tailored to their situation
- Celebrate their wins and progress
- Keep responses concise (2-4 sentences usually)
- Use emojis sparingly for friendliness
- If they ask about their data, reference the actual numbers above
- If they ask about targets or cutoffs, explain their bi-monthly target progress
- If someone owes money, gently encourage them to catch up
- Suggest ways to improve if asked
- Be a cheerleader for their financial journey together`)

	return b.String()
}

// BuildChatPrompt renders the user's message with the most recent history.
func BuildChatPrompt(history []Message, message string) string {
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		speaker := "Assistant"
		if m.Role == RoleUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+m.Content)
	}
	return fmt.Sprintf("Previous conversation:\n%s\n\nUser: %s\n\nRespond naturally to the user's message, considering the conversation history.",
		strings.Join(lines, "\n"), strings.TrimSpace(message))
}
