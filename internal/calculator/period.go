package calculator

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mmynk/moneymates/internal/models"
)

// DateLayout is the on-the-wire form of every calendar date in the ledger.
const DateLayout = "2006-01-02"

// MaxCutoffDay is the largest explicit cutoff day; later days would not
// exist in every month.
const MaxCutoffDay = 28

var (
	ErrInvalidCutoffs = errors.New("cutoff days must be two distinct values, each 1-28 or 0 for the last day of the month")
	ErrInvalidDate    = errors.New("date must be in YYYY-MM-DD form")
)

// DefaultCutoffDays is the 15th and the last day of the month.
var DefaultCutoffDays = [2]int{15, models.LastDayOfMonth}

// Period is an inclusive range of calendar dates. Start and End are at
// midnight in the location of the reference date they were computed from.
type Period struct {
	Start time.Time
	End   time.Time
}

// ID returns the deterministic id of the period, derived from its end date.
func (p Period) ID() string {
	return p.End.Format(DateLayout)
}

// StartDate returns Start as YYYY-MM-DD.
func (p Period) StartDate() string {
	return p.Start.Format(DateLayout)
}

// EndDate returns End as YYYY-MM-DD.
func (p Period) EndDate() string {
	return p.End.Format(DateLayout)
}

// Contains reports whether the date falls within the period, inclusive.
func (p Period) Contains(date string) bool {
	return date >= p.StartDate() && date <= p.EndDate()
}

// Next returns the period that starts on the day after p ends.
func (p Period) Next(cutoffs [2]int) Period {
	return CurrentPeriod(p.End.AddDate(0, 0, 1), cutoffs)
}

// String implements fmt.Stringer.
func (p Period) String() string {
	return fmt.Sprintf("%s..%s", p.StartDate(), p.EndDate())
}

// DaysInMonth returns the number of days in the given month. Months past
// December roll into the next year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ValidateCutoffs checks a cutoff configuration before it is stored.
// Identical days are rejected; the calculator itself tolerates them.
func ValidateCutoffs(cutoffs [2]int) error {
	for _, c := range cutoffs {
		if c < 0 || c > MaxCutoffDay {
			return ErrInvalidCutoffs
		}
	}
	if cutoffs[0] == cutoffs[1] {
		return ErrInvalidCutoffs
	}
	return nil
}

// CurrentPeriod returns the cutoff period containing ref.
//
// The cutoff days are resolved against ref's month (LastDayOfMonth becomes
// the actual last day) and sorted into c1 <= c2. A day d then falls into
// [1, c1], [c1+1, c2], or, past both cutoffs, [c2+1, c1 of next month].
// In that last branch the end is the last day of next month when c2 is the
// last day of this month, which cannot be reached since no day is past it.
// When c1 == c2 the month has a single cutoff.
func CurrentPeriod(ref time.Time, cutoffs [2]int) Period {
	year, month, day := ref.Date()
	loc := ref.Location()
	lastDay := DaysInMonth(year, month)

	days := make([]int, 0, len(cutoffs))
	for _, c := range cutoffs {
		if c == models.LastDayOfMonth || c > lastDay {
			c = lastDay
		}
		days = append(days, c)
	}
	sort.Ints(days)
	c1, c2 := days[0], days[1]

	date := func(m time.Month, d int) time.Time {
		return time.Date(year, m, d, 0, 0, 0, 0, loc)
	}

	switch {
	case day <= c1:
		return Period{Start: date(month, 1), End: date(month, c1)}
	case day <= c2:
		return Period{Start: date(month, c1+1), End: date(month, c2)}
	default:
		endDay := c1
		if c2 == lastDay {
			endDay = DaysInMonth(year, month+1)
		}
		return Period{Start: date(month, c2+1), End: date(month+1, endDay)}
	}
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// PeriodLabel returns the display label stored on a transaction: the first
// or second half of the month, independent of the cutoff configuration.
func PeriodLabel(date time.Time) string {
	month := date.Format("Jan")
	if date.Day() <= 15 {
		return fmt.Sprintf("%s 1-15, %d", month, date.Year())
	}
	return fmt.Sprintf("%s 16-End, %d", month, date.Year())
}
