package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/moneymates/internal/calculator"
	"github.com/mmynk/moneymates/internal/models"
	"github.com/mmynk/moneymates/internal/money"
)

func init() {
	rootCmd.AddCommand(periodCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(owedCmd)
	rootCmd.AddCommand(closePeriodCmd)
	rootCmd.AddCommand(repayCmd)

	periodCmd.Flags().IntSlice("cutoffs", nil, "Two cutoff days, 0 meaning the last day (default from ledger.cutoff_days)")
	closePeriodCmd.Flags().String("as", "", "Profile closing the period (default: signed-in profile)")
	repayCmd.Flags().String("as", "", "Profile repaying (default: signed-in profile)")
}

// ─── period ─────────────────────────────────────────────────────────────────

var periodCmd = &cobra.Command{
	Use:   "period [DATE]",
	Short: "Show the cutoff period containing a date",
	Long: `Show the cutoff period containing DATE (YYYY-MM-DD, default today in the
ledger timezone) and the one after it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPeriod,
}

func runPeriod(cmd *cobra.Command, args []string) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	cutoffs := cfg.Ledger.CutoffDays
	if days, _ := cmd.Flags().GetIntSlice("cutoffs"); len(days) > 0 {
		if len(days) != 2 {
			return calculator.ErrInvalidCutoffs
		}
		cutoffs = [2]int{days[0], days[1]}
		if err := calculator.ValidateCutoffs(cutoffs); err != nil {
			return err
		}
	}

	ref := time.Now().In(loc)
	if len(args) == 1 {
		ref, err = calculator.ParseDate(args[0], loc)
		if err != nil {
			return err
		}
	}

	p := calculator.CurrentPeriod(ref, cutoffs)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Period:  %s (id %s)\n", p, p.ID())
	fmt.Fprintf(out, "Next:    %s\n", p.Next(cutoffs))
	return nil
}

// ─── stats ──────────────────────────────────────────────────────────────────

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress toward the current period's target",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.svc.Targets.Stats(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if stats == nil {
		fmt.Fprintln(out, "No active savings target.")
		return nil
	}

	f := money.NewFormatter(cfg.Ledger.Currency)
	fmt.Fprintf(out, "Period:  %s..%s\n", stats.StartDate, stats.EndDate)
	fmt.Fprintf(out, "Target:  %s each\n", f.Format(stats.TargetAmount))
	fmt.Fprintf(out, "Days:    %d of %d left", stats.DaysRemaining, stats.TotalDays)
	switch {
	case stats.IsOverdue:
		fmt.Fprint(out, " (overdue)")
	case stats.IsUrgent:
		fmt.Fprint(out, " (urgent)")
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out)
	for _, id := range models.ProfileIDs {
		fmt.Fprintf(out, "  %-4s  %10s  %3s%%  %10s to go\n",
			id,
			f.Format(stats.Contributions.Get(id)),
			stats.Progress.Get(id).StringFixed(0),
			f.Format(stats.Remaining.Get(id)),
		)
	}
	return nil
}

// ─── owed ───────────────────────────────────────────────────────────────────

var owedCmd = &cobra.Command{
	Use:   "owed",
	Short: "List closed periods and what each profile still owes",
	Args:  cobra.NoArgs,
	RunE:  runOwed,
}

func runOwed(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	periods, err := a.svc.Targets.Periods(cmd.Context())
	if err != nil {
		return err
	}
	total, err := a.svc.Targets.TotalOwed(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	f := money.NewFormatter(cfg.Ledger.Currency)
	if len(periods) == 0 {
		fmt.Fprintln(out, "No closed periods.")
		return nil
	}
	for i := range periods {
		printPeriod(out, f, &periods[i])
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total owed:  %s %s  %s %s\n",
		models.Pea, f.Format(total.Pea), models.Cam, f.Format(total.Cam))
	return nil
}

func printPeriod(out io.Writer, f *money.Formatter, p *models.CutoffPeriod) {
	fmt.Fprintf(out, "%s  %s..%s  target %s  owed %s %s  %s %s\n",
		p.ID, p.StartDate, p.EndDate, f.Format(p.TargetAmount),
		models.Pea, f.Format(p.OwedAmounts.Pea),
		models.Cam, f.Format(p.OwedAmounts.Cam),
	)
}

// ─── close-period ───────────────────────────────────────────────────────────

var closePeriodCmd = &cobra.Command{
	Use:   "close-period",
	Short: "Record the current period and what each profile owes",
	Long: `Close the current cutoff period: snapshot each profile's contributions
and store the shortfall against the target as an owed amount. Closing the
same period again overwrites its record.`,
	Args: cobra.NoArgs,
	RunE: runClosePeriod,
}

func runClosePeriod(cmd *cobra.Command, args []string) error {
	actor, err := actorFor(cmd)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	period, err := a.svc.Targets.ClosePeriod(cmd.Context(), actor)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Closed:")
	printPeriod(out, money.NewFormatter(cfg.Ledger.Currency), period)
	return nil
}

// ─── repay ──────────────────────────────────────────────────────────────────

var repayCmd = &cobra.Command{
	Use:   "repay PERIOD_ID AMOUNT",
	Short: "Pay down what a profile owes for a closed period",
	Long: `Reduce the owed amount of a closed period. The owed amount never drops
below zero; repaying a period that does not exist does nothing.`,
	Args: cobra.ExactArgs(2),
	RunE: runRepay,
}

func runRepay(cmd *cobra.Command, args []string) error {
	actor, err := actorFor(cmd)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	period, err := a.svc.Targets.Repay(cmd.Context(), args[0], actor, args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if period == nil {
		fmt.Fprintf(out, "No closed period %s.\n", args[0])
		return nil
	}
	printPeriod(out, money.NewFormatter(cfg.Ledger.Currency), period)
	return nil
}
