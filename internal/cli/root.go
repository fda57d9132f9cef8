// Package cli implements the moneymates command line: the API server plus
// a few local commands for inspecting and settling the ledger.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/moneymates/internal/config"
	"github.com/mmynk/moneymates/pkg/logging"
)

var (
	configPath string
	logLevel   string

	// cfg is loaded before any subcommand runs.
	cfg config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFileName, "Path to the TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override: debug, info, warn, error")
}

var rootCmd = &cobra.Command{
	Use:   "moneymates",
	Short: "Shared savings tracker for two",
	Long: `Money Mates tracks the savings of two profiles against a shared target
that resets on fixed cutoff days, settles what each profile owes when a
period closes, and hosts small two-player games for making decisions.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	cfg = loaded
	logging.SetupWithLevel(logging.ParseLevel(cfg.Log.Level))
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
