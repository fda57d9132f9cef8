package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("Storage.Driver = %q, want sqlite", cfg.Storage.Driver)
	}
	if cfg.Storage.Timeout.Duration != 10*time.Second {
		t.Errorf("Storage.Timeout = %v, want 10s", cfg.Storage.Timeout)
	}
	if cfg.Auth.SessionTTL.Duration != 720*time.Hour {
		t.Errorf("Auth.SessionTTL = %v, want 720h", cfg.Auth.SessionTTL)
	}
	if cfg.Coach.Model != "gemini-2.5-flash-lite" {
		t.Errorf("Coach.Model = %q, want gemini-2.5-flash-lite", cfg.Coach.Model)
	}
	if cfg.Coach.MaxAttempts != 3 {
		t.Errorf("Coach.MaxAttempts = %d, want 3", cfg.Coach.MaxAttempts)
	}
	if cfg.Ledger.Timezone != "Asia/Manila" || cfg.Ledger.Currency != "₱" {
		t.Errorf("Ledger = %+v, want Asia/Manila and ₱", cfg.Ledger)
	}
	if cfg.Ledger.CutoffDays != [2]int{15, 0} {
		t.Errorf("Ledger.CutoffDays = %v, want [15 0]", cfg.Ledger.CutoffDays)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9090"
metrics = false

[storage]
driver = "postgres"
dsn = "postgres://mates@localhost/moneymates?sslmode=disable"
timeout = "3s"

[coach]
timeout = "20s"
max_attempts = 5

[ledger]
timezone = "UTC"
cutoff_days = [10, 25]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.Metrics {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Storage.Driver != "postgres" || cfg.Storage.Timeout.Duration != 3*time.Second {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Coach.Timeout.Duration != 20*time.Second || cfg.Coach.MaxAttempts != 5 {
		t.Errorf("Coach = %+v", cfg.Coach)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Coach.Model != "gemini-2.5-flash-lite" {
		t.Errorf("Coach.Model = %q, want default", cfg.Coach.Model)
	}
	if cfg.Ledger.CutoffDays != [2]int{10, 25} {
		t.Errorf("CutoffDays = %v, want [10 25]", cfg.Ledger.CutoffDays)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != DefaultConfig().Server.Addr {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MONEYMATES_ADDR", ":7000")
	t.Setenv("MONEYMATES_DB_DSN", "/tmp/mates.db")
	t.Setenv("MONEYMATES_TIMEZONE", "UTC")
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":7000" || cfg.Storage.DSN != "/tmp/mates.db" {
		t.Errorf("overrides not applied: %+v %+v", cfg.Server, cfg.Storage)
	}
	if cfg.CoachSettings().APIKey != "key-123" {
		t.Errorf("coach key = %q, want key-123", cfg.CoachSettings().APIKey)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "driver", body: "[storage]\ndriver = \"mysql\"", want: "storage.driver"},
		{name: "timezone", body: "[ledger]\ntimezone = \"Mars/Olympus\"", want: "ledger.timezone"},
		{name: "cutoffs", body: "[ledger]\ncutoff_days = [31, 0]", want: "ledger.cutoff_days"},
		{name: "duration", body: "[storage]\ntimeout = \"soon\"", want: "failed to parse"},
		{name: "attempts", body: "[coach]\nmax_attempts = 0", want: "max_attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
