// Package config loads the Money Mates configuration.
//
// Configuration comes from an optional TOML file, then environment
// variables override individual keys. A missing file means defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata" // ledger timezone on hosts without zoneinfo

	"github.com/BurntSushi/toml"

	"github.com/mmynk/moneymates/internal/calculator"
	"github.com/mmynk/moneymates/internal/coach"
	"github.com/mmynk/moneymates/internal/money"
	"github.com/mmynk/moneymates/internal/storage/sqldb"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "moneymates.toml"

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Auth    AuthConfig    `toml:"auth"`
	Coach   CoachConfig   `toml:"coach"`
	Ledger  LedgerConfig  `toml:"ledger"`
	Log     LogConfig     `toml:"log"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	Metrics        bool     `toml:"metrics"`
	AllowedOrigins []string `toml:"allowed_origins"`
	StaticDir      string   `toml:"static_dir"`
}

type StorageConfig struct {
	Driver  string   `toml:"driver"`
	DSN     string   `toml:"dsn"`
	Timeout Duration `toml:"timeout"`
}

type AuthConfig struct {
	// Secret signs session tokens. When empty a random secret is generated
	// at startup, so sessions do not survive a restart.
	Secret     string   `toml:"secret"`
	SessionTTL Duration `toml:"session_ttl"`
}

type CoachConfig struct {
	APIKey      string   `toml:"api_key"`
	Model       string   `toml:"model"`
	Timeout     Duration `toml:"timeout"`
	MaxAttempts int      `toml:"max_attempts"`
}

type LedgerConfig struct {
	Timezone   string `toml:"timezone"`
	Currency   string `toml:"currency"`
	CutoffDays [2]int `toml:"cutoff_days"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string such as "10s" or "720h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:    ":8080",
			Metrics: true,
		},
		Storage: StorageConfig{
			Driver:  sqldb.DriverSQLite,
			DSN:     filepath.Join("data", "moneymates.db"),
			Timeout: Duration{10 * time.Second},
		},
		Auth: AuthConfig{
			SessionTTL: Duration{30 * 24 * time.Hour},
		},
		Coach: CoachConfig{
			Model:       coach.DefaultModel,
			Timeout:     Duration{10 * time.Second},
			MaxAttempts: 3,
		},
		Ledger: LedgerConfig{
			Timezone:   "Asia/Manila",
			Currency:   money.DefaultSymbol,
			CutoffDays: calculator.DefaultCutoffDays,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the TOML file at path over the defaults and applies
// environment overrides. An empty path or a missing file yields defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func getEnv(key string) (string, bool) {
	value := os.Getenv(key)
	return value, value != ""
}

func (c *Config) applyEnv() error {
	if v, ok := getEnv("MONEYMATES_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnv("MONEYMATES_DB_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnv("MONEYMATES_DB_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnv("MONEYMATES_JWT_SECRET"); ok {
		c.Auth.Secret = v
	}
	if v, ok := getEnv("MONEYMATES_TIMEZONE"); ok {
		c.Ledger.Timezone = v
	}
	if v, ok := getEnv("MONEYMATES_METRICS"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MONEYMATES_METRICS: %w", err)
		}
		c.Server.Metrics = enabled
	}
	if v, ok := getEnv("GEMINI_API_KEY"); ok {
		c.Coach.APIKey = v
	}
	if v, ok := getEnv("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	return nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.Storage.Driver != sqldb.DriverSQLite && c.Storage.Driver != sqldb.DriverPostgres {
		return fmt.Errorf("storage.driver must be %q or %q, got %q",
			sqldb.DriverSQLite, sqldb.DriverPostgres, c.Storage.Driver)
	}
	if c.Storage.DSN == "" {
		return errors.New("storage.dsn is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if err := calculator.ValidateCutoffs(c.Ledger.CutoffDays); err != nil {
		return fmt.Errorf("ledger.cutoff_days: %w", err)
	}
	if c.Coach.MaxAttempts < 1 {
		return errors.New("coach.max_attempts must be at least 1")
	}
	return nil
}

// Location resolves the ledger timezone. Cutoff periods and dates are
// computed in this location.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Ledger.Timezone)
	if err != nil {
		return nil, fmt.Errorf("ledger.timezone: %w", err)
	}
	return loc, nil
}

// CoachSettings converts the coach section for coach.New.
func (c *Config) CoachSettings() coach.Config {
	return coach.Config{
		APIKey:      c.Coach.APIKey,
		Model:       c.Coach.Model,
		Timeout:     c.Coach.Timeout.Duration,
		MaxAttempts: c.Coach.MaxAttempts,
	}
}
