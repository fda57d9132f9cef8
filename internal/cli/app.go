package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/moneymates/internal/auth"
	"github.com/mmynk/moneymates/internal/coach"
	"github.com/mmynk/moneymates/internal/realtime"
	"github.com/mmynk/moneymates/internal/service"
	"github.com/mmynk/moneymates/internal/storage/sqldb"
)

// app is everything a command needs to run services against the
// configured store.
type app struct {
	store *sqldb.SQLStore
	hub   *realtime.Hub
	jwt   *auth.JWTManager
	svc   *service.Services
}

// openApp wires the store, auth, coach and services from cfg.
func openApp(ctx context.Context) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var store *sqldb.SQLStore
	if cfg.Storage.Driver == sqldb.DriverSQLite {
		store, err = sqldb.New(cfg.Storage.DSN)
	} else {
		store, err = sqldb.Open(cfg.Storage.Driver, cfg.Storage.DSN)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	slog.Debug("Storage initialized", "driver", cfg.Storage.Driver)

	secret := cfg.Auth.Secret
	if secret == "" {
		secret, err = auth.RandomSecret()
		if err != nil {
			store.Close()
			return nil, err
		}
		slog.Warn("No auth.secret configured, using a random one; sessions end on restart")
	}
	jwtManager := auth.NewJWTManager(secret, cfg.Auth.SessionTTL.Duration)

	completer, err := coach.New(ctx, cfg.CoachSettings())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize coach: %w", err)
	}
	if _, ok := completer.(coach.Unavailable); ok {
		slog.Info("No Gemini API key configured, coach and decide game are disabled")
	}

	hub := realtime.NewHub()
	svc := service.New(store, auth.NewPinAuthenticator(store), jwtManager, completer, service.Options{
		Location:     loc,
		StoreTimeout: cfg.Storage.Timeout.Duration,
		CutoffDays:   cfg.Ledger.CutoffDays,
		Currency:     cfg.Ledger.Currency,
		Hub:          hub,
	})

	return &app{store: store, hub: hub, jwt: jwtManager, svc: svc}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
