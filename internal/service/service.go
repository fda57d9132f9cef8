// Package service implements the Money Mates operations on top of the
// storage layer. Services are transport-agnostic: the HTTP API and the CLI
// both call them directly.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/moneymates/internal/auth"
	"github.com/mmynk/moneymates/internal/calculator"
	"github.com/mmynk/moneymates/internal/coach"
	"github.com/mmynk/moneymates/internal/game"
	"github.com/mmynk/moneymates/internal/money"
	"github.com/mmynk/moneymates/internal/realtime"
	"github.com/mmynk/moneymates/internal/storage"
)

// DefaultStoreTimeout bounds each store round trip.
const DefaultStoreTimeout = 10 * time.Second

var (
	ErrInvalidAmount = errors.New("amount must be a positive number")
	ErrNotOwner      = errors.New("only the owner can change this")
	ErrInvalidTheme  = errors.New("unknown theme")
	ErrEmptyName     = errors.New("name can't be empty")
	ErrEmptyTitle    = errors.New("title can't be empty")
	ErrEmptyMessage  = errors.New("message can't be empty")
)

// Options configures the services.
type Options struct {
	// Location is where calendar dates are resolved. Defaults to UTC.
	Location *time.Location

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time

	// StoreTimeout bounds each store call. Defaults to DefaultStoreTimeout.
	StoreTimeout time.Duration

	// CutoffDays seeds a newly created target. Defaults to
	// calculator.DefaultCutoffDays.
	CutoffDays [2]int

	// Currency is the symbol used in text shown to the coach. Defaults to
	// money.DefaultSymbol.
	Currency string

	// Hub receives change events after every write. Optional.
	Hub *realtime.Hub

	// GameEnv supplies randomness for game commands. Defaults to
	// game.DefaultEnv with the clock above.
	GameEnv *game.Env
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = DefaultStoreTimeout
	}
	if o.CutoffDays == [2]int{} {
		o.CutoffDays = calculator.DefaultCutoffDays
	}
	if o.Currency == "" {
		o.Currency = money.DefaultSymbol
	}
	if o.GameEnv == nil {
		env := game.DefaultEnv()
		env.Now = o.Now
		o.GameEnv = &env
	}
	return o
}

// core is the state shared by all services.
type core struct {
	store storage.Store
	opts  Options
	feed  *Feed
}

func newCore(store storage.Store, opts Options) *core {
	opts = opts.withDefaults()
	c := &core{store: store, opts: opts}
	c.feed = &Feed{core: c}
	return c
}

// now returns the current time in the ledger's location.
func (c *core) now() time.Time {
	return c.opts.Now().In(c.opts.Location)
}

func (c *core) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.opts.StoreTimeout)
}

// parseAmount parses a positive money amount rounded to cents.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Services bundles every service over one store.
type Services struct {
	Feed     *Feed
	Profiles *ProfileService
	Ledger   *LedgerService
	Goals    *GoalService
	Targets  *TargetService
	Games    *GameService
	Coach    *CoachService
}

// New wires all services over store.
func New(store storage.Store, authenticator auth.Authenticator, tokens *auth.JWTManager, completer coach.Completer, opts Options) *Services {
	c := newCore(store, opts)
	if completer == nil {
		completer = coach.Unavailable{}
	}
	return &Services{
		Feed:     c.feed,
		Profiles: &ProfileService{core: c, authenticator: authenticator, tokens: tokens},
		Ledger:   &LedgerService{core: c},
		Goals:    &GoalService{core: c},
		Targets:  &TargetService{core: c},
		Games:    &GameService{core: c, completer: completer},
		Coach:    &CoachService{core: c, completer: completer},
	}
}
