package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/moneymates/internal/auth"
	"github.com/mmynk/moneymates/internal/models"
	"github.com/mmynk/moneymates/internal/realtime"
)

// ProfileService manages the two fixed profiles and signing in as one.
type ProfileService struct {
	*core
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
}

// ProfileUpdate is a partial profile change. Nil fields are left alone.
type ProfileUpdate struct {
	Name  *string `json:"name"`
	Emoji *string `json:"emoji"`
	Theme *string `json:"theme"`
}

// LoginResult is a signed-in session.
type LoginResult struct {
	Profile   *models.Profile `json:"profile"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// List returns both profiles, creating the defaults on first run.
func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		slog.Error("ListProfiles failed", "error", err)
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	existing := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		existing[p.ID] = true
	}
	created := false
	for _, p := range models.DefaultProfiles() {
		if existing[p.ID] {
			continue
		}
		if err := s.store.PutProfile(ctx, &p); err != nil {
			slog.Error("Creating default profile failed", "profile_id", p.ID, "error", err)
			return nil, fmt.Errorf("failed to create profile %s: %w", p.ID, err)
		}
		slog.Info("Default profile created", "profile_id", p.ID)
		created = true
	}
	if !created {
		return profiles, nil
	}

	profiles, err = s.store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	s.feed.publish(ctx, realtime.TopicProfiles)
	return profiles, nil
}

// Get returns one profile.
func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	if !models.IsProfileID(id) {
		return nil, auth.ErrUnknownProfile
	}
	if _, err := s.List(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.store.GetProfile(ctx, id)
}

// Update applies upd to profile id. Only the owner may edit a profile.
func (s *ProfileService) Update(ctx context.Context, actor, id string, upd ProfileUpdate) (*models.Profile, error) {
	slog.Info("UpdateProfile request received", "profile_id", id, "actor", actor)

	if actor != id {
		return nil, ErrNotOwner
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		p.Name = name
	}
	if upd.Emoji != nil && strings.TrimSpace(*upd.Emoji) != "" {
		p.Emoji = strings.TrimSpace(*upd.Emoji)
	}
	if upd.Theme != nil {
		if !models.IsTheme(*upd.Theme) {
			return nil, ErrInvalidTheme
		}
		p.Theme = *upd.Theme
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.store.PutProfile(ctx, p); err != nil {
		slog.Error("UpdateProfile failed", "profile_id", id, "error", err)
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.feed.publish(ctx, realtime.TopicProfiles)
	return p, nil
}

// SetPIN sets or, with an empty pin, clears the actor's PIN.
func (s *ProfileService) SetPIN(ctx context.Context, actor, pin string) (*models.Profile, error) {
	slog.Info("SetPIN request received", "profile_id", actor, "clear", pin == "")

	if _, err := s.List(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.authenticator.SetCredential(ctx, actor, pin)
	if err != nil {
		slog.Error("SetPIN failed", "profile_id", actor, "error", err)
		return nil, err
	}
	s.feed.publish(ctx, realtime.TopicProfiles)
	return p, nil
}

// Login signs in as profile id. Profiles with a PIN require it.
func (s *ProfileService) Login(ctx context.Context, id, pin string) (*LoginResult, error) {
	slog.Info("Login request received", "profile_id", id)

	if _, err := s.List(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.authenticator.Authenticate(ctx, id, pin)
	if err != nil {
		slog.Warn("Login failed", "profile_id", id, "error", err)
		return nil, err
	}

	token, err := s.tokens.Generate(p)
	if err != nil {
		slog.Error("Failed to generate token", "profile_id", id, "error", err)
		return nil, err
	}

	slog.Info("Profile signed in", "profile_id", id)
	return &LoginResult{
		Profile:   p,
		Token:     token,
		ExpiresAt: s.now().Add(s.tokens.TokenDuration()),
	}, nil
}
