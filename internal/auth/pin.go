package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/moneymates/internal/models"
	"github.com/mmynk/moneymates/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("incorrect PIN")
	ErrInvalidPIN         = errors.New("PIN must be exactly 4 digits")
	ErrUnknownProfile     = errors.New("unknown profile")
)

// PINLength is the number of digits in a profile PIN.
const PINLength = 4

// ProfileStorage defines the profile persistence the authenticator needs.
// This allows the authenticator to be independent of the storage implementation.
type ProfileStorage interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	PutProfile(ctx context.Context, p *models.Profile) error
}

// PinAuthenticator implements PIN-based sign-in using bcrypt.
type PinAuthenticator struct {
	storage ProfileStorage
}

// NewPinAuthenticator creates a new PIN-based authenticator.
func NewPinAuthenticator(storage ProfileStorage) *PinAuthenticator {
	return &PinAuthenticator{
		storage: storage,
	}
}

// ValidateCredential checks that the PIN is exactly four ASCII digits.
func (a *PinAuthenticator) ValidateCredential(credential string) error {
	if len(credential) != PINLength {
		return ErrInvalidPIN
	}
	for _, c := range credential {
		if c < '0' || c > '9' {
			return ErrInvalidPIN
		}
	}
	return nil
}

func (a *PinAuthenticator) profile(ctx context.Context, profileID string) (*models.Profile, error) {
	if !models.IsProfileID(profileID) {
		return nil, ErrUnknownProfile
	}
	p, err := a.storage.GetProfile(ctx, profileID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUnknownProfile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return p, nil
}

// Authenticate verifies the PIN of a profile that has one.
func (a *PinAuthenticator) Authenticate(ctx context.Context, profileID, credential string) (*models.Profile, error) {
	p, err := a.profile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if !p.HasPIN() {
		return p, nil
	}

	// Compare PIN hash
	if err := bcrypt.CompareHashAndPassword([]byte(p.PINHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}

// SetCredential hashes and stores a new PIN, or clears it when credential
// is empty.
func (a *PinAuthenticator) SetCredential(ctx context.Context, profileID, credential string) (*models.Profile, error) {
	p, err := a.profile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if credential == "" {
		p.PINHash = ""
	} else {
		if err := a.ValidateCredential(credential); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash PIN: %w", err)
		}
		p.PINHash = string(hashed)
	}

	if err := a.storage.PutProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return p, nil
}
