package auth

import (
	"context"

	"github.com/mmynk/moneymates/internal/models"
)

// Authenticator defines the interface for profile sign-in implementations.
// This abstraction allows swapping the credential scheme without changing
// the service layer code.
type Authenticator interface {
	// Authenticate verifies the credential for the profile and returns it.
	// A profile without a credential accepts any input.
	Authenticate(ctx context.Context, profileID, credential string) (*models.Profile, error)

	// SetCredential replaces the profile's credential. An empty credential
	// removes it.
	SetCredential(ctx context.Context, profileID, credential string) (*models.Profile, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
