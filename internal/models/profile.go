package models

import "slices"

// Fixed profile identities. No other ids exist system-wide.
const (
	Pea = "pea"
	Cam = "cam"
)

// ProfileIDs lists both identities in display order.
var ProfileIDs = []string{Pea, Cam}

// Themes are the visual theme keys a profile may pick.
var Themes = []string{"emerald", "green", "pink", "indigo", "rose", "amber", "sky", "violet"}

// Profile represents one of the two household members.
type Profile struct {
	// ID is either Pea or Cam.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Emoji is shown next to the name.
	Emoji string `json:"emoji"`

	// Theme is one of Themes.
	Theme string `json:"theme"`

	// PINHash is the bcrypt hash of the optional 4-digit PIN.
	// Empty means the profile has no PIN.
	PINHash string `json:"-"`
}

// HasPIN reports whether signing in as this profile requires a PIN.
func (p Profile) HasPIN() bool {
	return p.PINHash != ""
}

// DefaultProfiles returns the profiles created on first run.
func DefaultProfiles() []Profile {
	return []Profile{
		{ID: Pea, Name: "Pea", Emoji: "🌸", Theme: "pink"},
		{ID: Cam, Name: "Cam", Emoji: "📸", Theme: "green"},
	}
}

// IsProfileID reports whether id is one of the two fixed identities.
func IsProfileID(id string) bool {
	return id == Pea || id == Cam
}

// Partner returns the other profile id.
func Partner(id string) string {
	if id == Pea {
		return Cam
	}
	return Pea
}

// IsTheme reports whether theme is a known theme key.
func IsTheme(theme string) bool {
	return slices.Contains(Themes, theme)
}
