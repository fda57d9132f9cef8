// Package session keeps the signed-in profile on the local device.
//
// The saved record expires 30 days after it was written; expiry is checked
// when the record is read, and an expired record is removed.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mmynk/moneymates/internal/models"
)

// Default file location.
const (
	DefaultDirName  = ".moneymates"
	DefaultFileName = "session.json"
)

// DefaultTTL is how long a saved session stays valid.
const DefaultTTL = 30 * 24 * time.Hour

// ErrNoSession is returned when no valid session is saved.
var ErrNoSession = errors.New("not signed in")

// Session is the saved sign-in record.
type Session struct {
	ProfileID string `json:"profileId"`

	// Token is the server-issued bearer token, if any.
	Token string `json:"token,omitempty"`

	// Server is the base URL the token was issued by.
	Server string `json:"server,omitempty"`

	// Timestamp is the unix millisecond time the session was saved.
	Timestamp int64 `json:"timestamp"`
}

// Store reads and writes the session file.
type Store struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// DefaultPath returns the default session file path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName, DefaultFileName), nil
}

// NewStore returns a store for the file at path. A non-positive ttl means
// DefaultTTL.
func NewStore(path string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{path: path, ttl: ttl, now: time.Now}
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Save stamps sess with the current time and writes it with owner-only
// permissions.
func (s *Store) Save(sess Session) error {
	if !models.IsProfileID(sess.ProfileID) {
		return fmt.Errorf("unknown profile %q", sess.ProfileID)
	}
	sess.Timestamp = s.now().UnixMilli()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	// Write atomically via temp file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the saved session, or ErrNoSession when none is saved, the
// file is unreadable as a session, or it has expired.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || !models.IsProfileID(sess.ProfileID) {
		return nil, ErrNoSession
	}

	saved := time.UnixMilli(sess.Timestamp)
	if s.now().Sub(saved) > s.ttl {
		if err := s.Clear(); err != nil {
			return nil, err
		}
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Clear removes the saved session. Clearing when nothing is saved succeeds.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
