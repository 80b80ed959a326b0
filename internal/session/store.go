// Package session owns the authenticated-session state: the bearer token,
// the cached user profile, and the lifecycle that ties them together.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mymoneyhq/moneyctl/internal/config"
	"github.com/mymoneyhq/moneyctl/internal/model"
)

// tokenState is the durable on-disk shape of the credential. Only the token
// survives process restarts; the profile is re-fetched per session.
type tokenState struct {
	SavedAt time.Time `json:"saved_at"`
	Token   string    `json:"token"`
}

// Store holds the current bearer token and user profile. The token is
// mirrored to a state file so it survives restarts; the profile lives in
// memory only. The store never performs network I/O.
type Store struct {
	profile   *model.Profile
	statePath string
	token     string
	mu        sync.RWMutex
}

// DefaultStatePath returns the credential state file location, honoring
// XDG_DATA_HOME and falling back to ~/.local/share.
func DefaultStatePath() (string, error) {
	return config.DataFilePath("credentials.json")
}

// NewStore opens the store backed by the given state file, loading any
// previously saved token. A missing file means no token, not an error.
func NewStore(statePath string) (*Store, error) {
	if statePath == "" {
		return nil, fmt.Errorf("state path cannot be empty")
	}

	s := &Store{statePath: statePath}

	data, err := os.ReadFile(statePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read credential state: %w", err)
	}

	var state tokenState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse credential state: %w", err)
	}

	s.token = state.Token
	return s, nil
}

// SetToken stores the token in memory and persists it durably.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.statePath), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(tokenState{Token: token, SavedAt: time.Now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential state: %w", err)
	}

	if err := os.WriteFile(s.statePath, data, 0600); err != nil {
		return fmt.Errorf("failed to save credential state: %w", err)
	}

	s.token = token
	return nil
}

// Token returns the current bearer token, and whether one exists.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// SetProfile caches the user profile in memory.
func (s *Store) SetProfile(p *model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
}

// Profile returns the cached profile, and whether one is cached. Absence
// means "unknown, must fetch".
func (s *Store) Profile() (*model.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile, s.profile != nil
}

// Clear removes the token from durable storage and memory and drops the
// cached profile.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.profile = nil

	if err := os.Remove(s.statePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove credential state: %w", err)
	}
	return nil
}
