// Package settings persists non-sensitive guest preferences, chiefly
// which providers have some credential configured. The UI reads this
// to show configuration status without ever touching ciphertext or
// plaintext.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/quillchat/keyvault/internal/events"
	"github.com/quillchat/keyvault/internal/models"
)

// GuestSettings is the persisted shape. It must never gain a field
// that carries secret material.
type GuestSettings struct {
	// Configured maps provider id to "has some key saved".
	Configured map[models.ProviderID]bool `json:"configured"`
}

// Store persists guest settings as a JSON file with atomic writes.
type Store struct {
	path   string
	logger *events.Logger

	mu sync.Mutex
}

// NewStore creates a settings store under dir.
func NewStore(dir string, logger *events.Logger) *Store {
	return &Store{
		path:   filepath.Join(dir, "guest-settings.json"),
		logger: logger.WithField("component", "settings_store"),
	}
}

// Load reads the settings, returning empty settings when the file does
// not exist yet.
func (s *Store) Load() (*GuestSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// SetConfigured records whether a provider has a credential saved.
func (s *Store) SetConfigured(provider models.ProviderID, configured bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load()
	if err != nil {
		return err
	}

	if configured {
		settings.Configured[provider] = true
	} else {
		delete(settings.Configured, provider)
	}

	return s.save(settings)
}

// Reset clears all recorded configuration status.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove settings file: %w", err)
	}
	return nil
}

func (s *Store) load() (*GuestSettings, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &GuestSettings{Configured: make(map[models.ProviderID]bool)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var settings GuestSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		// A corrupt status file only affects display; start over
		// rather than failing credential operations.
		s.logger.WithError(err).Warn("Settings file corrupt, resetting")
		return &GuestSettings{Configured: make(map[models.ProviderID]bool)}, nil
	}

	if settings.Configured == nil {
		settings.Configured = make(map[models.ProviderID]bool)
	}
	return &settings, nil
}

func (s *Store) save(settings *GuestSettings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename settings file: %w", err)
	}

	return nil
}
