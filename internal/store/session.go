package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quillchat/keyvault/internal/events"
	"github.com/quillchat/keyvault/internal/models"
)

// SessionStore backs the session scope with one JSON file per provider
// under a per-session directory. The ephemeral key rides alongside the
// blob in the same file, so a credential saved in this scope survives a
// process restart within the same session; ending the session removes
// the directory and the keys with it.
type SessionStore struct {
	dir    string
	logger *events.Logger
}

// NewSessionStore creates a session-scope store rooted at
// baseDir/session-<id>.
func NewSessionStore(baseDir, sessionID string, logger *events.Logger) (*SessionStore, error) {
	dir := filepath.Join(baseDir, "session-"+sessionID)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	return &SessionStore{
		dir:    dir,
		logger: logger.WithField("component", "session_store"),
	}, nil
}

// Scope returns the session scope.
func (s *SessionStore) Scope() models.Scope { return models.ScopeSession }

// Get reads the provider's blob file.
func (s *SessionStore) Get(ctx context.Context, provider models.ProviderID) (*models.EncryptedBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.blobPath(provider))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read blob file: %w", err)
	}

	var blob models.EncryptedBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("parse blob file: %w", err)
	}

	return &blob, nil
}

// Set writes the provider's blob atomically: the full blob goes to a
// temp file which is then renamed over the target, so a concurrent
// reader sees the old file or the new one, never a partial write.
func (s *SessionStore) Set(ctx context.Context, provider models.ProviderID, blob *models.EncryptedBlob) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("marshal blob: %w", err)
	}

	path := s.blobPath(provider)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if file, err := os.Open(tmpPath); err == nil {
		_ = file.Sync()
		file.Close()
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename blob file: %w", err)
	}

	return nil
}

// Remove deletes the provider's blob file.
func (s *SessionStore) Remove(ctx context.Context, provider models.ProviderID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.blobPath(provider))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob file: %w", err)
	}
	return nil
}

// Clear deletes every blob file in the session directory.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read session directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			s.logger.WithError(err).WithField("file", entry.Name()).Warn("Failed to remove blob file")
		}
	}

	return nil
}

// End removes the session directory entirely, the analog of the
// session closing.
func (s *SessionStore) End() error {
	s.logger.WithField("dir", s.dir).Info("Ending session")
	return os.RemoveAll(s.dir)
}

// Close releases resources.
func (s *SessionStore) Close() error {
	return nil
}

func (s *SessionStore) blobPath(provider models.ProviderID) string {
	return filepath.Join(s.dir, string(provider)+".json")
}
