package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/quillchat/keyvault/internal/events"
	"github.com/quillchat/keyvault/internal/models"
	"github.com/quillchat/keyvault/internal/registry"
)

// KeyringStore backs the persistent scope with the OS keychain (macOS
// Keychain, Linux Secret Service, Windows Credential Manager). Each
// provider's blob is stored JSON-encoded under a service/account pair.
//
// The keychain adds an OS-level access gate on top of the passphrase
// encryption; the blob stored there is still ciphertext, so a keychain
// dump alone does not reveal keys.
type KeyringStore struct {
	service string
	logger  *events.Logger
}

// NewKeyringStore creates a keychain-backed persistent store.
func NewKeyringStore(service string, logger *events.Logger) *KeyringStore {
	return &KeyringStore{
		service: service,
		logger:  logger.WithField("component", "keyring_store"),
	}
}

// Scope returns the persistent scope.
func (s *KeyringStore) Scope() models.Scope { return models.ScopePersistent }

// Get reads the provider's blob from the keychain.
func (s *KeyringStore) Get(ctx context.Context, provider models.ProviderID) (*models.EncryptedBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := keyring.Get(s.service, string(provider))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("keychain get: %w", err)
	}

	var blob models.EncryptedBlob
	if err := json.Unmarshal([]byte(payload), &blob); err != nil {
		return nil, fmt.Errorf("parse keychain entry: %w", err)
	}

	return &blob, nil
}

// Set replaces the provider's keychain entry. The keychain replaces
// entries whole, so no torn state is observable.
func (s *KeyringStore) Set(ctx context.Context, provider models.ProviderID, blob *models.EncryptedBlob) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("marshal blob: %w", err)
	}

	if err := keyring.Set(s.service, string(provider), string(payload)); err != nil {
		return fmt.Errorf("%w: keychain set: %v", models.ErrStorageQuota, err)
	}

	return nil
}

// Remove deletes the provider's keychain entry.
func (s *KeyringStore) Remove(ctx context.Context, provider models.ProviderID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := keyring.Delete(s.service, string(provider))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}

// Clear deletes entries for every registry provider. The keychain has
// no listing API, but the provider set is closed, so sweeping the
// registry covers every entry this store can have written.
func (s *KeyringStore) Clear(ctx context.Context) error {
	for _, p := range registry.All() {
		if err := s.Remove(ctx, p.ID); err != nil {
			s.logger.WithError(err).WithField("provider", string(p.ID)).Warn("Failed to clear keychain entry")
		}
	}
	return nil
}

// Close releases resources.
func (s *KeyringStore) Close() error {
	return nil
}
