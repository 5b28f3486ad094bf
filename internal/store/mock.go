package store

import (
	"context"
	"sync"

	"github.com/quillchat/keyvault/internal/models"
)

// MockStore provides an in-memory Store with failure injection for
// testing vault orchestration.
type MockStore struct {
	mu    sync.RWMutex
	scope models.Scope
	blobs map[models.ProviderID]*models.EncryptedBlob

	// Failure injection
	GetErr    error
	SetErr    error
	RemoveErr error
	ClearErr  error
}

// NewMockStore creates a mock store for the given scope.
func NewMockStore(scope models.Scope) *MockStore {
	return &MockStore{
		scope: scope,
		blobs: make(map[models.ProviderID]*models.EncryptedBlob),
	}
}

// Scope returns the configured scope.
func (s *MockStore) Scope() models.Scope { return s.scope }

// Get returns a copy of the stored blob.
func (s *MockStore) Get(ctx context.Context, provider models.ProviderID) (*models.EncryptedBlob, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[provider]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBlob(blob), nil
}

// Set stores a copy of the blob.
func (s *MockStore) Set(ctx context.Context, provider models.ProviderID, blob *models.EncryptedBlob) error {
	if s.SetErr != nil {
		return s.SetErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[provider] = cloneBlob(blob)
	return nil
}

// Remove deletes the blob.
func (s *MockStore) Remove(ctx context.Context, provider models.ProviderID) error {
	if s.RemoveErr != nil {
		return s.RemoveErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, provider)
	return nil
}

// Clear deletes every blob.
func (s *MockStore) Clear(ctx context.Context) error {
	if s.ClearErr != nil {
		return s.ClearErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs = make(map[models.ProviderID]*models.EncryptedBlob)
	return nil
}

// Close is a no-op.
func (s *MockStore) Close() error { return nil }

// Len reports the number of stored blobs.
func (s *MockStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Corrupt flips a byte in the stored ciphertext for a provider, for
// decryption-failure tests.
func (s *MockStore) Corrupt(provider models.ProviderID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if blob, ok := s.blobs[provider]; ok && len(blob.Ciphertext) > 0 {
		blob.Ciphertext[0] ^= 0xFF
	}
}
