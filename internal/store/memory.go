package store

import (
	"context"
	"sync"

	"github.com/awnumar/memguard"

	"github.com/quillchat/keyvault/internal/models"
)

// memoryEntry is one tab-scope credential. The ephemeral key lives in
// a memguard enclave so it is encrypted at rest in process memory and
// kept off swap; the blob itself is ciphertext and needs no shielding.
type memoryEntry struct {
	blob *models.EncryptedBlob
	key  *memguard.Enclave
}

// MemoryStore backs the tab scope: a process-local map, lost when the
// process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[models.ProviderID]*memoryEntry
}

// NewMemoryStore creates a tab-scope store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[models.ProviderID]*memoryEntry),
	}
}

// Scope returns the tab scope.
func (s *MemoryStore) Scope() models.Scope { return models.ScopeTab }

// Get returns a copy of the provider's blob with the ephemeral key
// reattached.
func (s *MemoryStore) Get(ctx context.Context, provider models.ProviderID) (*models.EncryptedBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	entry, ok := s.entries[provider]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	blob := cloneBlob(entry.blob)

	locked, err := entry.key.Open()
	if err != nil {
		return nil, err
	}
	defer locked.Destroy()

	blob.Key = append([]byte(nil), locked.Bytes()...)
	return blob, nil
}

// Set replaces the provider's entry. The blob's Key field is moved
// into an enclave; the map value is swapped in one step under the
// lock, so readers see either the old entry or the new one.
func (s *MemoryStore) Set(ctx context.Context, provider models.ProviderID, blob *models.EncryptedBlob) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := cloneBlob(blob)
	key := stored.Key
	stored.Key = nil

	// NewEnclave wipes its input buffer; key is already our own copy.
	entry := &memoryEntry{
		blob: stored,
		key:  memguard.NewEnclave(key),
	}

	s.mu.Lock()
	s.entries[provider] = entry
	s.mu.Unlock()

	return nil
}

// Remove deletes the provider's entry.
func (s *MemoryStore) Remove(ctx context.Context, provider models.ProviderID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.entries, provider)
	s.mu.Unlock()

	return nil
}

// Clear deletes every entry.
func (s *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = make(map[models.ProviderID]*memoryEntry)
	s.mu.Unlock()

	return nil
}

// Close drops all entries.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.entries = make(map[models.ProviderID]*memoryEntry)
	s.mu.Unlock()
	return nil
}
