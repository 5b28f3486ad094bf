// Package store provides the scoped backing stores for encrypted
// credential blobs. A store holds EncryptedBlobs keyed by provider id
// and never sees plaintext; the vault is the only component that does.
//
// Every implementation writes a blob as a single unit: a concurrent
// reader observes either the previous blob or the new one in full,
// never a mix of fields from two writes.
package store

import (
	"context"
	"errors"

	"github.com/quillchat/keyvault/internal/models"
)

// Errors
var (
	// ErrNotFound means the store has no blob for the provider.
	ErrNotFound = errors.New("credential not found")
)

// Store is one scoped key-value store of encrypted blobs.
type Store interface {
	// Scope identifies the persistence tier this store backs.
	Scope() models.Scope

	// Get returns the blob for a provider, or ErrNotFound.
	Get(ctx context.Context, provider models.ProviderID) (*models.EncryptedBlob, error)

	// Set replaces the provider's blob atomically.
	Set(ctx context.Context, provider models.ProviderID, blob *models.EncryptedBlob) error

	// Remove deletes the provider's blob. Removing an absent provider
	// is not an error.
	Remove(ctx context.Context, provider models.ProviderID) error

	// Clear deletes every blob in the store.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}

func cloneBlob(b *models.EncryptedBlob) *models.EncryptedBlob {
	if b == nil {
		return nil
	}
	out := &models.EncryptedBlob{
		Ciphertext: append([]byte(nil), b.Ciphertext...),
		Nonce:      append([]byte(nil), b.Nonce...),
	}
	if b.Salt != nil {
		out.Salt = append([]byte(nil), b.Salt...)
	}
	if b.Key != nil {
		out.Key = append([]byte(nil), b.Key...)
	}
	return out
}
