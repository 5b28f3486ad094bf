package store_test

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillchat/keyvault/internal/events"
	"github.com/quillchat/keyvault/internal/models"
	"github.com/quillchat/keyvault/internal/store"
)

func newSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	logger := events.NewTestLogger(events.ErrorLevel, "text", io.Discard)
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "creds.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func persistentBlob(seed byte) *models.EncryptedBlob {
	blob := &models.EncryptedBlob{
		Ciphertext: make([]byte, 48),
		Nonce:      make([]byte, 12),
		Salt:       make([]byte, 32),
	}
	for i := range blob.Ciphertext {
		blob.Ciphertext[i] = seed
	}
	for i := range blob.Nonce {
		blob.Nonce[i] = seed + 1
	}
	for i := range blob.Salt {
		blob.Salt[i] = seed + 2
	}
	return blob
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	assert.Equal(t, models.ScopePersistent, s.Scope())

	blob := persistentBlob(4)
	require.NoError(t, s.Set(ctx, models.ProviderOpenRouter, blob))

	got, err := s.Get(ctx, models.ProviderOpenRouter)
	require.NoError(t, err)
	assert.Equal(t, blob.Ciphertext, got.Ciphertext)
	assert.Equal(t, blob.Nonce, got.Nonce)
	assert.Equal(t, blob.Salt, got.Salt)
	assert.Empty(t, got.Key)
}

func TestSQLiteStore_Upsert(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, models.ProviderOpenAI, persistentBlob(1)))
	require.NoError(t, s.Set(ctx, models.ProviderOpenAI, persistentBlob(8)))

	got, err := s.Get(ctx, models.ProviderOpenAI)
	require.NoError(t, err)
	assert.Equal(t, byte(8), got.Ciphertext[0])
	assert.Equal(t, byte(9), got.Nonce[0])
	assert.Equal(t, byte(10), got.Salt[0])
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := newSQLiteStore(t)

	_, err := s.Get(context.Background(), models.ProviderLangSmith)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLiteStore_RemoveAndClear(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, models.ProviderOpenAI, persistentBlob(1)))
	require.NoError(t, s.Set(ctx, models.ProviderAnthropic, persistentBlob(2)))

	require.NoError(t, s.Remove(ctx, models.ProviderOpenAI))
	_, err := s.Get(ctx, models.ProviderOpenAI)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Remove(ctx, models.ProviderOpenAI))

	require.NoError(t, s.Clear(ctx))
	_, err = s.Get(ctx, models.ProviderAnthropic)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	logger := events.NewTestLogger(events.ErrorLevel, "text", io.Discard)
	path := filepath.Join(dir, "creds.db")
	ctx := context.Background()

	s1, err := store.NewSQLiteStore(path, logger)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, models.ProviderGoogle, persistentBlob(6)))
	require.NoError(t, s1.Close())

	s2, err := store.NewSQLiteStore(path, logger)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(ctx, models.ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, byte(6), got.Ciphertext[0])
}
