package integration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillchat/keyvault/internal/client"
	"github.com/quillchat/keyvault/internal/models"
	"github.com/quillchat/keyvault/test/testutil"
)

func newTestClient(t *testing.T, serverURL string) *client.Client {
	t.Helper()
	t.Setenv("KEYVAULT_SESSION_ID", "integration")

	cfg := testutil.TestConfigWithDir(t.TempDir())
	cfg.API.BaseURL = serverURL

	c, err := client.New(cfg, testutil.NewTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGuestCredentialFlow(t *testing.T) {
	srv := testutil.NewTestServer()
	defer srv.Close()
	srv.SetKeyResult("openai", true, "")

	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	// Save one credential per scope.
	_, err := c.Vault.Save(ctx, models.SaveRequest{
		Provider: models.ProviderOpenAI,
		Key:      "sk-tab-0000000001",
		Scope:    models.ScopeTab,
	})
	require.NoError(t, err)

	_, err = c.Vault.Save(ctx, models.SaveRequest{
		Provider: models.ProviderAnthropic,
		Key:      "sk-ant-session-01",
		Scope:    models.ScopeSession,
	})
	require.NoError(t, err)

	_, err = c.Vault.Save(ctx, models.SaveRequest{
		Provider:   models.ProviderGoogle,
		Key:        "AIza-durable-0001",
		Scope:      models.ScopePersistent,
		Passphrase: "guest passphrase",
	})
	require.NoError(t, err)

	// Bulk load resolves tab and session, never persistent.
	records := c.Vault.LoadCredentials(ctx)
	require.Len(t, records, 2)
	assert.Equal(t, "sk-tab-0000000001", records[models.ProviderOpenAI].Plaintext)
	assert.Equal(t, "sk-ant-session-01", records[models.ProviderAnthropic].Plaintext)

	// Persistent needs the passphrase.
	record, err := c.Vault.LoadPersistent(ctx, models.ProviderGoogle, "guest passphrase")
	require.NoError(t, err)
	assert.Equal(t, "AIza-durable-0001", record.Plaintext)

	_, err = c.Vault.LoadPersistent(ctx, models.ProviderGoogle, "wrong")
	assert.ErrorIs(t, err, models.ErrInvalidPassphrase)

	// Configured status covers all three.
	configured, err := c.Vault.ConfiguredProviders()
	require.NoError(t, err)
	assert.Len(t, configured, 3)

	// Key validation hits the guest endpoint.
	result := c.Vault.TestAPIKey(ctx, models.ProviderOpenAI)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"openai"}, srv.Calls())

	// Sign-out wipes everything.
	require.NoError(t, c.Vault.Clear(ctx))
	assert.Empty(t, c.Vault.LoadCredentials(ctx))
	_, err = c.Vault.LoadPersistent(ctx, models.ProviderGoogle, "guest passphrase")
	assert.ErrorIs(t, err, models.ErrInvalidPassphrase)
}

func TestSessionScopeSurvivesRestart(t *testing.T) {
	srv := testutil.NewTestServer()
	defer srv.Close()

	t.Setenv("KEYVAULT_SESSION_ID", "restart")
	cfg := testutil.TestConfigWithDir(t.TempDir())
	cfg.API.BaseURL = srv.URL

	ctx := context.Background()

	first, err := client.New(cfg, testutil.NewTestLogger())
	require.NoError(t, err)

	_, err = first.Vault.Save(ctx, models.SaveRequest{
		Provider: models.ProviderMistral,
		Key:      "mst-restart-0001",
		Scope:    models.ScopeSession,
	})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// A new process in the same session still sees the credential.
	second, err := client.New(cfg, testutil.NewTestLogger())
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	records := second.Vault.LoadCredentials(ctx)
	require.Contains(t, records, models.ProviderMistral)
	assert.Equal(t, "mst-restart-0001", records[models.ProviderMistral].Plaintext)

	// Ending the session discards it.
	require.NoError(t, second.EndSession())
	assert.NotContains(t, second.Vault.LoadCredentials(ctx), models.ProviderMistral)
}

func TestPersistentSurvivesRestart(t *testing.T) {
	srv := testutil.NewTestServer()
	defer srv.Close()

	t.Setenv("KEYVAULT_SESSION_ID", "durable")
	cfg := testutil.TestConfigWithDir(t.TempDir())
	cfg.API.BaseURL = srv.URL

	ctx := context.Background()

	first, err := client.New(cfg, testutil.NewTestLogger())
	require.NoError(t, err)

	_, err = first.Vault.Save(ctx, models.SaveRequest{
		Provider:   models.ProviderXAI,
		Key:        "xai-durable-0001",
		Scope:      models.ScopePersistent,
		Passphrase: "sturdy",
	})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := client.New(cfg, testutil.NewTestLogger())
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	record, err := second.Vault.LoadPersistent(ctx, models.ProviderXAI, "sturdy")
	require.NoError(t, err)
	assert.Equal(t, "xai-durable-0001", record.Plaintext)
}
