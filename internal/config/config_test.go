package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillchat/keyvault/internal/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.BackendSQLite, cfg.Storage.DurableBackend)
	assert.Equal(t, 100000, cfg.Crypto.Iterations)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "missing base URL",
			mutate:  func(c *config.Config) { c.API.BaseURL = "" },
			wantErr: "api.base_url",
		},
		{
			name:    "non-positive timeout",
			mutate:  func(c *config.Config) { c.API.Timeout = 0 },
			wantErr: "api.timeout",
		},
		{
			name:    "unknown durable backend",
			mutate:  func(c *config.Config) { c.Storage.DurableBackend = "redis" },
			wantErr: "durable_backend",
		},
		{
			name: "keyring backend without service",
			mutate: func(c *config.Config) {
				c.Storage.DurableBackend = config.BackendKeyring
				c.Storage.KeyringService = ""
			},
			wantErr: "keyring_service",
		},
		{
			name:    "iterations too low",
			mutate:  func(c *config.Config) { c.Crypto.Iterations = 100 },
			wantErr: "iterations",
		},
		{
			name:    "bad log level",
			mutate:  func(c *config.Config) { c.Log.Level = "verbose" },
			wantErr: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoader_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keyvault.json")

	fileCfg := map[string]interface{}{
		"api": map[string]interface{}{
			"base_url": "https://validate.example.com",
			"timeout":  int64(5 * time.Second),
		},
		"log": map[string]interface{}{
			"level": "debug",
		},
	}
	data, err := json.Marshal(fileCfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))

	t.Setenv("KEYVAULT_LOG_FORMAT", "json")
	t.Setenv("KEYVAULT_CRYPTO_ITERATIONS", "200000")

	cfg, err := config.NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "https://validate.example.com", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 200000, cfg.Crypto.Iterations)
}

func TestLoader_EnvDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("KEYVAULT_DATA_DIR", dir)

	cfg, err := config.NewLoader("").Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Storage.DataDir)
	assert.Equal(t, filepath.Join(dir, "credentials.db"), cfg.Storage.DatabaseFile)
}

func TestLoader_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := config.NewLoader(path).Load()
	assert.Error(t, err)
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Storage.DataDir = filepath.Join(dir, "data")
	cfg.Storage.SessionDir = filepath.Join(dir, "session")

	require.NoError(t, cfg.EnsureDirectories())

	info, err := os.Stat(cfg.Storage.DataDir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}
