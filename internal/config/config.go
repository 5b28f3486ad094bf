package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Durable store backends.
const (
	BackendSQLite  = "sqlite"
	BackendKeyring = "keyring"
)

// Config holds all application configuration.
type Config struct {
	// API configuration for the key-validation endpoint
	API APIConfig `json:"api"`

	// Storage paths and backend selection
	Storage StorageConfig `json:"storage"`

	// Crypto tuning
	Crypto CryptoConfig `json:"crypto"`

	// Logging
	Log LogConfig `json:"log"`
}

// APIConfig for the key-validation endpoint.
type APIConfig struct {
	BaseURL    string        `json:"base_url"`
	Timeout    time.Duration `json:"timeout"`
	MaxRetries int           `json:"max_retries"`
	UserAgent  string        `json:"user_agent"`
}

// StorageConfig for scoped store media.
type StorageConfig struct {
	DataDir        string `json:"data_dir"`        // Base directory for durable data
	SessionDir     string `json:"session_dir"`     // Session-scope blob files (runtime dir)
	DurableBackend string `json:"durable_backend"` // sqlite or keyring
	DatabaseFile   string `json:"database_file"`   // SQLite path (sqlite backend)
	KeyringService string `json:"keyring_service"` // Service name (keyring backend)
}

// CryptoConfig for key-derivation tuning.
type CryptoConfig struct {
	Iterations int `json:"iterations"` // PBKDF2 iteration count
}

// LogConfig for logging behavior.
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // text, json
	File   string `json:"file"`   // Log file path (empty = stderr)
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() *Config {
	dataDir := ".keyvault"

	sessionBase := os.Getenv("XDG_RUNTIME_DIR")
	if sessionBase == "" {
		sessionBase = os.TempDir()
	}

	return &Config{
		API: APIConfig{
			BaseURL:    "https://api.quillchat.dev",
			Timeout:    15 * time.Second,
			MaxRetries: 2,
			UserAgent:  "keyvault/1.0",
		},
		Storage: StorageConfig{
			DataDir:        dataDir,
			SessionDir:     filepath.Join(sessionBase, "keyvault"),
			DurableBackend: BackendSQLite,
			DatabaseFile:   filepath.Join(dataDir, "credentials.db"),
			KeyringService: "dev.quillchat.keyvault",
		},
		Crypto: CryptoConfig{
			Iterations: 100000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}

	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}

	switch c.Storage.DurableBackend {
	case BackendSQLite:
		if c.Storage.DatabaseFile == "" {
			return errors.New("storage.database_file is required for the sqlite backend")
		}
	case BackendKeyring:
		if c.Storage.KeyringService == "" {
			return errors.New("storage.keyring_service is required for the keyring backend")
		}
	default:
		return fmt.Errorf("invalid storage.durable_backend: %s", c.Storage.DurableBackend)
	}

	if c.Crypto.Iterations < 10000 {
		return fmt.Errorf("crypto.iterations too low: %d", c.Crypto.Iterations)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	return nil
}

// EnsureDirectories creates required directories with owner-only
// permissions.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDir,
		c.Storage.SessionDir,
	}

	if c.Log.File != "" {
		dirs = append(dirs, filepath.Dir(c.Log.File))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
