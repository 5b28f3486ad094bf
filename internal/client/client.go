// Package client assembles the vault from configuration. It is the
// only place that knows which concrete store backs each scope.
package client

import (
	"fmt"
	"os"

	"github.com/quillchat/keyvault/internal/config"
	"github.com/quillchat/keyvault/internal/crypto"
	"github.com/quillchat/keyvault/internal/events"
	"github.com/quillchat/keyvault/internal/settings"
	"github.com/quillchat/keyvault/internal/store"
	"github.com/quillchat/keyvault/internal/transport"
	"github.com/quillchat/keyvault/internal/vault"
)

// Client wires configuration, stores, and transport into a ready vault.
type Client struct {
	Vault *vault.Vault

	config    *config.Config
	logger    *events.Logger
	transport transport.Transport
	session   *store.SessionStore
	durable   store.Store
}

// New builds a client from the given configuration. The durable scope
// backend is selected by cfg.Storage.DurableBackend; the session store
// is keyed by SessionID so separate logins never share credentials.
func New(cfg *config.Config, logger *events.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("prepare directories: %w", err)
	}

	cipher := crypto.NewCipherWithIterations(cfg.Crypto.Iterations)

	sessionStore, err := store.NewSessionStore(cfg.Storage.SessionDir, SessionID(), logger)
	if err != nil {
		return nil, fmt.Errorf("create session store: %w", err)
	}

	durable, err := newDurableStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	settingsStore := settings.NewStore(cfg.Storage.DataDir, logger)
	transportClient := transport.NewHTTPClient(&cfg.API, logger)

	v := vault.New(
		cipher,
		store.NewMemoryStore(),
		sessionStore,
		durable,
		settingsStore,
		transportClient,
		logger,
	)

	return &Client{
		Vault:     v,
		config:    cfg,
		logger:    logger,
		transport: transportClient,
		session:   sessionStore,
		durable:   durable,
	}, nil
}

func newDurableStore(cfg *config.Config, logger *events.Logger) (store.Store, error) {
	switch cfg.Storage.DurableBackend {
	case config.BackendKeyring:
		return store.NewKeyringStore(cfg.Storage.KeyringService, logger), nil
	case config.BackendSQLite:
		s, err := store.NewSQLiteStore(cfg.Storage.DatabaseFile, logger)
		if err != nil {
			return nil, fmt.Errorf("create sqlite store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown durable backend: %q", cfg.Storage.DurableBackend)
	}
}

// SessionID resolves the identifier for the current session scope.
// Explicit override wins, then the login session, then a shared
// fallback for environments with neither.
func SessionID() string {
	if id := os.Getenv("KEYVAULT_SESSION_ID"); id != "" {
		return id
	}
	if id := os.Getenv("XDG_SESSION_ID"); id != "" {
		return id
	}
	return "default"
}

// EndSession discards the session-scope store for this session id,
// removing its directory and everything in it.
func (c *Client) EndSession() error {
	return c.session.End()
}

// Close releases the durable backend and idle transport connections.
func (c *Client) Close() error {
	if err := c.durable.Close(); err != nil {
		c.logger.WithError(err).Warn("Failed to close durable store")
		return err
	}
	return c.transport.Close()
}
