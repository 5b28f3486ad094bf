// Package vault orchestrates the scoped credential stores. It is the
// only component that ever handles plaintext keys: stores hold
// ciphertext, the registry holds metadata, and callers receive
// plaintext exactly once per explicit operation.
package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/quillchat/keyvault/internal/crypto"
	"github.com/quillchat/keyvault/internal/events"
	"github.com/quillchat/keyvault/internal/models"
	"github.com/quillchat/keyvault/internal/registry"
	"github.com/quillchat/keyvault/internal/settings"
	"github.com/quillchat/keyvault/internal/store"
	"github.com/quillchat/keyvault/internal/transport"
)

// testKeyPath is the guest key-validation endpoint.
const testKeyPath = "/api/guest/test-key"

// Vault resolves, saves, and deletes scoped credentials.
type Vault struct {
	cipher    crypto.Cipher
	tab       store.Store
	session   store.Store
	durable   store.Store
	settings  *settings.Store
	transport transport.Transport
	logger    *events.Logger
}

// New creates a vault over the three scoped stores. Stores are owned
// by the vault; no other component may write to them.
func New(
	cipher crypto.Cipher,
	tab, session, durable store.Store,
	settingsStore *settings.Store,
	tp transport.Transport,
	logger *events.Logger,
) *Vault {
	return &Vault{
		cipher:    cipher,
		tab:       tab,
		session:   session,
		durable:   durable,
		settings:  settingsStore,
		transport: tp,
		logger:    logger.WithField("service", "vault"),
	}
}

// LoadCredentials resolves at most one active credential per registry
// provider. Tab overrides session; request and persistent scopes are
// never consulted here. A provider with no credential, or whose blob
// fails to decrypt, is simply absent from the result; one provider's
// failure never aborts the batch.
func (v *Vault) LoadCredentials(ctx context.Context) map[models.ProviderID]models.CredentialRecord {
	result := make(map[models.ProviderID]models.CredentialRecord)

	for _, p := range registry.All() {
		record, ok := v.loadScoped(ctx, p.ID)
		if ok {
			result[p.ID] = record
		}
	}

	v.logger.WithField("count", len(result)).Debug("Loaded credentials")
	return result
}

// loadScoped resolves one provider across tab then session scope.
func (v *Vault) loadScoped(ctx context.Context, provider models.ProviderID) (models.CredentialRecord, bool) {
	for _, s := range []store.Store{v.tab, v.session} {
		blob, err := s.Get(ctx, provider)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			v.logger.WithError(err).WithFields(map[string]interface{}{
				"provider": string(provider),
				"scope":    s.Scope().String(),
			}).Warn("Failed to read credential, treating as absent")
			return models.CredentialRecord{}, false
		}

		plaintext, err := v.cipher.Decrypt(blob.Key, blob.Ciphertext, blob.Nonce)
		crypto.Zero(blob.Key)
		if err != nil {
			// A blob that exists but will not decrypt shadows any
			// lower-priority entry rather than silently falling
			// through to it.
			v.logger.WithFields(map[string]interface{}{
				"provider": string(provider),
				"scope":    s.Scope().String(),
			}).Warn("Failed to decrypt credential, treating as absent")
			return models.CredentialRecord{}, false
		}

		record := models.CredentialRecord{
			Provider:  provider,
			Masked:    MaskKey(string(plaintext)),
			Plaintext: string(plaintext),
			Scope:     s.Scope(),
		}
		crypto.Zero(plaintext)
		return record, true
	}

	return models.CredentialRecord{}, false
}

// Save encrypts and stores one credential according to its scope, and
// returns the record with the plaintext echoed once for immediate use.
func (v *Vault) Save(ctx context.Context, req models.SaveRequest) (*models.CredentialRecord, error) {
	if req.Scope == "" {
		return nil, &models.SaveError{
			Code:     models.ErrCodeMissingScope,
			Provider: req.Provider,
			Err:      models.ErrMissingScope,
		}
	}
	if !req.Scope.Valid() {
		return nil, &models.SaveError{
			Code:     models.ErrCodeMissingScope,
			Provider: req.Provider,
			Err:      fmt.Errorf("%w: %q", models.ErrUnknownScope, req.Scope),
		}
	}
	if !registry.Known(req.Provider) {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownProvider, req.Provider)
	}
	if req.Scope == models.ScopePersistent && req.Passphrase == "" {
		return nil, &models.SaveError{
			Code:     models.ErrCodeMissingPassphrase,
			Provider: req.Provider,
			Err:      models.ErrMissingPassphrase,
		}
	}

	logger := v.logger.WithFields(map[string]interface{}{
		"provider": string(req.Provider),
		"scope":    req.Scope.String(),
	})

	// Request scope: nothing is stored, and the emptied plaintext
	// signals "not retrievable later".
	if req.Scope == models.ScopeRequest {
		logger.Debug("Request-scope credential, nothing stored")
		return &models.CredentialRecord{
			Provider:  req.Provider,
			Masked:    MaskKey(req.Key),
			Plaintext: "",
			Scope:     models.ScopeRequest,
		}, nil
	}

	record := &models.CredentialRecord{
		Provider:  req.Provider,
		Masked:    MaskKey(req.Key),
		Plaintext: req.Key,
		Scope:     req.Scope,
	}

	switch req.Scope {
	case models.ScopeTab, models.ScopeSession:
		if err := v.saveEphemeral(ctx, req); err != nil {
			return nil, err
		}
	case models.ScopePersistent:
		if err := v.savePersistent(ctx, req); err != nil {
			return nil, err
		}
		record.Passphrase = req.Passphrase
	}

	if err := v.settings.SetConfigured(req.Provider, true); err != nil {
		logger.WithError(err).Warn("Failed to update configured status")
	}

	logger.Info("Saved credential")
	return record, nil
}

func (v *Vault) saveEphemeral(ctx context.Context, req models.SaveRequest) error {
	key, err := v.cipher.EphemeralKey()
	if err != nil {
		return fmt.Errorf("generate ephemeral key: %w", err)
	}
	defer crypto.Zero(key)

	ciphertext, nonce, err := v.cipher.Encrypt(key, []byte(req.Key))
	if err != nil {
		return fmt.Errorf("encrypt credential: %w", err)
	}

	blob := &models.EncryptedBlob{
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Key:        key,
	}

	target := v.tab
	if req.Scope == models.ScopeSession {
		target = v.session
	}

	if err := target.Set(ctx, req.Provider, blob); err != nil {
		return &models.StoreError{
			Scope:    req.Scope,
			Provider: req.Provider,
			Op:       "set",
			Err:      err,
		}
	}

	return nil
}

func (v *Vault) savePersistent(ctx context.Context, req models.SaveRequest) error {
	salt, err := v.cipher.Salt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	key, err := v.cipher.DeriveKey(req.Passphrase, salt)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}
	defer crypto.Zero(key)

	ciphertext, nonce, err := v.cipher.Encrypt(key, []byte(req.Key))
	if err != nil {
		return fmt.Errorf("encrypt credential: %w", err)
	}

	blob := &models.EncryptedBlob{
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Salt:       salt,
	}

	if err := v.durable.Set(ctx, req.Provider, blob); err != nil {
		return &models.StoreError{
			Scope:    models.ScopePersistent,
			Provider: req.Provider,
			Op:       "set",
			Err:      err,
		}
	}

	return nil
}

// LoadPersistent reads and decrypts one persistent credential with the
// supplied passphrase. A missing credential and a wrong passphrase are
// indistinguishable: both fail with models.ErrInvalidPassphrase.
func (v *Vault) LoadPersistent(ctx context.Context, provider models.ProviderID, passphrase string) (*models.CredentialRecord, error) {
	logger := v.logger.WithField("provider", string(provider))

	blob, err := v.durable.Get(ctx, provider)
	if err != nil {
		logger.Debug("Persistent credential unavailable")
		return nil, models.ErrInvalidPassphrase
	}

	key, err := v.cipher.DeriveKey(passphrase, blob.Salt)
	if err != nil {
		logger.Debug("Key derivation failed")
		return nil, models.ErrInvalidPassphrase
	}
	defer crypto.Zero(key)

	plaintext, err := v.cipher.Decrypt(key, blob.Ciphertext, blob.Nonce)
	if err != nil {
		logger.Debug("Persistent credential decryption failed")
		return nil, models.ErrInvalidPassphrase
	}

	record := &models.CredentialRecord{
		Provider:   provider,
		Masked:     MaskKey(string(plaintext)),
		Plaintext:  string(plaintext),
		Scope:      models.ScopePersistent,
		Passphrase: passphrase,
	}
	crypto.Zero(plaintext)

	logger.Info("Loaded persistent credential")
	return record, nil
}

// Delete removes the provider's entry from every scoped store,
// regardless of which scope holds data. Best-effort: a store that
// fails to clear is logged and the sweep continues. Idempotent.
func (v *Vault) Delete(ctx context.Context, provider models.ProviderID) error {
	logger := v.logger.WithField("provider", string(provider))

	var errs []error
	for _, s := range []store.Store{v.tab, v.session, v.durable} {
		if err := s.Remove(ctx, provider); err != nil {
			logger.WithError(err).WithField("scope", s.Scope().String()).Warn("Failed to remove credential")
			errs = append(errs, &models.StoreError{
				Scope:    s.Scope(),
				Provider: provider,
				Op:       "remove",
				Err:      err,
			})
		}
	}

	if err := v.settings.SetConfigured(provider, false); err != nil {
		logger.WithError(err).Warn("Failed to update configured status")
	}

	logger.Info("Deleted credential")
	return errors.Join(errs...)
}

// Clear wipes every store for every provider, the guest sign-out path.
// Best-effort like Delete.
func (v *Vault) Clear(ctx context.Context) error {
	var errs []error
	for _, s := range []store.Store{v.tab, v.session, v.durable} {
		if err := s.Clear(ctx); err != nil {
			v.logger.WithError(err).WithField("scope", s.Scope().String()).Warn("Failed to clear store")
			errs = append(errs, err)
		}
	}

	if err := v.settings.Reset(); err != nil {
		v.logger.WithError(err).Warn("Failed to reset settings")
		errs = append(errs, err)
	}

	v.logger.Info("Cleared all credentials")
	return errors.Join(errs...)
}

// ConfiguredProviders returns the non-secret per-provider configured
// flags, sourced from the settings store without touching ciphertext.
func (v *Vault) ConfiguredProviders() (map[models.ProviderID]bool, error) {
	s, err := v.settings.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return s.Configured, nil
}

// TestAPIKey asks the validation endpoint whether the provider's
// configured key works. Network failure is a result, never an error;
// nothing beyond the provider id is sent or logged.
func (v *Vault) TestAPIKey(ctx context.Context, provider models.ProviderID) models.TestResult {
	logger := v.logger.WithField("provider", string(provider))

	resp, err := v.transport.PostJSON(ctx, testKeyPath, map[string]interface{}{
		"provider": string(provider),
		"isGuest":  true,
	})
	if err != nil {
		logger.WithError(err).Warn("Key validation request failed")
		return models.TestResult{Success: false, Error: "Failed to test API key"}
	}

	result := models.TestResult{}
	if success, ok := resp["success"].(bool); ok {
		result.Success = success
	}
	if msg, ok := resp["error"].(string); ok {
		result.Error = msg
	}

	logger.WithField("success", result.Success).Info("Tested API key")
	return result
}
