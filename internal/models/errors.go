package models

import (
	"errors"
	"fmt"
)

// Error codes for structured error handling.
const (
	ErrCodeMissingScope      = "MISSING_SCOPE"
	ErrCodeMissingPassphrase = "MISSING_PASSPHRASE"
	ErrCodeInvalidPassphrase = "INVALID_PASSPHRASE"
	ErrCodeDecryption        = "DECRYPTION_ERROR"
	ErrCodeStorage           = "STORAGE_ERROR"
	ErrCodeStorageQuota      = "STORAGE_QUOTA"
	ErrCodeUnknownProvider   = "UNKNOWN_PROVIDER"
	ErrCodeConfig            = "CONFIG_ERROR"
)

// Sentinel errors
var (
	// ErrMissingScope rejects a save request without a storage scope.
	ErrMissingScope = errors.New("storage scope is required")

	// ErrMissingPassphrase rejects a persistent save without a
	// passphrase, before any encryption is attempted.
	ErrMissingPassphrase = errors.New("passphrase is required for persistent storage")

	// ErrInvalidPassphrase covers both a wrong passphrase and a missing
	// stored credential. The two cases are deliberately
	// indistinguishable so callers cannot probe which providers have
	// persistent credentials.
	ErrInvalidPassphrase = errors.New("invalid passphrase or no stored credential")

	// ErrDecryptionFailed is internal: persistent loads surface it as
	// ErrInvalidPassphrase, bulk loads degrade the provider to absent.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrStorageQuota marks a durable-store write failure.
	ErrStorageQuota = errors.New("storage quota exceeded")

	ErrUnknownProvider = errors.New("unknown provider")
	ErrUnknownScope    = errors.New("unknown storage scope")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// SaveError identifies which precondition a save request violated, so a
// caller can prompt for the right missing input. It never carries key
// material.
type SaveError struct {
	Code     string
	Provider ProviderID
	Err      error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save credential [%s]: provider %s: %v", e.Code, e.Provider, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// StoreError wraps a scoped-store failure with the scope it occurred in.
type StoreError struct {
	Scope    Scope
	Provider ProviderID
	Op       string
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s store %s: provider %s: %v", e.Scope, e.Op, e.Provider, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
