package models

import "fmt"

// ProviderID identifies a supported third-party API provider.
type ProviderID string

// Supported providers. The set is closed; the registry package holds
// display metadata for each entry.
const (
	ProviderOpenAI     ProviderID = "openai"
	ProviderAnthropic  ProviderID = "anthropic"
	ProviderMistral    ProviderID = "mistral"
	ProviderGoogle     ProviderID = "google"
	ProviderPerplexity ProviderID = "perplexity"
	ProviderXAI        ProviderID = "xai"
	ProviderOpenRouter ProviderID = "openrouter"
	ProviderLangSmith  ProviderID = "langsmith"
)

// Scope is the persistence tier governing how long a credential survives
// and what key material protects it.
type Scope string

const (
	// ScopeRequest holds a value only for the duration of one outbound
	// call. Nothing is written to any store.
	ScopeRequest Scope = "request"

	// ScopeTab survives only while the current process is alive.
	ScopeTab Scope = "tab"

	// ScopeSession survives process restarts within the same session and
	// is cleared when the session ends.
	ScopeSession Scope = "session"

	// ScopePersistent survives indefinitely and requires the user's
	// passphrase on every read.
	ScopePersistent Scope = "persistent"
)

// ParseScope converts a string into a Scope.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeRequest, ScopeTab, ScopeSession, ScopePersistent:
		return Scope(s), nil
	case "":
		return "", ErrMissingScope
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, s)
	}
}

// Valid reports whether the scope is one of the known tiers.
func (s Scope) Valid() bool {
	switch s {
	case ScopeRequest, ScopeTab, ScopeSession, ScopePersistent:
		return true
	}
	return false
}

func (s Scope) String() string { return string(s) }

// EncryptedBlob is the unit a scoped store holds for one provider. The
// blob is written and read as a whole; a reader never observes a mix of
// fields from two writes.
type EncryptedBlob struct {
	// Ciphertext is the AES-GCM output including the auth tag.
	Ciphertext []byte `json:"ciphertext"`

	// Nonce is the per-encryption random nonce.
	Nonce []byte `json:"nonce"`

	// Salt is present only for persistent blobs; it is the non-secret
	// input to passphrase key derivation.
	Salt []byte `json:"salt,omitempty"`

	// Key is the ephemeral key for tab and session blobs. It is never
	// set on persistent blobs, whose key is re-derived on every read.
	Key []byte `json:"key,omitempty"`
}

// CredentialRecord is the vault's answer for one provider. Masked is
// always safe to log or display; Plaintext transits to the caller once
// and is never attached to anything persisted.
type CredentialRecord struct {
	Provider  ProviderID `json:"provider"`
	Masked    string     `json:"masked"`
	Plaintext string     `json:"-"`
	Scope     Scope      `json:"scope"`

	// Passphrase accompanies persistent records only, echoing the value
	// supplied for that read. The vault never retains it.
	Passphrase string `json:"-"`
}

// SaveRequest carries one save operation into the vault.
type SaveRequest struct {
	Provider   ProviderID
	Key        string
	Scope      Scope
	Passphrase string
}

// TestResult is the outcome of a key-validation call. It is a value,
// never an error: validation failures are data, not control flow.
type TestResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
