package crypto

// Cipher defines the narrow interface the vault uses for all
// cryptographic operations. The vault never reasons about raw cipher
// state; everything it needs is behind these five calls.
type Cipher interface {
	// Encrypt seals plaintext under key with a fresh random nonce.
	Encrypt(key, plaintext []byte) (ciphertext, nonce []byte, err error)

	// Decrypt opens ciphertext. Any tampering with ciphertext or nonce
	// fails with ErrDecryptionFailed; garbage plaintext is never
	// returned.
	Decrypt(key, ciphertext, nonce []byte) ([]byte, error)

	// DeriveKey stretches a passphrase into a key. Deterministic for
	// the same (passphrase, salt) pair.
	DeriveKey(passphrase string, salt []byte) ([]byte, error)

	// EphemeralKey generates a random key for scopes without a
	// passphrase.
	EphemeralKey() ([]byte, error)

	// Salt generates a fresh random salt for persistent credentials.
	Salt() ([]byte, error)
}
