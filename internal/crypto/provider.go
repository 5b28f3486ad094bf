package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

const (
	// Key sizes
	KeySize   = 32 // AES-256
	NonceSize = 12 // GCM standard

	// PBKDF2 parameters
	DefaultIterations = 100000
	SaltSize          = 32
)

// Errors
var (
	ErrInvalidKey       = errors.New("invalid key size")
	ErrInvalidSalt      = errors.New("invalid salt size")
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrEmptyPassphrase  = errors.New("empty passphrase")
)

// AESCipher implements Cipher with AES-256-GCM and PBKDF2-SHA256.
type AESCipher struct {
	iterations int
}

// NewCipher creates a cipher with default PBKDF2 parameters.
func NewCipher() Cipher {
	return &AESCipher{iterations: DefaultIterations}
}

// NewCipherWithIterations creates a cipher with a custom iteration
// count. Exported for benchmarks and fast test setups; production code
// uses NewCipher.
func NewCipherWithIterations(iterations int) Cipher {
	return &AESCipher{iterations: iterations}
}

// Encrypt seals plaintext under key with a fresh random nonce.
func (c *AESCipher) Encrypt(key, plaintext []byte) ([]byte, []byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// Decrypt opens ciphertext sealed by Encrypt. A wrong key, or any
// bit-flip in ciphertext or nonce, fails with ErrDecryptionFailed.
func (c *AESCipher) Decrypt(key, ciphertext, nonce []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(nonce) != NonceSize {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// DeriveKey stretches a passphrase into an AES key with PBKDF2-SHA256.
// The passphrase is NFKC-normalized first so visually identical input
// typed on different platforms derives the same key.
func (c *AESCipher) DeriveKey(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	if len(salt) < SaltSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSalt, len(salt))
	}

	normalized := norm.NFKC.String(passphrase)
	key := pbkdf2.Key([]byte(normalized), salt, c.iterations, KeySize, sha256.New)
	return key, nil
}

// EphemeralKey generates a random AES key.
func (c *AESCipher) EphemeralKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// Salt generates a fresh random salt.
func (c *AESCipher) Salt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Zero overwrites a byte slice holding secret material. Callers zero
// plaintext and key buffers as soon as they are done with them.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return aead, nil
}
