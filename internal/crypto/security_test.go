package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillchat/keyvault/internal/crypto"
)

// Tamper-evidence: any bit flip in ciphertext or nonce must fail
// decryption rather than yield corrupted plaintext.
func TestTamperDetection(t *testing.T) {
	c := crypto.NewCipher()

	key, err := c.EphemeralKey()
	require.NoError(t, err)

	plaintext := []byte("api key material")
	ciphertext, nonce, err := c.Encrypt(key, plaintext)
	require.NoError(t, err)

	t.Run("flip ciphertext bit", func(t *testing.T) {
		for i := 0; i < len(ciphertext); i += 7 {
			tampered := make([]byte, len(ciphertext))
			copy(tampered, ciphertext)
			tampered[i] ^= 0x01

			_, err := c.Decrypt(key, tampered, nonce)
			assert.ErrorIs(t, err, crypto.ErrDecryptionFailed, "byte %d", i)
		}
	})

	t.Run("flip nonce bit", func(t *testing.T) {
		tampered := make([]byte, len(nonce))
		copy(tampered, nonce)
		tampered[0] ^= 0x80

		_, err := c.Decrypt(key, ciphertext, tampered)
		assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
	})

	t.Run("truncated ciphertext", func(t *testing.T) {
		_, err := c.Decrypt(key, ciphertext[:len(ciphertext)/2], nonce)
		assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
	})
}

// Every encryption must use a fresh nonce; a repeated nonce under the
// same key breaks GCM entirely.
func TestNonceUniqueness(t *testing.T) {
	c := crypto.NewCipher()

	key, err := c.EphemeralKey()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		_, nonce, err := c.Encrypt(key, []byte("same plaintext"))
		require.NoError(t, err)

		assert.False(t, seen[string(nonce)], "nonce reused")
		seen[string(nonce)] = true
	}
}

func TestCiphertextVariesPerCall(t *testing.T) {
	c := crypto.NewCipher()

	key, err := c.EphemeralKey()
	require.NoError(t, err)

	ct1, _, err := c.Encrypt(key, []byte("same plaintext"))
	require.NoError(t, err)
	ct2, _, err := c.Encrypt(key, []byte("same plaintext"))
	require.NoError(t, err)

	assert.NotEqual(t, ct1, ct2)
}

func TestEphemeralKeysAreRandom(t *testing.T) {
	c := crypto.NewCipher()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		key, err := c.EphemeralKey()
		require.NoError(t, err)
		require.Len(t, key, crypto.KeySize)

		assert.False(t, seen[string(key)], "key repeated")
		seen[string(key)] = true
	}
}
