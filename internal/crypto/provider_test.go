package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillchat/keyvault/internal/crypto"
)

func TestCipher_RoundTrip(t *testing.T) {
	c := crypto.NewCipher()

	key, err := c.EphemeralKey()
	require.NoError(t, err)
	require.Len(t, key, crypto.KeySize)

	plaintext := []byte("sk-1234567890abcdef")

	ciphertext, nonce, err := c.Encrypt(key, plaintext)
	require.NoError(t, err)
	assert.Len(t, nonce, crypto.NonceSize)
	assert.NotContains(t, string(ciphertext), "sk-1234")

	result, err := c.Decrypt(key, ciphertext, nonce)
	require.NoError(t, err)
	assert.Equal(t, plaintext, result)
}

func TestCipher_DeriveKey(t *testing.T) {
	c := crypto.NewCipherWithIterations(1000)

	salt := make([]byte, crypto.SaltSize)
	for i := range salt {
		salt[i] = byte(i)
	}

	tests := []struct {
		name       string
		passphrase string
		salt       []byte
		wantErr    error
	}{
		{
			name:       "valid passphrase",
			passphrase: "correct horse battery staple",
			salt:       salt,
		},
		{
			name:       "unicode passphrase",
			passphrase: "пароль123",
			salt:       salt,
		},
		{
			name:       "empty passphrase",
			passphrase: "",
			salt:       salt,
			wantErr:    crypto.ErrEmptyPassphrase,
		},
		{
			name:       "short salt",
			passphrase: "secret",
			salt:       []byte("short"),
			wantErr:    crypto.ErrInvalidSalt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := c.DeriveKey(tt.passphrase, tt.salt)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, key, crypto.KeySize)

			// Deterministic for the same inputs.
			key2, err := c.DeriveKey(tt.passphrase, tt.salt)
			require.NoError(t, err)
			assert.Equal(t, key, key2)
		})
	}
}

func TestCipher_DeriveKey_SaltChangesKey(t *testing.T) {
	c := crypto.NewCipherWithIterations(1000)

	salt1, err := c.Salt()
	require.NoError(t, err)
	salt2, err := c.Salt()
	require.NoError(t, err)
	require.NotEqual(t, salt1, salt2)

	key1, err := c.DeriveKey("same passphrase", salt1)
	require.NoError(t, err)
	key2, err := c.DeriveKey("same passphrase", salt2)
	require.NoError(t, err)

	assert.NotEqual(t, key1, key2)
}

func TestCipher_DeriveKey_NormalizesPassphrase(t *testing.T) {
	c := crypto.NewCipherWithIterations(1000)

	salt := make([]byte, crypto.SaltSize)

	// U+00E9 (precomposed) vs U+0065 U+0301 (combining accent).
	key1, err := c.DeriveKey("café", salt)
	require.NoError(t, err)
	key2, err := c.DeriveKey("café", salt)
	require.NoError(t, err)

	assert.Equal(t, key1, key2)
}

func TestCipher_Decrypt_Errors(t *testing.T) {
	c := crypto.NewCipher()

	key, err := c.EphemeralKey()
	require.NoError(t, err)

	ciphertext, nonce, err := c.Encrypt(key, []byte("secret"))
	require.NoError(t, err)

	t.Run("invalid key size", func(t *testing.T) {
		_, err := c.Decrypt([]byte("short"), ciphertext, nonce)
		assert.ErrorIs(t, err, crypto.ErrInvalidKey)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := c.EphemeralKey()
		require.NoError(t, err)

		_, err = c.Decrypt(other, ciphertext, nonce)
		assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
	})

	t.Run("wrong nonce size", func(t *testing.T) {
		_, err := c.Decrypt(key, ciphertext, nonce[:6])
		assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
	})
}

func TestZero(t *testing.T) {
	buf := []byte("sensitive")
	crypto.Zero(buf)
	for _, b := range buf {
		assert.Zero(t, b)
	}
}
