package service

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/keyrelay/internal/crypto/domain"
	apperrors "github.com/allisson/keyrelay/internal/errors"
)

func TestEnvelopeCipher_Encrypt(t *testing.T) {
	cipher := NewEnvelopeCipher()

	t.Run("produces well-formed envelope", func(t *testing.T) {
		envelope, err := cipher.Encrypt([]byte("sk-upstream-api-key"), "caller-secret")
		require.NoError(t, err)

		salt, err := hex.DecodeString(envelope.Salt)
		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.SaltSize, len(salt))

		iv, err := hex.DecodeString(envelope.IV)
		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.IVSize, len(iv))

		authTag, err := hex.DecodeString(envelope.AuthTag)
		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.TagSize, len(authTag))
	})

	t.Run("salt and iv are fresh on every call", func(t *testing.T) {
		env1, err := cipher.Encrypt([]byte("same plaintext"), "same-secret")
		require.NoError(t, err)

		env2, err := cipher.Encrypt([]byte("same plaintext"), "same-secret")
		require.NoError(t, err)

		assert.NotEqual(t, env1.Salt, env2.Salt)
		assert.NotEqual(t, env1.IV, env2.IV)
		assert.NotEqual(t, env1.Ciphertext, env2.Ciphertext)
	})

	t.Run("encrypt empty plaintext", func(t *testing.T) {
		envelope, err := cipher.Encrypt([]byte{}, "secret")
		require.NoError(t, err)
		assert.Empty(t, envelope.Ciphertext)
		assert.NotEmpty(t, envelope.AuthTag)
	})
}

func TestEnvelopeCipher_Decrypt(t *testing.T) {
	cipher := NewEnvelopeCipher()

	t.Run("round trip", func(t *testing.T) {
		plaintext := []byte("sk-ant-REDACTED")

		envelope, err := cipher.Encrypt(plaintext, "caller-secret")
		require.NoError(t, err)

		decrypted, err := cipher.Decrypt(&envelope, "caller-secret")
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	})

	t.Run("wrong secret fails", func(t *testing.T) {
		envelope, err := cipher.Encrypt([]byte("payload"), "secret-one")
		require.NoError(t, err)

		decrypted, err := cipher.Decrypt(&envelope, "secret-two")
		assert.Nil(t, decrypted)
		assert.ErrorIs(t, err, cryptoDomain.ErrEnvelopeAuthentication)
	})

	t.Run("tampered ciphertext fails", func(t *testing.T) {
		envelope, err := cipher.Encrypt([]byte("payload to protect"), "secret")
		require.NoError(t, err)

		raw, err := hex.DecodeString(envelope.Ciphertext)
		require.NoError(t, err)
		raw[0] ^= 0x01 // flip one bit
		envelope.Ciphertext = hex.EncodeToString(raw)

		decrypted, err := cipher.Decrypt(&envelope, "secret")
		assert.Nil(t, decrypted)
		assert.ErrorIs(t, err, cryptoDomain.ErrEnvelopeAuthentication)
	})

	t.Run("tampered auth tag fails", func(t *testing.T) {
		envelope, err := cipher.Encrypt([]byte("payload to protect"), "secret")
		require.NoError(t, err)

		raw, err := hex.DecodeString(envelope.AuthTag)
		require.NoError(t, err)
		raw[len(raw)-1] ^= 0x80
		envelope.AuthTag = hex.EncodeToString(raw)

		decrypted, err := cipher.Decrypt(&envelope, "secret")
		assert.Nil(t, decrypted)
		assert.ErrorIs(t, err, cryptoDomain.ErrEnvelopeAuthentication)
	})

	t.Run("malformed fields fail closed", func(t *testing.T) {
		envelope, err := cipher.Encrypt([]byte("payload"), "secret")
		require.NoError(t, err)

		tests := []struct {
			name   string
			mutate func(e *cryptoDomain.Envelope)
		}{
			{"non-hex ciphertext", func(e *cryptoDomain.Envelope) { e.Ciphertext = "not-hex!" }},
			{"non-hex salt", func(e *cryptoDomain.Envelope) { e.Salt = "zz" }},
			{"short salt", func(e *cryptoDomain.Envelope) { e.Salt = "deadbeef" }},
			{"short iv", func(e *cryptoDomain.Envelope) { e.IV = "deadbeef" }},
			{"short auth tag", func(e *cryptoDomain.Envelope) { e.AuthTag = "deadbeef" }},
			{"empty salt", func(e *cryptoDomain.Envelope) { e.Salt = "" }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mutated := envelope
				tt.mutate(&mutated)

				decrypted, err := cipher.Decrypt(&mutated, "secret")
				assert.Nil(t, decrypted)
				assert.ErrorIs(t, err, cryptoDomain.ErrMalformedEnvelope)
				assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
			})
		}
	})

	t.Run("empty secret still round trips", func(t *testing.T) {
		envelope, err := cipher.Encrypt([]byte("payload"), "")
		require.NoError(t, err)

		decrypted, err := cipher.Decrypt(&envelope, "")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), decrypted)
	})
}
