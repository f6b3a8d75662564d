package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/keyrelay/internal/crypto/domain"
)

// envelopeCipher implements EnvelopeCipher using PBKDF2-SHA256 and AES-256-GCM.
//
// Every encryption call draws a fresh 32-byte salt and 16-byte IV from
// crypto/rand, so envelopes never share derivation material. The instance is
// stateless and safe for concurrent use from multiple goroutines.
type envelopeCipher struct{}

// NewEnvelopeCipher creates a new EnvelopeCipher instance.
func NewEnvelopeCipher() EnvelopeCipher {
	return &envelopeCipher{}
}

// deriveKey stretches the caller secret into a 256-bit AES key.
func deriveKey(secret string, salt []byte) []byte {
	return pbkdf2.Key(
		[]byte(secret),
		salt,
		cryptoDomain.PBKDF2Iterations,
		cryptoDomain.KeySize,
		sha256.New,
	)
}

// newAEAD constructs AES-256-GCM with the envelope's 16-byte IV size.
func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, cryptoDomain.IVSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return aead, nil
}

// Encrypt encrypts plaintext under a key derived from secret.
//
// The GCM tag is split off the sealed output and stored as a separate envelope
// field so the wire format is self-describing. The derived key is zeroed before
// returning.
func (e *envelopeCipher) Encrypt(plaintext []byte, secret string) (cryptoDomain.Envelope, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return cryptoDomain.Envelope{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	iv := make([]byte, cryptoDomain.IVSize)
	if _, err := rand.Read(iv); err != nil {
		return cryptoDomain.Envelope{}, fmt.Errorf("failed to generate iv: %w", err)
	}

	key := deriveKey(secret, salt)
	defer cryptoDomain.Zero(key)

	aead, err := newAEAD(key)
	if err != nil {
		return cryptoDomain.Envelope{}, err
	}

	// Seal appends the tag to the ciphertext; the envelope keeps them apart.
	sealed := aead.Seal(nil, iv, plaintext, nil)
	boundary := len(sealed) - cryptoDomain.TagSize
	ciphertext, authTag := sealed[:boundary], sealed[boundary:]

	return cryptoDomain.NewEnvelope(ciphertext, salt, iv, authTag), nil
}

// Decrypt verifies and decrypts an envelope under a key derived from secret.
//
// Tag verification happens inside GCM's Open, which is constant-time and
// all-or-nothing: either the whole plaintext is released or nothing is.
func (e *envelopeCipher) Decrypt(
	envelope *cryptoDomain.Envelope,
	secret string,
) ([]byte, error) {
	decoded, err := envelope.Decode()
	if err != nil {
		return nil, err
	}

	key := deriveKey(secret, decoded.Salt)
	defer cryptoDomain.Zero(key)

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(decoded.Ciphertext)+len(decoded.AuthTag))
	sealed = append(sealed, decoded.Ciphertext...)
	sealed = append(sealed, decoded.AuthTag...)

	plaintext, err := aead.Open(nil, decoded.IV, sealed, nil)
	if err != nil {
		return nil, cryptoDomain.ErrEnvelopeAuthentication
	}

	return plaintext, nil
}
