// Package service provides the envelope cipher used for every key release.
// Implements PBKDF2-SHA256 key derivation and AES-256-GCM authenticated encryption.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/keyrelay/internal/crypto/domain"
)

// EnvelopeCipher encrypts plaintext keys under a caller-supplied secret and
// decrypts envelopes produced the same way.
type EnvelopeCipher interface {
	// Encrypt derives a key from secret and a fresh random salt, encrypts
	// plaintext with AES-256-GCM under a fresh random IV, and returns the
	// self-describing envelope. No two calls share a salt or IV.
	Encrypt(plaintext []byte, secret string) (cryptoDomain.Envelope, error)

	// Decrypt re-derives the key from secret and the envelope's salt and
	// verifies the authentication tag before releasing any plaintext.
	// Fails closed with ErrEnvelopeAuthentication on tag mismatch and
	// ErrMalformedEnvelope on unparsable fields.
	Decrypt(envelope *cryptoDomain.Envelope, secret string) ([]byte, error)
}

// KMSKeeper abstracts the subset of gocloud.dev/secrets used to unwrap the
// master registration secret.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens keepers for configured KMS providers.
type KMSService interface {
	// OpenKeeper opens a keeper for the given KMS key URI.
	// Returns an error if the URI is invalid or the provider is unreachable.
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}
