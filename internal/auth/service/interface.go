// Package service provides technical services for authentication operations.
//
// This package implements reusable services for password hashing, API key
// generation, and signed session tokens using industry-standard cryptographic
// practices.
package service

import (
	"time"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
)

// SecretService defines operations for password hashing and master-secret
// validation. Implementations must use industry-standard adaptive hashing
// algorithms (e.g., bcrypt, argon2) and constant-time comparisons.
type SecretService interface {
	// HashSecret hashes a plain text secret using a secure hashing algorithm.
	// The plain secret is never stored; only the hash is persisted.
	HashSecret(plainSecret string) (hashedSecret string, error error)

	// CompareSecret compares a plain text secret against a hashed secret.
	// Returns true if the plain secret matches the hash, false otherwise.
	// This is constant-time to prevent timing attacks.
	CompareSecret(plainSecret string, hashedSecret string) bool

	// CompareMasterSecret compares two plain administrative secrets in
	// constant time. Used for the registration master-secret gate, where
	// the reference value comes from configuration rather than a hash.
	CompareMasterSecret(candidate string, reference string) bool
}

// APIKeyService defines operations for API key generation and hashing.
// Implementations must use cryptographically secure random generation with
// at least 256 bits of entropy per key.
type APIKeyService interface {
	// GenerateKey creates a new cryptographically secure random API key with
	// the given prefix. Returns both the plain key (to be shared with the
	// caller) and its SHA-256 hash (to be stored).
	//
	// The plain key should be treated as sensitive data and only displayed
	// once to the caller during issuance.
	GenerateKey(prefix string) (plainKey string, keyHash string, error error)

	// HashKey hashes a plain API key using SHA-256.
	// Used for key lookup by comparing hashes.
	HashKey(plainKey string) string
}

// SessionTokenService defines operations for signed session tokens.
// Tokens are self-contained: claims travel inside the token and are
// protected by an HMAC-SHA256 signature, so no server-side session
// state is required.
type SessionTokenService interface {
	// Issue creates a signed token embedding the given claims.
	Issue(claims *authDomain.SessionClaims) (string, error)

	// Verify checks the token's signature and expiry and returns its claims.
	// Returns ErrSessionTokenInvalid for malformed or forged tokens and
	// ErrSessionExpired when the validity window has passed.
	Verify(token string, now time.Time) (*authDomain.SessionClaims, error)
}
