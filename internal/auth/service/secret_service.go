// Package service provides authentication-related services for password hashing and key management.
// Implements Argon2id password hashing and constant-time administrative secret comparison.
package service

import (
	"crypto/subtle"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/keyrelay/internal/errors"
)

// secretService implements SecretService using Argon2id for password hashing.
type secretService struct {
	hasher *pwdhash.PasswordHasher
}

// HashSecret hashes a plain text secret using Argon2id.
func (s *secretService) HashSecret(plainSecret string) (hashedSecret string, error error) {
	hashedSecret, err := s.hasher.Hash([]byte(plainSecret))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash secret")
	}
	return hashedSecret, nil
}

// CompareSecret performs a constant-time comparison between a plain secret and its hash.
func (s *secretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	ok, err := s.hasher.Verify([]byte(plainSecret), hashedSecret)
	if err != nil {
		return false
	}
	return ok
}

// CompareMasterSecret performs a constant-time comparison of two plain secrets.
func (s *secretService) CompareMasterSecret(candidate string, reference string) bool {
	if reference == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(reference)) == 1
}

// NewSecretService creates a new SecretService instance using Argon2id hashing.
// Uses the Moderate policy for a balance between security and performance.
func NewSecretService() SecretService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &secretService{
		hasher: hasher,
	}
}
