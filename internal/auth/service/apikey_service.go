package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/allisson/keyrelay/internal/errors"
)

// Key prefixes distinguish principal kinds at a glance without decoding.
const (
	// UserKeyPrefix marks API keys issued to interactive user accounts.
	UserKeyPrefix = "sk_user_"

	// AppKeyPrefix marks API keys issued to registered apps.
	AppKeyPrefix = "sk_app_"
)

// apiKeyService implements APIKeyService using SHA-256 for key hashing.
type apiKeyService struct{}

// GenerateKey creates a new cryptographically secure 32-byte random API key.
// The random portion is base64 URL-encoded and prepended with the given
// prefix. Returns the plain key and its SHA-256 hash.
func (a *apiKeyService) GenerateKey(prefix string) (plainKey string, keyHash string, error error) {
	// Generate 32 random bytes (256 bits)
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random key")
	}

	plainKey = prefix + base64.RawURLEncoding.EncodeToString(randomBytes)
	keyHash = a.HashKey(plainKey)

	return plainKey, keyHash, nil
}

// HashKey hashes a plain API key using SHA-256.
// Returns the hash as a hexadecimal string.
func (a *apiKeyService) HashKey(plainKey string) string {
	hash := sha256.Sum256([]byte(plainKey))
	return hex.EncodeToString(hash[:])
}

// NewAPIKeyService creates a new APIKeyService instance using SHA-256 for key hashing.
func NewAPIKeyService() APIKeyService {
	return &apiKeyService{}
}
