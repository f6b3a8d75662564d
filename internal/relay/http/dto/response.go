package dto

import (
	"time"

	cryptoDomain "github.com/allisson/keyrelay/internal/crypto/domain"
)

// EncryptedKeyResponse carries a released key sealed for a user caller.
type EncryptedKeyResponse struct {
	Service      string                `json:"service"`
	EncryptedKey cryptoDomain.Envelope `json:"encrypted_key"`
	Timestamp    time.Time             `json:"timestamp"`
}

// AppEncryptedKeyResponse carries a released key sealed for an app caller,
// echoing the app identity the release was attributed to.
type AppEncryptedKeyResponse struct {
	Service      string                `json:"service"`
	EncryptedKey cryptoDomain.Envelope `json:"encrypted_key"`
	App          string                `json:"app"`
	Environment  string                `json:"environment"`
	Timestamp    time.Time             `json:"timestamp"`
}

// DecryptTestResponse reveals only a short prefix of the recovered key.
type DecryptTestResponse struct {
	KeyPrefix string `json:"key_prefix"`
}
