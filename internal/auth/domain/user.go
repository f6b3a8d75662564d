package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an interactive account.
//
// Users authenticate with username+password to obtain a session token, and
// with their API key for key retrieval. The password is stored as an Argon2id
// hash, never raw. The API key is kept on the record because login and
// rotation re-present the current key to its owner; the user registry itself
// is process-lifetime only and never written to durable storage.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	APIKey       string
	CreatedAt    time.Time
	LastAccess   *time.Time
}

// Touch records a successful login or authenticated request.
func (u *User) Touch(now time.Time) {
	u.LastAccess = &now
}

// RegisterUserInput contains the parameters for registering a new user.
// MasterSecret must match the configured administrative secret.
type RegisterUserInput struct {
	Username     string
	Password     string
	MasterSecret string
}

// RegisterUserOutput contains the result of registering a user.
type RegisterUserOutput struct {
	User     *User
	PlainKey string
}

// LoginInput contains user login credentials.
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput contains the session token and the user's current API key.
type LoginOutput struct {
	Token    string
	PlainKey string
}
