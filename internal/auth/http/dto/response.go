package dto

import (
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
)

// RegisterUserResponse contains the result of registering a user.
// SECURITY: the API key is shown here and re-presented on login and rotation;
// the password is never echoed back.
type RegisterUserResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	APIKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse contains the session token and the user's current API key.
type LoginResponse struct {
	Token  string `json:"token"`
	APIKey string `json:"api_key"`
}

// RotateKeyResponse contains the freshly generated API key.
// The previous key stopped authenticating when this response was produced.
type RotateKeyResponse struct {
	APIKey string `json:"api_key"`
}

// UserProfileResponse describes the authenticated user. Never carries key or
// password material.
type UserProfileResponse struct {
	Username   string     `json:"username"`
	CreatedAt  time.Time  `json:"created_at"`
	LastAccess *time.Time `json:"last_access,omitempty"`
}

// MapRegisterOutputToResponse converts a registration result to an API response.
func MapRegisterOutputToResponse(output *authDomain.RegisterUserOutput) RegisterUserResponse {
	return RegisterUserResponse{
		UserID:    output.User.ID,
		Username:  output.User.Username,
		APIKey:    output.PlainKey,
		CreatedAt: output.User.CreatedAt,
	}
}
