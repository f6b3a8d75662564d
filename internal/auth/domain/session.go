package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionClaims is the payload embedded in a signed user session token.
// The token is self-contained: no server-side session state exists, so a
// signature and expiry check is all that authentication needs.
type SessionClaims struct {
	UserID    uuid.UUID `json:"uid"`
	Username  string    `json:"usr"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// Expired reports whether the claims' validity window has passed.
func (c *SessionClaims) Expired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}
