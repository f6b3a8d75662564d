package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
	apperrors "github.com/allisson/keyrelay/internal/errors"
)

// sessionTokenService implements SessionTokenService with HMAC-SHA256 signed
// tokens. A token is "payload.signature" where payload is the base64
// URL-encoded JSON claims and signature is the base64 URL-encoded
// HMAC-SHA256 of the payload.
type sessionTokenService struct {
	signingSecret []byte
}

// Issue creates a signed token embedding the given claims.
func (s *sessionTokenService) Issue(claims *authDomain.SessionClaims) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to marshal session claims")
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	signature := s.sign(encoded)

	return encoded + "." + signature, nil
}

// Verify checks the token's signature and expiry and returns its claims.
// The signature is checked before the payload is parsed, so forged tokens
// never reach the JSON decoder.
func (s *sessionTokenService) Verify(token string, now time.Time) (*authDomain.SessionClaims, error) {
	encoded, signature, found := strings.Cut(token, ".")
	if !found || encoded == "" || signature == "" {
		return nil, authDomain.ErrSessionTokenInvalid
	}

	expected := s.sign(encoded)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return nil, authDomain.ErrSessionTokenInvalid
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, authDomain.ErrSessionTokenInvalid
	}

	var claims authDomain.SessionClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, authDomain.ErrSessionTokenInvalid
	}

	if claims.Expired(now) {
		return nil, authDomain.ErrSessionExpired
	}

	return &claims, nil
}

// sign computes the base64 URL-encoded HMAC-SHA256 of the encoded payload.
func (s *sessionTokenService) sign(encodedPayload string) string {
	mac := hmac.New(sha256.New, s.signingSecret)
	mac.Write([]byte(encodedPayload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// NewSessionTokenService creates a new SessionTokenService signing with the
// given secret. The secret must be kept private; anyone holding it can mint
// valid sessions.
func NewSessionTokenService(signingSecret string) SessionTokenService {
	return &sessionTokenService{
		signingSecret: []byte(signingSecret),
	}
}
