// Package usecase implements the key-release business logic: looking up
// configured upstream keys and sealing them into envelopes under the
// caller's secret.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/keyrelay/internal/crypto/domain"
)

// RelayUseCase defines the key-release operations.
type RelayUseCase interface {
	// GetEncryptedKey looks up the configured upstream key for the named
	// service and seals it into an envelope under the caller's secret.
	// The plaintext key never leaves this method unencrypted.
	//
	// Returns ErrServiceUnknown for service names the relay does not know
	// and ErrKeyNotConfigured when the deployment holds no key for a known
	// service.
	GetEncryptedKey(ctx context.Context, service string, callerSecret string) (*cryptoDomain.Envelope, error)

	// DecryptTest opens an envelope with the presented secret and returns
	// only a short prefix of the recovered key, so callers can verify
	// their decryption pipeline without the full key transiting again.
	//
	// Returns ErrEnvelopeAuthentication when the secret is wrong or the
	// envelope was tampered with.
	DecryptTest(ctx context.Context, envelope *cryptoDomain.Envelope, secret string) (string, error)
}
