package usecase

import (
	"context"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
	"github.com/allisson/keyrelay/internal/config"
	cryptoDomain "github.com/allisson/keyrelay/internal/crypto/domain"
	cryptoService "github.com/allisson/keyrelay/internal/crypto/service"
)

// keyPrefixLength bounds what DecryptTest reveals of a recovered key.
const keyPrefixLength = 8

// relayUseCase implements RelayUseCase on top of the config key vault and
// the envelope cipher.
type relayUseCase struct {
	config         *config.Config
	envelopeCipher cryptoService.EnvelopeCipher
}

// GetEncryptedKey seals the configured upstream key under the caller's secret.
//
// Security Notes:
//   - The plaintext key is read from config, sealed, and zeroed; it is never
//     logged, persisted, or returned raw
//   - Unknown services and unconfigured keys are both reported as not found,
//     so probing cannot distinguish deployment configuration from the
//     service catalog
func (r *relayUseCase) GetEncryptedKey(
	ctx context.Context,
	service string,
	callerSecret string,
) (*cryptoDomain.Envelope, error) {
	if _, ok := authDomain.ParseService(service); !ok {
		return nil, ErrServiceUnknown
	}

	upstreamKey := r.config.UpstreamKey(service)
	if upstreamKey == "" {
		return nil, ErrKeyNotConfigured
	}

	envelope, err := r.envelopeCipher.Encrypt([]byte(upstreamKey), callerSecret)
	if err != nil {
		return nil, err
	}

	return &envelope, nil
}

// DecryptTest opens the envelope and returns a short prefix of the recovered
// key. The full plaintext is zeroed before returning.
func (r *relayUseCase) DecryptTest(
	_ context.Context,
	envelope *cryptoDomain.Envelope,
	secret string,
) (string, error) {
	plaintext, err := r.envelopeCipher.Decrypt(envelope, secret)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(plaintext)

	prefix := plaintext
	if len(prefix) > keyPrefixLength {
		prefix = prefix[:keyPrefixLength]
	}

	return string(prefix), nil
}

// NewRelayUseCase creates a new RelayUseCase instance.
func NewRelayUseCase(cfg *config.Config, envelopeCipher cryptoService.EnvelopeCipher) RelayUseCase {
	return &relayUseCase{
		config:         cfg,
		envelopeCipher: envelopeCipher,
	}
}
