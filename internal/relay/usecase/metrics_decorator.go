package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/keyrelay/internal/crypto/domain"
	"github.com/allisson/keyrelay/internal/metrics"
)

// relayUseCaseWithMetrics decorates RelayUseCase with metrics instrumentation.
// The caller label distinguishes the user flow from the app flow; handlers
// pick the labeled decorator matching their route.
type relayUseCaseWithMetrics struct {
	next    RelayUseCase
	metrics metrics.BusinessMetrics
	caller  string
}

// NewRelayUseCaseWithMetrics wraps a RelayUseCase with key-release metrics
// attributed to the given caller kind ("user" or "app").
func NewRelayUseCaseWithMetrics(useCase RelayUseCase, m metrics.BusinessMetrics, caller string) RelayUseCase {
	return &relayUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
		caller:  caller,
	}
}

// GetEncryptedKey records a key-release metric for every attempt.
func (r *relayUseCaseWithMetrics) GetEncryptedKey(
	ctx context.Context,
	service string,
	callerSecret string,
) (*cryptoDomain.Envelope, error) {
	envelope, err := r.next.GetEncryptedKey(ctx, service, callerSecret)

	status := "success"
	if err != nil {
		status = "error"
	}
	r.metrics.RecordKeyRelease(ctx, service, r.caller, status)

	return envelope, err
}

// DecryptTest passes through without metrics; it releases no key material.
func (r *relayUseCaseWithMetrics) DecryptTest(
	ctx context.Context,
	envelope *cryptoDomain.Envelope,
	secret string,
) (string, error) {
	return r.next.DecryptTest(ctx, envelope, secret)
}
