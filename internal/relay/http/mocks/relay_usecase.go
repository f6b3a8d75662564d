// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/keyrelay/internal/crypto/domain"
)

// MockRelayUseCase is a mock implementation of RelayUseCase for testing.
type MockRelayUseCase struct {
	mock.Mock
}

// GetEncryptedKey mocks the GetEncryptedKey method of RelayUseCase.
func (m *MockRelayUseCase) GetEncryptedKey(
	ctx context.Context,
	service string,
	callerSecret string,
) (*cryptoDomain.Envelope, error) {
	args := m.Called(ctx, service, callerSecret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.Envelope), args.Error(1)
}

// DecryptTest mocks the DecryptTest method of RelayUseCase.
func (m *MockRelayUseCase) DecryptTest(
	ctx context.Context,
	envelope *cryptoDomain.Envelope,
	secret string,
) (string, error) {
	args := m.Called(ctx, envelope, secret)
	return args.String(0), args.Error(1)
}
