// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
)

// MockUserUseCase is a mock implementation of UserUseCase for testing.
type MockUserUseCase struct {
	mock.Mock
}

// Register mocks the Register method of UserUseCase.
func (m *MockUserUseCase) Register(
	ctx context.Context,
	input *authDomain.RegisterUserInput,
) (*authDomain.RegisterUserOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.RegisterUserOutput), args.Error(1)
}

// Login mocks the Login method of UserUseCase.
func (m *MockUserUseCase) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.LoginOutput), args.Error(1)
}

// RotateAPIKey mocks the RotateAPIKey method of UserUseCase.
func (m *MockUserUseCase) RotateAPIKey(ctx context.Context, input *authDomain.LoginInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

// AuthenticateAPIKey mocks the AuthenticateAPIKey method of UserUseCase.
func (m *MockUserUseCase) AuthenticateAPIKey(ctx context.Context, apiKey string) (*authDomain.User, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

// AuthenticateSession mocks the AuthenticateSession method of UserUseCase.
func (m *MockUserUseCase) AuthenticateSession(ctx context.Context, token string) (*authDomain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

// MockAppUseCase is a mock implementation of AppUseCase for testing.
type MockAppUseCase struct {
	mock.Mock
}

// Register mocks the Register method of AppUseCase.
func (m *MockAppUseCase) Register(
	ctx context.Context,
	input *authDomain.RegisterAppInput,
) (*authDomain.RegisterAppOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.RegisterAppOutput), args.Error(1)
}

// Revoke mocks the Revoke method of AppUseCase.
func (m *MockAppUseCase) Revoke(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}

// List mocks the List method of AppUseCase.
func (m *MockAppUseCase) List(ctx context.Context) ([]*authDomain.App, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.App), args.Error(1)
}

// Authenticate mocks the Authenticate method of AppUseCase.
func (m *MockAppUseCase) Authenticate(ctx context.Context, apiKey string) (*authDomain.App, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.App), args.Error(1)
}

// Authorize mocks the Authorize method of AppUseCase.
func (m *MockAppUseCase) Authorize(
	app *authDomain.App,
	service authDomain.Service,
	clientIP string,
	origin string,
) error {
	args := m.Called(app, service, clientIP, origin)
	return args.Error(0)
}
