package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
	apperrors "github.com/allisson/keyrelay/internal/errors"
)

// mockAppRepository is a mock implementation of AppRepository for testing.
type mockAppRepository struct {
	mock.Mock
}

func (m *mockAppRepository) Create(ctx context.Context, app *authDomain.App) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *mockAppRepository) RecordAccess(ctx context.Context, keyHash string, now time.Time) (*authDomain.App, error) {
	args := m.Called(ctx, keyHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.App), args.Error(1)
}

func (m *mockAppRepository) GetByKeyHash(ctx context.Context, keyHash string) (*authDomain.App, error) {
	args := m.Called(ctx, keyHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.App), args.Error(1)
}

func (m *mockAppRepository) List(ctx context.Context) ([]*authDomain.App, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.App), args.Error(1)
}

func (m *mockAppRepository) DeleteByName(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}

func TestAppUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AppliesDefaults", func(t *testing.T) {
		appRepo := &mockAppRepository{}
		apiKeyService := &mockAPIKeyService{}
		useCase := NewAppUseCase(appRepo, apiKeyService)

		apiKeyService.On("GenerateKey", "sk_app_").
			Return("sk_app_plain", "key-hash", nil).
			Once()
		appRepo.On("Create", ctx, mock.AnythingOfType("*domain.App")).
			Return(nil).
			Once()

		output, err := useCase.Register(ctx, &authDomain.RegisterAppInput{
			Name:        "billing",
			Permissions: authDomain.Permissions{OpenAI: true},
		})
		require.NoError(t, err)

		assert.Equal(t, "sk_app_plain", output.PlainKey)
		assert.Equal(t, "key-hash", output.App.KeyHash)
		assert.Equal(t, authDomain.DefaultRateLimit(), output.App.RateLimit)
		assert.Equal(t, authDomain.EnvironmentProduction, output.App.Environment)
		assert.Nil(t, output.App.ExpiresAt)

		appRepo.AssertExpectations(t)
	})

	t.Run("Success_HonorsExplicitSettings", func(t *testing.T) {
		appRepo := &mockAppRepository{}
		apiKeyService := &mockAPIKeyService{}
		useCase := NewAppUseCase(appRepo, apiKeyService)

		apiKeyService.On("GenerateKey", "sk_app_").
			Return("sk_app_plain", "key-hash", nil).
			Once()
		appRepo.On("Create", ctx, mock.AnythingOfType("*domain.App")).
			Return(nil).
			Once()

		rateLimit := authDomain.RateLimit{WindowMS: 5000, MaxRequests: 2}
		environment := authDomain.EnvironmentStaging
		expiresAt := time.Now().UTC().Add(24 * time.Hour)

		output, err := useCase.Register(ctx, &authDomain.RegisterAppInput{
			Name:        "reports",
			Permissions: authDomain.Permissions{Anthropic: true},
			AllowedIPs:  []string{"10.0.0.5"},
			RateLimit:   &rateLimit,
			Environment: &environment,
			ExpiresAt:   &expiresAt,
		})
		require.NoError(t, err)

		assert.Equal(t, rateLimit, output.App.RateLimit)
		assert.Equal(t, environment, output.App.Environment)
		assert.Equal(t, []string{"10.0.0.5"}, output.App.AllowedIPs)
		assert.Equal(t, &expiresAt, output.App.ExpiresAt)
	})
}

func TestAppUseCase_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RevokesAllMatchingCredentials", func(t *testing.T) {
		appRepo := &mockAppRepository{}
		useCase := NewAppUseCase(appRepo, &mockAPIKeyService{})

		appRepo.On("DeleteByName", ctx, "billing").
			Return(2, nil).
			Once()

		deleted, err := useCase.Revoke(ctx, "billing")
		require.NoError(t, err)
		assert.Equal(t, 2, deleted)
	})

	t.Run("Failure_UnknownName", func(t *testing.T) {
		appRepo := &mockAppRepository{}
		useCase := NewAppUseCase(appRepo, &mockAPIKeyService{})

		appRepo.On("DeleteByName", ctx, "ghost").
			Return(0, nil).
			Once()

		_, err := useCase.Revoke(ctx, "ghost")
		assert.ErrorIs(t, err, authDomain.ErrAppNotFound)
	})
}

func TestAppUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RecordsAccessSynchronously", func(t *testing.T) {
		appRepo := &mockAppRepository{}
		apiKeyService := &mockAPIKeyService{}
		useCase := NewAppUseCase(appRepo, apiKeyService)

		app := &authDomain.App{Name: "billing", KeyHash: "key-hash"}
		now := time.Now().UTC()
		touched := &authDomain.App{Name: "billing", KeyHash: "key-hash", AccessCount: 1, LastAccess: &now}

		apiKeyService.On("HashKey", "sk_app_plain").
			Return("key-hash").
			Once()
		appRepo.On("GetByKeyHash", ctx, "key-hash").
			Return(app, nil).
			Once()
		appRepo.On("RecordAccess", ctx, "key-hash", mock.AnythingOfType("time.Time")).
			Return(touched, nil).
			Once()

		found, err := useCase.Authenticate(ctx, "sk_app_plain")
		require.NoError(t, err)
		assert.Equal(t, "billing", found.Name)
		assert.Equal(t, int64(1), found.AccessCount)

		appRepo.AssertExpectations(t)
	})

	t.Run("Failure_RevokedBetweenLookupAndTouch", func(t *testing.T) {
		appRepo := &mockAppRepository{}
		apiKeyService := &mockAPIKeyService{}
		useCase := NewAppUseCase(appRepo, apiKeyService)

		app := &authDomain.App{Name: "billing", KeyHash: "key-hash"}

		apiKeyService.On("HashKey", "sk_app_plain").
			Return("key-hash").
			Once()
		appRepo.On("GetByKeyHash", ctx, "key-hash").
			Return(app, nil).
			Once()
		appRepo.On("RecordAccess", ctx, "key-hash", mock.AnythingOfType("time.Time")).
			Return(nil, authDomain.ErrAppNotFound).
			Once()

		_, err := useCase.Authenticate(ctx, "sk_app_plain")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("Failure_UnknownKeyIsGeneric", func(t *testing.T) {
		appRepo := &mockAppRepository{}
		apiKeyService := &mockAPIKeyService{}
		useCase := NewAppUseCase(appRepo, apiKeyService)

		apiKeyService.On("HashKey", "sk_app_unknown").
			Return("unknown-hash").
			Once()
		appRepo.On("GetByKeyHash", ctx, "unknown-hash").
			Return(nil, authDomain.ErrAppNotFound).
			Once()

		_, err := useCase.Authenticate(ctx, "sk_app_unknown")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Failure_ExpiredCredential", func(t *testing.T) {
		appRepo := &mockAppRepository{}
		apiKeyService := &mockAPIKeyService{}
		useCase := NewAppUseCase(appRepo, apiKeyService)

		expired := time.Now().UTC().Add(-time.Hour)
		app := &authDomain.App{Name: "billing", KeyHash: "key-hash", ExpiresAt: &expired}

		apiKeyService.On("HashKey", "sk_app_plain").
			Return("key-hash").
			Once()
		appRepo.On("GetByKeyHash", ctx, "key-hash").
			Return(app, nil).
			Once()

		_, err := useCase.Authenticate(ctx, "sk_app_plain")
		assert.ErrorIs(t, err, authDomain.ErrAppExpired)

		// Expired credentials leave no access trail.
		appRepo.AssertNotCalled(t, "RecordAccess", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAppUseCase_Authorize(t *testing.T) {
	useCase := NewAppUseCase(&mockAppRepository{}, &mockAPIKeyService{})

	app := &authDomain.App{
		Permissions:    authDomain.Permissions{OpenAI: true},
		AllowedIPs:     []string{"10.0.0.5"},
		AllowedDomains: []string{"example.com"},
	}

	t.Run("Success_AllRestrictionsPass", func(t *testing.T) {
		err := useCase.Authorize(app, authDomain.ServiceOpenAI, "10.0.0.5", "https://app.example.com")
		assert.NoError(t, err)
	})

	t.Run("Failure_ServiceNotPermitted", func(t *testing.T) {
		err := useCase.Authorize(app, authDomain.ServiceAnthropic, "10.0.0.5", "https://app.example.com")
		assert.ErrorIs(t, err, authDomain.ErrServiceNotPermitted)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("Failure_IPNotAllowed", func(t *testing.T) {
		err := useCase.Authorize(app, authDomain.ServiceOpenAI, "10.0.0.9", "https://app.example.com")
		assert.ErrorIs(t, err, authDomain.ErrIPNotAllowed)
	})

	t.Run("Failure_OriginNotAllowed", func(t *testing.T) {
		err := useCase.Authorize(app, authDomain.ServiceOpenAI, "10.0.0.5", "https://other.org")
		assert.ErrorIs(t, err, authDomain.ErrOriginNotAllowed)
	})

	t.Run("Failure_MissingOriginWithConfiguredList", func(t *testing.T) {
		err := useCase.Authorize(app, authDomain.ServiceOpenAI, "10.0.0.5", "")
		assert.ErrorIs(t, err, authDomain.ErrOriginNotAllowed)
	})

	t.Run("Failure_ServiceCheckedFirst", func(t *testing.T) {
		// Every restriction fails; the service check wins.
		err := useCase.Authorize(app, authDomain.ServiceAnthropic, "10.0.0.9", "")
		assert.ErrorIs(t, err, authDomain.ErrServiceNotPermitted)
	})
}
