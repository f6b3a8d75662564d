package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
	authService "github.com/allisson/keyrelay/internal/auth/service"
)

// appUseCase implements AppUseCase for registered service accounts.
type appUseCase struct {
	appRepo       AppRepository
	apiKeyService authService.APIKeyService
}

// Register creates a new app with a generated API key.
//
// Omitted fields fall back to defaults: rate limit to DefaultRateLimit and
// environment to production. The API key is always generated here; callers
// cannot supply their own.
//
// Security Note: the plain key is returned once and only its SHA-256 hash is
// stored, so a leaked registry never exposes usable credentials.
func (a *appUseCase) Register(
	ctx context.Context,
	registerAppInput *authDomain.RegisterAppInput,
) (*authDomain.RegisterAppOutput, error) {
	plainKey, keyHash, err := a.apiKeyService.GenerateKey(authService.AppKeyPrefix)
	if err != nil {
		return nil, err
	}

	rateLimit := authDomain.DefaultRateLimit()
	if registerAppInput.RateLimit != nil {
		rateLimit = *registerAppInput.RateLimit
	}

	environment := authDomain.EnvironmentProduction
	if registerAppInput.Environment != nil {
		environment = *registerAppInput.Environment
	}

	app := &authDomain.App{
		ID:             uuid.Must(uuid.NewV7()),
		Name:           registerAppInput.Name,
		KeyHash:        keyHash,
		Permissions:    registerAppInput.Permissions,
		AllowedIPs:     registerAppInput.AllowedIPs,
		AllowedDomains: registerAppInput.AllowedDomains,
		RateLimit:      rateLimit,
		Environment:    environment,
		CreatedAt:      time.Now().UTC(),
		ExpiresAt:      registerAppInput.ExpiresAt,
	}

	if err := a.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	return &authDomain.RegisterAppOutput{
		App:      app,
		PlainKey: plainKey,
	}, nil
}

// Revoke removes every app registered under the given name.
// Returns ErrAppNotFound when nothing matched, so callers can distinguish a
// typo from a successful revocation.
func (a *appUseCase) Revoke(ctx context.Context, name string) (int, error) {
	deleted, err := a.appRepo.DeleteByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, authDomain.ErrAppNotFound
	}
	return deleted, nil
}

// List returns all registered apps.
func (a *appUseCase) List(ctx context.Context) ([]*authDomain.App, error) {
	return a.appRepo.List(ctx)
}

// Authenticate resolves a plain app API key to its app.
//
// This method:
// 1. Hashes the presented key and looks up the app by hash
// 2. Rejects expired credentials
// 3. Records the access through the repository's atomic read-modify-write,
//    so concurrent requests with the same key never lose counts
//
// Security Notes:
//   - Returns ErrInvalidCredentials for unknown keys to prevent enumeration
//   - Expiry is checked before the access is recorded, so expired
//     credentials leave no access trail
func (a *appUseCase) Authenticate(ctx context.Context, apiKey string) (*authDomain.App, error) {
	keyHash := a.apiKeyService.HashKey(apiKey)

	app, err := a.appRepo.GetByKeyHash(ctx, keyHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrAppNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now().UTC()
	if app.Expired(now) {
		return nil, authDomain.ErrAppExpired
	}

	app, err = a.appRepo.RecordAccess(ctx, keyHash, now)
	if err != nil {
		// Revoked between lookup and touch.
		if errors.Is(err, authDomain.ErrAppNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	return app, nil
}

// Authorize checks the app's restrictions for a request. Checks run in a
// fixed order (service permission, IP allow-list, origin allow-list) and the
// first failure wins, so responses are deterministic.
func (a *appUseCase) Authorize(
	app *authDomain.App,
	service authDomain.Service,
	clientIP string,
	origin string,
) error {
	if !app.Permissions.Allows(service) {
		return authDomain.ErrServiceNotPermitted
	}
	if !app.IPAllowed(clientIP) {
		return authDomain.ErrIPNotAllowed
	}
	if !app.OriginAllowed(origin) {
		return authDomain.ErrOriginNotAllowed
	}
	return nil
}

// NewAppUseCase creates a new AppUseCase instance.
func NewAppUseCase(appRepo AppRepository, apiKeyService authService.APIKeyService) AppUseCase {
	return &appUseCase{
		appRepo:       appRepo,
		apiKeyService: apiKeyService,
	}
}
