package usecase

import (
	"context"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
	apperrors "github.com/allisson/keyrelay/internal/errors"
	"github.com/allisson/keyrelay/internal/metrics"
)

// authFailed reports whether an error represents a credential or authorization
// failure rather than a validation or storage problem.
func authFailed(err error) bool {
	return apperrors.Is(err, apperrors.ErrUnauthorized) || apperrors.Is(err, apperrors.ErrForbidden)
}

// userUseCaseWithMetrics decorates UserUseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UserUseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UserUseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UserUseCase, m metrics.BusinessMetrics) UserUseCase {
	return &userUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Register records master-secret rejections during user registration.
func (u *userUseCaseWithMetrics) Register(
	ctx context.Context,
	registerInput *authDomain.RegisterUserInput,
) (*authDomain.RegisterUserOutput, error) {
	output, err := u.next.Register(ctx, registerInput)
	if err != nil && authFailed(err) {
		u.metrics.RecordAuthFailure(ctx, "master_secret")
	}
	return output, err
}

// Login records failed credential checks on the login endpoint.
func (u *userUseCaseWithMetrics) Login(
	ctx context.Context,
	loginInput *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	output, err := u.next.Login(ctx, loginInput)
	if err != nil && authFailed(err) {
		u.metrics.RecordAuthFailure(ctx, "login")
	}
	return output, err
}

// RotateAPIKey records failed credential checks on key rotation.
func (u *userUseCaseWithMetrics) RotateAPIKey(
	ctx context.Context,
	loginInput *authDomain.LoginInput,
) (string, error) {
	plainKey, err := u.next.RotateAPIKey(ctx, loginInput)
	if err != nil && authFailed(err) {
		u.metrics.RecordAuthFailure(ctx, "rotate_key")
	}
	return plainKey, err
}

// AuthenticateAPIKey records rejected user API keys.
func (u *userUseCaseWithMetrics) AuthenticateAPIKey(
	ctx context.Context,
	plainKey string,
) (*authDomain.User, error) {
	user, err := u.next.AuthenticateAPIKey(ctx, plainKey)
	if err != nil && authFailed(err) {
		u.metrics.RecordAuthFailure(ctx, "user_key")
	}
	return user, err
}

// AuthenticateSession records rejected session tokens.
func (u *userUseCaseWithMetrics) AuthenticateSession(
	ctx context.Context,
	token string,
) (*authDomain.User, error) {
	user, err := u.next.AuthenticateSession(ctx, token)
	if err != nil && authFailed(err) {
		u.metrics.RecordAuthFailure(ctx, "session")
	}
	return user, err
}

// appUseCaseWithMetrics decorates AppUseCase with metrics instrumentation.
type appUseCaseWithMetrics struct {
	next    AppUseCase
	metrics metrics.BusinessMetrics
}

// NewAppUseCaseWithMetrics wraps an AppUseCase with metrics recording.
func NewAppUseCaseWithMetrics(useCase AppUseCase, m metrics.BusinessMetrics) AppUseCase {
	return &appUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Register delegates to the underlying use case.
func (a *appUseCaseWithMetrics) Register(
	ctx context.Context,
	registerInput *authDomain.RegisterAppInput,
) (*authDomain.RegisterAppOutput, error) {
	return a.next.Register(ctx, registerInput)
}

// Revoke delegates to the underlying use case.
func (a *appUseCaseWithMetrics) Revoke(ctx context.Context, name string) (int, error) {
	return a.next.Revoke(ctx, name)
}

// List delegates to the underlying use case.
func (a *appUseCaseWithMetrics) List(ctx context.Context) ([]*authDomain.App, error) {
	return a.next.List(ctx)
}

// Authenticate records rejected app API keys.
func (a *appUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	plainKey string,
) (*authDomain.App, error) {
	app, err := a.next.Authenticate(ctx, plainKey)
	if err != nil && authFailed(err) {
		a.metrics.RecordAuthFailure(ctx, "app_key")
	}
	return app, err
}

// Authorize records restriction denials for authenticated apps.
func (a *appUseCaseWithMetrics) Authorize(
	app *authDomain.App,
	service authDomain.Service,
	clientIP string,
	origin string,
) error {
	err := a.next.Authorize(app, service, clientIP, origin)
	if err != nil && authFailed(err) {
		a.metrics.RecordAuthFailure(context.Background(), "app_restriction")
	}
	return err
}
