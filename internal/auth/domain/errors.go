package domain

import (
	"github.com/allisson/keyrelay/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrUserNotFound indicates no user matches the given username or key.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrAppNotFound indicates no app matches the given key or name.
	ErrAppNotFound = errors.Wrap(errors.ErrNotFound, "app not found")

	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.Wrap(errors.ErrConflict, "username already registered")

	// ErrInvalidCredentials indicates a credential failed verification.
	// Deliberately generic to prevent principal enumeration.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrMasterSecretMismatch indicates the registration master secret is wrong.
	ErrMasterSecretMismatch = errors.Wrap(errors.ErrForbidden, "invalid master secret")

	// ErrKeyRotationConflict indicates a concurrent rotation replaced the
	// API key after the caller read it.
	ErrKeyRotationConflict = errors.Wrap(errors.ErrConflict, "api key changed concurrently")

	// ErrAppExpired indicates the app's expiry has passed.
	ErrAppExpired = errors.Wrap(errors.ErrUnauthorized, "app credentials expired")

	// ErrSessionTokenInvalid indicates a session token failed signature or format checks.
	ErrSessionTokenInvalid = errors.Wrap(errors.ErrUnauthorized, "invalid session token")

	// ErrSessionExpired indicates a session token's validity window has passed.
	ErrSessionExpired = errors.Wrap(errors.ErrUnauthorized, "session expired")

	// ErrServiceNotPermitted indicates the app lacks permission for the service.
	ErrServiceNotPermitted = errors.Wrap(errors.ErrForbidden, "service not permitted for this app")

	// ErrIPNotAllowed indicates the client address is outside the app's IP allow-list.
	ErrIPNotAllowed = errors.Wrap(errors.ErrForbidden, "client address not in allow-list")

	// ErrOriginNotAllowed indicates the request origin is outside the app's domain allow-list.
	ErrOriginNotAllowed = errors.Wrap(errors.ErrForbidden, "request origin not in allow-list")
)
