// Package usecase defines business logic interfaces for principal management
// and authentication in the credential relay.
package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
)

// UserRepository defines persistence operations for user accounts.
//
// Per-user mutations are expressed as atomic operations rather than a
// whole-record overwrite, so concurrent requests against the same account
// cannot clobber each other's writes.
type UserRepository interface {
	// Create stores a new user. Returns ErrUsernameTaken on duplicate usernames.
	Create(ctx context.Context, user *authDomain.User) error

	// Touch atomically records an authenticated access and returns the
	// updated user. Never writes credential fields. Returns ErrUserNotFound
	// if not found.
	Touch(ctx context.Context, username string, now time.Time) (*authDomain.User, error)

	// ReplaceAPIKey atomically swaps the user's API key, conditional on
	// oldKey still being current. Returns ErrKeyRotationConflict when a
	// concurrent rotation won, ErrUserNotFound if the user does not exist.
	ReplaceAPIKey(ctx context.Context, username, oldKey, newKey string) (*authDomain.User, error)

	// GetByUsername retrieves a user by username. Returns ErrUserNotFound if not found.
	GetByUsername(ctx context.Context, username string) (*authDomain.User, error)

	// GetByAPIKey retrieves a user by their current API key.
	// Returns ErrUserNotFound if no user holds the key.
	GetByAPIKey(ctx context.Context, apiKey string) (*authDomain.User, error)
}

// AppRepository defines persistence operations for registered apps.
type AppRepository interface {
	// Create stores a new app keyed by its API key hash.
	Create(ctx context.Context, app *authDomain.App) error

	// RecordAccess atomically marks the app holding the key hash as
	// accessed and returns the updated record. The increment must be a
	// read-modify-write under the store's own serialization so concurrent
	// authentications never lose counts. Returns ErrAppNotFound if not found.
	RecordAccess(ctx context.Context, keyHash string, now time.Time) (*authDomain.App, error)

	// GetByKeyHash retrieves an app by API key hash. Returns ErrAppNotFound if not found.
	GetByKeyHash(ctx context.Context, keyHash string) (*authDomain.App, error)

	// List returns all registered apps.
	List(ctx context.Context) ([]*authDomain.App, error)

	// DeleteByName removes every app registered under the given name and
	// returns how many records were deleted.
	DeleteByName(ctx context.Context, name string) (int, error)
}

// UserUseCase defines business logic for interactive user accounts.
type UserUseCase interface {
	// Register creates a new user account. Registration is gated by the
	// administrative master secret; a wrong or missing secret returns
	// ErrMasterSecretMismatch before any credential work happens.
	//
	// Returns the created user and the plain API key. The plain key is
	// re-presented on login and rotation, but the password is stored only
	// as an Argon2id hash and cannot be recovered.
	Register(
		ctx context.Context,
		registerUserInput *authDomain.RegisterUserInput,
	) (*authDomain.RegisterUserOutput, error)

	// Login authenticates a username and password and returns a signed
	// session token together with the user's current API key.
	//
	// Returns ErrInvalidCredentials for both unknown usernames and wrong
	// passwords to prevent account enumeration.
	Login(ctx context.Context, loginInput *authDomain.LoginInput) (*authDomain.LoginOutput, error)

	// RotateAPIKey re-authenticates the user with username and password,
	// replaces their API key with a freshly generated one, and returns the
	// new plain key. The old key stops authenticating immediately.
	//
	// Returns ErrInvalidCredentials for both unknown usernames and wrong
	// passwords to prevent account enumeration.
	RotateAPIKey(ctx context.Context, loginInput *authDomain.LoginInput) (string, error)

	// AuthenticateAPIKey resolves a plain API key to its user.
	// Returns ErrInvalidCredentials when no user holds the key.
	AuthenticateAPIKey(ctx context.Context, apiKey string) (*authDomain.User, error)

	// AuthenticateSession verifies a session token and resolves its user.
	// Returns ErrSessionTokenInvalid, ErrSessionExpired, or
	// ErrInvalidCredentials depending on what failed.
	AuthenticateSession(ctx context.Context, token string) (*authDomain.User, error)
}

// AppUseCase defines business logic for registered apps.
type AppUseCase interface {
	// Register creates a new app with a generated API key. Omitted rate
	// limits and environment fall back to defaults. The plain key is
	// returned once and only its hash is stored.
	Register(
		ctx context.Context,
		registerAppInput *authDomain.RegisterAppInput,
	) (*authDomain.RegisterAppOutput, error)

	// Revoke removes every app registered under the given name and returns
	// how many credentials were revoked. Returns ErrAppNotFound when no
	// app matches.
	Revoke(ctx context.Context, name string) (int, error)

	// List returns all registered apps for administrative inspection.
	List(ctx context.Context) ([]*authDomain.App, error)

	// Authenticate resolves a plain app API key to its app, rejecting
	// expired credentials, and records the access (LastAccess and
	// AccessCount are persisted synchronously).
	//
	// Returns ErrInvalidCredentials for unknown keys and ErrAppExpired for
	// expired ones.
	Authenticate(ctx context.Context, apiKey string) (*authDomain.App, error)

	// Authorize checks an authenticated app's restrictions for a request:
	// service permission, client IP allow-list, and origin allow-list.
	// Returns ErrServiceNotPermitted, ErrIPNotAllowed, or
	// ErrOriginNotAllowed naming the first restriction that failed.
	Authorize(app *authDomain.App, service authDomain.Service, clientIP string, origin string) error
}
