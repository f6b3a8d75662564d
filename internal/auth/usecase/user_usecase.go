// Package usecase implements business logic orchestration for principal
// management and authentication.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
	authService "github.com/allisson/keyrelay/internal/auth/service"
	"github.com/allisson/keyrelay/internal/config"
)

// userUseCase implements UserUseCase for interactive accounts.
type userUseCase struct {
	config         *config.Config
	userRepo       UserRepository
	secretService  authService.SecretService
	apiKeyService  authService.APIKeyService
	sessionService authService.SessionTokenService
}

// Register creates a new user account.
//
// This method:
// 1. Verifies the presented master secret in constant time
// 2. Hashes the password with Argon2id
// 3. Generates a prefixed API key with 256 bits of entropy
// 4. Stores the user, rejecting duplicate usernames
//
// Security Notes:
//   - The master secret check runs before any credential material is
//     generated, so a rejected registration does no hashing work
//   - The plain password is never stored; only the Argon2id hash is kept
func (u *userUseCase) Register(
	ctx context.Context,
	registerUserInput *authDomain.RegisterUserInput,
) (*authDomain.RegisterUserOutput, error) {
	if !u.secretService.CompareMasterSecret(registerUserInput.MasterSecret, u.config.MasterSecret) {
		return nil, authDomain.ErrMasterSecretMismatch
	}

	passwordHash, err := u.secretService.HashSecret(registerUserInput.Password)
	if err != nil {
		return nil, err
	}

	plainKey, _, err := u.apiKeyService.GenerateKey(authService.UserKeyPrefix)
	if err != nil {
		return nil, err
	}

	user := &authDomain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     registerUserInput.Username,
		PasswordHash: passwordHash,
		APIKey:       plainKey,
		CreatedAt:    time.Now().UTC(),
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return &authDomain.RegisterUserOutput{
		User:     user,
		PlainKey: plainKey,
	}, nil
}

// Login authenticates a username and password and issues a session token.
//
// Security Notes:
//   - Returns ErrInvalidCredentials for both unknown usernames and wrong
//     passwords to prevent account enumeration
//   - The session token is signed with HMAC-SHA256 and carries its own
//     expiry; no server-side session state is kept
func (u *userUseCase) Login(
	ctx context.Context,
	loginInput *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	user, err := u.userRepo.GetByUsername(ctx, loginInput.Username)
	if err != nil {
		if errors.Is(err, authDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.secretService.CompareSecret(loginInput.Password, user.PasswordHash) {
		return nil, authDomain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	token, err := u.sessionService.Issue(&authDomain.SessionClaims{
		UserID:    user.ID,
		Username:  user.Username,
		IssuedAt:  now,
		ExpiresAt: now.Add(u.config.SessionTokenExpiration),
	})
	if err != nil {
		return nil, err
	}

	if _, err := u.userRepo.Touch(ctx, user.Username, now); err != nil {
		return nil, err
	}

	return &authDomain.LoginOutput{
		Token:    token,
		PlainKey: user.APIKey,
	}, nil
}

// RotateAPIKey re-authenticates the user and replaces their API key.
// The old key stops resolving as soon as the swap lands. The swap is a
// compare-and-swap on the key read here; a concurrent rotation makes it
// fail with ErrKeyRotationConflict instead of writing a retired key back.
func (u *userUseCase) RotateAPIKey(ctx context.Context, loginInput *authDomain.LoginInput) (string, error) {
	user, err := u.userRepo.GetByUsername(ctx, loginInput.Username)
	if err != nil {
		if errors.Is(err, authDomain.ErrUserNotFound) {
			return "", authDomain.ErrInvalidCredentials
		}
		return "", err
	}

	if !u.secretService.CompareSecret(loginInput.Password, user.PasswordHash) {
		return "", authDomain.ErrInvalidCredentials
	}

	plainKey, _, err := u.apiKeyService.GenerateKey(authService.UserKeyPrefix)
	if err != nil {
		return "", err
	}

	if _, err := u.userRepo.ReplaceAPIKey(ctx, user.Username, user.APIKey, plainKey); err != nil {
		return "", err
	}

	return plainKey, nil
}

// AuthenticateAPIKey resolves a plain API key to its user and records the
// access.
func (u *userUseCase) AuthenticateAPIKey(ctx context.Context, apiKey string) (*authDomain.User, error) {
	user, err := u.userRepo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, authDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	user, err = u.userRepo.Touch(ctx, user.Username, time.Now().UTC())
	if err != nil {
		if errors.Is(err, authDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// AuthenticateSession verifies a session token and resolves its user.
// A valid signature is not enough on its own: the account must still
// exist, so a deleted user invalidates outstanding sessions.
func (u *userUseCase) AuthenticateSession(ctx context.Context, token string) (*authDomain.User, error) {
	claims, err := u.sessionService.Verify(token, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, authDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// NewUserUseCase creates a new UserUseCase instance.
func NewUserUseCase(
	cfg *config.Config,
	userRepo UserRepository,
	secretService authService.SecretService,
	apiKeyService authService.APIKeyService,
	sessionService authService.SessionTokenService,
) UserUseCase {
	return &userUseCase{
		config:         cfg,
		userRepo:       userRepo,
		secretService:  secretService,
		apiKeyService:  apiKeyService,
		sessionService: sessionService,
	}
}
