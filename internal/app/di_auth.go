package app

import (
	"context"
	"encoding/base64"
	"fmt"

	authHTTP "github.com/allisson/keyrelay/internal/auth/http"
	authRepository "github.com/allisson/keyrelay/internal/auth/repository"
	authService "github.com/allisson/keyrelay/internal/auth/service"
	authUseCase "github.com/allisson/keyrelay/internal/auth/usecase"
)

// SecretService returns the password hashing service.
func (c *Container) SecretService() authService.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = authService.NewSecretService()
	})
	return c.secretService
}

// APIKeyService returns the API key generation service.
func (c *Container) APIKeyService() authService.APIKeyService {
	c.apiKeyServiceInit.Do(func() {
		c.apiKeyService = authService.NewAPIKeyService()
	})
	return c.apiKeyService
}

// SessionTokenService returns the session token signing service.
func (c *Container) SessionTokenService() authService.SessionTokenService {
	c.sessionTokenServiceInit.Do(func() {
		c.sessionTokenService = authService.NewSessionTokenService(c.config.SessionSigningSecret)
	})
	return c.sessionTokenService
}

// UserRepository returns the in-memory user repository.
func (c *Container) UserRepository() authUseCase.UserRepository {
	c.userRepoInit.Do(func() {
		c.userRepo = authRepository.NewMemoryUserRepository()
	})
	return c.userRepo
}

// BoltAppRepository returns the bbolt-backed app registry.
func (c *Container) BoltAppRepository() (*authRepository.BoltAppRepository, error) {
	var err error
	c.boltAppRepoInit.Do(func() {
		c.boltAppRepo, err = authRepository.NewBoltAppRepository(c.config.StorePath)
		if err != nil {
			c.initErrors["boltAppRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["boltAppRepo"]; exists {
		return nil, storedErr
	}
	return c.boltAppRepo, nil
}

// AppRepository returns the cached app repository used by the use cases.
func (c *Container) AppRepository() (authUseCase.AppRepository, error) {
	var err error
	c.appRepoInit.Do(func() {
		var boltRepo *authRepository.BoltAppRepository
		boltRepo, err = c.BoltAppRepository()
		if err != nil {
			err = fmt.Errorf("failed to get app store for cached repository: %w", err)
			c.initErrors["appRepo"] = err
			return
		}
		c.appRepo = authRepository.NewCachedAppRepository(boltRepo, c.config.AppCacheTTL)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["appRepo"]; exists {
		return nil, storedErr
	}
	return c.appRepo, nil
}

// UserUseCase returns the user use case wrapped with metrics instrumentation.
func (c *Container) UserUseCase() (authUseCase.UserUseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// AppUseCase returns the app use case wrapped with metrics instrumentation.
func (c *Container) AppUseCase() (authUseCase.AppUseCase, error) {
	var err error
	c.appUseCaseInit.Do(func() {
		c.appUseCase, err = c.initAppUseCase()
		if err != nil {
			c.initErrors["appUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["appUseCase"]; exists {
		return nil, storedErr
	}
	return c.appUseCase, nil
}

// initUserUseCase creates the user use case with all its dependencies.
func (c *Container) initUserUseCase() (authUseCase.UserUseCase, error) {
	if err := c.resolveMasterSecret(); err != nil {
		return nil, fmt.Errorf("failed to resolve master secret: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for user use case: %w", err)
	}

	useCase := authUseCase.NewUserUseCase(
		c.config,
		c.UserRepository(),
		c.SecretService(),
		c.APIKeyService(),
		c.SessionTokenService(),
	)

	return authUseCase.NewUserUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initAppUseCase creates the app use case with all its dependencies.
func (c *Container) initAppUseCase() (authUseCase.AppUseCase, error) {
	appRepo, err := c.AppRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get app repository for app use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for app use case: %w", err)
	}

	useCase := authUseCase.NewAppUseCase(appRepo, c.APIKeyService())

	return authUseCase.NewAppUseCaseWithMetrics(useCase, businessMetrics), nil
}

// userHandler builds the user HTTP handler.
func (c *Container) userHandler() (*authHTTP.UserHandler, error) {
	userUC, err := c.UserUseCase()
	if err != nil {
		return nil, err
	}
	return authHTTP.NewUserHandler(userUC, c.Logger()), nil
}

// resolveMasterSecret unwraps the configured master secret through KMS when a
// key URI is configured. The wrapped value is expected to be standard base64.
// On success the plaintext replaces the wrapped value in the configuration so
// every consumer sees the unwrapped secret.
func (c *Container) resolveMasterSecret() error {
	var err error
	c.masterSecretInit.Do(func() {
		if c.config.MasterSecretKMSURI == "" {
			return
		}

		ctx := context.Background()

		keeper, openErr := c.KMSService().OpenKeeper(ctx, c.config.MasterSecretKMSURI)
		if openErr != nil {
			err = fmt.Errorf("failed to open KMS keeper: %w", openErr)
			c.initErrors["masterSecret"] = err
			return
		}
		defer func() {
			_ = keeper.Close()
		}()

		wrapped, decodeErr := base64.StdEncoding.DecodeString(c.config.MasterSecret)
		if decodeErr != nil {
			err = fmt.Errorf("failed to decode wrapped master secret: %w", decodeErr)
			c.initErrors["masterSecret"] = err
			return
		}

		plaintext, decryptErr := keeper.Decrypt(ctx, wrapped)
		if decryptErr != nil {
			err = fmt.Errorf("failed to unwrap master secret: %w", decryptErr)
			c.initErrors["masterSecret"] = err
			return
		}

		c.config.MasterSecret = string(plaintext)
	})
	if err != nil {
		return err
	}
	if storedErr, exists := c.initErrors["masterSecret"]; exists {
		return storedErr
	}
	return nil
}
