package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authUseCase "github.com/allisson/keyrelay/internal/auth/usecase"
	apperrors "github.com/allisson/keyrelay/internal/errors"
	"github.com/allisson/keyrelay/internal/httputil"
)

// UserAPIKeyHeader carries a user's API key on key-retrieval requests.
const UserAPIKeyHeader = "X-API-Key"

// AppAPIKeyHeader carries an app's API key on app key-retrieval requests.
const AppAPIKeyHeader = "X-App-Key"

// UserSessionMiddleware authenticates a user via Bearer session token in the
// Authorization header.
//
// The middleware:
// 1. Extracts the Bearer token from the Authorization header (case-insensitive)
// 2. Verifies the token signature and expiry via UserUseCase.AuthenticateSession
// 3. Stores the authenticated user in the request context for GetUser()
//
// Error handling:
//   - Missing or malformed Authorization header → 401 Unauthorized
//   - Invalid, expired, or orphaned token → 401 Unauthorized
func UserSessionMiddleware(userUseCase authUseCase.UserUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		token := authHeader[len(bearerPrefix):]
		if token == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		user, err := userUseCase.AuthenticateSession(c.Request.Context(), token)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))

		logger.Debug("session authentication successful",
			slog.String("username", user.Username))

		c.Next()
	}
}

// UserAPIKeyMiddleware authenticates a user via the X-API-Key header.
// Used on the user key-retrieval route, where the presented key doubles as
// the envelope encryption secret.
//
// Error handling:
//   - Missing header → 401 Unauthorized
//   - Unknown or rotated-away key → 401 Unauthorized
func UserAPIKeyMiddleware(userUseCase authUseCase.UserUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(UserAPIKeyHeader)
		if apiKey == "" {
			logger.Debug("authentication failed: missing api key header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		user, err := userUseCase.AuthenticateAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))

		logger.Debug("api key authentication successful",
			slog.String("username", user.Username))

		c.Next()
	}
}

// AppAuthenticationMiddleware authenticates an app via the X-App-Key header.
// Authentication records the access on the app (LastAccess, AccessCount)
// before the request proceeds.
//
// Error handling:
//   - Missing header → 401 Unauthorized
//   - Unknown key → 401 Unauthorized
//   - Expired credential → 401 Unauthorized
func AppAuthenticationMiddleware(appUseCase authUseCase.AppUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(AppAPIKeyHeader)
		if apiKey == "" {
			logger.Debug("app authentication failed: missing app key header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		app, err := appUseCase.Authenticate(c.Request.Context(), apiKey)
		if err != nil {
			logger.Debug("app authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithApp(c.Request.Context(), app))

		logger.Debug("app authentication successful",
			slog.String("app_name", app.Name),
			slog.String("app_id", app.ID.String()))

		c.Next()
	}
}
