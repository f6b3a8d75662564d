package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
	authUseCase "github.com/allisson/keyrelay/internal/auth/usecase"
	apperrors "github.com/allisson/keyrelay/internal/errors"
	"github.com/allisson/keyrelay/internal/httputil"
)

// AppRestrictionMiddleware enforces an authenticated app's restrictions for
// the requested service: per-service permission, client IP allow-list, and
// origin allow-list, in that order.
//
// MUST be used after AppAuthenticationMiddleware on routes with a :service
// path parameter. The client IP comes from gin's ClientIP (trusted-proxy
// aware) and the origin from the Origin header.
//
// Error handling:
//   - No authenticated app in context → 401 Unauthorized
//   - Service, IP, or origin restriction failed → 403 Forbidden naming the
//     failed restriction
func AppRestrictionMiddleware(appUseCase authUseCase.AppUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		app, ok := GetApp(c.Request.Context())
		if !ok || app == nil {
			logger.Error("restriction check without authenticated app",
				slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Unknown service names fall through to the handler's not-found
		// handling; restrictions only apply to services the relay knows.
		service, known := authDomain.ParseService(c.Param("service"))
		if known {
			clientIP := c.ClientIP()
			origin := c.GetHeader("Origin")

			if err := appUseCase.Authorize(app, service, clientIP, origin); err != nil {
				logger.Debug("app restriction check failed",
					slog.String("app_name", app.Name),
					slog.String("service", string(service)),
					slog.String("client_ip", clientIP),
					slog.String("error", err.Error()))
				httputil.HandleErrorGin(c, err, logger)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
