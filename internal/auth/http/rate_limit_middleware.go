package http

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/keyrelay/internal/errors"
	"github.com/allisson/keyrelay/internal/httputil"
	"github.com/allisson/keyrelay/internal/metrics"
	"github.com/allisson/keyrelay/internal/ratelimit"
)

// IPRateLimitMiddleware enforces a fixed-window ceiling per client IP.
//
// The same middleware backs all three IP-scoped layers (global, credential
// endpoints, user key retrieval); each layer gets its own limiter instance so
// the windows count independently. A rejected request does not consume quota.
//
// Returns 429 Too Many Requests with a Retry-After header on rejection.
func IPRateLimitMiddleware(
	limiter *ratelimit.FixedWindow,
	scope string,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		allowed, retryAfter := limiter.Allow(clientIP)
		if !allowed {
			logger.Debug("rate limit exceeded",
				slog.String("scope", scope),
				slog.String("client_ip", clientIP),
				slog.Duration("retry_after", retryAfter))
			businessMetrics.RecordRateLimitRejection(c.Request.Context(), scope)
			setRetryAfter(c, retryAfter)
			httputil.HandleErrorGin(c, apperrors.ErrTooManyRequests, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// appLimiterStore holds one fixed-window limiter per app rate-limit shape.
// Limiters are keyed by app ID plus the limit parameters, so an app whose
// limit changes gets a fresh counter instead of a stale one.
type appLimiterStore struct {
	mu       sync.Mutex
	limiters map[string]*ratelimit.FixedWindow
}

func (s *appLimiterStore) get(key string, window time.Duration, max int) *ratelimit.FixedWindow {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[key]
	if !ok {
		limiter = ratelimit.NewFixedWindow(window, max)
		s.limiters[key] = limiter
	}
	return limiter
}

// AppRateLimitMiddleware enforces each app's own fixed-window ceiling as
// stored on its record.
//
// MUST be used after AppAuthenticationMiddleware. Every app counts in its own
// window with its own parameters, so a burst from one app never consumes
// another's quota.
//
// Returns 429 Too Many Requests with a Retry-After header on rejection.
func AppRateLimitMiddleware(businessMetrics metrics.BusinessMetrics, logger *slog.Logger) gin.HandlerFunc {
	store := &appLimiterStore{limiters: make(map[string]*ratelimit.FixedWindow)}

	return func(c *gin.Context) {
		app, ok := GetApp(c.Request.Context())
		if !ok || app == nil {
			logger.Error("app rate limit check without authenticated app",
				slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		key := fmt.Sprintf("%s:%d:%d", app.ID, app.RateLimit.WindowMS, app.RateLimit.MaxRequests)
		limiter := store.get(key, app.RateLimit.Window(), app.RateLimit.MaxRequests)

		allowed, retryAfter := limiter.Allow(app.ID.String())
		if !allowed {
			logger.Debug("app rate limit exceeded",
				slog.String("app_name", app.Name),
				slog.Duration("retry_after", retryAfter))
			businessMetrics.RecordRateLimitRejection(c.Request.Context(), "app")
			setRetryAfter(c, retryAfter)
			httputil.HandleErrorGin(c, apperrors.ErrTooManyRequests, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// setRetryAfter writes the Retry-After header in whole seconds, rounded up so
// a retry at the advertised time always lands in a fresh window.
func setRetryAfter(c *gin.Context, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", fmt.Sprintf("%d", seconds))
}
