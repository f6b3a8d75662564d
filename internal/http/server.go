package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/keyrelay/internal/auth/http"
	authUseCase "github.com/allisson/keyrelay/internal/auth/usecase"
	"github.com/allisson/keyrelay/internal/config"
	"github.com/allisson/keyrelay/internal/metrics"
	"github.com/allisson/keyrelay/internal/ratelimit"
	relayHTTP "github.com/allisson/keyrelay/internal/relay/http"
)

// limiterCleanupInterval is how often each fixed-window limiter drops stale
// per-key entries.
const limiterCleanupInterval = 5 * time.Minute

// Pinger reports whether a backing store is reachable. Used by the readiness
// endpoint.
type Pinger interface {
	Ping() error
}

// Server is the API HTTP server. It owns the route table, the IP-scoped rate
// limiters, and the underlying http.Server.
type Server struct {
	server  *http.Server
	router  *gin.Engine
	logger  *slog.Logger
	store   Pinger
	global  *ratelimit.FixedWindow
	auth    *ratelimit.FixedWindow
	userKey *ratelimit.FixedWindow
}

// NewServer creates the API server with all routes and middleware registered.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	userUseCase authUseCase.UserUseCase,
	appUseCase authUseCase.AppUseCase,
	userHandler *authHTTP.UserHandler,
	userKeyHandler *relayHTTP.KeyHandler,
	appKeyHandler *relayHTTP.KeyHandler,
	store Pinger,
	metricsProvider *metrics.Provider,
	businessMetrics metrics.BusinessMetrics,
) *Server {
	s := &Server{
		logger:  logger,
		store:   store,
		global:  ratelimit.NewFixedWindow(cfg.RateLimitGlobalWindow, cfg.RateLimitGlobalMax),
		auth:    ratelimit.NewFixedWindow(cfg.RateLimitAuthWindow, cfg.RateLimitAuthMax),
		userKey: ratelimit.NewFixedWindow(cfg.RateLimitKeyWindow, cfg.RateLimitKeyMax),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.Use(authHTTP.IPRateLimitMiddleware(s.global, "global", businessMetrics, logger))

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	// Credential endpoints share a tighter window so brute-force attempts on
	// passwords and master secrets burn out quickly.
	users := v1.Group("/users")
	users.Use(authHTTP.IPRateLimitMiddleware(s.auth, "auth", businessMetrics, logger))
	users.POST("", userHandler.RegisterHandler)
	users.POST("/login", userHandler.LoginHandler)
	users.POST("/rotate-key", userHandler.RotateKeyHandler)

	// Session-backed profile read; not under the credential limiter since no
	// password material is presented.
	v1.GET("/users/me",
		authHTTP.UserSessionMiddleware(userUseCase, logger),
		userHandler.MeHandler,
	)

	// The key limiter runs before authentication so failed lookups consume
	// quota too.
	v1.GET("/keys/:service",
		authHTTP.IPRateLimitMiddleware(s.userKey, "key", businessMetrics, logger),
		authHTTP.UserAPIKeyMiddleware(userUseCase, logger),
		userKeyHandler.UserKeyHandler,
	)

	v1.GET("/app/keys/:service",
		authHTTP.AppAuthenticationMiddleware(appUseCase, logger),
		authHTTP.AppRestrictionMiddleware(appUseCase, logger),
		authHTTP.AppRateLimitMiddleware(businessMetrics, logger),
		appKeyHandler.AppKeyHandler,
	)

	v1.POST("/decrypt-test",
		authHTTP.UserAPIKeyMiddleware(userUseCase, logger),
		userKeyHandler.DecryptTestHandler,
	)

	s.router = router
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the API server and the rate limiter cleanup goroutines.
// Blocks until the server stops.
func (s *Server) Start(ctx context.Context) error {
	s.global.StartCleanup(ctx, limiterCleanupInterval)
	s.auth.StartCleanup(ctx, limiterCleanupInterval)
	s.userKey.StartCleanup(ctx, limiterCleanupInterval)

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the app registry store is reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.store == nil || s.store.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"app_store": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"app_store": "ok"},
	})
}
