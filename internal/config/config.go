// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// StorePath is the filesystem path for the bbolt app registry database.
	StorePath string
	// AppCacheTTL bounds the staleness of the cached app registry snapshot.
	AppCacheTTL time.Duration

	// MasterSecret gates user registration. Presented in the registration body
	// and compared in constant time.
	MasterSecret string
	// MasterSecretKMSURI optionally points at a KMS key (gocloud.dev/secrets URI)
	// used to unwrap MasterSecret when it is stored wrapped.
	MasterSecretKMSURI string

	// SessionSigningSecret signs user session tokens (HMAC-SHA256).
	SessionSigningSecret string
	// SessionTokenExpiration is the validity window for user session tokens.
	SessionTokenExpiration time.Duration

	// OpenAIAPIKey is the upstream OpenAI key released to callers. Never logged.
	OpenAIAPIKey string
	// AnthropicAPIKey is the upstream Anthropic key released to callers. Never logged.
	AnthropicAPIKey string

	// RateLimitGlobalWindow and RateLimitGlobalMax bound all traffic per client IP.
	RateLimitGlobalWindow time.Duration
	RateLimitGlobalMax    int

	// RateLimitAuthWindow and RateLimitAuthMax bound the credential endpoints per client IP.
	RateLimitAuthWindow time.Duration
	RateLimitAuthMax    int

	// RateLimitKeyWindow and RateLimitKeyMax bound user key retrieval per client IP.
	RateLimitKeyWindow time.Duration
	RateLimitKeyMax    int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// ShutdownTimeout bounds graceful shutdown of the HTTP servers.
	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// App registry store
		StorePath:   env.GetString("STORE_PATH", "keyrelay.db"),
		AppCacheTTL: env.GetDuration("APP_CACHE_TTL_SECONDS", 60, time.Second),

		// Registration master secret
		MasterSecret:       env.GetString("MASTER_SECRET", ""),
		MasterSecretKMSURI: env.GetString("MASTER_SECRET_KMS_URI", ""),

		// User sessions
		SessionSigningSecret:   env.GetString("SESSION_SIGNING_SECRET", ""),
		SessionTokenExpiration: env.GetDuration("SESSION_TOKEN_EXPIRATION_SECONDS", 86400, time.Second),

		// Upstream service keys
		OpenAIAPIKey:    env.GetString("OPENAI_API_KEY", ""),
		AnthropicAPIKey: env.GetString("ANTHROPIC_API_KEY", ""),

		// Rate limiting (fixed windows)
		RateLimitGlobalWindow: env.GetDuration("RATE_LIMIT_GLOBAL_WINDOW_SECONDS", 900, time.Second),
		RateLimitGlobalMax:    env.GetInt("RATE_LIMIT_GLOBAL_MAX", 100),
		RateLimitAuthWindow:   env.GetDuration("RATE_LIMIT_AUTH_WINDOW_SECONDS", 900, time.Second),
		RateLimitAuthMax:      env.GetInt("RATE_LIMIT_AUTH_MAX", 5),
		RateLimitKeyWindow:    env.GetDuration("RATE_LIMIT_KEY_WINDOW_SECONDS", 60, time.Second),
		RateLimitKeyMax:       env.GetInt("RATE_LIMIT_KEY_MAX", 10),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "keyrelay"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// Shutdown
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 30, time.Second),
	}
}

// UpstreamKey returns the configured plaintext key for a service name.
// Returns empty string when the service has no key configured.
func (c *Config) UpstreamKey(service string) string {
	switch service {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	default:
		return ""
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
