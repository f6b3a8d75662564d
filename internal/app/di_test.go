package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/allisson/keyrelay/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ServerHost:             "127.0.0.1",
		ServerPort:             0,
		LogLevel:               "error",
		StorePath:              filepath.Join(t.TempDir(), "keyrelay.db"),
		AppCacheTTL:            time.Minute,
		MasterSecret:           "registration-master-secret",
		SessionSigningSecret:   "session-signing-secret",
		SessionTokenExpiration: 24 * time.Hour,
		OpenAIAPIKey:           "sk-proj-test",
		RateLimitGlobalWindow:  time.Minute,
		RateLimitGlobalMax:     100,
		RateLimitAuthWindow:    time.Minute,
		RateLimitAuthMax:       5,
		RateLimitKeyWindow:     time.Minute,
		RateLimitKeyMax:        10,
		MetricsNamespace:       "keyrelay",
	}
}

// TestNewContainer verifies that a new container can be created with a valid
// configuration.
func TestNewContainer(t *testing.T) {
	cfg := testConfig(t)

	container := NewContainer(cfg)

	if container == nil {
		t.Fatal("expected non-nil container")
	}

	if container.Config() != cfg {
		t.Error("container config does not match provided config")
	}
}

// TestContainerLogger verifies that the logger is a singleton.
func TestContainerLogger(t *testing.T) {
	container := NewContainer(testConfig(t))

	logger := container.Logger()
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}

	if logger != container.Logger() {
		t.Error("expected same logger instance on multiple calls")
	}
}

// TestContainerServices verifies that services are singletons.
func TestContainerServices(t *testing.T) {
	container := NewContainer(testConfig(t))

	if container.SecretService() != container.SecretService() {
		t.Error("expected same secret service instance on multiple calls")
	}
	if container.APIKeyService() != container.APIKeyService() {
		t.Error("expected same api key service instance on multiple calls")
	}
	if container.EnvelopeCipher() != container.EnvelopeCipher() {
		t.Error("expected same envelope cipher instance on multiple calls")
	}
}

// TestContainerHTTPServer verifies the full dependency graph assembles.
func TestContainerHTTPServer(t *testing.T) {
	container := NewContainer(testConfig(t))
	defer func() {
		_ = container.Shutdown(context.Background())
	}()

	server, err := container.HTTPServer()
	if err != nil {
		t.Fatalf("failed to initialize http server: %v", err)
	}
	if server == nil {
		t.Fatal("expected non-nil http server")
	}

	// Metrics are disabled in the test config
	metricsServer, err := container.MetricsServer()
	if err != nil {
		t.Fatalf("failed to initialize metrics server: %v", err)
	}
	if metricsServer != nil {
		t.Error("expected nil metrics server when metrics are disabled")
	}
}

// TestContainerMetricsEnabled verifies metrics components initialize when
// enabled.
func TestContainerMetricsEnabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsEnabled = true
	cfg.MetricsPort = 0

	container := NewContainer(cfg)
	defer func() {
		_ = container.Shutdown(context.Background())
	}()

	provider, err := container.MetricsProvider()
	if err != nil {
		t.Fatalf("failed to initialize metrics provider: %v", err)
	}
	if provider == nil {
		t.Fatal("expected non-nil metrics provider")
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		t.Fatalf("failed to initialize metrics server: %v", err)
	}
	if metricsServer == nil {
		t.Fatal("expected non-nil metrics server")
	}
}

// TestContainerInitializationErrors verifies that store initialization errors
// are surfaced and sticky.
func TestContainerInitializationErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorePath = filepath.Join(t.TempDir(), "missing", "nested", "keyrelay.db")

	container := NewContainer(cfg)

	if _, err := container.BoltAppRepository(); err == nil {
		t.Fatal("expected error for unreachable store path")
	}

	// Subsequent calls return the stored error
	if _, err := container.BoltAppRepository(); err == nil {
		t.Fatal("expected stored error on second call")
	}

	if _, err := container.HTTPServer(); err == nil {
		t.Fatal("expected http server initialization to fail without a store")
	}
}
