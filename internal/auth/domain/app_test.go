package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPermissionsAllows(t *testing.T) {
	perms := Permissions{OpenAI: true, Anthropic: false}

	assert.True(t, perms.Allows(ServiceOpenAI))
	assert.False(t, perms.Allows(ServiceAnthropic))
	assert.False(t, perms.Allows(Service("mistral")))
}

func TestAppExpired(t *testing.T) {
	now := time.Now().UTC()

	t.Run("no expiry never expires", func(t *testing.T) {
		app := &App{}
		assert.False(t, app.Expired(now))
	})

	t.Run("future expiry", func(t *testing.T) {
		future := now.Add(time.Hour)
		app := &App{ExpiresAt: &future}
		assert.False(t, app.Expired(now))
	})

	t.Run("past expiry", func(t *testing.T) {
		past := now.Add(-time.Hour)
		app := &App{ExpiresAt: &past}
		assert.True(t, app.Expired(now))
	})
}

func TestAppIPAllowed(t *testing.T) {
	t.Run("empty list is unrestricted", func(t *testing.T) {
		app := &App{}
		assert.True(t, app.IPAllowed("10.0.0.9"))
	})

	t.Run("member address is allowed", func(t *testing.T) {
		app := &App{AllowedIPs: []string{"10.0.0.5", "10.0.0.6"}}
		assert.True(t, app.IPAllowed("10.0.0.5"))
	})

	t.Run("non-member address is rejected", func(t *testing.T) {
		app := &App{AllowedIPs: []string{"10.0.0.5"}}
		assert.False(t, app.IPAllowed("10.0.0.9"))
	})
}

func TestAppOriginAllowed(t *testing.T) {
	t.Run("empty list is unrestricted", func(t *testing.T) {
		app := &App{}
		assert.True(t, app.OriginAllowed("https://anywhere.example"))
		assert.True(t, app.OriginAllowed(""))
	})

	t.Run("missing origin with configured list is denied", func(t *testing.T) {
		app := &App{AllowedDomains: []string{"example.com"}}
		assert.False(t, app.OriginAllowed(""))
	})

	t.Run("substring containment matches subdomains", func(t *testing.T) {
		app := &App{AllowedDomains: []string{"example.com"}}
		assert.True(t, app.OriginAllowed("https://example.com"))
		assert.True(t, app.OriginAllowed("https://app.example.com"))
		assert.False(t, app.OriginAllowed("https://other.org"))
	})
}

func TestAppTouch(t *testing.T) {
	app := &App{}
	now := time.Now().UTC()

	app.Touch(now)
	app.Touch(now.Add(time.Second))

	assert.Equal(t, int64(2), app.AccessCount)
	assert.Equal(t, now.Add(time.Second), *app.LastAccess)
}

func TestParseService(t *testing.T) {
	svc, ok := ParseService("openai")
	assert.True(t, ok)
	assert.Equal(t, ServiceOpenAI, svc)

	svc, ok = ParseService("anthropic")
	assert.True(t, ok)
	assert.Equal(t, ServiceAnthropic, svc)

	_, ok = ParseService("gemini")
	assert.False(t, ok)
}

func TestParseEnvironment(t *testing.T) {
	environment, ok := ParseEnvironment("staging")
	assert.True(t, ok)
	assert.Equal(t, EnvironmentStaging, environment)

	_, ok = ParseEnvironment("qa")
	assert.False(t, ok)
}

func TestDefaultRateLimit(t *testing.T) {
	rl := DefaultRateLimit()
	assert.Equal(t, int64(60000), rl.WindowMS)
	assert.Equal(t, 30, rl.MaxRequests)
	assert.Equal(t, time.Minute, rl.Window())
}

func TestSessionClaimsExpired(t *testing.T) {
	now := time.Now().UTC()
	claims := &SessionClaims{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, claims.Expired(now))
	assert.True(t, claims.Expired(now.Add(2*time.Minute)))
}
