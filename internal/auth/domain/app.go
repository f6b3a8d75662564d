package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Permissions lists the upstream services an app may request keys for.
type Permissions struct {
	OpenAI    bool `json:"openai"`
	Anthropic bool `json:"anthropic"`
}

// Allows reports whether the given service is permitted.
func (p Permissions) Allows(service Service) bool {
	switch service {
	case ServiceOpenAI:
		return p.OpenAI
	case ServiceAnthropic:
		return p.Anthropic
	default:
		return false
	}
}

// RateLimit is a per-app fixed-window ceiling.
type RateLimit struct {
	WindowMS    int64 `json:"window_ms"`
	MaxRequests int   `json:"max_requests"`
}

// Window returns the window as a duration.
func (r RateLimit) Window() time.Duration {
	return time.Duration(r.WindowMS) * time.Millisecond
}

// DefaultRateLimit returns the rate limit applied when registration omits one.
func DefaultRateLimit() RateLimit {
	return RateLimit{
		WindowMS:    DefaultRateLimitWindow.Milliseconds(),
		MaxRequests: DefaultRateLimitMax,
	}
}

// App represents a registered service account.
//
// Apps are created administratively, never self-service. Names are not unique;
// only the generated API key identifies an app. The plain key is shown once at
// registration and only its SHA-256 hash is stored.
type App struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	KeyHash        string      `json:"key_hash"`
	Permissions    Permissions `json:"permissions"`
	AllowedIPs     []string    `json:"allowed_ips,omitempty"`
	AllowedDomains []string    `json:"allowed_domains,omitempty"`
	RateLimit      RateLimit   `json:"rate_limit"`
	Environment    Environment `json:"environment"`
	CreatedAt      time.Time   `json:"created_at"`
	LastAccess     *time.Time  `json:"last_access,omitempty"`
	AccessCount    int64       `json:"access_count"`
	ExpiresAt      *time.Time  `json:"expires_at,omitempty"`
}

// Expired reports whether the app's expiry, if set, has passed.
func (a *App) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}

// IPAllowed checks the client address against the IP allow-list.
// An empty list means unrestricted.
func (a *App) IPAllowed(ip string) bool {
	if len(a.AllowedIPs) == 0 {
		return true
	}
	for _, allowed := range a.AllowedIPs {
		if allowed == ip {
			return true
		}
	}
	return false
}

// OriginAllowed checks the request origin against the domain allow-list.
// An empty list means unrestricted. When a list is configured, a request
// with no origin is denied: the restriction exists precisely because the
// app owner wants provenance, so an absent header fails closed. Entries
// match by substring containment, so "example.com" covers both
// "https://example.com" and "https://app.example.com".
func (a *App) OriginAllowed(origin string) bool {
	if len(a.AllowedDomains) == 0 {
		return true
	}
	if origin == "" {
		return false
	}
	for _, domain := range a.AllowedDomains {
		if strings.Contains(origin, domain) {
			return true
		}
	}
	return false
}

// Touch records a successful authenticated request.
func (a *App) Touch(now time.Time) {
	a.AccessCount++
	a.LastAccess = &now
}

// RegisterAppInput contains the parameters for registering a new app.
// The API key is always generated and cannot be specified by the caller.
type RegisterAppInput struct {
	Name           string
	Permissions    Permissions
	AllowedIPs     []string
	AllowedDomains []string
	RateLimit      *RateLimit   // nil applies DefaultRateLimit
	Environment    *Environment // nil defaults to production
	ExpiresAt      *time.Time
}

// RegisterAppOutput contains the result of registering an app.
// SECURITY: PlainKey is only returned once and must be securely transmitted
// to the app owner. It is never retrievable again.
type RegisterAppOutput struct {
	App      *App
	PlainKey string
}
