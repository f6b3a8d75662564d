// Package domain defines the principal model for the credential relay.
//
// Two principal kinds exist: Users (interactive accounts with a password and a
// rotating API key) and Apps (registered service accounts with per-service
// permissions, network and origin restrictions, and an optional expiry). Both
// authenticate with API keys; Users additionally hold short-lived signed
// session tokens.
package domain

import "time"

// Service identifies an upstream provider whose key can be released.
type Service string

const (
	// ServiceOpenAI is the OpenAI upstream key.
	ServiceOpenAI Service = "openai"

	// ServiceAnthropic is the Anthropic upstream key.
	ServiceAnthropic Service = "anthropic"
)

// ParseService converts a string to a Service.
// Returns false when the service is not one the relay holds a key for.
func ParseService(s string) (Service, bool) {
	switch Service(s) {
	case ServiceOpenAI, ServiceAnthropic:
		return Service(s), true
	default:
		return "", false
	}
}

// Environment marks the deployment stage an app belongs to.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
)

// ParseEnvironment converts a string to an Environment.
// Returns false for unknown values.
func ParseEnvironment(s string) (Environment, bool) {
	switch Environment(s) {
	case EnvironmentDevelopment, EnvironmentStaging, EnvironmentProduction:
		return Environment(s), true
	default:
		return "", false
	}
}

// Default per-app rate limit applied when registration omits one.
const (
	DefaultRateLimitWindow = 60 * time.Second
	DefaultRateLimitMax    = 30
)
