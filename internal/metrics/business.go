package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics defines the interface for recording relay business metrics.
// Implementations track key releases, authentication failures, and rate-limit
// rejections for observability.
type BusinessMetrics interface {
	// RecordKeyRelease records a key release attempt for a service.
	// Caller examples: "user", "app". Status examples: "success", "error".
	RecordKeyRelease(ctx context.Context, service, caller, status string)

	// RecordAuthFailure records a failed authentication attempt.
	// Kind examples: "session", "user_key", "app_key".
	RecordAuthFailure(ctx context.Context, kind string)

	// RecordRateLimitRejection records a request rejected by a rate limiter.
	// Scope examples: "global", "auth", "key", "app".
	RecordRateLimitRejection(ctx context.Context, scope string)
}

// businessMetrics implements BusinessMetrics using OpenTelemetry metrics.
type businessMetrics struct {
	keyReleaseCounter    metric.Int64Counter
	authFailureCounter   metric.Int64Counter
	rateRejectionCounter metric.Int64Counter
}

// NewBusinessMetrics creates a new BusinessMetrics implementation using the provided meter provider.
// The namespace parameter is used as a prefix for all metric names (e.g., "keyrelay").
// Returns error if meters cannot be initialized.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	keyReleaseCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_key_releases_total", namespace),
		metric.WithDescription("Total number of key release attempts"),
		metric.WithUnit("{release}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create key release counter: %w", err)
	}

	authFailureCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_auth_failures_total", namespace),
		metric.WithDescription("Total number of failed authentication attempts"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth failure counter: %w", err)
	}

	rateRejectionCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_rate_limit_rejections_total", namespace),
		metric.WithDescription("Total number of rate-limited requests"),
		metric.WithUnit("{rejection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit rejection counter: %w", err)
	}

	return &businessMetrics{
		keyReleaseCounter:    keyReleaseCounter,
		authFailureCounter:   authFailureCounter,
		rateRejectionCounter: rateRejectionCounter,
	}, nil
}

// RecordKeyRelease increments the key release counter with service, caller, and status labels.
func (b *businessMetrics) RecordKeyRelease(ctx context.Context, service, caller, status string) {
	b.keyReleaseCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("service", service),
			attribute.String("caller", caller),
			attribute.String("status", status),
		),
	)
}

// RecordAuthFailure increments the auth failure counter with a kind label.
func (b *businessMetrics) RecordAuthFailure(ctx context.Context, kind string) {
	b.authFailureCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("kind", kind),
		),
	)
}

// RecordRateLimitRejection increments the rejection counter with a scope label.
func (b *businessMetrics) RecordRateLimitRejection(ctx context.Context, scope string) {
	b.rateRejectionCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("scope", scope),
		),
	)
}

// NoOpBusinessMetrics is a no-op implementation of BusinessMetrics for when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

// RecordKeyRelease does nothing when metrics are disabled.
func (n *NoOpBusinessMetrics) RecordKeyRelease(ctx context.Context, service, caller, status string) {
	// No-op
}

// RecordAuthFailure does nothing when metrics are disabled.
func (n *NoOpBusinessMetrics) RecordAuthFailure(ctx context.Context, kind string) {
	// No-op
}

// RecordRateLimitRejection does nothing when metrics are disabled.
func (n *NoOpBusinessMetrics) RecordRateLimitRejection(ctx context.Context, scope string) {
	// No-op
}
