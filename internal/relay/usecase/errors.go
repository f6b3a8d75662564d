package usecase

import (
	"github.com/allisson/keyrelay/internal/errors"
)

// Key-release errors.
var (
	// ErrServiceUnknown indicates the relay holds no concept of the named service.
	ErrServiceUnknown = errors.Wrap(errors.ErrNotFound, "unknown service")

	// ErrKeyNotConfigured indicates the service is known but this deployment
	// has no upstream key configured for it.
	ErrKeyNotConfigured = errors.Wrap(errors.ErrNotFound, "no key configured for service")
)
