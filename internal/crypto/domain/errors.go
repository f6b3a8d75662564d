package domain

import (
	"github.com/allisson/keyrelay/internal/errors"
)

// Envelope encryption error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// so the HTTP layer can map them to status codes without inspecting crypto
// internals.
var (
	// ErrMalformedEnvelope indicates an envelope field failed to parse or has
	// the wrong size. Returned before any cryptographic work is attempted.
	//
	// HTTP Status: 400 Bad Request
	ErrMalformedEnvelope = errors.Wrap(errors.ErrInvalidInput, "malformed envelope")

	// ErrEnvelopeAuthentication indicates authentication-tag verification failed
	// during decryption.
	//
	// This error can occur due to:
	//   - Wrong secret used for decryption
	//   - Ciphertext or tag has been tampered with
	//   - Corrupted envelope fields
	//
	// The specific cause is deliberately not disclosed: GCM's tag verification
	// is all-or-nothing, so no information about where the corruption occurred
	// ever leaves the cipher.
	//
	// HTTP Status: 400 Bad Request
	ErrEnvelopeAuthentication = errors.Wrap(errors.ErrInvalidInput, "envelope authentication failed")
)
