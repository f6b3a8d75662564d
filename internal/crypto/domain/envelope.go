// Package domain defines the envelope encryption domain model.
//
// An envelope is the self-contained encrypted-key payload released to callers:
// ciphertext plus the salt, initialization vector, and authentication tag needed
// to decrypt it with the caller's own secret. Envelopes are transport-safe (all
// binary fields hex-encoded) and carry no key material themselves.
package domain

import (
	"encoding/hex"
)

// Envelope holds one encryption result. A fresh salt and IV are generated for
// every encryption call; an envelope never shares either with another envelope.
type Envelope struct {
	// Ciphertext is the hex-encoded encrypted payload (tag excluded).
	Ciphertext string `json:"ciphertext"`

	// Salt is the hex-encoded 32-byte salt used for key derivation.
	Salt string `json:"salt"`

	// IV is the hex-encoded 16-byte initialization vector.
	IV string `json:"iv"`

	// AuthTag is the hex-encoded 16-byte GCM authentication tag.
	AuthTag string `json:"auth_tag"`
}

// DecodedEnvelope carries the raw binary fields of a parsed envelope.
type DecodedEnvelope struct {
	Ciphertext []byte
	Salt       []byte
	IV         []byte
	AuthTag    []byte
}

// Decode parses the hex-encoded fields and validates their lengths.
// Returns ErrMalformedEnvelope if any field fails to parse or has the wrong size,
// so malformed input fails closed before any cryptographic work happens.
func (e *Envelope) Decode() (*DecodedEnvelope, error) {
	ciphertext, err := hex.DecodeString(e.Ciphertext)
	if err != nil {
		return nil, ErrMalformedEnvelope
	}

	salt, err := hex.DecodeString(e.Salt)
	if err != nil || len(salt) != SaltSize {
		return nil, ErrMalformedEnvelope
	}

	iv, err := hex.DecodeString(e.IV)
	if err != nil || len(iv) != IVSize {
		return nil, ErrMalformedEnvelope
	}

	authTag, err := hex.DecodeString(e.AuthTag)
	if err != nil || len(authTag) != TagSize {
		return nil, ErrMalformedEnvelope
	}

	return &DecodedEnvelope{
		Ciphertext: ciphertext,
		Salt:       salt,
		IV:         iv,
		AuthTag:    authTag,
	}, nil
}

// NewEnvelope hex-encodes the binary fields of an encryption result.
func NewEnvelope(ciphertext, salt, iv, authTag []byte) Envelope {
	return Envelope{
		Ciphertext: hex.EncodeToString(ciphertext),
		Salt:       hex.EncodeToString(salt),
		IV:         hex.EncodeToString(iv),
		AuthTag:    hex.EncodeToString(authTag),
	}
}
