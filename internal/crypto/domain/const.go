package domain

// Envelope encryption parameters.
//
// The cipher is AES-256-GCM with a PBKDF2-SHA256 derived key. The 16-byte IV
// (128 bits) is wider than GCM's default 96-bit nonce; the cipher is constructed
// with an extended nonce size to match the envelope wire format.
const (
	// KeySize is the derived encryption key size in bytes (AES-256).
	KeySize = 32

	// SaltSize is the key-derivation salt size in bytes (256 bits).
	SaltSize = 32

	// IVSize is the initialization vector size in bytes (128 bits).
	IVSize = 16

	// TagSize is the GCM authentication tag size in bytes (128 bits).
	TagSize = 16

	// PBKDF2Iterations is the key-derivation iteration count.
	PBKDF2Iterations = 100_000
)
