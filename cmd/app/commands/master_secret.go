package commands

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// RunGenerateMasterSecret generates a cryptographically secure 256-bit secret
// for gating user registration and prints it as an environment variable
// assignment. The secret is zeroed from memory after encoding.
func RunGenerateMasterSecret(writer io.Writer) error {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("failed to generate master secret: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(secret)

	_, _ = fmt.Fprintln(writer, "# Master secret configuration")
	_, _ = fmt.Fprintln(writer, "# Copy this environment variable to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "MASTER_SECRET=%q\n", encoded)

	for i := range secret {
		secret[i] = 0
	}

	return nil
}
