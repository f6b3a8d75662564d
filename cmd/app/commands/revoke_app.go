package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/keyrelay/internal/auth/usecase"
)

// RunRevokeApp revokes every app registered under the given name. Revoked
// keys stop authenticating immediately.
func RunRevokeApp(
	ctx context.Context,
	appUseCase authUseCase.AppUseCase,
	logger *slog.Logger,
	name string,
	writer io.Writer,
) error {
	count, err := appUseCase.Revoke(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to revoke app: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Revoked %d app(s) named %q\n", count, name)

	logger.Info("app revoked",
		slog.String("name", name),
		slog.Int("count", count),
	)

	return nil
}
