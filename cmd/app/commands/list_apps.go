package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
	authUseCase "github.com/allisson/keyrelay/internal/auth/usecase"
)

// listedApp is the output shape for a single app. Key material (even the
// stored hash) is deliberately excluded.
type listedApp struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Permissions authDomain.Permissions `json:"permissions"`
	Environment authDomain.Environment `json:"environment"`
	RateLimit   authDomain.RateLimit   `json:"rate_limit"`
	CreatedAt   time.Time              `json:"created_at"`
	LastAccess  *time.Time             `json:"last_access,omitempty"`
	AccessCount int64                  `json:"access_count"`
	ExpiresAt   *time.Time             `json:"expires_at,omitempty"`
}

// RunListApps prints all registered apps. API keys are never shown.
func RunListApps(
	ctx context.Context,
	appUseCase authUseCase.AppUseCase,
	format string,
	writer io.Writer,
) error {
	apps, err := appUseCase.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list apps: %w", err)
	}

	listed := make([]listedApp, 0, len(apps))
	for _, registered := range apps {
		listed = append(listed, listedApp{
			ID:          registered.ID.String(),
			Name:        registered.Name,
			Permissions: registered.Permissions,
			Environment: registered.Environment,
			RateLimit:   registered.RateLimit,
			CreatedAt:   registered.CreatedAt,
			LastAccess:  registered.LastAccess,
			AccessCount: registered.AccessCount,
			ExpiresAt:   registered.ExpiresAt,
		})
	}

	if format == "json" {
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(listed); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return nil
	}

	if len(listed) == 0 {
		_, _ = fmt.Fprintln(writer, "No apps registered")
		return nil
	}

	for _, item := range listed {
		_, _ = fmt.Fprintf(writer, "%s  %s  env=%s  services=%s  accesses=%d\n",
			item.ID, item.Name, item.Environment, permissionsString(item.Permissions), item.AccessCount)
	}

	return nil
}
