package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
	authUseCase "github.com/allisson/keyrelay/internal/auth/usecase"
)

// RegisterAppOptions carries the parsed register-app flags.
type RegisterAppOptions struct {
	Name         string
	OpenAI       bool
	Anthropic    bool
	IPs          string
	Domains      string
	Environment  string
	RateWindowMS int64
	RateMax      int
	ExpiresIn    time.Duration
	Format       string
}

// registerAppResult is the JSON output shape for register-app.
type registerAppResult struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	APIKey      string                 `json:"api_key"`
	Permissions authDomain.Permissions `json:"permissions"`
	Environment authDomain.Environment `json:"environment"`
	ExpiresAt   *time.Time             `json:"expires_at,omitempty"`
}

// RunRegisterApp registers a service account and prints its plain API key.
// The key is shown exactly once; only its hash is stored.
func RunRegisterApp(
	ctx context.Context,
	appUseCase authUseCase.AppUseCase,
	logger *slog.Logger,
	opts RegisterAppOptions,
	writer io.Writer,
) error {
	if !opts.OpenAI && !opts.Anthropic {
		return fmt.Errorf("at least one service permission is required (--openai and/or --anthropic)")
	}

	input := &authDomain.RegisterAppInput{
		Name: opts.Name,
		Permissions: authDomain.Permissions{
			OpenAI:    opts.OpenAI,
			Anthropic: opts.Anthropic,
		},
		AllowedIPs:     splitList(opts.IPs),
		AllowedDomains: splitList(opts.Domains),
	}

	if opts.Environment != "" {
		environment, ok := authDomain.ParseEnvironment(opts.Environment)
		if !ok {
			return fmt.Errorf(
				"invalid environment: %s (valid options: development, staging, production)",
				opts.Environment,
			)
		}
		input.Environment = &environment
	}

	if opts.RateWindowMS != 0 || opts.RateMax != 0 {
		if opts.RateWindowMS <= 0 || opts.RateMax <= 0 {
			return fmt.Errorf("--rate-window-ms and --rate-max must both be positive")
		}
		input.RateLimit = &authDomain.RateLimit{
			WindowMS:    opts.RateWindowMS,
			MaxRequests: opts.RateMax,
		}
	}

	if opts.ExpiresIn > 0 {
		expiresAt := time.Now().Add(opts.ExpiresIn)
		input.ExpiresAt = &expiresAt
	}

	output, err := appUseCase.Register(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to register app: %w", err)
	}

	result := registerAppResult{
		ID:          output.App.ID.String(),
		Name:        output.App.Name,
		APIKey:      output.PlainKey,
		Permissions: output.App.Permissions,
		Environment: output.App.Environment,
		ExpiresAt:   output.App.ExpiresAt,
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
	} else {
		writeRegisterAppText(writer, result, output.App)
	}

	logger.Info("app registered",
		slog.String("app_id", result.ID),
		slog.String("name", result.Name),
		slog.String("environment", string(result.Environment)),
	)

	return nil
}

func writeRegisterAppText(writer io.Writer, result registerAppResult, registered *authDomain.App) {
	_, _ = fmt.Fprintf(writer, "App registered: %s (%s)\n", result.Name, result.ID)
	_, _ = fmt.Fprintf(writer, "Environment:    %s\n", result.Environment)
	_, _ = fmt.Fprintf(writer, "Permissions:    %s\n", permissionsString(result.Permissions))
	if len(registered.AllowedIPs) > 0 {
		_, _ = fmt.Fprintf(writer, "Allowed IPs:    %s\n", strings.Join(registered.AllowedIPs, ", "))
	}
	if len(registered.AllowedDomains) > 0 {
		_, _ = fmt.Fprintf(writer, "Allowed domains: %s\n", strings.Join(registered.AllowedDomains, ", "))
	}
	_, _ = fmt.Fprintf(writer, "Rate limit:     %d requests per %s\n",
		registered.RateLimit.MaxRequests, registered.RateLimit.Window())
	if result.ExpiresAt != nil {
		_, _ = fmt.Fprintf(writer, "Expires at:     %s\n", result.ExpiresAt.Format(time.RFC3339))
	}
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "API key: %s\n", result.APIKey)
	_, _ = fmt.Fprintln(writer, "Save this key now - it will not be shown again.")
}

func permissionsString(permissions authDomain.Permissions) string {
	services := make([]string, 0, 2)
	if permissions.OpenAI {
		services = append(services, string(authDomain.ServiceOpenAI))
	}
	if permissions.Anthropic {
		services = append(services, string(authDomain.ServiceAnthropic))
	}
	if len(services) == 0 {
		return "none"
	}
	return strings.Join(services, ", ")
}
