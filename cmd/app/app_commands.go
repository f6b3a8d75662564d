package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keyrelay/cmd/app/commands"
	"github.com/allisson/keyrelay/internal/app"
	"github.com/allisson/keyrelay/internal/config"
)

func getAppCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "register-app",
			Usage: "Register a service account and print its API key (shown only once)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable app name (not unique)",
				},
				&cli.BoolFlag{
					Name:  "openai",
					Value: false,
					Usage: "Allow releases of the OpenAI key",
				},
				&cli.BoolFlag{
					Name:  "anthropic",
					Value: false,
					Usage: "Allow releases of the Anthropic key",
				},
				&cli.StringFlag{
					Name:  "ips",
					Usage: "Comma-separated IP allow-list (empty means unrestricted)",
				},
				&cli.StringFlag{
					Name:  "domains",
					Usage: "Comma-separated Origin domain allow-list (empty means unrestricted)",
				},
				&cli.StringFlag{
					Name:    "environment",
					Aliases: []string{"e"},
					Usage:   "Deployment stage: development, staging or production (default production)",
				},
				&cli.IntFlag{
					Name:  "rate-window-ms",
					Usage: "Rate limit window in milliseconds (default 60000)",
				},
				&cli.IntFlag{
					Name:  "rate-max",
					Usage: "Maximum requests per window (default 30)",
				},
				&cli.DurationFlag{
					Name:  "expires-in",
					Usage: "Credential lifetime (e.g. 720h); omit for no expiry",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				appUseCase, err := container.AppUseCase()
				if err != nil {
					return err
				}

				return commands.RunRegisterApp(
					ctx,
					appUseCase,
					container.Logger(),
					commands.RegisterAppOptions{
						Name:         cmd.String("name"),
						OpenAI:       cmd.Bool("openai"),
						Anthropic:    cmd.Bool("anthropic"),
						IPs:          cmd.String("ips"),
						Domains:      cmd.String("domains"),
						Environment:  cmd.String("environment"),
						RateWindowMS: int64(cmd.Int("rate-window-ms")),
						RateMax:      int(cmd.Int("rate-max")),
						ExpiresIn:    cmd.Duration("expires-in"),
						Format:       cmd.String("format"),
					},
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:  "revoke-app",
			Usage: "Revoke every app registered under a name",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "App name to revoke",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				appUseCase, err := container.AppUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevokeApp(
					ctx,
					appUseCase,
					container.Logger(),
					cmd.String("name"),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:  "list-apps",
			Usage: "List registered apps (API keys are never shown)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				appUseCase, err := container.AppUseCase()
				if err != nil {
					return err
				}

				return commands.RunListApps(
					ctx,
					appUseCase,
					cmd.String("format"),
					commands.DefaultIO().Writer,
				)
			},
		},
	}
}
