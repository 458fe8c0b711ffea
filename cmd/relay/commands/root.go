package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"localhost/claude-relay/internal/app"
	"localhost/claude-relay/internal/config"
	"localhost/claude-relay/internal/observability"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string, version, commit string) error {
	cmd := &cli.Command{
		Name:    "relay",
		Usage:   "Local Anthropic Messages API relay for OpenAI-compatible upstreams",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a TOML config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			authCommand(),
		},
	}

	return cmd.Run(ctx, args)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the relay server",
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Set up observability before creating app
	if err := instrument(cfg); err != nil {
		return err
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	slog.InfoContext(ctx, "starting", "listen", cfg.Listen)

	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("app failed to start: %w", err)
	}

	slog.InfoContext(ctx, "stopped gracefully")
	return nil
}

// loadConfig loads configuration, then applies command-line overrides for the
// logging flags.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if v := cmd.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := cmd.String("log-format"); v != "" {
		cfg.Log.Format = v
	}
	return cfg, nil
}

func instrument(cfg *config.Config) error {
	level, err := observability.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if err := observability.Instrument(level, cfg.Log.Format); err != nil {
		return fmt.Errorf("failed to set up observability layer: %w", err)
	}
	return nil
}
