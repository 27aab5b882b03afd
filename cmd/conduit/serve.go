package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	conduit "github.com/goliatone/go-conduit"
)

// serveConfig holds configuration for the serve command.
type serveConfig struct {
	logFormat string
}

// Validate checks that the configuration is valid.
func (cfg *serveConfig) Validate() error {
	if cfg.logFormat != "json" && cfg.logFormat != "text" {
		return fmt.Errorf("log-format must be 'json' or 'text', got %q", cfg.logFormat)
	}
	return nil
}

const defaultLogFormat = "text"

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server. Configuration is read from the files
passed with --config, or from config/base.yml plus the overlay selected
by APP_ENVIRONMENT (default local) when the flag is absent. Either way,
CONDUIT_-prefixed environment variables override file values
(e.g. CONDUIT_APP__JWT_SECRET).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.logFormat, "log-format", defaultLogFormat, "log format (json or text)")

	return cmd
}

func runServe(cfg *serveConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	setupLogging(cfg.logFormat)

	paths := configFiles
	if len(paths) == 0 {
		paths = conduit.DefaultConfigPaths()
	}

	settings, err := conduit.LoadSettings(paths...)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slogAdapter{log: slog.Default()}

	app, err := conduit.NewApp(ctx, settings, logger)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	slog.Info("starting server", "addr", settings.GetListenAddr())

	return app.Listen(ctx)
}

func setupLogging(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))
}

// slogAdapter bridges the library Logger interface onto slog.
type slogAdapter struct {
	log *slog.Logger
}

func (l slogAdapter) Debug(msg string, args ...any) { l.log.Debug(msg, args...) }
func (l slogAdapter) Info(msg string, args ...any)  { l.log.Info(msg, args...) }
func (l slogAdapter) Error(msg string, args ...any) { l.log.Error(msg, args...) }
