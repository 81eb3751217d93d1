// Package serve provides the command running the catalog HTTP API.
package serve

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/agentstation/techmarket/cmd/application"
	"github.com/agentstation/techmarket/internal/server"
)

// Defaults are the server settings used when a flag is not given.
type Defaults struct {
	Server   server.Config
	AutoSync bool
}

// NewCommand creates the serve command with app dependencies. defaults is
// called when the command runs, after the config file is loaded; flags given
// on the command line override it.
func NewCommand(app application.Application, defaults func() Defaults) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "core",
		Short:   "Start the catalog REST API server",
		Long: `Serve starts an HTTP server exposing the local catalog.

Endpoints:
  GET  /api/v1/{entity}            - List entities
  GET  /api/v1/{entity}/{id}       - Get an entity
  GET  /api/v1/{entity}/{id}/form  - Relationship options of an entity form
  GET  /api/v1/{entity}/new/form   - Relationship options of a new entity
  POST /api/v1/quotes              - Price a device configuration
  POST /api/v1/sales               - Record a sale
  POST /api/v1/sync                - Sync with the remote catalog
  GET  /api/v1/health              - Liveness check
  GET  /api/v1/ready               - Readiness check`,
		Example: `  techmarket serve --port 3000
  techmarket serve --cors-origins https://admin.example.com --auto-sync`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, defaults())
		},
	}

	d := server.DefaultConfig()
	cmd.Flags().IntP("port", "p", d.Port, "Server port")
	cmd.Flags().String("host", d.Host, "Bind address")
	cmd.Flags().String("prefix", d.PathPrefix, "API path prefix")
	cmd.Flags().Bool("cors", d.CORSEnabled, "Enable CORS")
	cmd.Flags().StringSlice("cors-origins", d.CORSOrigins, "Allowed CORS origins (comma-separated, all when empty)")
	cmd.Flags().Duration("cache-ttl", d.CacheTTL, "Response cache TTL")
	cmd.Flags().Bool("auto-sync", false, "Sync with the remote catalog in the background")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, defaults Defaults) error {
	cfg, autoSync := applyFlags(cmd.Flags(), defaults)

	logger := app.Logger()
	logger.Info().
		Int("port", cfg.Port).
		Str("host", cfg.Host).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Dur("cache_ttl", cfg.CacheTTL).
		Bool("auto_sync", autoSync).
		Msg("Starting API server")

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if autoSync {
		svc, err := app.Service()
		if err != nil {
			return err
		}
		if err := svc.AutoSyncOn(); err != nil {
			return err
		}
		defer func() {
			if err := svc.AutoSyncOff(); err != nil {
				logger.Error().Err(err).Msg("Failed to stop auto sync")
			}
		}()
	}

	return srv.Run(cmd.Context())
}

// applyFlags overrides defaults with the flags set on the command line.
func applyFlags(flags *pflag.FlagSet, defaults Defaults) (server.Config, bool) {
	cfg, autoSync := defaults.Server, defaults.AutoSync
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = server.DefaultConfig().PathPrefix
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("prefix") {
		cfg.PathPrefix, _ = flags.GetString("prefix")
	}
	if flags.Changed("cors") {
		cfg.CORSEnabled, _ = flags.GetBool("cors")
	}
	if flags.Changed("cors-origins") {
		cfg.CORSOrigins, _ = flags.GetStringSlice("cors-origins")
		cfg.CORSEnabled = true
	}
	if flags.Changed("cache-ttl") {
		cfg.CacheTTL, _ = flags.GetDuration("cache-ttl")
	}
	if flags.Changed("auto-sync") {
		autoSync, _ = flags.GetBool("auto-sync")
	}
	return cfg, autoSync
}
