package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/taskhub-api/internal/config"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/platform/migrations"
	"github.com/phrazzld/taskhub-api/internal/platform/sqlstore"
	"github.com/spf13/cobra"
)

// newRootCmd builds the taskhub command tree. Running the root command
// without a subcommand serves the API.
func newRootCmd() *cobra.Command {
	var configPath string

	// loadConfig reads configuration and installs the configured logger.
	loadConfig := func() (*config.Config, *slog.Logger, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		log, err := logger.Setup(cfg.Server)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
		}
		return cfg, log, nil
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			log.Info("server configuration loaded",
				"port", cfg.Server.Port,
				"log_level", cfg.Server.LogLevel,
				"database_driver", cfg.Database.Driver)

			app, err := newApplication(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return app.Run(cmd.Context())
		},
	}

	migrateCmd := &cobra.Command{
		Use:       "migrate [" + strings.Join(migrations.Commands, "|") + "]",
		Short:     "Apply or inspect database schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrations.Commands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			db, dialect, err := sqlstore.Open(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					log.Error("error closing database connection", "error", err)
				}
			}()

			return migrations.Run(cmd.Context(), db, dialect.Name(), args[0], log)
		},
	}

	root := &cobra.Command{
		Use:           "taskhub",
		Short:         "taskhub serves a REST API for tasks and users",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default ./config.yaml if present)")
	root.AddCommand(serveCmd, migrateCmd)

	return root
}
