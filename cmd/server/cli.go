package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskmate-api/internal/config"
	"github.com/phrazzld/taskmate-api/internal/platform/logger"
	"github.com/phrazzld/taskmate-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

// migrationCommands are the goose commands exposed by "taskmate migrate".
var migrationCommands = []string{"up", "down", "reset", "status", "version"}

type cliOptions struct {
	configFile string
	migrate    bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:          "taskmate",
		Short:        "Personal task tracker API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to a YAML config file")
	root.Flags().BoolVar(&opts.migrate, "migrate", false, "apply pending migrations before serving")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	serve.Flags().BoolVar(&opts.migrate, "migrate", false, "apply pending migrations before serving")

	migrate := &cobra.Command{
		Use:       "migrate {up|down|reset|status|version}",
		Short:     "Manage the PostgreSQL schema",
		ValidArgs: migrationCommands,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), opts, args[0])
		},
	}

	root.AddCommand(serve, migrate)
	return root
}

// loadConfig reads the configuration and installs the configured logger.
func loadConfig(opts *cliOptions) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFrom(opts.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("llm_enabled", cfg.LLM.GeminiAPIKey != ""))
	return cfg, log, nil
}

func runServe(ctx context.Context, opts *cliOptions) error {
	cfg, log, err := loadConfig(opts)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		log.Error("database setup failed", slog.String("error", err.Error()))
		return err
	}
	if db != nil {
		defer func() { _ = db.Close() }()

		if opts.migrate {
			if err := postgres.Migrate(ctx, db, log, "up"); err != nil {
				log.Error("migrations failed", slog.String("error", err.Error()))
				return err
			}
		}
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		log.Error("application setup failed", slog.String("error", err.Error()))
		return err
	}

	return app.run(ctx)
}

func runMigrate(ctx context.Context, opts *cliOptions, command string) error {
	cfg, log, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations require the %s driver, configured driver is %s",
			config.DriverPostgres, cfg.Database.Driver)
	}

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := postgres.Migrate(ctx, db, log, command); err != nil {
		log.Error("migration command failed",
			slog.String("command", command),
			slog.String("error", err.Error()))
		return err
	}

	log.Info("migration command finished", slog.String("command", command))
	return nil
}
