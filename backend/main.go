package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mitra/backend/config"
	"mitra/backend/content"
	"mitra/backend/routes"
	"mitra/backend/services"
	"mitra/backend/storage"
	"mitra/backend/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:           "mitra",
	Short:         "Backend of the Mitra student wellbeing companion",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		kv, err := storage.Open(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer func() {
			if err := storage.Close(kv); err != nil {
				logger.Warnw("close storage", "error", err)
			}
		}()

		removed, err := storage.ResetDemoData(ctx, kv)
		if err != nil {
			return fmt.Errorf("reset demo data: %w", err)
		}
		if removed > 0 {
			logger.Infow("cleared demo data", "keys", removed)
		}

		catalog, err := content.Load()
		if err != nil {
			return err
		}

		registry := services.NewRegistry(kv, catalog, services.OptionsFromConfig(cfg), logger)
		app := routes.NewApp(registry, cfg, logger)

		errCh := make(chan error, 1)
		go func() {
			logger.Infow("listening", "port", cfg.ServerPort, "storage", cfg.StorageDriver, "env", cfg.Environment)
			errCh <- app.Listen(":" + cfg.ServerPort)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the kv_entries table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		if cfg.StorageDriver != config.DriverPostgres && cfg.StorageDriver != config.DriverSQLite {
			logger.Infow("nothing to migrate", "storage", cfg.StorageDriver)
			return nil
		}

		db, err := utils.InitDB(cfg)
		if err != nil {
			return err
		}
		store := storage.NewGormStore(db)
		defer store.Close()

		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}
		logger.Infow("migrated", "storage", cfg.StorageDriver)
		return nil
	},
}

var resetDemoCmd = &cobra.Command{
	Use:   "reset-demo",
	Short: "Clear demo data left by earlier runs",
	Long: `Removes every stored key except theme preferences the first time it
runs against a store. With --force the store is cleared again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		kv, err := storage.Open(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer storage.Close(kv)

		reset := storage.ResetDemoData
		if force {
			reset = storage.ForceResetDemoData
		}
		removed, err := reset(cmd.Context(), kv)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d keys\n", removed)
		return nil
	},
}

func bootstrap() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := utils.InitLogger(utils.LoggerConfig{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
	})
	return cfg, logger, nil
}

func init() {
	resetDemoCmd.Flags().Bool("force", false, "clear the store even if it was cleared before")
	rootCmd.AddCommand(serveCmd, migrateCmd, resetDemoCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
