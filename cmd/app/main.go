package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"labconsole/cmd"
	"labconsole/internal/adapters/out/postgres"
	"labconsole/internal/core/application/usecases/commands"
	"labconsole/internal/core/application/workflow"
	"labconsole/internal/pkg/logging"

	"github.com/labstack/gommon/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "labconsole",
		Short:         "Lab order review and result finalization console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional file with environment variables")

	rootCmd.AddCommand(serveCmd(&envFile))
	rootCmd.AddCommand(migrateCmd(&envFile))
	rootCmd.AddCommand(reportCmd(&envFile))
	rootCmd.AddCommand(importCmd(&envFile))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setup(envFile string) (cmd.Config, zerolog.Logger, error) {
	cfg, err := cmd.LoadConfig(envFile)
	if err != nil {
		return cmd.Config{}, zerolog.Nop(), err
	}
	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return cmd.Config{}, zerolog.Nop(), err
	}
	return cfg, logger, nil
}

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the console API server",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, logger, err := setup(*envFile)
			if err != nil {
				return err
			}
			return runServer(c.Context(), cfg, logger)
		},
	}
}

func runServer(ctx context.Context, cfg cmd.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cmd.NewCompositionRoot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to release resources")
		}
	}()

	e, err := app.CreateRouter(ctx)
	if err != nil {
		return err
	}
	e.Logger.SetLevel(echoLogLevel(cfg.LogLevel))

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		serverErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort))
	}()

	select {
	case err = <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func echoLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return log.DEBUG
	case "info":
		return log.INFO
	case "warn":
		return log.WARN
	default:
		return log.ERROR
	}
}

func migrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the PostgreSQL order schema",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, logger, err := setup(*envFile)
			if err != nil {
				return err
			}

			db, err := postgres.Open(c.Context(), cfg.DBSettings().DSN())
			if err != nil {
				return err
			}
			defer postgres.Close(db) //nolint:errcheck // best effort on exit

			if err = postgres.Migrate(c.Context(), db); err != nil {
				return err
			}
			logger.Info().Str("database", cfg.DBName).Msg("schema migrated")
			return nil
		},
	}
}

func importCmd(envFile *string) *cobra.Command {
	var labOrderID int64
	importCommand := &cobra.Command{
		Use:   "import",
		Short: "Copy a lab order from the lab API into the PostgreSQL store",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, logger, err := setup(*envFile)
			if err != nil {
				return err
			}
			command, err := commands.NewImportLabOrderCommand(labOrderID)
			if err != nil {
				return err
			}

			handler, closeDB, err := cmd.NewOrderImporter(c.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeDB() //nolint:errcheck // best effort on exit

			order, err := handler.Handle(c.Context(), command)
			if err != nil {
				return err
			}
			logger.Info().
				Int64("lab_order_id", order.ID()).
				Int("tests", len(order.Tests())).
				Msg("lab order imported")
			return nil
		},
	}
	importCommand.Flags().Int64Var(&labOrderID, "order", 0, "Lab order id")
	_ = importCommand.MarkFlagRequired("order")
	return importCommand
}

func reportCmd(envFile *string) *cobra.Command {
	parent := &cobra.Command{
		Use:   "report",
		Short: "Work with lab order reports",
	}

	var (
		labOrderID int64
		outDir     string
	)
	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Save the report PDF of an order",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, logger, err := setup(*envFile)
			if err != nil {
				return err
			}
			if labOrderID <= 0 {
				return fmt.Errorf("--order must be a positive lab order id, got %d", labOrderID)
			}

			coordinator, err := cmd.NewReportCoordinator(cfg, logger)
			if err != nil {
				return err
			}
			doc, err := coordinator.DownloadReport(c.Context(), labOrderID)
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, workflow.ReportFilename(labOrderID))
			if err = os.WriteFile(path, doc.Content, 0o600); err != nil {
				return fmt.Errorf("save report: %w", err)
			}
			fmt.Fprintln(c.OutOrStdout(), path)
			return nil
		},
	}
	downloadCmd.Flags().Int64Var(&labOrderID, "order", 0, "Lab order id")
	downloadCmd.Flags().StringVar(&outDir, "out", ".", "Directory to save the report into")
	_ = downloadCmd.MarkFlagRequired("order")

	parent.AddCommand(downloadCmd)
	return parent
}
