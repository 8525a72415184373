package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/course-import/backend/internal/api"
	"github.com/course-import/backend/internal/config"
	"github.com/course-import/backend/internal/logging"
	"github.com/course-import/backend/internal/schema"
	"github.com/course-import/backend/internal/storage"
	"github.com/course-import/backend/internal/validator"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "server",
		Short:         "Validate course import workbooks",
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML configuration file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP upload server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "check [workbook.xlsx]",
		Short: "Validate a workbook on disk and print the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	})

	return rootCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	// The upload directory must exist before the first request is accepted.
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	store, err := storage.NewLocalStore(cfg.GetUploadDir())
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	api.SetupMiddleware(e, api.MiddlewareConfig{
		Logger:               logger,
		EnableRequestLogging: cfg.Logging.EnableRequestLogging,
		BodyLimit:            cfg.Server.BodyLimit,
	})
	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Store:     store,
		Validator: validator.New(schema.Default(), logger),
		Logger:    logger,
		UploadDir: store.Dir(),
		Version:   Version,
	}))

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, e, s, cfg.Server, logger)
}

func serve(ctx context.Context, e *echo.Echo, s *http.Server, cfg config.ServerConfig, logger zerolog.Logger) error {
	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("addr", s.Addr).
		Str("config", configPath).
		Msg("starting server")

	serverErr := make(chan error, 1)
	go func() {
		if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("file not found: %s", path)
	}

	res := validator.New(schema.Default(), zerolog.Nop()).Validate(path)
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	if !res.Valid {
		return errCheckFailed
	}
	return nil
}

var errCheckFailed = errors.New("workbook did not pass validation")
