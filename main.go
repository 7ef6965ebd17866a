package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/sheikhrachel/go-gol-server/api"
	"github.com/sheikhrachel/go-gol-server/utils"
)

const (
	badgerGCInterval     = 5 * time.Minute
	badgerGCDiscardRatio = 0.5
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	root := &cobra.Command{
		Use:          "go-gol-server",
		Short:        "Game of Life over HTTP on an unbounded grid",
		SilenceUsage: true,
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				config.Server.Port = port
			}
			if err = config.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), config)
		},
	}
	serve.Flags().StringVarP(&configPath, "config", "c", "", "path to a JSON or YAML config file")
	serve.Flags().IntVarP(&port, "port", "p", 0, "port to listen on, overrides the config file")

	root.AddCommand(serve)
	return root
}

// loadConfig falls back to defaults when no path is given
func loadConfig(path string) (utils.Config, error) {
	if path == "" {
		return utils.DefaultConfig(), nil
	}
	return utils.LoadConfig(path)
}

func run(ctx context.Context, config utils.Config) error {
	logger := newLogger(os.Stdout, config.Logging.Level)
	slog.SetDefault(logger)
	displayServiceInfo(logger, config)

	reg := prometheus.NewRegistry()
	c, err := initializeService(config, reg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.closer.Close(); err != nil {
			logger.Error("failed to close repository", slog.String("error", err.Error()))
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	api.SetupRoutes(router, c.service, c.gatherer)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "[run] server failed")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "[run] shutdown failed")
	}
	return nil
}

// requestLogger logs one line per request
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)))
	}
}
