package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sheikhrachel/go-gol-server/metrics"
	"github.com/sheikhrachel/go-gol-server/model"
	"github.com/sheikhrachel/go-gol-server/repository"
	"github.com/sheikhrachel/go-gol-server/service"
	"github.com/sheikhrachel/go-gol-server/utils"
)

// components is everything the HTTP server needs, plus cleanup
type components struct {
	service  *service.GameOfLife
	gatherer prometheus.Gatherer
	closer   io.Closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds the JSON logger for the configured level
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// initializeService wires rules, metrics, repository and service from config.
// reg receives the Prometheus metrics when that backend is selected.
func initializeService(config utils.Config, reg *prometheus.Registry, logger *slog.Logger) (*components, error) {
	ruleSet, err := config.RuleSet()
	if err != nil {
		return nil, errors.Wrap(err, "[initializeService] failed to build rules")
	}

	out := &components{closer: nopCloser{}}

	var publisher model.MetricPublisher
	switch config.Metrics.Backend {
	case utils.MetricsPrometheus:
		publisher = metrics.NewPrometheusPublisher(reg)
		out.gatherer = reg
	default:
		publisher = metrics.NewLoggingPublisher(logger)
	}

	factory := model.Factory{
		Rules:     ruleSet,
		Publisher: publisher,
		Pool:      model.NewCountPool(),
		Logger:    logger,
	}

	var repo repository.Repository
	switch config.Repository.Backend {
	case utils.RepositoryBadger:
		badgerRepo, err := repository.OpenBadger(repository.BadgerConfig{
			Path:           config.Repository.Path,
			SyncWrites:     config.Repository.SyncWrites,
			GCInterval:     badgerGCInterval,
			GCDiscardRatio: badgerGCDiscardRatio,
		}, factory, logger)
		if err != nil {
			return nil, errors.Wrap(err, "[initializeService] failed to open repository")
		}
		repo = badgerRepo
		out.closer = badgerRepo
	default:
		repo = repository.NewInMemory(logger)
	}

	out.service, err = service.New(factory, repo, config.GameOfLife.MaxAutoEvolution, logger)
	if err != nil {
		_ = out.closer.Close()
		return nil, errors.Wrap(err, "[initializeService] failed to create service")
	}
	return out, nil
}

// displayServiceInfo logs the effective configuration at startup
func displayServiceInfo(logger *slog.Logger, config utils.Config) {
	logger.Info("starting game of life server",
		slog.Int("port", config.Server.Port),
		slog.String("rules", config.GameOfLife.Rules.Mode),
		slog.Int("max_auto_evolution", config.GameOfLife.MaxAutoEvolution),
		slog.String("repository", config.Repository.Backend),
		slog.String("metrics", config.Metrics.Backend))
}
