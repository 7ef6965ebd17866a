package metrics

import (
	"context"
	"log/slog"
)

// LoggingPublisher writes every generation count to a structured logger
type LoggingPublisher struct {
	logger *slog.Logger
}

// NewLoggingPublisher returns a publisher logging to logger, or slog.Default when nil
func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) PublishBirthCount(ctx context.Context, count int) error {
	p.logger.InfoContext(ctx, "birth count", slog.Int("count", count))
	return nil
}

func (p *LoggingPublisher) PublishDeathCount(ctx context.Context, count int) error {
	p.logger.InfoContext(ctx, "death count", slog.Int("count", count))
	return nil
}

func (p *LoggingPublisher) PublishPopulationCount(ctx context.Context, count int) error {
	p.logger.InfoContext(ctx, "population count", slog.Int("count", count))
	return nil
}
