// Package metrics publishes per-generation world counts.
//
// Two publishers are provided: LoggingPublisher writes counts to slog, and
// PrometheusPublisher exposes them as Prometheus metrics under the "gameoflife"
// namespace. Both are safe for concurrent use.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "gameoflife"
	worldSubsystem   = "world"
)

// PrometheusPublisher records generation counts as Prometheus metrics
type PrometheusPublisher struct {
	// BirthsTotal counts entities born across all worlds
	BirthsTotal prometheus.Counter

	// DeathsTotal counts entities that died across all worlds
	DeathsTotal prometheus.Counter

	// Population is the population reported by the most recent generation
	Population prometheus.Gauge

	// GenerationsTotal counts computed generations, one per population report
	GenerationsTotal prometheus.Counter
}

// NewPrometheusPublisher creates the metrics and registers them with reg.
// Passing prometheus.DefaultRegisterer exposes them on the default /metrics handler.
// Registering twice against the same registerer panics.
func NewPrometheusPublisher(reg prometheus.Registerer) *PrometheusPublisher {
	factory := promauto.With(reg)
	return &PrometheusPublisher{
		BirthsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: worldSubsystem,
			Name:      "births_total",
			Help:      "Total number of entities born",
		}),
		DeathsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: worldSubsystem,
			Name:      "deaths_total",
			Help:      "Total number of entities that died",
		}),
		Population: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: worldSubsystem,
			Name:      "population",
			Help:      "Population after the most recent generation",
		}),
		GenerationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: worldSubsystem,
			Name:      "generations_total",
			Help:      "Total number of generations computed",
		}),
	}
}

func (p *PrometheusPublisher) PublishBirthCount(_ context.Context, count int) error {
	p.BirthsTotal.Add(float64(count))
	return nil
}

func (p *PrometheusPublisher) PublishDeathCount(_ context.Context, count int) error {
	p.DeathsTotal.Add(float64(count))
	return nil
}

func (p *PrometheusPublisher) PublishPopulationCount(_ context.Context, count int) error {
	p.Population.Set(float64(count))
	p.GenerationsTotal.Inc()
	return nil
}
