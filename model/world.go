package model

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-gol-server/rules"
)

// MetricPublisher receives per-generation counts from a World
type MetricPublisher interface {
	PublishBirthCount(ctx context.Context, count int) error
	PublishDeathCount(ctx context.Context, count int) error
	PublishPopulationCount(ctx context.Context, count int) error
}

// World owns a set of living entities and evolves it under a RuleSet.
// A single mutex guards the living set for reads, initialization and evolution.
type World struct {
	rules     rules.RuleSet
	publisher MetricPublisher
	pool      *CountPool
	logger    *slog.Logger

	mu     sync.Mutex
	living map[Entity]struct{}
}

// NewWorld returns an empty world. publisher and pool may be nil.
func NewWorld(rs rules.RuleSet, publisher MetricPublisher, pool *CountPool, logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.Default()
	}
	return &World{
		rules:     rs,
		publisher: publisher,
		pool:      pool,
		logger:    logger,
		living:    make(map[Entity]struct{}),
	}
}

// Initialize replaces the living set with a deduplicated copy of entities
func (w *World) Initialize(entities []Entity) {
	next := make(map[Entity]struct{}, len(entities))
	for _, e := range entities {
		next[e] = struct{}{}
	}

	w.mu.Lock()
	w.living = next
	w.mu.Unlock()
}

// LivingEntities returns a copy of the current living set in no particular order
func (w *World) LivingEntities() []Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]Entity, 0, len(w.living))
	for e := range w.living {
		out = append(out, e)
	}
	return out
}

// Population returns the number of living entities
func (w *World) Population() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.living)
}

/*
EvolveOneGeneration advances the world by one generation.

The new living set is computed and installed under the lock. Birth, death and population
counts are then published outside the lock; the call returns once all three reports finish.
Publisher failures are logged and do not affect the returned stats.
*/
func (w *World) EvolveOneGeneration(ctx context.Context) EvolutionStats {
	w.mu.Lock()
	counts := w.countNeighbors()
	next, stats := w.nextGeneration(counts)
	w.living = next
	w.mu.Unlock()

	countsToPool(counts, w.pool)

	w.publishStats(ctx, stats)
	return stats
}

// countNeighbors builds the frontier: every entity adjacent to a living one, with its living-neighbor count
func (w *World) countNeighbors() neighborCounts {
	counts := countsFromPool(w.pool, len(w.living)*8)
	for e := range w.living {
		for _, n := range e.Neighbors() {
			counts[n]++
		}
	}
	return counts
}

// nextGeneration applies the rule set to every frontier entity. Dead cells absent from
// counts have no living neighbors and are never born.
func (w *World) nextGeneration(counts neighborCounts) (map[Entity]struct{}, EvolutionStats) {
	var stats EvolutionStats
	next := make(map[Entity]struct{}, len(w.living))

	for e, count := range counts {
		if _, alive := w.living[e]; alive {
			if w.rules.Survives(count) {
				next[e] = struct{}{}
			} else {
				stats.DeathCount++
			}
			continue
		}
		if w.rules.Born(count) {
			next[e] = struct{}{}
			stats.BirthCount++
		}
	}

	// isolated living cells are not in counts; judge them with zero neighbors
	for e := range w.living {
		if _, seen := counts[e]; seen {
			continue
		}
		if w.rules.Survives(0) {
			next[e] = struct{}{}
		} else {
			stats.DeathCount++
		}
	}

	stats.PopulationCount = len(next)
	stats.Evolved = stats.BirthCount > 0 || stats.DeathCount > 0
	return next, stats
}

func (w *World) publishStats(ctx context.Context, stats EvolutionStats) {
	if w.publisher == nil {
		return
	}

	var eg errgroup.Group
	eg.Go(func() error {
		return errors.Wrap(w.publisher.PublishBirthCount(ctx, stats.BirthCount), "[publishStats] birth count")
	})
	eg.Go(func() error {
		return errors.Wrap(w.publisher.PublishDeathCount(ctx, stats.DeathCount), "[publishStats] death count")
	})
	eg.Go(func() error {
		return errors.Wrap(w.publisher.PublishPopulationCount(ctx, stats.PopulationCount), "[publishStats] population count")
	})

	if err := eg.Wait(); err != nil {
		w.logger.Warn("failed to publish evolution metrics", slog.String("error", err.Error()))
	}
}
