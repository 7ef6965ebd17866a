// Package service runs world evolution on top of a repository.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-server/model"
	"github.com/sheikhrachel/go-gol-server/repository"
	"github.com/sheikhrachel/go-gol-server/utils"
)

// GameOfLife creates worlds and evolves them generation by generation
type GameOfLife struct {
	factory          model.Factory
	repo             repository.Repository
	maxAutoEvolution int
	logger           *slog.Logger
}

// New returns a service. maxAutoEvolution caps EvolveToFinal and must be positive.
func New(factory model.Factory, repo repository.Repository, maxAutoEvolution int, logger *slog.Logger) (*GameOfLife, error) {
	if maxAutoEvolution <= 0 {
		return nil, errors.Errorf("[service.New] maxAutoEvolution must be positive, got %d", maxAutoEvolution)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GameOfLife{
		factory:          factory,
		repo:             repo,
		maxAutoEvolution: maxAutoEvolution,
		logger:           logger,
	}, nil
}

// MaxAutoEvolution returns the generation cap used by EvolveToFinal
func (s *GameOfLife) MaxAutoEvolution() int { return s.maxAutoEvolution }

// CreateWorld builds a world from living entities and stores it
func (s *GameOfLife) CreateWorld(ctx context.Context, living []model.Entity) (uuid.UUID, error) {
	world := s.factory.Build(living)
	id, err := s.repo.Create(ctx, world)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "[CreateWorld] failed to store world")
	}
	return id, nil
}

// LivingEntities returns the current living set of a world without evolving it
func (s *GameOfLife) LivingEntities(ctx context.Context, id uuid.UUID) ([]model.Entity, error) {
	world, err := s.repo.Retrieve(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "[LivingEntities] failed to retrieve world")
	}
	return world.LivingEntities(), nil
}

/*
Evolve advances a world up to generations times, saving after every generation.

It stops early on the first generation with no births or deaths, since later
generations would not change anything. Zero generations returns the current
living set without evolving or saving.
*/
func (s *GameOfLife) Evolve(ctx context.Context, id uuid.UUID, generations int) ([]model.Entity, error) {
	if generations < 0 {
		return nil, errors.Wrapf(ErrInvalidGenerationCount, "[Evolve] got %d", generations)
	}

	world, err := s.repo.Retrieve(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "[Evolve] failed to retrieve world")
	}

	stats := utils.NewStats()
	for stats.Generations < generations {
		evolved, err := s.step(ctx, id, world, stats)
		if err != nil {
			return nil, errors.Wrap(err, "[Evolve]")
		}
		if !evolved {
			break
		}
	}

	s.logRun(ctx, "evolved world", id, stats)
	return world.LivingEntities(), nil
}

/*
EvolveToFinal evolves a world until a generation produces no births or deaths.

If that has not happened after the configured cap, it fails with a
*StabilizationError. Oscillators never stabilize and always hit the cap.
*/
func (s *GameOfLife) EvolveToFinal(ctx context.Context, id uuid.UUID) ([]model.Entity, error) {
	world, err := s.repo.Retrieve(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "[EvolveToFinal] failed to retrieve world")
	}

	stats := utils.NewStats()
	for {
		evolved, err := s.step(ctx, id, world, stats)
		if err != nil {
			return nil, errors.Wrap(err, "[EvolveToFinal]")
		}
		if !evolved {
			break
		}
		if stats.Generations >= s.maxAutoEvolution {
			s.logger.WarnContext(ctx, "world did not stabilize",
				slog.String("world_id", id.String()),
				slog.Int("max_generations", s.maxAutoEvolution))
			return nil, &StabilizationError{MaxGenerations: s.maxAutoEvolution, WorldID: id}
		}
	}

	s.logRun(ctx, "world stabilized", id, stats)
	return world.LivingEntities(), nil
}

// step runs and saves one generation, honoring cancellation before it starts
func (s *GameOfLife) step(ctx context.Context, id uuid.UUID, world *model.World, stats *utils.Stats) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errors.Wrapf(err, "cancelled after %d generations", stats.Generations)
	}

	gen := world.EvolveOneGeneration(ctx)
	stats.Update(gen.BirthCount, gen.DeathCount, gen.PopulationCount)

	if err := s.repo.Save(ctx, id, world); err != nil {
		return false, errors.Wrapf(err, "failed to save world after generation %d", stats.Generations)
	}
	return gen.Evolved, nil
}

func (s *GameOfLife) logRun(ctx context.Context, msg string, id uuid.UUID, stats *utils.Stats) {
	s.logger.InfoContext(ctx, msg,
		slog.String("world_id", id.String()),
		slog.Int("generations", stats.Generations),
		slog.Int("births", stats.Births),
		slog.Int("deaths", stats.Deaths),
		slog.Float64("avg_population", stats.AveragePopulation),
		slog.Duration("elapsed", time.Since(stats.StartTime)))
}
