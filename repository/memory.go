package repository

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/sheikhrachel/go-gol-server/model"
)

// InMemory keeps worlds in a map for the life of the process
type InMemory struct {
	logger *slog.Logger

	mu     sync.RWMutex
	worlds map[uuid.UUID]*model.World
}

// NewInMemory returns an empty in-memory repository
func NewInMemory(logger *slog.Logger) *InMemory {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemory{
		logger: logger,
		worlds: make(map[uuid.UUID]*model.World),
	}
}

func (r *InMemory) Create(ctx context.Context, world *model.World) (uuid.UUID, error) {
	id := uuid.New()

	r.mu.Lock()
	r.worlds[id] = world
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "created world", slog.String("world_id", id.String()))
	return id, nil
}

func (r *InMemory) Retrieve(_ context.Context, id uuid.UUID) (*model.World, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	world, ok := r.worlds[id]
	if !ok {
		return nil, notFound(id)
	}
	return world, nil
}

// Save is a no-op: the stored pointer already reflects every evolution
func (r *InMemory) Save(context.Context, uuid.UUID, *model.World) error {
	return nil
}

// Len returns the number of stored worlds
func (r *InMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.worlds)
}
