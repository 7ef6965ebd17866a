// Package repository stores worlds by identifier.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-server/model"
)

// ErrWorldNotFound is returned when no world exists for an identifier
var ErrWorldNotFound = errors.New("world not found")

// Repository creates, retrieves and persists worlds
type Repository interface {
	// Create stores world under a freshly minted identifier
	Create(ctx context.Context, world *model.World) (uuid.UUID, error)
	// Retrieve returns the world for id, or ErrWorldNotFound
	Retrieve(ctx context.Context, id uuid.UUID) (*model.World, error)
	// Save persists the current state of world
	Save(ctx context.Context, id uuid.UUID, world *model.World) error
}

func notFound(id uuid.UUID) error {
	return errors.Wrapf(ErrWorldNotFound, "world %s", id)
}
