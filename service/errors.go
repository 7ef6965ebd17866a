package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// StabilizationErrorCode identifies a StabilizationError to API clients
const StabilizationErrorCode = "PopulationStabilizationFailed"

// ErrInvalidGenerationCount is returned for a negative generation count
var ErrInvalidGenerationCount = errors.New("generation count cannot be negative")

// StabilizationError reports that a world did not reach a fixed point within MaxGenerations
type StabilizationError struct {
	MaxGenerations int
	WorldID        uuid.UUID
}

func (e *StabilizationError) Error() string {
	return fmt.Sprintf("population of world %s could not stabilize within %d generations", e.WorldID, e.MaxGenerations)
}

// Code returns the stable error code surfaced to clients
func (e *StabilizationError) Code() string { return StabilizationErrorCode }
