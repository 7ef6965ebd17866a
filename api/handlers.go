package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-server/model"
	"github.com/sheikhrachel/go-gol-server/repository"
	"github.com/sheikhrachel/go-gol-server/service"
)

const healthyResponse = "Healthy"

// WorldService is the part of the evolution service the handlers need
type WorldService interface {
	CreateWorld(ctx context.Context, living []model.Entity) (uuid.UUID, error)
	LivingEntities(ctx context.Context, id uuid.UUID) ([]model.Entity, error)
	Evolve(ctx context.Context, id uuid.UUID, generations int) ([]model.Entity, error)
	EvolveToFinal(ctx context.Context, id uuid.UUID) ([]model.Entity, error)
}

type evolveQuery struct {
	GenerationCount *int `form:"generationCount" binding:"omitempty,min=0"`
}

// stabilizationResponse is returned when a world cannot reach a final state
type stabilizationResponse struct {
	Error           string `json:"error"`
	Message         string `json:"message"`
	WorldIdentifier string `json:"worldIdentifier"`
	MaxGenerations  int    `json:"maxGenerations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HealthCheck reports that the service is up
func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, healthyResponse)
}

// CreateWorld accepts a JSON list of coordinates and responds with the new world id
func CreateWorld(svc WorldService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var coords []Coordinate
		if err := c.ShouldBindJSON(&coords); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid coordinates: " + err.Error()})
			return
		}

		id, err := svc.CreateWorld(c.Request.Context(), toEntities(coords))
		if err != nil {
			respondError(c, err)
			return
		}
		c.String(http.StatusCreated, id.String())
	}
}

// GetWorld responds with the current living cells
func GetWorld(svc WorldService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := worldID(c)
		if !ok {
			return
		}

		living, err := svc.LivingEntities(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCoordinates(living))
	}
}

// EvolveWorld evolves a world generationCount times (default 1)
func EvolveWorld(svc WorldService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := worldID(c)
		if !ok {
			return
		}

		var q evolveQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid generationCount: " + err.Error()})
			return
		}
		generations := 1
		if q.GenerationCount != nil {
			generations = *q.GenerationCount
		}

		living, err := svc.Evolve(c.Request.Context(), id, generations)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCoordinates(living))
	}
}

// EvolveWorldToFinal evolves a world until it stops changing
func EvolveWorldToFinal(svc WorldService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := worldID(c)
		if !ok {
			return
		}

		living, err := svc.EvolveToFinal(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCoordinates(living))
	}
}

func worldID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("worldId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid world identifier"})
		return uuid.Nil, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	var stabilizationErr *service.StabilizationError
	switch {
	case errors.As(err, &stabilizationErr):
		c.JSON(http.StatusInternalServerError, stabilizationResponse{
			Error:           stabilizationErr.Code(),
			Message:         stabilizationErr.Error(),
			WorldIdentifier: stabilizationErr.WorldID.String(),
			MaxGenerations:  stabilizationErr.MaxGenerations,
		})
	case errors.Is(err, repository.ErrWorldNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidGenerationCount):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
