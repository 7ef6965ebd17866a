// Package api exposes the Game of Life service over HTTP.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes registers every endpoint on router. gatherer may be nil to skip /metrics.
func SetupRoutes(router *gin.Engine, svc WorldService, gatherer prometheus.Gatherer) {
	router.GET("/health", HealthCheck)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		worlds := v1.Group("/gameoflife")
		{
			worlds.POST("", CreateWorld(svc))
			worlds.GET("/:worldId", GetWorld(svc))
			worlds.PUT("/:worldId/evolve", EvolveWorld(svc))
			worlds.PUT("/:worldId/evolve/final", EvolveWorldToFinal(svc))
		}
	}
}
