package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/dropradar/dropstack/api/handlers"
	"github.com/dropradar/dropstack/api/middleware"
	"github.com/dropradar/dropstack/internal/repository"
	"github.com/dropradar/dropstack/internal/tracing"
	"github.com/dropradar/dropstack/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, s *services.Services, repos *repository.Repositories, apikey string) {
	if s == nil {
		panic("Services cannot be nil")
	}
	if repos == nil {
		panic("Repositories cannot be nil")
	}

	r.Use(gin.Recovery())
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer()))

	// Health check endpoint, stays open
	r.GET("/health", handlers.HealthCheck)

	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  "X-DROPRADAR-API-KEY",
		ValidAPIKey: apikey,
	})

	v1 := r.Group("/v1")
	v1.Use(apiKeyMiddleware)
	v1.Use(middleware.TracingMiddleware())
	{
		domains := v1.Group("/domains")
		{
			domains.GET("", handlers.ListDomains(repos.DomainRecordRepository))
			domains.GET("/stats", handlers.DomainStats(repos.DomainRecordRepository))
			domains.GET("/:name", handlers.GetDomain(repos.DomainRecordRepository))
		}

		v1.POST("/ingest/run", handlers.RunIngest(s.IngestService))
		v1.POST("/sweep/run", handlers.RunSweep(s.SweepService))
	}
}
