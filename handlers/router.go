package handlers

import (
	"github.com/gin-gonic/gin"

	"behaviorlytics/api/metrics"
	"behaviorlytics/api/middleware"
	"behaviorlytics/api/store"
)

type RouterConfig struct {
	EventStore    store.EventStore
	PatternStore  store.PatternStore
	Metrics       *metrics.Metrics
	Pipeline      PipelineStats
	PatternWindow int
	AllowedOrigin string
}

// NewRouter wires every route of the API.
func NewRouter(cfg RouterConfig) *gin.Engine {
	trackHandlers := NewTrackHandlers(cfg.EventStore, cfg.Metrics)
	analyticsHandlers := NewAnalyticsHandlers(cfg.EventStore, cfg.PatternStore, cfg.PatternWindow)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigin))

	r.GET("/health", HealthCheck)
	r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	api := r.Group("/api")
	{
		api.POST("/track", trackHandlers.TrackEvent)

		analyticsGroup := api.Group("/analytics")
		{
			analyticsGroup.GET("/patterns", analyticsHandlers.GetPatterns)
			analyticsGroup.GET("/patterns/history", analyticsHandlers.GetPatternHistory)
			analyticsGroup.GET("/trends", analyticsHandlers.GetTrends)
		}

		api.GET("/pipeline/status", PipelineStatus(cfg.Pipeline))
	}

	return r
}
