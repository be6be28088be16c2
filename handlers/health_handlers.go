package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"behaviorlytics/api/pipeline"
)

// HealthCheck is the liveness probe. It never touches the stores.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// PipelineStats is implemented by *pipeline.Pipeline.
type PipelineStats interface {
	Stats() pipeline.Snapshot
}

// PipelineStatus reports the pattern pipeline counters. A nil source means
// the pipeline is disabled.
func PipelineStatus(source PipelineStats) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := pipeline.Snapshot{}
		enabled := source != nil
		if enabled {
			snap = source.Stats()
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "success",
			"enabled":  enabled,
			"pipeline": snap,
		})
	}
}
