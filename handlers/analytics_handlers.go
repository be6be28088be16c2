package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"behaviorlytics/api/analytics"
	"behaviorlytics/api/store"
	"behaviorlytics/api/utils"
)

const (
	DefaultPatternWindow = 1000
	DefaultTimeframe     = "7d"
	defaultHistoryLimit  = 50
	maxHistoryLimit      = 1000
)

type AnalyticsHandlers struct {
	EventStore    store.EventStore
	PatternStore  store.PatternStore
	PatternWindow int
	Now           func() time.Time
}

func NewAnalyticsHandlers(events store.EventStore, patterns store.PatternStore, window int) *AnalyticsHandlers {
	if window <= 0 {
		window = DefaultPatternWindow
	}
	return &AnalyticsHandlers{
		EventStore:    events,
		PatternStore:  patterns,
		PatternWindow: window,
		Now:           time.Now,
	}
}

// GetPatterns analyzes the most recent window of events, optionally for one user.
func (h *AnalyticsHandlers) GetPatterns(c *gin.Context) {
	userID := c.Query("user_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	window, err := h.EventStore.Query(ctx, store.EventFilter{UserID: userID, Limit: h.PatternWindow})
	if err != nil {
		respondStoreError(c, "fetching interactions", err)
		return
	}

	patterns, err := analytics.Analyze(window, userID)
	if err != nil {
		respondStoreError(c, "analyzing patterns", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"patterns": patterns,
		"accuracy": analytics.LabelConfidence,
	})
}

// GetTrends summarizes every event newer than now minus the requested timeframe.
func (h *AnalyticsHandlers) GetTrends(c *gin.Context) {
	timeframe := c.DefaultQuery("timeframe", DefaultTimeframe)
	lookback, err := utils.ParseTimeframe(timeframe)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	since := h.Now().UTC().Add(-lookback)
	events, err := h.EventStore.Query(ctx, store.EventFilter{Since: since})
	if err != nil {
		respondStoreError(c, "fetching interactions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"trends": analytics.Trends(events),
	})
}

// GetPatternHistory lists patterns stored by the pipeline, newest first.
func (h *AnalyticsHandlers) GetPatternHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed <= 0 || parsed > maxHistoryLimit {
			respondError(c, http.StatusBadRequest, "Invalid 'limit' parameter. Must be between 1 and "+strconv.Itoa(maxHistoryLimit)+".")
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	patterns, err := h.PatternStore.ListPatterns(ctx, c.Query("user_id"), limit)
	if err != nil {
		respondStoreError(c, "fetching pattern history", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"patterns": patterns,
	})
}
