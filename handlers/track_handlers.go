package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"behaviorlytics/api/metrics"
	"behaviorlytics/api/models"
	"behaviorlytics/api/store"
)

type TrackHandlers struct {
	EventStore store.EventStore
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

func NewTrackHandlers(s store.EventStore, m *metrics.Metrics) *TrackHandlers {
	return &TrackHandlers{
		EventStore: s,
		Metrics:    m,
		Now:        time.Now,
	}
}

// TrackEvent stores one interaction. The id and timestamp are assigned here.
func (h *TrackHandlers) TrackEvent(c *gin.Context) {
	var req models.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Error binding track request: %v", err)
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	event, err := req.Event(uuid.New().String(), h.Now())
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	id, err := h.EventStore.Append(ctx, event)
	if err != nil {
		respondStoreError(c, "recording interaction", err)
		return
	}
	h.Metrics.InteractionsTracked.Inc()

	c.JSON(http.StatusCreated, gin.H{
		"status":         "success",
		"interaction_id": id,
	})
}
