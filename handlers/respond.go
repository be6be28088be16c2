package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"behaviorlytics/api/models"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

// respondStoreError maps the error taxonomy onto HTTP statuses. Server side
// details stay in the log.
func respondStoreError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrUpstreamUnavailable):
		log.Printf("Store unavailable while %s: %v", op, err)
		respondError(c, http.StatusServiceUnavailable, "Event store is unavailable, please retry")
	case errors.Is(err, models.ErrDataIntegrity):
		log.Printf("Data integrity error while %s: %v", op, err)
		respondError(c, http.StatusInternalServerError, "Stored data failed integrity checks")
	default:
		log.Printf("Error while %s: %v", op, err)
		respondError(c, http.StatusInternalServerError, "Failed "+op)
	}
}
