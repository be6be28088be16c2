package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultOrigin is the dashboard dev server.
const DefaultOrigin = "http://localhost:3000"

// CORSMiddleware lets the dashboard at origin call the API from the browser.
func CORSMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = DefaultOrigin
	}
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		h.Set("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
