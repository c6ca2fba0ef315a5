package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health responds to liveness probes.
// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "console",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Hello is a trivial unauthenticated greeting endpoint.
// GET /api/hello?name=
func Hello(c *gin.Context) {
	name := c.DefaultQuery("name", "world")
	c.JSON(http.StatusOK, gin.H{"greeting": "Hello, " + name + "!"})
}
