// File: internal/handler/http/health_handler.go
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health answers liveness probes.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
