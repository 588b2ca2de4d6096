// internal/handlers/health.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
