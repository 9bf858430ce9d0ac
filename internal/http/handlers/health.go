// Grounded on internal/http/handlers/health.go.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-backend/internal/graphquery"
)

type HealthHandler struct {
	queries *graphquery.Queries
}

func NewHealthHandler(queries *graphquery.Queries) *HealthHandler {
	return &HealthHandler{queries: queries}
}

// HealthCheck handles GET /healthz: verifies the graph driver is reachable.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if err := h.queries.Healthy(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
