package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vatcart/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db port.Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db port.Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Error: "database not reachable"})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
