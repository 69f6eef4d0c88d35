// Package health provides health check endpoint handler.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger checks that the itinerary backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler handles health check requests.
type Handler struct {
	backend Pinger
	timeout time.Duration
	logger  *zap.SugaredLogger
}

// New creates a new health handler instance.
func New(backend Pinger, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		backend: backend,
		timeout: 5 * time.Second,
		logger:  logger,
	}
}

// Response represents health check response.
type Response struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

// Check handles GET /health request.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.backend.Ping(ctx); err != nil {
		h.logger.Warnw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, Response{
			Status:  "unhealthy",
			Backend: "unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Status:  "ok",
		Backend: "ok",
	})
}
