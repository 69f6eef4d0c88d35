// Package handler provides HTTP handlers for statistics endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/trip_publisher/internal/statistics/service"
)

// Handler handles HTTP requests for statistics endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new statistics handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetPublishingStatistics handles GET /statistics/publishing request.
// @Summary Get publishing counters
// @Tags Statistics
// @Produce json
// @Success 200 {object} model.PublishingStatisticsResponse
// @Failure 500 {object} ErrorResponse
// @Router /statistics/publishing [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetPublishingStatistics(c *gin.Context) {
	resp, err := h.service.GetPublishingStatistics(c.Request.Context())
	if err != nil {
		h.logger.Errorw("error getting publishing statistics", "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorResponse(c *gin.Context, code, message string, status int) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	c.JSON(status, resp)
}
