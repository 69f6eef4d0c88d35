// Package router provides statistics module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/trip_publisher/internal/statistics/handler"
	"github.com/festy23/trip_publisher/internal/statistics/service"
)

// RegisterRoutes registers statistics module routes.
func RegisterRoutes(r gin.IRouter, svc service.Service, logger *zap.SugaredLogger) {
	h := handler.New(svc, logger)

	r.GET("/statistics/publishing", h.GetPublishingStatistics)
}
