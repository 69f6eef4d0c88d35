// Package router provides wizard module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/trip_publisher/internal/wizard/handler"
	"github.com/festy23/trip_publisher/internal/wizard/service"
)

// RegisterRoutes registers wizard module routes. maxBodySize bounds multipart uploads.
func RegisterRoutes(r gin.IRouter, svc service.Service, logger *zap.SugaredLogger, maxBodySize int64) {
	h := handler.New(svc, logger, maxBodySize)

	r.POST("/wizard/sessions", h.CreateSession)

	s := r.Group("/wizard/sessions/:id")
	s.GET("", h.GetSession)
	s.DELETE("", h.DeleteSession)

	s.PATCH("/fields", h.SetFields)
	s.POST("/tags", h.AddTags)
	s.DELETE("/tags/:value", h.RemoveTag)
	s.POST("/categories/toggle", h.ToggleCategory)
	s.POST("/team", h.AddTeamMember)
	s.DELETE("/team/:index", h.RemoveTeamMember)

	s.POST("/screenshots", h.UploadScreenshots)
	s.DELETE("/screenshots/:index", h.RemoveScreenshot)
	s.GET("/screenshots/:index/preview", h.GetPreview)
	s.POST("/guide", h.UploadGuide)
	s.DELETE("/guide", h.RemoveGuide)
	s.POST("/communities/toggle", h.ToggleCommunity)

	s.POST("/next", h.Next)
	s.POST("/back", h.Back)
	s.POST("/step", h.GoTo)
	s.POST("/submit", h.Submit)
	s.POST("/dismiss", h.Dismiss)
}
