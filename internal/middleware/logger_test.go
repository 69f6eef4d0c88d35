package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func setupTestRouter(logger *zap.SugaredLogger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger(logger))
	r.GET("/wizard/sessions/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	r.GET("/error", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
	})
	r.GET("/server-error", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
	return r
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		level zapcore.Level
	}{
		{"successful request", "/wizard/sessions/abc", zapcore.InfoLevel},
		{"client error", "/error", zapcore.WarnLevel},
		{"server error", "/server-error", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			router := setupTestRouter(zap.New(core).Sugar())

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tt.level, logs.All()[0].Level)
		})
	}
}

func TestLogger_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	router := setupTestRouter(zap.New(core).Sugar())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/wizard/sessions/abc", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	router.ServeHTTP(w, req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/wizard/sessions/:id", fields["route"])
	assert.Equal(t, "abc", fields["session_id"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.Contains(t, fields, "size")
}

func TestLogger_UnmatchedRoute(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	router := setupTestRouter(zap.New(core).Sugar())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, 1, logs.Len())
	assert.NotContains(t, logs.All()[0].ContextMap(), "route")
}
