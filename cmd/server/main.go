// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/festy23/trip_publisher/internal/backend"
	"github.com/festy23/trip_publisher/internal/config"
	"github.com/festy23/trip_publisher/internal/health"
	"github.com/festy23/trip_publisher/internal/middleware"
	"github.com/festy23/trip_publisher/internal/publish"
	statsRepository "github.com/festy23/trip_publisher/internal/statistics/repository"
	statsRouter "github.com/festy23/trip_publisher/internal/statistics/router"
	statsService "github.com/festy23/trip_publisher/internal/statistics/service"
	"github.com/festy23/trip_publisher/internal/upload"
	"github.com/festy23/trip_publisher/internal/wizard/collections"
	wizardRouter "github.com/festy23/trip_publisher/internal/wizard/router"
	wizardService "github.com/festy23/trip_publisher/internal/wizard/service"
	"github.com/festy23/trip_publisher/internal/wizard/session"
	"github.com/festy23/trip_publisher/internal/wizard/validate"
	"github.com/festy23/trip_publisher/pkg/logger"
)

// activeSessions adapts the session store to the statistics counter.
type activeSessions struct {
	store *wizardService.Store
}

func (a activeSessions) Active() int {
	return a.store.Len()
}

func main() {
	if err := config.LoadDotEnv(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	appLogger, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	// ClientIP keys the rate limiter, so forwarded headers count only from known proxies.
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		appLogger.Fatalw("Invalid trusted proxies", "error", err)
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger.Named(appLogger, "http")))
	r.Use(middleware.Recovery(appLogger))
	r.Use(middleware.SecurityHeaders())
	if cfg.RateLimit.Enabled() {
		limiter := middleware.NewRateLimiter(cfg.RateLimit)
		go limiter.Run(ctx, cfg.RateLimit.IdleTTL)
		r.Use(limiter.Middleware())
	}

	client := backend.New(cfg.Backend, backend.ContextToken{}, logger.Named(appLogger, "backend"))
	orchestrator := upload.New(client, cfg.Upload, logger.Named(appLogger, "upload"))
	publisher := publish.NewPublisher(client, cfg.Publish.FanOutConcurrency, logger.Named(appLogger, "publish"))

	store := wizardService.NewStore(cfg.Session.TTL, cfg.Session.SweepInterval, logger.Named(appLogger, "sessions"))
	defer store.Close()

	stats := statsService.New(statsRepository.New(), activeSessions{store: store}, appLogger)
	wizard := wizardService.New(store, session.Deps{
		Registry:  validate.New(),
		Uploader:  orchestrator,
		Publisher: publisher,
		Recorder:  stats,
		Logger:    logger.Named(appLogger, "wizard"),
	}, cfg.Publish.SubmitTimeout, appLogger)

	r.GET("/health", health.New(client, appLogger).Check)
	maxBody := cfg.Upload.MultipartLimit() * int64(collections.MaxScreenshots+1)
	wizardRouter.RegisterRoutes(r, wizard, appLogger, maxBody)
	statsRouter.RegisterRoutes(r, stats, appLogger)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: cfg.Server.AllowCredentials,
		MaxAge:           600,
	})

	srv := &http.Server{
		Addr:              cfg.Server.GetAddress(),
		Handler:           corsHandler.Handler(r),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Infow("Starting server", "address", srv.Addr, "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Errorw("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Infow("Shutting down server", "active_sessions", store.Len())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorw("Graceful shutdown failed", "error", err, "timeout", cfg.Server.ShutdownTimeout)
	}
}
