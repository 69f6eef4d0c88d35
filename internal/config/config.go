// Package config provides environment-driven configuration for the publishing service.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Server holds HTTP server configuration.
	Server ServerConfig
	// Logger holds logger configuration.
	Logger LoggerConfig
	// Backend holds configuration of the external itinerary API.
	Backend BackendConfig
	// Upload holds asset upload limits.
	Upload UploadConfig
	// Session holds wizard session lifetime settings.
	Session SessionConfig
	// Publish holds submission settings.
	Publish PublishConfig
	// RateLimit holds per-client request limits.
	RateLimit RateLimitConfig
	// GinMode is the Gin framework mode (debug, release, test).
	GinMode string
}

// LoadDotEnv loads variables from a .env file when one exists.
// Variables already present in the environment win.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// LoadFromEnv loads all configuration from environment variables.
func LoadFromEnv() Config {
	return Config{
		Server:    LoadServerConfigFromEnv(),
		Logger:    LoadLoggerConfigFromEnv(),
		Backend:   LoadBackendConfigFromEnv(),
		Upload:    LoadUploadConfigFromEnv(),
		Session:   LoadSessionConfigFromEnv(),
		Publish:   LoadPublishConfigFromEnv(),
		RateLimit: LoadRateLimitConfigFromEnv(),
		GinMode:   GetEnv("GIN_MODE", "release"),
	}
}

// Validate validates all configuration.
func (c Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}

	if err := c.Backend.Validate(); err != nil {
		return fmt.Errorf("backend config validation failed: %w", err)
	}

	if err := c.Upload.Validate(); err != nil {
		return fmt.Errorf("upload config validation failed: %w", err)
	}

	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session config validation failed: %w", err)
	}

	if err := c.Publish.Validate(); err != nil {
		return fmt.Errorf("publish config validation failed: %w", err)
	}

	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("rate limit config validation failed: %w", err)
	}

	validGinModes := map[string]bool{
		"debug":   true,
		"release": true,
		"test":    true,
	}
	if !validGinModes[c.GinMode] {
		return fmt.Errorf("invalid GIN_MODE: %s (must be: debug, release, test)", c.GinMode)
	}

	return nil
}
