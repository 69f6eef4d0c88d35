package config

import (
	"fmt"
	"net/url"
	"time"
)

// BackendConfig describes the external itinerary REST API.
type BackendConfig struct {
	// BaseURL is the API root, e.g. https://api.example.com/api/v1.
	BaseURL string
	// Timeout bounds every single backend request.
	Timeout time.Duration
	// RetryAttempts is the attempt budget for idempotent calls (community attach).
	RetryAttempts int
	// RetryInitialDelay is the first backoff delay.
	RetryInitialDelay time.Duration
}

// LoadBackendConfigFromEnv loads backend configuration from environment variables.
func LoadBackendConfigFromEnv() BackendConfig {
	return BackendConfig{
		BaseURL:           GetEnv("BACKEND_BASE_URL", "http://localhost:5000/api"),
		Timeout:           GetEnvDuration("BACKEND_TIMEOUT", 30*time.Second),
		RetryAttempts:     GetEnvInt("BACKEND_RETRY_ATTEMPTS", 3),
		RetryInitialDelay: GetEnvDuration("BACKEND_RETRY_INITIAL_DELAY", 200*time.Millisecond),
	}
}

// Validate validates backend configuration.
func (c BackendConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid BACKEND_BASE_URL: %q", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("BACKEND_BASE_URL must use http or https, got %s", u.Scheme)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("Timeout must be greater than 0")
	}
	if c.RetryAttempts <= 0 {
		return fmt.Errorf("RetryAttempts must be greater than 0")
	}
	if c.RetryInitialDelay < 0 {
		return fmt.Errorf("RetryInitialDelay must not be negative")
	}
	return nil
}
