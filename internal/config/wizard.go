package config

import (
	"fmt"
	"time"
)

const (
	// DefaultImageMaxBytes is the screenshot size limit (10 MiB).
	DefaultImageMaxBytes int64 = 10 << 20
	// DefaultPDFMaxBytes is the travel guide size limit (25 MiB).
	DefaultPDFMaxBytes int64 = 25 << 20
)

// UploadConfig holds asset upload limits.
type UploadConfig struct {
	// ImageMaxBytes is the largest accepted screenshot.
	ImageMaxBytes int64
	// PDFMaxBytes is the largest accepted travel guide.
	PDFMaxBytes int64
	// RatePerSecond paces sequential uploads inside one batch (0 disables pacing).
	RatePerSecond float64
	// PreviewWidth is the width of generated screenshot previews in pixels.
	PreviewWidth int
}

// LoadUploadConfigFromEnv loads upload configuration from environment variables.
func LoadUploadConfigFromEnv() UploadConfig {
	return UploadConfig{
		ImageMaxBytes: GetEnvInt64("UPLOAD_IMAGE_MAX_BYTES", DefaultImageMaxBytes),
		PDFMaxBytes:   GetEnvInt64("UPLOAD_PDF_MAX_BYTES", DefaultPDFMaxBytes),
		RatePerSecond: GetEnvFloat("UPLOAD_RATE_PER_SECOND", 0),
		PreviewWidth:  GetEnvInt("UPLOAD_PREVIEW_WIDTH", 320),
	}
}

// Validate validates upload configuration.
func (c UploadConfig) Validate() error {
	if c.ImageMaxBytes <= 0 {
		return fmt.Errorf("ImageMaxBytes must be greater than 0")
	}
	if c.PDFMaxBytes <= 0 {
		return fmt.Errorf("PDFMaxBytes must be greater than 0")
	}
	if c.RatePerSecond < 0 {
		return fmt.Errorf("RatePerSecond must not be negative")
	}
	if c.PreviewWidth <= 0 {
		return fmt.Errorf("PreviewWidth must be greater than 0")
	}
	return nil
}

// MultipartLimit is the largest request body the upload endpoints accept.
func (c UploadConfig) MultipartLimit() int64 {
	if c.PDFMaxBytes > c.ImageMaxBytes {
		return c.PDFMaxBytes
	}
	return c.ImageMaxBytes
}

// SessionConfig holds wizard session lifetime settings.
type SessionConfig struct {
	// TTL is how long an untouched session survives.
	TTL time.Duration
	// SweepInterval is how often expired sessions are evicted.
	SweepInterval time.Duration
}

// LoadSessionConfigFromEnv loads session configuration from environment variables.
func LoadSessionConfigFromEnv() SessionConfig {
	return SessionConfig{
		TTL:           GetEnvDuration("SESSION_TTL", 2*time.Hour),
		SweepInterval: GetEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),
	}
}

// Validate validates session configuration.
func (c SessionConfig) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("TTL must be greater than 0")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SweepInterval must be greater than 0")
	}
	return nil
}

// PublishConfig holds submission settings.
type PublishConfig struct {
	// FanOutConcurrency caps simultaneous community attach requests.
	FanOutConcurrency int
	// SubmitTimeout bounds the create call plus fan-out.
	SubmitTimeout time.Duration
}

// LoadPublishConfigFromEnv loads publish configuration from environment variables.
func LoadPublishConfigFromEnv() PublishConfig {
	return PublishConfig{
		FanOutConcurrency: GetEnvInt("FANOUT_CONCURRENCY", 5),
		SubmitTimeout:     GetEnvDuration("SUBMIT_TIMEOUT", 60*time.Second),
	}
}

// Validate validates publish configuration.
func (c PublishConfig) Validate() error {
	if c.FanOutConcurrency <= 0 {
		return fmt.Errorf("FanOutConcurrency must be greater than 0")
	}
	if c.SubmitTimeout <= 0 {
		return fmt.Errorf("SubmitTimeout must be greater than 0")
	}
	return nil
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained per-client rate (0 disables limiting).
	RequestsPerSecond float64
	// Burst is the token bucket size.
	Burst int
	// IdleTTL is how long an idle client's limiter is kept.
	IdleTTL time.Duration
}

// LoadRateLimitConfigFromEnv loads rate limit configuration from environment variables.
func LoadRateLimitConfigFromEnv() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: GetEnvFloat("RATE_LIMIT_RPS", 20),
		Burst:             GetEnvInt("RATE_LIMIT_BURST", 40),
		IdleTTL:           GetEnvDuration("RATE_LIMIT_IDLE_TTL", 10*time.Minute),
	}
}

// Validate validates rate limit configuration.
func (c RateLimitConfig) Validate() error {
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("RequestsPerSecond must not be negative")
	}
	if c.RequestsPerSecond > 0 && c.Burst <= 0 {
		return fmt.Errorf("Burst must be greater than 0 when rate limiting is enabled")
	}
	if c.IdleTTL <= 0 {
		return fmt.Errorf("IdleTTL must be greater than 0")
	}
	return nil
}

// Enabled reports whether per-client rate limiting is on.
func (c RateLimitConfig) Enabled() bool {
	return c.RequestsPerSecond > 0
}
