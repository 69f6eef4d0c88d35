package config

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// Host is the server host (empty string means all interfaces).
	Host string
	// Port is the server port (e.g., ":8080" or "8080").
	Port string
	// ReadTimeout is the maximum duration for reading the entire request.
	// Multipart screenshot uploads go through this limit.
	ReadTimeout time.Duration
	// ReadHeaderTimeout bounds reading request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request.
	IdleTimeout time.Duration
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
	// AllowedOrigins lists CORS origins allowed to drive the wizard.
	AllowedOrigins []string
	// AllowCredentials lets browsers send cookies and auth headers cross-origin.
	// It cannot be combined with the "*" origin.
	AllowCredentials bool
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is believed.
	// Empty means the client IP is always the TCP peer.
	TrustedProxies []string
}

// LoadServerConfigFromEnv loads server configuration from environment variables.
func LoadServerConfigFromEnv() ServerConfig {
	return ServerConfig{
		Host:              GetEnv("SERVER_HOST", ""),
		Port:              GetEnv("SERVER_PORT", ":8080"),
		ReadTimeout:       GetEnvDuration("SERVER_READ_TIMEOUT", 60*time.Second),
		ReadHeaderTimeout: GetEnvDuration("SERVER_READ_HEADER_TIMEOUT", 2*time.Second),
		WriteTimeout:      GetEnvDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
		IdleTimeout:       GetEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout:   GetEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		AllowedOrigins:    GetEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		AllowCredentials:  GetEnvBool("CORS_ALLOW_CREDENTIALS", false),
		TrustedProxies:    GetEnvList("SERVER_TRUSTED_PROXIES", nil),
	}
}

// GetAddress returns the full server address (host:port).
func (c ServerConfig) GetAddress() string {
	if c.Host == "" {
		return c.Port
	}

	// net.JoinHostPort adds the colon itself
	port := strings.TrimPrefix(c.Port, ":")
	return net.JoinHostPort(c.Host, port)
}

// Validate validates server configuration.
func (c ServerConfig) Validate() error {
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("ReadTimeout must be greater than 0")
	}
	if c.ReadHeaderTimeout <= 0 {
		return fmt.Errorf("ReadHeaderTimeout must be greater than 0")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("WriteTimeout must be greater than 0")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("IdleTimeout must be greater than 0")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("ShutdownTimeout must be greater than 0")
	}
	if c.AllowCredentials {
		for _, origin := range c.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf("AllowCredentials cannot be used with the * origin")
			}
		}
	}
	for _, proxy := range c.TrustedProxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			return fmt.Errorf("TrustedProxies entry %q is not an IP or CIDR", proxy)
		}
	}
	return nil
}
