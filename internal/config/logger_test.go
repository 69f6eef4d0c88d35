package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadLoggerConfigFromEnv_DefaultValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_OUTPUT", "")

	cfg := LoadLoggerConfigFromEnv()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
}

func TestLoadLoggerConfigFromEnv_CustomValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("LOG_OUTPUT", "stderr")

	cfg := LoadLoggerConfigFromEnv()
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
}

func TestLoggerConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    LoggerConfig
		wantError bool
	}{
		{name: "valid config", config: LoggerConfig{Level: "info", Format: "json", Output: "stdout"}},
		{name: "invalid level", config: LoggerConfig{Level: "invalid", Format: "json", Output: "stdout"}, wantError: true},
		{name: "invalid format", config: LoggerConfig{Level: "info", Format: "invalid", Output: "stdout"}, wantError: true},
		{name: "file output rejected", config: LoggerConfig{Level: "info", Format: "json", Output: "/var/log/trip.log"}, wantError: true},
		{name: "valid debug level", config: LoggerConfig{Level: "debug", Format: "console", Output: "stdout"}},
		{name: "valid warn level", config: LoggerConfig{Level: "warn", Format: "json", Output: "stderr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoggerConfig_IsProduction(t *testing.T) {
	tests := []struct {
		name     string
		config   LoggerConfig
		expected bool
	}{
		{name: "production config", config: LoggerConfig{Level: "info", Format: "json"}, expected: true},
		{name: "debug level is not production", config: LoggerConfig{Level: "debug", Format: "json"}},
		{name: "console format is not production", config: LoggerConfig{Level: "info", Format: "console"}},
		{name: "error level is production", config: LoggerConfig{Level: "error", Format: "json"}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsProduction())
		})
	}
}
