package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("DATABASE_PATH", "/tmp/x.db")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/x.db", cfg.DatabasePath)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://localhost:8081", cfg.AuthServiceURL)
}

func TestGetDuration(t *testing.T) {
	tests := []struct {
		name string
		val  string
		want time.Duration
	}{
		{"go syntax", "2m", 2 * time.Minute},
		{"seconds", "30", 30 * time.Second},
		{"garbage keeps fallback", "soon", 5 * time.Second},
		{"empty keeps fallback", "", 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REQUEST_TIMEOUT", tt.val)
			assert.Equal(t, tt.want, getDuration("REQUEST_TIMEOUT", 5*time.Second))
		})
	}
}
