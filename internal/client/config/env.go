package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the process environment win over it.
func parseEnv(cfg *Config) {
	_ = godotenv.Load(".env")

	cfg.AuthServiceURL = getString("AUTH_SERVICE_URL", cfg.AuthServiceURL)
	cfg.APIBaseURL = getString("API_BASE_URL", cfg.APIBaseURL)
	cfg.ListenAddr = getString("LISTEN_ADDR", cfg.ListenAddr)
	cfg.HealthAddr = getString("HEALTH_ADDR", cfg.HealthAddr)
	cfg.DatabasePath = getString("DATABASE_PATH", cfg.DatabasePath)
	cfg.SessionSecret = getString("SESSION_SECRET", cfg.SessionSecret)
	cfg.RequestTimeout = getDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.LogLevel = getString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogBackend = getString("LOG_BACKEND", cfg.LogBackend)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getDuration accepts Go duration syntax or a plain number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
