package config

import "time"

// Config holds runtime settings shared by the dashboard host and the CLI.
//
// Units: RequestTimeout is a time.Duration (e.g., 15*time.Second).
type Config struct {
	AuthServiceURL string
	APIBaseURL     string
	ListenAddr     string
	HealthAddr     string
	DatabasePath   string
	SessionSecret  string
	RequestTimeout time.Duration
	LogLevel       string
	LogBackend     string
}

// DevSessionSecret is the built-in session secret. Deployments override it
// with SESSION_SECRET.
const DevSessionSecret = "admindash-dev-secret"

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AuthServiceURL = "http://localhost:8081"
	c.APIBaseURL = "http://localhost:8080"
	c.ListenAddr = "127.0.0.1:3000"
	c.HealthAddr = "127.0.0.1:3001"
	c.DatabasePath = "dashboard.db"
	c.SessionSecret = DevSessionSecret
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.LogBackend = "slog"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
