package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/admindash/internal/flagx"
	"github.com/dmitrijs2005/admindash/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as a
// string like "15s" or as integer nanoseconds.
type JsonConfig struct {
	AuthServiceURL string         `json:"auth_service_url"`
	APIBaseURL     string         `json:"api_base_url"`
	ListenAddr     string         `json:"listen_addr"`
	HealthAddr     string         `json:"health_addr"`
	DatabasePath   string         `json:"database_path"`
	SessionSecret  string         `json:"session_secret"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LogLevel       string         `json:"log_level"`
	LogBackend     string         `json:"log_backend"`
}

// parseJson overlays Config with the non-empty values of the JSON file named
// by -c or -config. Without either flag nothing happens. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.AuthServiceURL, jc.AuthServiceURL)
	overlay(&cfg.APIBaseURL, jc.APIBaseURL)
	overlay(&cfg.ListenAddr, jc.ListenAddr)
	overlay(&cfg.HealthAddr, jc.HealthAddr)
	overlay(&cfg.DatabasePath, jc.DatabasePath)
	overlay(&cfg.SessionSecret, jc.SessionSecret)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.LogBackend, jc.LogBackend)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
