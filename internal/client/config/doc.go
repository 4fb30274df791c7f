// Package config loads runtime configuration for the AdminDash dashboard
// host and CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, with an optional .env file (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   authentication service base URL
//	-b string   tenant/branch API base URL
//	-l string   dashboard listen address
//	-g string   gRPC health listen address
//	-d string   local SQLite database path
//	-t int      remote request timeout (seconds)
//
// Environment
//
//	AUTH_SERVICE_URL, API_BASE_URL, LISTEN_ADDR, HEALTH_ADDR, DATABASE_PATH,
//	SESSION_SECRET, REQUEST_TIMEOUT, LOG_LEVEL, LOG_BACKEND
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "15s" or integer nanoseconds:
//
//	{
//	  "auth_service_url": "https://auth.example.com",
//	  "request_timeout": "15s",
//	  "log_backend": "zap"
//	}
package config
