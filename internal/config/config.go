// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all configuration values for the console server.
// Every value has a default: a local single-user console must start with
// zero setup.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DBPath is the SQLite database file backing the record store.
	// Defaults to "fleetdesk.db" in the working directory.
	DBPath string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// PrivilegedSector names the oversight sector whose members get
	// administrator-equivalent visibility and approval rights.
	PrivilegedSector string
}

// defaultPrivilegedSector is the designated oversight sector of the legacy
// deployment.
const defaultPrivilegedSector = "STA - SUPERVISÃO DE TRANSPORTE ADMINISTRATIVO"

// Load reads configuration from environment variables and returns a Config.
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "fleetdesk.db"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		PrivilegedSector: getEnv("PRIVILEGED_SECTOR", defaultPrivilegedSector),
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("config.Load: invalid LOG_LEVEL %q", cfg.LogLevel)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
