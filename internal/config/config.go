// Package config provides configuration loading and validation from environment variables.
package config

import (
	"fmt"
	"os"
)

// Config holds all configuration for the dashboard gateway.
type Config struct {
	LogLevel          string // debug, info, warn, error
	ListenAddr        string // Server listen address (e.g., ":8080")
	SolarAPIURL       string // Required: base URL of the solar backend API
	MetricsListenAddr string // Metrics listener address (e.g., "localhost:9090")
	CookieSecure      bool   // Mark session cookies Secure (set behind TLS)
}

// Load parses configuration from environment variables.
// All optional fields have defaults suitable for local development.
func Load() (*Config, error) {
	logLevel := os.Getenv("LOG_LEVEL")
	listenAddr := os.Getenv("LISTEN_ADDR")
	solarAPIURL := os.Getenv("SOLAR_API_URL")
	metricsListenAddr := os.Getenv("METRICS_LISTEN_ADDR")
	cookieSecure := os.Getenv("COOKIE_SECURE")

	if logLevel == "" {
		logLevel = "info"
	}

	if listenAddr == "" {
		listenAddr = ":8080"
	}

	if metricsListenAddr == "" {
		metricsListenAddr = "localhost:9090"
	}

	cfg := &Config{
		LogLevel:          logLevel,
		ListenAddr:        listenAddr,
		SolarAPIURL:       solarAPIURL,
		MetricsListenAddr: metricsListenAddr,
		CookieSecure:      cookieSecure == "true" || cookieSecure == "1",
	}

	return cfg, nil
}

// Validate checks all configuration constraints.
func (c *Config) Validate() error {
	if c.SolarAPIURL == "" {
		return fmt.Errorf("SOLAR_API_URL environment variable is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q (want debug, info, warn or error)", c.LogLevel)
	}
	return nil
}
