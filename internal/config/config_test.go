package config

import (
	"os"
	"testing"
)

func TestLoad_DefaultValues(t *testing.T) {
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("LISTEN_ADDR")
	os.Unsetenv("SOLAR_API_URL")
	os.Unsetenv("METRICS_LISTEN_ADDR")
	os.Unsetenv("COOKIE_SECURE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q (default)", cfg.LogLevel, "info")
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want %q (default)", cfg.ListenAddr, ":8080")
	}
	if cfg.MetricsListenAddr != "localhost:9090" {
		t.Errorf("MetricsListenAddr = %q, want %q (default)", cfg.MetricsListenAddr, "localhost:9090")
	}
	if cfg.SolarAPIURL != "" {
		t.Errorf("SolarAPIURL = %q, want empty string (default)", cfg.SolarAPIURL)
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure = true, want false (default)")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("SOLAR_API_URL", "http://mocksolar:8081")
	t.Setenv("METRICS_LISTEN_ADDR", "localhost:9999")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":9000")
	}
	if cfg.SolarAPIURL != "http://mocksolar:8081" {
		t.Errorf("SolarAPIURL = %q, want %q", cfg.SolarAPIURL, "http://mocksolar:8081")
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure = false, want true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{LogLevel: "info", SolarAPIURL: "http://backend:8081"}, false},
		{"missing backend URL", Config{LogLevel: "info"}, true},
		{"bad log level", Config{LogLevel: "verbose", SolarAPIURL: "http://backend:8081"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}
