// Package config loads client configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds client configuration
type Config struct {
	Env      string
	LogLevel string

	// Backend
	APIBaseURL     string
	RequestTimeout time.Duration

	// UI timing
	PollInterval     time.Duration
	ToastDuration    time.Duration
	UploadCloseDelay time.Duration

	// Local dashboard server
	ListenAddr      string
	ServeKey        string
	ShutdownTimeout time.Duration

	// Secret used to seal the auth token at rest. Empty stores it unsealed.
	StorageKey string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := &Config{
		Env:        getEnv("ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "warn"),
		APIBaseURL: strings.TrimRight(getEnv("LUMEN_API_URL", "http://localhost:8000"), "/"),
		ListenAddr: getEnv("LUMEN_LISTEN_ADDR", "127.0.0.1:5173"),
		ServeKey:   os.Getenv("LUMEN_SERVE_KEY"),
		StorageKey: os.Getenv("STORAGE_KEY"),
	}

	durations := []struct {
		key  string
		def  time.Duration
		dest *time.Duration
	}{
		{"REQUEST_TIMEOUT", 30 * time.Second, &cfg.RequestTimeout},
		{"POLL_INTERVAL", 10 * time.Second, &cfg.PollInterval},
		{"TOAST_DURATION", 5 * time.Second, &cfg.ToastDuration},
		{"UPLOAD_CLOSE_DELAY", 2 * time.Second, &cfg.UploadCloseDelay},
		{"SHUTDOWN_TIMEOUT", 10 * time.Second, &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		v, err := parseDuration(d.key, os.Getenv(d.key), d.def)
		if err != nil {
			return nil, err
		}
		*d.dest = v
	}

	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return nil, fmt.Errorf("invalid LUMEN_API_URL %q: must start with http:// or https://", cfg.APIBaseURL)
	}

	return cfg, nil
}

func parseDuration(key, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
