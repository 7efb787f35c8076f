package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"LUMEN_API_URL", "REQUEST_TIMEOUT", "POLL_INTERVAL", "TOAST_DURATION", "UPLOAD_CLOSE_DELAY", "LUMEN_LISTEN_ADDR", "ENV"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Errorf("PollInterval = %v, want 10s", cfg.PollInterval)
	}
	if cfg.ToastDuration != 5*time.Second {
		t.Errorf("ToastDuration = %v, want 5s", cfg.ToastDuration)
	}
	if cfg.UploadCloseDelay != 2*time.Second {
		t.Errorf("UploadCloseDelay = %v, want 2s", cfg.UploadCloseDelay)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LUMEN_API_URL", "https://api.lumen.test/")
	t.Setenv("POLL_INTERVAL", "250ms")
	t.Setenv("TOAST_DURATION", "1s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "https://api.lumen.test" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.APIBaseURL)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.ToastDuration != time.Second {
		t.Errorf("ToastDuration = %v", cfg.ToastDuration)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad duration", "POLL_INTERVAL", "soon"},
		{"negative duration", "REQUEST_TIMEOUT", "-1s"},
		{"zero duration", "TOAST_DURATION", "0s"},
		{"bad url", "LUMEN_API_URL", "localhost:8000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}
