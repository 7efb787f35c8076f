package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"error", zapcore.ErrorLevel},
		{"warn", zapcore.WarnLevel},
		{"", zapcore.WarnLevel},
		{"verbose", zapcore.WarnLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGet_InitializesLazily(t *testing.T) {
	if Get() == nil {
		t.Fatal("expected a logger")
	}
	Sync()
}
