package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{" WARN ", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("writes to rotating file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "exchange.log")

		logger, closer, err := NewLogger(Options{Level: "info", File: path, JSON: true})
		if err != nil {
			t.Fatalf("NewLogger() returned unexpected error: %v", err)
		}

		logger.Info().Msg("hello")
		logger.Debug().Msg("hidden")
		if err := closer.Close(); err != nil {
			t.Fatalf("Close() returned unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "hello") {
			t.Errorf("Expected info line in log file, got %q", data)
		}
		if strings.Contains(string(data), "hidden") {
			t.Error("Expected debug line to be filtered")
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		if _, _, err := NewLogger(Options{Level: "chatty"}); err == nil {
			t.Error("Expected error for unknown level")
		}
	})
}
