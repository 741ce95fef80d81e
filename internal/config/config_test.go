package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/tahirturgut/exchange/internal/config"
)

func TestFromViper(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.FromViper(config.New())
		if err != nil {
			t.Fatalf("FromViper() returned unexpected error: %v", err)
		}

		if cfg.Server.Addr != "localhost:5001" {
			t.Errorf("Expected addr localhost:5001, got %s", cfg.Server.Addr)
		}
		if cfg.Auth.TokenTTL != 24*time.Hour {
			t.Errorf("Expected 24h token TTL, got %s", cfg.Auth.TokenTTL)
		}
		if cfg.Cache.TTL != 5*time.Minute {
			t.Errorf("Expected 5m cache TTL, got %s", cfg.Cache.TTL)
		}
		if cfg.Portfolio.DefaultName != "My Portfolio" || cfg.Portfolio.DefaultBalance.String() != "10000" {
			t.Errorf("Unexpected portfolio defaults: %+v", cfg.Portfolio)
		}
		if len(cfg.CORS.AllowedOrigins) != 2 {
			t.Errorf("Expected 2 CORS origins, got %v", cfg.CORS.AllowedOrigins)
		}
		if cfg.IsProduction() {
			t.Error("Expected development environment by default")
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
		t.Setenv("PORTFOLIO_DEFAULT_BALANCE", "2500.50")
		t.Setenv("APP_ENV", "Production")

		cfg, err := config.FromViper(config.New())
		if err != nil {
			t.Fatalf("FromViper() returned unexpected error: %v", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
		}
		if got := strings.Join(cfg.CORS.AllowedOrigins, "|"); got != "https://a.example|https://b.example" {
			t.Errorf("Unexpected origins: %s", got)
		}
		if cfg.Portfolio.DefaultBalance.String() != "2500.5" {
			t.Errorf("Expected balance 2500.5, got %s", cfg.Portfolio.DefaultBalance)
		}
		if !cfg.IsProduction() {
			t.Error("Expected production environment")
		}
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		tests := []struct {
			name  string
			key   string
			value string
		}{
			{"token ttl", "JWT_EXPIRES_IN", "tomorrow"},
			{"non-positive token ttl", "JWT_EXPIRES_IN", "0s"},
			{"cache ttl", "CACHE_TTL", "soon"},
			{"balance", "PORTFOLIO_DEFAULT_BALANCE", "lots"},
			{"negative balance", "PORTFOLIO_DEFAULT_BALANCE", "-1"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Setenv(tt.key, tt.value)

				if _, err := config.FromViper(config.New()); err == nil {
					t.Errorf("Expected error for %s=%q", tt.key, tt.value)
				}
			})
		}
	})
}
