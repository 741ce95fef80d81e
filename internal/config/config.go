package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	CORS        CORSConfig
	Auth        AuthConfig
	Log         LogConfig
	Cache       CacheConfig
	Maintenance MaintenanceConfig
	Portfolio   PortfolioConfig
	Env         string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// LogConfig holds logger configuration. An empty File logs to the console only.
type LogConfig struct {
	Level string
	File  string
}

// CacheConfig holds quote cache configuration. An empty RedisURL selects the in-process cache.
type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

// MaintenanceConfig holds the cron schedule of the maintenance job.
type MaintenanceConfig struct {
	Schedule string
}

// PortfolioConfig holds the defaults applied to new portfolios.
type PortfolioConfig struct {
	DefaultName    string
	DefaultBalance decimal.Decimal
}

// DefaultJWTSecret is used when JWT_SECRET is unset. Production deployments must override it.
const DefaultJWTSecret = "exchange-development-secret"

// New returns a viper instance with every key bound to its environment
// variable and default. Callers may bind command-line flags to it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "localhost")
	v.SetDefault("SERVER_PORT", "5001")
	v.SetDefault("DB_PATH", "./data/exchange.db")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("JWT_EXPIRES_IN", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("MAINTENANCE_SCHEDULE", "@daily")
	v.SetDefault("PORTFOLIO_DEFAULT_NAME", "My Portfolio")
	v.SetDefault("PORTFOLIO_DEFAULT_BALANCE", "10000.00")
	v.SetDefault("APP_ENV", "development")

	return v
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	return LoadViper(New())
}

// LoadViper is Load for a caller-supplied viper instance, such as one with
// command-line flags bound to it.
func LoadViper(v *viper.Viper) (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return FromViper(v)
}

// FromViper builds a Config from v, validating durations and amounts.
func FromViper(v *viper.Viper) (*Config, error) {
	tokenTTL, err := time.ParseDuration(v.GetString("JWT_EXPIRES_IN"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}
	if tokenTTL <= 0 {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: must be positive")
	}

	cacheTTL, err := time.ParseDuration(v.GetString("CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	balance, err := decimal.NewFromString(v.GetString("PORTFOLIO_DEFAULT_BALANCE"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORTFOLIO_DEFAULT_BALANCE: %w", err)
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("invalid PORTFOLIO_DEFAULT_BALANCE: must not be negative")
	}

	config := &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("DB_PATH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  tokenTTL,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
		Cache: CacheConfig{
			RedisURL: v.GetString("REDIS_URL"),
			TTL:      cacheTTL,
		},
		Maintenance: MaintenanceConfig{
			Schedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
		Portfolio: PortfolioConfig{
			DefaultName:    v.GetString("PORTFOLIO_DEFAULT_NAME"),
			DefaultBalance: balance,
		},
		Env: v.GetString("APP_ENV"),
	}

	if config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
