package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port                    string   `envconfig:"PORT" default:"8080"`
	Environment             string   `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel                string   `envconfig:"LOG_LEVEL" default:"info"`
	MongoDBURI              string   `envconfig:"MONGODB_URI" required:"true"`
	MongoDBPassword         string   `envconfig:"MONGODB_PASSWORD"`
	MongoDBName             string   `envconfig:"MONGODB_DB_NAME" default:"courtdesk"`
	MongoDBTransactions     bool     `envconfig:"MONGODB_TRANSACTIONS" default:"false"`
	Timezone                string   `envconfig:"TIMEZONE" default:"Local"`
	CORSOrigins             []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	RateLimitRPS            float64  `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst          int      `envconfig:"RATE_LIMIT_BURST" default:"40"`
	CompletionSweepSchedule string   `envconfig:"COMPLETION_SWEEP_SCHEDULE" default:"@every 15m"`
	CloudinaryURL           string   `envconfig:"CLOUDINARY_URL"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	// required only checks presence; MONGODB_URI="" passes it
	if strings.TrimSpace(cfg.MongoDBURI) == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS < 0 || cfg.RateLimitBurst < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Location resolves TIMEZONE, used to read timestamps and dates sent without an offset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
