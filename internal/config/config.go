package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	JWTSecret      string `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	HistoryLimit   int    `envconfig:"HISTORY_LIMIT" default:"100"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	SurfaceWidth   int    `envconfig:"SURFACE_WIDTH" default:"1280"`
	SurfaceHeight  int    `envconfig:"SURFACE_HEIGHT" default:"720"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SurfaceWidth <= 0 || cfg.SurfaceHeight <= 0 {
		return nil, fmt.Errorf("surface size %dx%d must be positive", cfg.SurfaceWidth, cfg.SurfaceHeight)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Level parses LOG_LEVEL (debug, info, warn, error).
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
