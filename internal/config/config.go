// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath       string        `env:"DB_PATH" envDefault:"data/dartscore.db"`
	RedisURL     string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	LogLevel     slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	HistoryLimit int           `env:"HISTORY_LIMIT" envDefault:"50"`
	SaveTTL      time.Duration `env:"SAVE_TTL" envDefault:"168h"`
	// AdminTokenHash is a bcrypt hash. Clearing history is disabled when empty.
	AdminTokenHash string `env:"ADMIN_TOKEN_HASH"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.HistoryLimit < 1 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be positive, got %d", cfg.HistoryLimit)
	}
	if cfg.SaveTTL < 0 {
		return nil, fmt.Errorf("SAVE_TTL must not be negative, got %s", cfg.SaveTTL)
	}
	return &cfg, nil
}
