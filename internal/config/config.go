package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr     string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel     slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	StaticDir    string     `env:"STATIC_DIR" envDefault:"frontend"`
	MaxRangeDays int        `env:"MAX_RANGE_DAYS" envDefault:"3660"`

	// TZFixture replaces the embedded boundary dataset with a YAML polygon
	// file. Meant for tests and constrained deployments.
	TZFixture string `env:"TZ_FIXTURE"`
	// TZPreload builds the timezone index before the server starts. When
	// false it is built on the first request.
	TZPreload bool `env:"TZ_PRELOAD" envDefault:"true"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	CalendarName       string   `env:"CALENDAR_NAME"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.MaxRangeDays < 1 {
		return nil, fmt.Errorf("MAX_RANGE_DAYS must be positive, got %d", cfg.MaxRangeDays)
	}
	return &cfg, nil
}
