package main

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Config is read from the environment after an optional .env file
type Config struct {
	RedisURL    string        `env:"SHEET_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	LogLevel    string        `env:"SHEET_LOG_LEVEL" envDefault:"warn"`
	LogFormat   string        `env:"SHEET_LOG_FORMAT" envDefault:"text"`
	MetricsFile string        `env:"SHEET_METRICS_FILE"`
	HistorySize int           `env:"SHEET_HISTORY_SIZE" envDefault:"10"`
	PendingTTL  time.Duration `env:"SHEET_PENDING_TTL" envDefault:"5m"`
	APIBaseURL  string        `env:"SHEET_DND5E_API_URL"`
}

// Validate checks the values the environment cannot type-check
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.RedisURL == "" {
		vb.RequiredField("SHEET_REDIS_URL")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		vb.InvalidField("SHEET_LOG_LEVEL", err.Error())
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		vb.InvalidField("SHEET_LOG_FORMAT", "must be text or json")
	}
	if c.HistorySize < 1 {
		vb.InvalidField("SHEET_HISTORY_SIZE", "must be at least 1")
	}
	if c.PendingTTL <= 0 {
		vb.InvalidField("SHEET_PENDING_TTL", "must be positive")
	}

	return vb.Build()
}

// loadConfig reads envFile when it exists, then the process environment
func loadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		// a missing .env is normal outside development
		_ = godotenv.Load(envFile)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return l, err
	}
	return l, nil
}

// newLogger builds the process logger; logs go to stderr so command output stays parseable
func newLogger(w io.Writer, cfg *Config) *slog.Logger {
	level, _ := parseLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
