package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings of the demo command.
type Config struct {
	LogLevel        string        `env:"FSM_LOG_LEVEL" envDefault:"info"`
	TickRate        time.Duration `env:"FSM_TICK_RATE" envDefault:"16ms"`
	MaxDelta        time.Duration `env:"FSM_MAX_DELTA" envDefault:"250ms"`
	Duration        time.Duration `env:"FSM_DURATION" envDefault:"5s"`
	HistoryCapacity int           `env:"FSM_HISTORY_CAPACITY" envDefault:"16"`
	MetricsAddr     string        `env:"FSM_METRICS_ADDR"`
}

// Load reads an optional .env file from the working directory, then
// parses the environment into a Config.
func Load(filenames ...string) (Config, error) {
	// a missing .env file is fine
	_ = godotenv.Load(filenames...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate must be positive, got %s", ErrInvalidConfig, c.TickRate)
	}
	if c.MaxDelta < 0 {
		return fmt.Errorf("%w: max delta must not be negative, got %s", ErrInvalidConfig, c.MaxDelta)
	}
	if c.HistoryCapacity < 1 {
		return fmt.Errorf("%w: history capacity must be at least 1, got %d", ErrInvalidConfig, c.HistoryCapacity)
	}
	return nil
}
