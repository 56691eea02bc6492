package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // a missing .env file is fine, env vars still apply

	return env.Parse(cfg)
}

// Config holds the configuration for the application
type Config struct {
	// Instrument is the single symbol this engine trades, e.g. BTC-USD.
	// Display only: the book itself is single-instrument.
	Instrument string `env:"INSTRUMENT" envDefault:"BTC-USD"`
	// LogLevel is the minimum log severity: debug, info, warn or error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// LogPath is where engine logs are written. Defaults to stderr so log
	// lines do not interleave with console output on stdout.
	LogPath string `env:"LOG_PATH" envDefault:"stderr"`
}
