package config

import (
	"fmt"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all process configuration, parsed from the environment.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`
	StoragePath  string `env:"STORAGE_PATH" envDefault:"datastore.json"`
	StatsPath    string `env:"STATS_PATH" envDefault:"stats.db"`

	DefaultPrefix   string   `env:"DEFAULT_PREFIX" envDefault:"!"`
	DefaultLanguage string   `env:"DEFAULT_LANGUAGE" envDefault:"en"`
	Developers      []string `env:"DEVELOPER_IDS" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// New loads .env (if present) and parses the environment into a Config.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// IsDeveloper reports whether a user ID is one of the configured developers.
func IsDeveloper(cfg *Config, userID string) bool {
	if cfg == nil {
		return false
	}
	return slices.Contains(cfg.Developers, userID)
}
