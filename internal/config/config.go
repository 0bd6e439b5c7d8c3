// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server settings.
type Config struct {
	Port           string        `env:"PORT"            envDefault:"8080"`
	DBPath         string        `env:"DB_PATH"         envDefault:"kicks.db"`
	SecureCookie   bool          `env:"SECURE_COOKIE"   envDefault:"false"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	LogLevel       string        `env:"LOG_LEVEL"       envDefault:"info"`
	ShutdownGrace  time.Duration `env:"SHUTDOWN_GRACE"  envDefault:"10s"`

	// Seed account created on startup when the database has no users.
	SeedName     string `env:"SEED_NAME"     envDefault:"Demo User"`
	SeedEmail    string `env:"SEED_EMAIL"`
	SeedPassword string `env:"SEED_PASSWORD"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// HasSeed reports whether a seed account is configured.
func (c Config) HasSeed() bool {
	return c.SeedEmail != "" && c.SeedPassword != ""
}
