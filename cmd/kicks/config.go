package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultBaseURL = "http://localhost:8080"

// cliConfig is the optional YAML file of the terminal client.
type cliConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Email    string        `yaml:"email"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
	LogLevel string        `yaml:"log_level"`
}

func defaultConfig() cliConfig {
	return cliConfig{
		BaseURL:  defaultBaseURL,
		Timeout:  30 * time.Second,
		LogLevel: "warn",
	}
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string) (cliConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// hasCredentials reports whether the client should sign in before running a
// command.
func (c cliConfig) hasCredentials() bool {
	return c.Email != "" && c.Password != ""
}
