package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigName   = ".valuctl.yaml"
	defaultReadyTimeout = 10 * time.Second
)

// Config holds valuctl settings from a YAML file.
type Config struct {
	Target       string        `yaml:"target"`
	Origin       string        `yaml:"origin"`
	LogLevel     string        `yaml:"log_level"`
	ReadyTimeout time.Duration `yaml:"ready_timeout"`
}

// LoadConfig loads the config at path. An empty path falls back to
// .valuctl.yaml in the working directory; a missing default file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigName
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) && !explicit:
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = defaultReadyTimeout
	}

	return cfg, nil
}

// Level maps LogLevel to a slog level. Unknown values mean warn, so the
// channel stays quiet by default.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
