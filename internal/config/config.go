package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Zuo-Peng/studylog/internal/metrics"
)

type Config struct {
	LogRoot  string  `toml:"log_root"`
	DBPath   string  `toml:"db_path"`
	LogLevel string  `toml:"log_level"`
	Metrics  Metrics `toml:"metrics"`
}

type Metrics struct {
	CharsPerWord   float64 `toml:"chars_per_word"`
	UnitsPerMinute float64 `toml:"units_per_minute"`
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "studylog", "config.toml"), nil
}

// Load returns the defaults overlaid with the config file at path. An empty
// path means DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogRoot:  filepath.Join(home, "studylogs"),
		DBPath:   filepath.Join(home, ".config", "studylog", "studylog.db"),
		LogLevel: "info",
		Metrics: Metrics{
			CharsPerWord:   metrics.DefaultCharsPerWord,
			UnitsPerMinute: metrics.DefaultUnitsPerMinute,
		},
	}

	explicit := path != ""
	if !explicit {
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	// expand ~ in paths
	cfg.LogRoot = expandHome(cfg.LogRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return c.MetricOptions().Validate()
}

func (c *Config) MetricOptions() metrics.Options {
	return metrics.Options{
		CharsPerWord:   c.Metrics.CharsPerWord,
		UnitsPerMinute: c.Metrics.UnitsPerMinute,
	}
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
