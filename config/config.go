// Package config handles loading and managing application configuration
// from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults holds the generation options applied when the user leaves a
// field unset on the CLI or in the web form.
type Defaults struct {
	Level     string `yaml:"level"`
	BoxSize   int    `yaml:"box_size"`
	Border    int    `yaml:"border"`
	Format    string `yaml:"format"`
	SVGMethod string `yaml:"svg_method"`
}

// History controls the generation history store.
type History struct {
	Enabled bool `yaml:"enabled"`
	// Keep is the number of most recent records retained after pruning.
	Keep int `yaml:"keep"`
}

// Config holds all application configuration values.
type Config struct {
	Port      int      `yaml:"port"`
	DataDir   string   `yaml:"data_dir"`
	OutputDir string   `yaml:"output_dir"`
	LogLevel  string   `yaml:"log_level"`
	History   History  `yaml:"history"`
	Defaults  Defaults `yaml:"defaults"`
}

// defaults returns a Config populated with sensible default values.
func defaults() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Config{
		Port:      8777,
		DataDir:   filepath.Join(homeDir, ".qrtool"),
		OutputDir: cwd,
		LogLevel:  "info",
		History:   History{Enabled: true, Keep: 200},
		Defaults: Defaults{
			Level:     "M",
			BoxSize:   10,
			Border:    4,
			Format:    "png",
			SVGMethod: "path",
		},
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. A .env file in the working directory
// is loaded first, then environment variables with the QRTOOL_ prefix
// override any file or default values.
func Load(path string) (*Config, error) {
	// Missing .env is fine; it only exists to populate QRTOOL_* vars.
	_ = godotenv.Load()

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// File doesn't exist — proceed with defaults.
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides applies QRTOOL_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("QRTOOL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("QRTOOL_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("QRTOOL_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("QRTOOL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("QRTOOL_HISTORY_ENABLED"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			cfg.History.Enabled = true
		case "false", "0", "no":
			cfg.History.Enabled = false
		}
	}
	if v := os.Getenv("QRTOOL_HISTORY_KEEP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.History.Keep = n
		}
	}
}

// EnsureDataDir creates the DataDir if it does not already exist.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir %s: %w", c.DataDir, err)
	}
	return nil
}

// HistoryDBPath returns the path of the history database inside DataDir.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}
