// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Configuration loading with precedence: CLI > ENV > config file > defaults

package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Resolve
const (
	EnvLogLevel   = "PGR_LOG_LEVEL"
	EnvProfileDir = "PGR_PROFILE_DIR"
	EnvCargo      = "CARGO"
	EnvRustc      = "RUSTC"
)

// Config holds settings shared by all commands
type Config struct {
	KeepProfiles bool              `yaml:"keep_profiles"`
	ProfileDir   string            `yaml:"profile_dir"`
	Cargo        string            `yaml:"cargo"`
	Rustc        string            `yaml:"rustc"`
	LogLevel     string            `yaml:"log_level"`
	Env          map[string]string `yaml:"env"` // extra environment for every cargo run

	// Source is the file the config was read from, empty if none
	Source string `yaml:"-"`
}

// Default returns the built-in defaults
func Default() *Config {
	return &Config{
		Cargo:    "cargo",
		Rustc:    "rustc",
		LogLevel: "info",
		Env:      map[string]string{},
	}
}

// Paths returns the paths to check for config files in order
func Paths() []string {
	paths := []string{".pgo-runner.yaml", ".pgo-runner.yml"}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths,
			filepath.Join(xdg, "pgo-runner", "config.yaml"),
			filepath.Join(xdg, "pgo-runner", "config.yml"),
		)
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "pgo-runner", "config.yaml"),
			filepath.Join(home, ".config", "pgo-runner", "config.yml"),
			filepath.Join(home, ".pgo-runner.yaml"),
		)
	}

	return paths
}

// Load reads the first config file found, or the explicit path if given.
// Missing files are not an error; unreadable or invalid ones are.
func Load(explicit string) (*Config, error) {
	if explicit != "" {
		return LoadFile(explicit)
	}

	for _, path := range Paths() {
		cfg, err := LoadFile(path)
		if err == nil {
			return cfg, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return Default(), nil
}

// LoadFile parses a single YAML config file on top of the defaults
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Env == nil {
		cfg.Env = map[string]string{}
	}
	cfg.Source = path
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvProfileDir); v != "" {
		c.ProfileDir = v
	}
	if v := getenv(EnvCargo); v != "" {
		c.Cargo = v
	}
	if v := getenv(EnvRustc); v != "" {
		c.Rustc = v
	}
}

// MergeEnv returns the configured env with overrides applied on top
func (c *Config) MergeEnv(overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(c.Env)+len(overrides))
	maps.Copy(merged, c.Env)
	maps.Copy(merged, overrides)
	return merged
}
