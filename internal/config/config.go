// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"

	"printshop-pricing/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Store contains storage settings
	Store StoreConfig `json:"store"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`
}

// StoreConfig contains storage settings
type StoreConfig struct {
	// Path is the sqlite database path
	Path string `json:"path"`

	// Migrate runs pending migrations on startup
	Migrate bool `json:"migrate"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Server:  ServerConfig{Addr: ":8080"},
		Store:   StoreConfig{Path: "./printshop.db", Migrate: true},
		Logging: logging.DefaultConfig(),
	}
}

var current = Default()

// Get returns the active configuration
func Get() *Config {
	return current
}

// Set replaces the active configuration
func Set(cfg *Config) {
	if cfg != nil {
		current = cfg
	}
}

// Load loads configuration from an optional JSON file, then applies
// environment overrides. A missing file yields the defaults. A local .env
// file is honored best-effort; production should inject real env vars.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("PRINTSHOP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PRINTSHOP_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("PRINTSHOP_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return cfg, nil
}
