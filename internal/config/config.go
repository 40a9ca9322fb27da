// Package config loads server configuration from an optional JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "/etc/parley/parley.conf"

// Config holds the server configuration parameters.
type Config struct {
	ListenAddr   string `json:"listen_addr"`
	MetricsAddr  string `json:"metrics_addr"`
	HistoryLimit int    `json:"history_limit"`
	ExportDir    string `json:"export_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:   ":5000",
		MetricsAddr:  ":9090",
		HistoryLimit: 1000,
		ExportDir:    ".",
	}
}

// Load reads the file named by CONFIG_PATH, falling back to DefaultPath.
// A missing file yields the defaults; a present but invalid file is an
// error.
func Load() (Config, error) {
	cfg := Default()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file at %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.ListenAddr == "" {
		return cfg, fmt.Errorf("listen_addr must not be empty")
	}
	if cfg.HistoryLimit <= 0 {
		return cfg, fmt.Errorf("history_limit must be a positive integer")
	}
	if cfg.ExportDir == "" {
		return cfg, fmt.Errorf("export_dir must not be empty")
	}
	return cfg, nil
}
