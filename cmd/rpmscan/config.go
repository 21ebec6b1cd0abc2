package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is rpmscan's on-disk configuration: where the database lives and
// how many repositories to sync at once.
type Config struct {
	DBPath      string `yaml:"db_path"`
	Concurrency int    `yaml:"concurrency"`
}

func defaultConfig() Config {
	return Config{DBPath: "rpmscan.db", Concurrency: 32}
}

// loadConfig reads path if it exists, overlaying it onto defaultConfig;
// a missing file is not an error, since every field has a usable default.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("rpmscan: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("rpmscan: parse config %s: %w", path, err)
	}
	return cfg, nil
}
