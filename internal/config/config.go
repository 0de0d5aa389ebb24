// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for a backtest run.
type Config struct {
	Data     Data     `yaml:"data"`
	Backtest Backtest `yaml:"backtest"`
	Output   Output   `yaml:"output"`
	Logging  Logging  `yaml:"logging"`
}

// Data selects the market data source. Path points at an xlsx workbook; when
// DatabaseURL is set and Path is empty, the tables are loaded from Postgres
// instead.
type Data struct {
	Path         string `yaml:"path"`
	ReturnsSheet string `yaml:"returns_sheet"`
	BPSheet      string `yaml:"bp_sheet"`
	DatabaseURL  string `yaml:"database_url"`
	ReturnsTable string `yaml:"returns_table"`
	BPTable      string `yaml:"bp_table"`
}

// Backtest holds simulation parameters.
type Backtest struct {
	Strategies   []string `yaml:"strategies"`
	Selection    float64  `yaml:"selection"`
	Workers      int      `yaml:"workers"`
	StepsPerYear float64  `yaml:"steps_per_year"`
}

// Output holds result destinations.
type Output struct {
	Path string `yaml:"path"`
}

// Logging configures the application logger.
type Logging struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Data: Data{
			ReturnsSheet: "Return",
			BPSheet:      "Book to price",
			ReturnsTable: "market_returns",
			BPTable:      "market_bp",
		},
		Backtest: Backtest{
			Selection:    0.2,
			StepsPerYear: 12,
		},
		Output: Output{
			Path: "backtest-output",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
