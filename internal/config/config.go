// Package config loads the solver's tunable budgets from a YAML file,
// the way the teacher's surrounding repos keep ambient knobs out of
// code and in a small declarative file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors relucore.DriverConfig plus the rational tolerance
// used when weakening strict inequalities, kept in its own package so
// relucore itself never has to know about YAML.
type Config struct {
	Epsilon               float64 `yaml:"epsilon"`
	PivotBudgetFactor     int     `yaml:"pivotBudgetFactor"`
	MaxDPLLTRounds        int     `yaml:"maxDplltRounds"`
	MaxReluplexRecursion  int     `yaml:"maxReluplexRecursion"`
}

// Default matches the constants relucore.DefaultDriverConfig ships
// with, so a missing config file and an explicit default-valued one
// behave identically.
func Default() Config {
	return Config{
		Epsilon:              1e-9,
		PivotBudgetFactor:    50,
		MaxDPLLTRounds:       4096,
		MaxReluplexRecursion: 200,
	}
}

// Load reads and parses a YAML config file, falling back field-by-field
// to Default() for anything the file leaves at its zero value.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	parsed := Config{}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Config{}, err
	}
	if parsed.Epsilon != 0 {
		cfg.Epsilon = parsed.Epsilon
	}
	if parsed.PivotBudgetFactor != 0 {
		cfg.PivotBudgetFactor = parsed.PivotBudgetFactor
	}
	if parsed.MaxDPLLTRounds != 0 {
		cfg.MaxDPLLTRounds = parsed.MaxDPLLTRounds
	}
	if parsed.MaxReluplexRecursion != 0 {
		cfg.MaxReluplexRecursion = parsed.MaxReluplexRecursion
	}
	return cfg, nil
}
