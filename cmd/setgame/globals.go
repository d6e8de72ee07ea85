package main

import (
	"fmt"

	"github.com/lox/setgame/internal/config"
)

// Globals are flags shared by every command
type Globals struct {
	Config    string `short:"c" default:"${config_file}" help:"Path to the HCL config file"`
	LogLevel  string `help:"Log level: debug, info, warn, error"`
	LogFormat string `help:"Log format: text or json"`
}

// load reads the config file and applies the global flag overrides
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", g.Config, err)
	}
	return cfg, nil
}
