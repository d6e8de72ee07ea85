// Package config loads setgame.hcl. Every block and attribute is optional;
// missing values fall back to Default.
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/setgame/internal/bot"
	"github.com/lox/setgame/internal/game"
)

// DefaultFile is the config file looked up when none is given
const DefaultFile = "setgame.hcl"

// Config represents the complete configuration
type Config struct {
	Game     GameSettings
	Log      LogSettings
	Simulate SimulateSettings
}

// GameSettings configures interactive play
type GameSettings struct {
	Variant string `hcl:"variant,optional"`
	Seed    *int64 `hcl:"seed,optional"` // nil means seed from the clock
	Sound   *bool  `hcl:"sound,optional"`
	NoColor bool   `hcl:"no_color,optional"`
}

// SoundEnabled reports whether cues should ring the terminal bell
func (g GameSettings) SoundEnabled() bool {
	return g.Sound == nil || *g.Sound
}

// LogSettings configures the logger
type LogSettings struct {
	Level  string `hcl:"level,optional"`
	File   string `hcl:"file,optional"`
	Format string `hcl:"format,optional"` // text or json
}

// SimulateSettings configures headless runs
type SimulateSettings struct {
	Sessions       int     `hcl:"sessions,optional"`
	Workers        int     `hcl:"workers,optional"`
	Variant        string  `hcl:"variant,optional"`
	Strategy       string  `hcl:"strategy,optional"`
	ThinkMS        int     `hcl:"think_ms,optional"`
	TimeScale      float64 `hcl:"time_scale,optional"`
	TimeoutSeconds int     `hcl:"timeout_seconds,optional"`
	Output         string  `hcl:"output,optional"`
}

// Think returns the bot think time
func (s SimulateSettings) Think() time.Duration {
	return time.Duration(s.ThinkMS) * time.Millisecond
}

// Timeout returns the per-session timeout
func (s SimulateSettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// file mirrors Config with optional blocks
type file struct {
	Game     *GameSettings     `hcl:"game,block"`
	Log      *LogSettings      `hcl:"log,block"`
	Simulate *SimulateSettings `hcl:"simulate,block"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Game: GameSettings{
			Variant: string(game.VariantTimed),
		},
		Log: LogSettings{
			Level:  "info",
			File:   "setgame.log",
			Format: "text",
		},
		Simulate: SimulateSettings{
			Sessions:       100,
			Variant:        string(game.VariantTimed),
			Strategy:       "solver",
			ThinkMS:        int(bot.DefaultThink / time.Millisecond),
			TimeScale:      0.01,
			TimeoutSeconds: 60,
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and applies defaults for missing values
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	config := Default()
	if g := raw.Game; g != nil {
		if g.Variant != "" {
			config.Game.Variant = g.Variant
		}
		config.Game.Seed = g.Seed
		config.Game.Sound = g.Sound
		config.Game.NoColor = g.NoColor
	}
	if l := raw.Log; l != nil {
		if l.Level != "" {
			config.Log.Level = l.Level
		}
		if l.File != "" {
			config.Log.File = l.File
		}
		if l.Format != "" {
			config.Log.Format = l.Format
		}
	}
	if s := raw.Simulate; s != nil {
		if s.Sessions != 0 {
			config.Simulate.Sessions = s.Sessions
		}
		config.Simulate.Workers = s.Workers
		if s.Variant != "" {
			config.Simulate.Variant = s.Variant
		}
		if s.Strategy != "" {
			config.Simulate.Strategy = s.Strategy
		}
		if s.ThinkMS != 0 {
			config.Simulate.ThinkMS = s.ThinkMS
		}
		if s.TimeScale != 0 {
			config.Simulate.TimeScale = s.TimeScale
		}
		if s.TimeoutSeconds != 0 {
			config.Simulate.TimeoutSeconds = s.TimeoutSeconds
		}
		config.Simulate.Output = s.Output
	}
	return config, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if _, err := game.ParseVariant(c.Game.Variant); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: invalid level %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log: format must be text or json, got %q", c.Log.Format)
	}

	s := c.Simulate
	if s.Sessions <= 0 {
		return fmt.Errorf("simulate: sessions must be positive, got %d", s.Sessions)
	}
	if s.Workers < 0 {
		return fmt.Errorf("simulate: workers must not be negative, got %d", s.Workers)
	}
	if _, err := game.ParseVariant(s.Variant); err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	if !slices.Contains(bot.Strategies, s.Strategy) {
		return fmt.Errorf("simulate: invalid strategy %q", s.Strategy)
	}
	if s.ThinkMS <= 0 {
		return fmt.Errorf("simulate: think_ms must be positive, got %d", s.ThinkMS)
	}
	if s.TimeScale <= 0 || s.TimeScale > 1 {
		return fmt.Errorf("simulate: time_scale must be in (0, 1], got %v", s.TimeScale)
	}
	if s.TimeoutSeconds <= 0 {
		return fmt.Errorf("simulate: timeout_seconds must be positive, got %d", s.TimeoutSeconds)
	}
	return nil
}
