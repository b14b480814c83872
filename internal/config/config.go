// Package config loads specgram settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Canvas    CanvasConfig  `yaml:"canvas"`
	Timing    TimingConfig  `yaml:"timing"`
	Audio     AudioConfig   `yaml:"audio"`
	Waterfall DisplayConfig `yaml:"waterfall"`
	Line      LineConfig    `yaml:"line"`
	Logging   LoggingConfig `yaml:"logging"`
	Metrics   MetricsConfig `yaml:"metrics"`
}

// CanvasConfig sizes the plot area. The ruler strips are added on top.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TimingConfig controls the tick loop.
type TimingConfig struct {
	TickInterval    time.Duration `yaml:"tick_interval"`
	BacklogLimit    float64       `yaml:"backlog_limit"`     // seconds
	SecondsPerPixel float64       `yaml:"seconds_per_pixel"` // time axis labels
}

// AudioConfig describes the capture session.
type AudioConfig struct {
	SampleRate       int     `yaml:"sample_rate"`
	Bins             int     `yaml:"bins"`
	BufferSeconds    float64 `yaml:"buffer_seconds"`
	KeepAfterDiscard float64 `yaml:"keep_after_discard"` // seconds
	Loop             bool    `yaml:"loop"`
}

// DisplayConfig holds the initial dB mapping of a view.
type DisplayConfig struct {
	DBOffset float64 `yaml:"db_offset"`
	DBMax    float64 `yaml:"db_max"`
}

// LineConfig is the line view's mapping plus stroke width.
type LineConfig struct {
	DisplayConfig `yaml:",inline"`
	Width         float64 `yaml:"width"`
}

// LoggingConfig selects where logs go. An empty file disables logging.
type LoggingConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// MetricsConfig exposes Prometheus metrics when Listen is set.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{Width: 1024, Height: 512},
		Timing: TimingConfig{
			TickInterval:    25 * time.Millisecond,
			BacklogLimit:    2.5,
			SecondsPerPixel: 0.025,
		},
		Audio: AudioConfig{
			SampleRate:       44100,
			Bins:             512,
			BufferSeconds:    20,
			KeepAfterDiscard: 0.5,
		},
		Waterfall: DisplayConfig{DBMax: 18},
		Line:      LineConfig{DisplayConfig: DisplayConfig{DBMax: 20}, Width: 1},
		Logging:   LoggingConfig{Level: "info"},
	}
}

// Load reads filename over the defaults. An empty filename returns the
// defaults unchanged.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return cfg, nil
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid setting")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Canvas.Width < 2 || c.Canvas.Height < 2 {
		return invalid("canvas must be at least 2x2, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Timing.TickInterval <= 0 {
		return invalid("timing.tick_interval must be positive")
	}
	if c.Timing.BacklogLimit <= 0 {
		return invalid("timing.backlog_limit must be positive")
	}
	if c.Timing.SecondsPerPixel <= 0 {
		return invalid("timing.seconds_per_pixel must be positive")
	}
	if c.Audio.SampleRate < 8000 {
		return invalid("audio.sample_rate must be at least 8000")
	}
	if c.Audio.Bins < 16 {
		return invalid("audio.bins must be at least 16")
	}
	if c.Audio.BufferSeconds <= c.Timing.BacklogLimit {
		return invalid("audio.buffer_seconds must exceed timing.backlog_limit")
	}
	if c.Audio.KeepAfterDiscard < 0 || c.Audio.KeepAfterDiscard >= c.Timing.BacklogLimit {
		return invalid("audio.keep_after_discard must be in [0, timing.backlog_limit)")
	}
	if c.Waterfall.DBMax <= 0 || c.Line.DBMax <= 0 {
		return invalid("db_max must be positive")
	}
	if c.Line.Width <= 0 {
		return invalid("line.width must be positive")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return invalid("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

// NyquistHz is the top of the frequency axis.
func (c *Config) NyquistHz() float64 {
	return float64(c.Audio.SampleRate) / 2
}
