// Package config loads the engine configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/deimos/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Engine EngineConfig `json:"engine" yaml:"engine"`
	Log    LogConfig    `json:"log" yaml:"log"`
	Window WindowConfig `json:"window" yaml:"window"`
}

type EngineConfig struct {
	// TickRate caps frames per second. Zero runs frames back to back.
	TickRate int `json:"tick_rate" yaml:"tick_rate"`
	// MaxFrames stops the loop after that many frames. Zero means no limit.
	MaxFrames uint64 `json:"max_frames" yaml:"max_frames"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type WindowConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Title   string `json:"title" yaml:"title"`
	Width   int    `json:"width" yaml:"width"`
	Height  int    `json:"height" yaml:"height"`
}

func Default() *Config {
	return &Config{
		Engine: EngineConfig{TickRate: 60},
		Log:    LogConfig{Level: "info"},
		Window: WindowConfig{Title: "deimos", Width: 640, Height: 480},
	}
}

// Load decodes YAML from r on top of Default. Unknown keys are rejected.
func Load(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (c *Config) Validate() error {
	if c.Engine.TickRate < 0 {
		return fmt.Errorf("%w: engine.tick_rate must not be negative", ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Window.Enabled && (c.Window.Width <= 0 || c.Window.Height <= 0) {
		return fmt.Errorf("%w: window size must be positive", ErrInvalidConfig)
	}
	return nil
}

// FrameInterval is the target duration of one frame, zero when unpaced.
func (e EngineConfig) FrameInterval() time.Duration {
	if e.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(e.TickRate)
}

// LogLevel returns the parsed level; Validate guarantees it parses.
func (c *Config) LogLevel() log.Level {
	level, _ := log.ParseLevel(c.Log.Level)
	return level
}
