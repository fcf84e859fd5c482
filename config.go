package canopy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds scene and window settings. Zero fields are filled from
// DefaultConfig when loaded from YAML.
type Config struct {
	Atlas      AtlasConfig    `yaml:"atlas"`
	Batch      BatchConfig    `yaml:"batch"`
	Playback   PlaybackConfig `yaml:"playback"`
	Window     WindowConfig   `yaml:"window"`
	ClearColor Color          `yaml:"clearColor"`
	Debug      bool           `yaml:"debug"`
}

// AtlasConfig sizes the single atlas texture.
type AtlasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BatchConfig bounds instanced draws.
type BatchConfig struct {
	// SpritesPerDraw is the instance buffer capacity; larger scenes are split
	// into several draw calls.
	SpritesPerDraw int `yaml:"spritesPerDraw"`
}

// PlaybackConfig seeds the scene clock.
type PlaybackConfig struct {
	FrameDT float32 `yaml:"frameDT"` // milliseconds
	Loop    bool    `yaml:"loop"`
	Mode    string  `yaml:"mode"` // a PlaybackMode name
}

// WindowConfig is used by Run.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	TPS    int    `yaml:"tps"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Atlas:    AtlasConfig{Width: 2048, Height: 2048},
		Batch:    BatchConfig{SpritesPerDraw: 4096},
		Playback: PlaybackConfig{FrameDT: DefaultFrameDT, Mode: ModePlay.String()},
		Window: WindowConfig{
			Title:  "canopy",
			Width:  1280,
			Height: 720,
			TPS:    60,
		},
		ClearColor: Color{0.08, 0.09, 0.11, 1},
	}
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("canopy: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML, fills unset fields with defaults and validates.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("canopy: parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Atlas.Width == 0 {
		c.Atlas.Width = d.Atlas.Width
	}
	if c.Atlas.Height == 0 {
		c.Atlas.Height = d.Atlas.Height
	}
	if c.Batch.SpritesPerDraw == 0 {
		c.Batch.SpritesPerDraw = d.Batch.SpritesPerDraw
	}
	if c.Playback.FrameDT == 0 {
		c.Playback.FrameDT = d.Playback.FrameDT
	}
	if c.Playback.Mode == "" {
		c.Playback.Mode = d.Playback.Mode
	}
	if c.Window.Title == "" {
		c.Window.Title = d.Window.Title
	}
	if c.Window.Width == 0 {
		c.Window.Width = d.Window.Width
	}
	if c.Window.Height == 0 {
		c.Window.Height = d.Window.Height
	}
	if c.Window.TPS == 0 {
		c.Window.TPS = d.Window.TPS
	}
	if c.ClearColor == (Color{}) {
		c.ClearColor = d.ClearColor
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Atlas.Width <= 0 || c.Atlas.Height <= 0:
		return fmt.Errorf("%w: atlas size %dx%d", ErrInvalidConfig, c.Atlas.Width, c.Atlas.Height)
	case c.Batch.SpritesPerDraw <= 0:
		return fmt.Errorf("%w: spritesPerDraw %d", ErrInvalidConfig, c.Batch.SpritesPerDraw)
	case c.Playback.FrameDT < 0:
		return fmt.Errorf("%w: frameDT %v", ErrInvalidConfig, c.Playback.FrameDT)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Window.TPS <= 0:
		return fmt.Errorf("%w: tps %d", ErrInvalidConfig, c.Window.TPS)
	}
	if _, ok := ParsePlaybackMode(c.Playback.Mode); !ok {
		return fmt.Errorf("%w: playback mode %q", ErrInvalidConfig, c.Playback.Mode)
	}
	return nil
}
