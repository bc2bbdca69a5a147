// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Map      MapConfig      `yaml:"map"`
	Render   RenderConfig   `yaml:"render"`
	Player   PlayerConfig   `yaml:"player"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// MapConfig selects the map to open.
type MapConfig struct {
	Path    string  `yaml:"path"`
	Spawn   string  `yaml:"spawn"`
	OriginY float32 `yaml:"origin_y"` // screen Y of cell (0,0)
}

// RenderConfig holds camera and debug drawing settings.
type RenderConfig struct {
	CameraSmoothing float32 `yaml:"camera_smoothing"`
	DeadZoneX       float32 `yaml:"camera_dead_zone_x"`
	DeadZoneY       float32 `yaml:"camera_dead_zone_y"`
	CullMargin      float32 `yaml:"cull_margin"`
	ShowCollision   bool    `yaml:"show_collision"`
	ScreenshotDir   string  `yaml:"screenshot_dir"`
}

// PlayerConfig describes the player sprite and movement.
type PlayerConfig struct {
	Texture     string  `yaml:"texture"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	FrameWidth  int     `yaml:"frame_width"` // 0 draws the whole texture
	FrameHeight int     `yaml:"frame_height"`
	WalkSpeed   float32 `yaml:"walk_speed"` // tiles per second
	RunSpeed    float32 `yaml:"run_speed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Map: MapConfig{
			Path:    "assets/maps/town.tmx",
			Spawn:   "start",
			OriginY: 60,
		},
		Render: RenderConfig{
			CameraSmoothing: 12,
			DeadZoneX:       32,
			DeadZoneY:       16,
			CullMargin:      64,
			ScreenshotDir:   "screenshots",
		},
		Player: PlayerConfig{
			Texture:   "assets/sprites/player.png",
			Width:     64,
			Height:    96,
			WalkSpeed: 3,
			RunSpeed:  5,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	var err error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Map.Path == "" {
		err = multierr.Append(err, fmt.Errorf("map: path is empty"))
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("player: invalid size %dx%d", c.Player.Width, c.Player.Height))
	}
	if c.Player.WalkSpeed <= 0 || c.Player.RunSpeed <= 0 {
		err = multierr.Append(err, fmt.Errorf("player: speeds must be positive"))
	}
	if (c.Player.FrameWidth > 0) != (c.Player.FrameHeight > 0) {
		err = multierr.Append(err, fmt.Errorf("player: frame_width and frame_height must be set together"))
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("logging: unknown level %q", c.Logging.Level))
	}
	return err
}
