package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// GeneratedArea is the start area name that selects a procedurally
// generated area instead of a resource.
const GeneratedArea = "generated"

type Config struct {
	Resources ResourcesConfig `toml:"resources"`
	Display   DisplayConfig   `toml:"display"`
	Loop      LoopConfig      `toml:"loop"`
	Movement  MovementConfig  `toml:"movement"`
	Input     InputConfig     `toml:"input"`
	Logging   LoggingConfig   `toml:"logging"`
	Server    ServerConfig    `toml:"server"`
}

type ResourcesConfig struct {
	Prefix         string `toml:"prefix"`          // directory; empty uses the embedded assets
	MenuBackground string `toml:"menu_background"` // area shown behind the menu
	StartArea      string `toml:"start_area"`
	Character      string `toml:"character"`
	SpawnTile      int    `toml:"spawn_tile"` // -1 picks the first walkable cell
	Seed           int64  `toml:"seed"`       // generated areas; 0 uses the clock
}

type DisplayConfig struct {
	CellWidth  int `toml:"cell_width"`  // world pixels per terminal column
	CellHeight int `toml:"cell_height"` // world pixels per terminal row
}

type LoopConfig struct {
	FrameRate int `toml:"frame_rate"`
}

type MovementConfig struct {
	BaseSpeed     float64 `toml:"base_speed"` // pixels per millisecond
	RunMultiplier float64 `toml:"run_multiplier"`
}

type InputConfig struct {
	WalkDelay   time.Duration       `toml:"walk_delay"`
	TapTimeout  time.Duration       `toml:"tap_timeout"`
	RepeatDelay time.Duration       `toml:"repeat_delay"`
	Release     time.Duration       `toml:"release"`
	Bindings    map[string][]string `toml:"bindings"` // command name -> key names
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty logs to stderr
}

type ServerConfig struct {
	BindAddress string        `toml:"bind_address"`
	HostKey     string        `toml:"host_key"`
	IdleTimeout time.Duration `toml:"idle_timeout"`
	MaxSessions int           `toml:"max_sessions"`
}

// Load reads the TOML file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Resources: ResourcesConfig{
			MenuBackground: "title",
			StartArea:      "meadow",
			Character:      "hero",
			SpawnTile:      -1,
		},
		Display: DisplayConfig{
			CellWidth:  8,
			CellHeight: 16,
		},
		Loop: LoopConfig{
			FrameRate: 30,
		},
		Movement: MovementConfig{
			BaseSpeed:     0.05,
			RunMultiplier: 1.8,
		},
		Input: InputConfig{
			WalkDelay:   100 * time.Millisecond,
			TapTimeout:  80 * time.Millisecond,
			RepeatDelay: 600 * time.Millisecond,
			Release:     150 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "tilewalk.log",
		},
		Server: ServerConfig{
			BindAddress: ":2222",
			HostKey:     "tilewalk_host_key",
			IdleTimeout: 30 * time.Minute,
			MaxSessions: 32,
		},
	}
}

// Validate rejects values the game cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Resources.StartArea == "" {
		errs = append(errs, errors.New("resources.start_area is empty"))
	}
	if c.Resources.Character == "" {
		errs = append(errs, errors.New("resources.character is empty"))
	}
	if c.Resources.SpawnTile < -1 {
		errs = append(errs, fmt.Errorf("resources.spawn_tile %d is negative", c.Resources.SpawnTile))
	}
	if c.Display.CellWidth <= 0 || c.Display.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("display cell size %dx%d must be positive", c.Display.CellWidth, c.Display.CellHeight))
	}
	if c.Loop.FrameRate <= 0 || c.Loop.FrameRate > 240 {
		errs = append(errs, fmt.Errorf("loop.frame_rate %d out of range 1..240", c.Loop.FrameRate))
	}
	if c.Movement.BaseSpeed <= 0 {
		errs = append(errs, fmt.Errorf("movement.base_speed %v must be positive", c.Movement.BaseSpeed))
	}
	if c.Movement.RunMultiplier < 1 {
		errs = append(errs, fmt.Errorf("movement.run_multiplier %v must be at least 1", c.Movement.RunMultiplier))
	}
	if c.Input.WalkDelay < 0 || c.Input.TapTimeout <= 0 {
		errs = append(errs, errors.New("input.walk_delay must not be negative and input.tap_timeout must be positive"))
	}
	if c.Input.RepeatDelay <= 0 || c.Input.Release <= 0 {
		errs = append(errs, errors.New("input.repeat_delay and input.release must be positive"))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}
	if c.Server.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("server.max_sessions %d is negative", c.Server.MaxSessions))
	}
	return errors.Join(errs...)
}

// FrameTime returns the duration of one frame.
func (c *Config) FrameTime() time.Duration {
	return time.Second / time.Duration(c.Loop.FrameRate)
}
