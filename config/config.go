// Package config loads game settings from TOML
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/tiltball/engine"
	"github.com/lixenwraith/tiltball/level"
	"github.com/lixenwraith/tiltball/physics"
)

//go:embed default.toml
var defaultTOML string

// ErrNotFound is returned when an explicit config path does not exist
var ErrNotFound = errors.New("config file not found")

// Config mirrors the TOML layout
type Config struct {
	Canvas  CanvasConfig  `toml:"canvas"`
	Ball    BallConfig    `toml:"ball"`
	Goal    GoalConfig    `toml:"goal"`
	Level   LevelConfig   `toml:"level"`
	Timing  TimingConfig  `toml:"timing"`
	Network NetworkConfig `toml:"network"`
	Audio   AudioConfig   `toml:"audio"`
	Debug   DebugConfig   `toml:"debug"`

	// Source records where the config came from, "embedded" or a file path
	Source string `toml:"-"`
}

type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type BallConfig struct {
	Radius          float64 `toml:"radius"`
	Friction        float64 `toml:"friction"`
	TiltSensitivity float64 `toml:"tilt_sensitivity"`
	Restitution     float64 `toml:"restitution"`
}

type GoalConfig struct {
	Radius float64 `toml:"radius"`
}

type LevelConfig struct {
	WallCount            int     `toml:"wall_count"`
	WallThickness        float64 `toml:"wall_thickness"`
	WallMinLength        float64 `toml:"wall_min_length"`
	WallMaxLength        float64 `toml:"wall_max_length"`
	MinStartGoalDistance float64 `toml:"min_start_goal_distance"`
	MaxAttempts          int     `toml:"max_attempts"`
	StartMargin          float64 `toml:"start_margin"`
	WallMargin           float64 `toml:"wall_margin"`
	WallClearance        float64 `toml:"wall_clearance"`
	Seed                 int64   `toml:"seed"`
}

type TimingConfig struct {
	TickMs         int `toml:"tick_ms"`
	ReadyMs        int `toml:"ready_ms"`
	StartMessageMs int `toml:"start_message_ms"`
	GoalReadyMs    int `toml:"goal_ready_ms"`
	GoalStartMs    int `toml:"goal_start_ms"`
	NoticeMs       int `toml:"notice_ms"`
}

type NetworkConfig struct {
	Enabled       bool   `toml:"enabled"`
	Listen        string `toml:"listen"`
	SnapshotEvery int    `toml:"snapshot_every"`
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

type DebugConfig struct {
	Overlay bool `toml:"overlay"`
}

// Validate rejects settings the game cannot run with
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}

	positive("canvas.width", c.Canvas.Width)
	positive("canvas.height", c.Canvas.Height)
	positive("ball.radius", c.Ball.Radius)
	positive("goal.radius", c.Goal.Radius)
	positive("level.wall_thickness", c.Level.WallThickness)
	positive("level.wall_min_length", c.Level.WallMinLength)

	if !(c.Ball.Friction > 0 && c.Ball.Friction <= 1) {
		errs = append(errs, fmt.Errorf("ball.friction must be in (0,1], got %v", c.Ball.Friction))
	}
	if c.Ball.Restitution < 0 || c.Ball.Restitution > 1 {
		errs = append(errs, fmt.Errorf("ball.restitution must be in [0,1], got %v", c.Ball.Restitution))
	}
	if c.Level.WallMaxLength <= c.Level.WallMinLength {
		errs = append(errs, fmt.Errorf("level.wall_max_length %v must exceed wall_min_length %v",
			c.Level.WallMaxLength, c.Level.WallMinLength))
	}
	if c.Level.WallCount < 0 {
		errs = append(errs, fmt.Errorf("level.wall_count must not be negative, got %d", c.Level.WallCount))
	}
	if c.Level.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("level.max_attempts must be at least 1, got %d", c.Level.MaxAttempts))
	}
	if 2*c.Level.StartMargin >= c.Canvas.Width || 2*c.Level.StartMargin >= c.Canvas.Height {
		errs = append(errs, fmt.Errorf("level.start_margin %v leaves no room on the canvas", c.Level.StartMargin))
	}
	if 2*c.Level.WallMargin >= c.Canvas.Width || 2*c.Level.WallMargin >= c.Canvas.Height {
		errs = append(errs, fmt.Errorf("level.wall_margin %v leaves no room on the canvas", c.Level.WallMargin))
	}
	if c.Timing.TickMs <= 0 {
		errs = append(errs, fmt.Errorf("timing.tick_ms must be positive, got %d", c.Timing.TickMs))
	}
	for _, d := range []struct {
		name string
		ms   int
	}{
		{"timing.ready_ms", c.Timing.ReadyMs},
		{"timing.goal_ready_ms", c.Timing.GoalReadyMs},
		{"timing.goal_start_ms", c.Timing.GoalStartMs},
	} {
		if d.ms < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %d", d.name, d.ms))
		}
	}
	// A zero duration would leave the message up for good
	if c.Timing.StartMessageMs <= 0 {
		errs = append(errs, fmt.Errorf("timing.start_message_ms must be positive, got %d", c.Timing.StartMessageMs))
	}
	if c.Timing.NoticeMs <= 0 {
		errs = append(errs, fmt.Errorf("timing.notice_ms must be positive, got %d", c.Timing.NoticeMs))
	}
	if c.Network.Enabled && c.Network.Listen == "" {
		errs = append(errs, errors.New("network.listen is required when network is enabled"))
	}
	if c.Network.SnapshotEvery < 1 {
		errs = append(errs, fmt.Errorf("network.snapshot_every must be at least 1, got %d", c.Network.SnapshotEvery))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume must be in [0,1], got %v", c.Audio.Volume))
	}

	return errors.Join(errs...)
}

// TickInterval returns the physics tick as a duration
func (c *Config) TickInterval() time.Duration {
	return ms(c.Timing.TickMs)
}

// Engine converts the settings into a game configuration
func (c *Config) Engine() engine.Config {
	return engine.Config{
		Physics: physics.Params{
			TiltSensitivity: c.Ball.TiltSensitivity,
			Friction:        c.Ball.Friction,
			Restitution:     c.Ball.Restitution,
			CanvasWidth:     c.Canvas.Width,
			CanvasHeight:    c.Canvas.Height,
		},
		Level: level.Config{
			CanvasWidth:          c.Canvas.Width,
			CanvasHeight:         c.Canvas.Height,
			StartGoalMargin:      c.Level.StartMargin,
			WallMargin:           c.Level.WallMargin,
			MinStartGoalDistance: c.Level.MinStartGoalDistance,
			WallClearance:        c.Level.WallClearance,
			WallCount:            c.Level.WallCount,
			WallThickness:        c.Level.WallThickness,
			WallMinLength:        c.Level.WallMinLength,
			WallMaxLength:        c.Level.WallMaxLength,
			MaxAttempts:          c.Level.MaxAttempts,
			Seed:                 c.Level.Seed,
		},
		BallRadius:           c.Ball.Radius,
		GoalRadius:           c.Goal.Radius,
		ReadyDelay:           ms(c.Timing.ReadyMs),
		StartMessageDuration: ms(c.Timing.StartMessageMs),
		GoalReadyDelay:       ms(c.Timing.GoalReadyMs),
		GoalStartDelay:       ms(c.Timing.GoalStartMs),
		NoticeDuration:       ms(c.Timing.NoticeMs),
	}
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
