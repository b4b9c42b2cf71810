package config

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravpaint/internal/level"
	"github.com/san-kum/gravpaint/internal/sim"
	"github.com/san-kum/gravpaint/internal/world"
)

const (
	DefaultDt       = world.FixedStep
	DefaultDuration = 30.0
	DefaultLevel    = 1
	DefaultMode     = "medium"
	DefaultWidth    = 72
	DefaultHeight   = 36
	DefaultSamples  = 8
)

type Config struct {
	Level        int            `yaml:"level"`
	LevelFile    string         `yaml:"level_file,omitempty"`
	Mode         string         `yaml:"mode"`
	Random       int            `yaml:"random,omitempty"`
	Dt           float64        `yaml:"dt"`
	Duration     float64        `yaml:"duration"`
	Seed         uint64         `yaml:"seed"`
	GravityScale float64        `yaml:"gravity_scale,omitempty"`
	Screen       ScreenConfig   `yaml:"screen"`
	Strokes      []StrokeConfig `yaml:"strokes,omitempty"`
}

// ScreenConfig is the terminal render size in cells.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// StrokeConfig is a scripted swipe committed at time At (seconds).
type StrokeConfig struct {
	At      float64     `yaml:"at"`
	From    level.Point `yaml:"from"`
	To      level.Point `yaml:"to"`
	Samples int         `yaml:"samples,omitempty"`
}

// Points samples the swipe evenly from From to To.
func (s StrokeConfig) Points() []r2.Vec {
	n := s.Samples
	if n < 2 {
		n = DefaultSamples
	}
	from, to := s.From.Vec(), s.To.Vec()
	pts := make([]r2.Vec, n)
	for i := range pts {
		t := float64(i) / float64(n-1)
		pts[i] = r2.Add(from, r2.Scale(t, r2.Sub(to, from)))
	}
	return pts
}

func DefaultConfig() *Config {
	return &Config{
		Level:    DefaultLevel,
		Mode:     DefaultMode,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Screen: ScreenConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.Dt > c.Duration {
		return fmt.Errorf("dt (%f) cannot exceed duration (%f)", c.Dt, c.Duration)
	}
	if _, err := level.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.LevelFile == "" && c.Random == 0 && (c.Level < 0 || c.Level > level.TotalLevels) {
		return fmt.Errorf("level must be in 0-%d, got %d", level.TotalLevels, c.Level)
	}
	if c.Random < 0 {
		return fmt.Errorf("random difficulty must be positive, got %d", c.Random)
	}
	if c.GravityScale < 0 {
		return fmt.Errorf("gravity scale must not be negative, got %f", c.GravityScale)
	}
	if c.Screen.Width < 8 || c.Screen.Height < 4 {
		return fmt.Errorf("screen %dx%d too small", c.Screen.Width, c.Screen.Height)
	}
	for i, s := range c.Strokes {
		if s.At < 0 || s.At > c.Duration {
			return fmt.Errorf("stroke %d at %f outside run of %f", i, s.At, c.Duration)
		}
	}
	return nil
}

// LoadLevel resolves the level to play: a level file first, then a random
// level when Random is set, otherwise a built-in by number and mode. A
// positive GravityScale overrides the level's own.
func (c *Config) LoadLevel() (*level.Level, error) {
	var (
		l   *level.Level
		err error
	)
	switch {
	case c.LevelFile != "":
		l, err = level.Load(c.LevelFile)
	case c.Random > 0:
		l = level.Random(c.Random, c.Seed)
	default:
		var mode level.Mode
		mode, err = level.ParseMode(c.Mode)
		if err == nil {
			l, err = level.Builtin(c.Level, mode)
		}
	}
	if err != nil {
		return nil, err
	}
	if c.GravityScale > 0 {
		l.GravityScale = c.GravityScale
	}
	return l, nil
}

// RunConfig converts the run settings and scripted strokes for the simulator.
func (c *Config) RunConfig() sim.Config {
	cfg := sim.Config{Dt: c.Dt, Duration: c.Duration}
	for _, st := range c.Strokes {
		cfg.Strokes = append(cfg.Strokes, sim.Stroke{At: st.At, Points: st.Points()})
	}
	return cfg
}
