package level

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravpaint/internal/gravity"
	"github.com/san-kum/gravpaint/internal/objective"
	"github.com/san-kum/gravpaint/internal/world"
)

const (
	ScreenWidth  = 1080.0
	ScreenHeight = 1920.0

	DefaultTimeLimit = 90.0
	TotalLevels      = 50

	BaseGoalScore      = 100
	EfficiencyBonus    = 25
	TimeBonusPerSecond = 10
)

var (
	ErrInvalidLevel = errors.New("level: invalid level")
	ErrUnknownKind  = errors.New("level: unknown kind")
)

type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Rect is anchored at its top-left corner.
type Rect struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	W float64 `yaml:"w" json:"w"`
	H float64 `yaml:"h" json:"h"`
}

func (r Rect) Center() r2.Vec { return r2.Vec{X: r.X + r.W/2, Y: r.Y + r.H/2} }
func (r Rect) Size() r2.Vec   { return r2.Vec{X: r.W, Y: r.H} }

func (r Rect) Box() r2.Box {
	return r2.Box{Min: r2.Vec{X: r.X, Y: r.Y}, Max: r2.Vec{X: r.X + r.W, Y: r.Y + r.H}}
}

type Spawn struct {
	Position Point   `yaml:"position"`
	Kind     string  `yaml:"kind"`
	Delay    float64 `yaml:"delay,omitempty"`
	Size     float64 `yaml:"size,omitempty"`
	Energy   float64 `yaml:"energy,omitempty"`
	Color    string  `yaml:"color,omitempty"`
}

type Obstacle struct {
	Position Point   `yaml:"position"`
	Size     Point   `yaml:"size"`
	Rotation float64 `yaml:"rotation,omitempty"`
	Circle   bool    `yaml:"circle,omitempty"`
	Color    string  `yaml:"color,omitempty"`
}

type Zone struct {
	Type string `yaml:"type"`
	Rect Rect   `yaml:"rect"`
}

type Surface struct {
	Position   Point   `yaml:"position"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Stiffness  float64 `yaml:"stiffness,omitempty"`
	Damping    float64 `yaml:"damping,omitempty"`
	Elasticity float64 `yaml:"elasticity,omitempty"`
}

type Level struct {
	ID            int            `yaml:"id"`
	Name          string         `yaml:"name"`
	Width         float64        `yaml:"width"`
	Height        float64        `yaml:"height"`
	TimeLimit     float64        `yaml:"time_limit"`
	MaxStrokes    int            `yaml:"max_strokes"`
	Difficulty    int            `yaml:"difficulty"`
	Tutorial      bool           `yaml:"tutorial,omitempty"`
	TutorialSteps []string       `yaml:"tutorial_steps,omitempty"`
	GravityScale  float64        `yaml:"gravity_scale,omitempty"`
	Goal          Rect           `yaml:"goal"`
	Spawns        []Spawn        `yaml:"spawns"`
	Obstacles     []Obstacle     `yaml:"obstacles,omitempty"`
	Zones         []Zone         `yaml:"zones,omitempty"`
	Surfaces      []Surface      `yaml:"surfaces,omitempty"`
	Objective     objective.Spec `yaml:"objective"`
	Stars         [3]int         `yaml:"stars,flow"`
}

func defaults() *Level {
	return &Level{
		Width:        ScreenWidth,
		Height:       ScreenHeight,
		TimeLimit:    DefaultTimeLimit,
		MaxStrokes:   gravity.MaxActiveStrokes,
		GravityScale: 1,
		Objective:    objective.Spec{Type: objective.ReachGoal.String(), Count: 1},
	}
}

func Parse(data []byte) (*Level, error) {
	l := defaults()
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("parse level: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

func Save(path string, l *Level) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks dimensions, kinds, colors and the objective.
func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: size %gx%g", ErrInvalidLevel, l.Width, l.Height)
	}
	if l.TimeLimit < 0 || l.MaxStrokes < 0 {
		return fmt.Errorf("%w: negative time limit or stroke budget", ErrInvalidLevel)
	}
	if l.GravityScale < 0 {
		return fmt.Errorf("%w: gravity scale %g", ErrInvalidLevel, l.GravityScale)
	}
	if len(l.Spawns) == 0 {
		return fmt.Errorf("%w: no spawn points", ErrInvalidLevel)
	}
	for i, s := range l.Spawns {
		if _, err := world.ParseKind(s.Kind); err != nil {
			return fmt.Errorf("%w: spawn %d: object %q", ErrUnknownKind, i, s.Kind)
		}
		if _, err := parseColor(s.Color); err != nil {
			return fmt.Errorf("%w: spawn %d: %v", ErrInvalidLevel, i, err)
		}
		if s.Delay < 0 || s.Size < 0 {
			return fmt.Errorf("%w: spawn %d: negative delay or size", ErrInvalidLevel, i)
		}
	}
	for i, z := range l.Zones {
		if _, err := gravity.ParseZone(z.Type); err != nil {
			return fmt.Errorf("%w: zone %d: %q", ErrUnknownKind, i, z.Type)
		}
	}
	for i, o := range l.Obstacles {
		if o.Size.X <= 0 || o.Size.Y <= 0 {
			return fmt.Errorf("%w: obstacle %d has no size", ErrInvalidLevel, i)
		}
	}
	if _, err := objective.New(l.Objective); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}
	if l.Stars[0] > l.Stars[1] || l.Stars[1] > l.Stars[2] {
		return fmt.Errorf("%w: star thresholds %v not ascending", ErrInvalidLevel, l.Stars)
	}
	return nil
}

// StarCount maps a score to 0-3 stars, checking the highest threshold first.
func (l *Level) StarCount(score int) int {
	switch {
	case score >= l.Stars[2]:
		return 3
	case score >= l.Stars[1]:
		return 2
	case score >= l.Stars[0]:
		return 1
	}
	return 0
}

// Score rewards finishing early and with strokes to spare.
func (l *Level) Score(elapsed float64, strokesUsed int) int {
	timeBonus := max(0, int((l.TimeLimit-elapsed)*TimeBonusPerSecond))
	strokeBonus := max(0, (l.MaxStrokes-strokesUsed)*EfficiencyBonus)
	return BaseGoalScore + timeBonus + strokeBonus
}

func (l *Level) NewObjective() (*objective.Objective, error) {
	return objective.New(l.Objective)
}

// Build lays the level's static scene into w: walls, goal, obstacles, zones,
// surfaces and the scaled gravity. Objects are left to a Spawner.
func (l *Level) Build(w *world.World) error {
	if !w.Initialized() {
		return fmt.Errorf("%w: world not initialized", ErrInvalidLevel)
	}

	scale := l.GravityScale
	if scale == 0 {
		scale = 1
	}
	w.SetGravity(r2.Scale(scale, world.DefaultGravity))

	w.CreateBoundaries(l.Width, l.Height)
	w.CreateGoalZone(l.Goal.Center(), l.Goal.Size())

	for _, o := range l.Obstacles {
		if o.Circle {
			w.CreateStaticCircle(o.Position.Vec(), max(o.Size.X, o.Size.Y)/2)
		} else {
			w.CreateStaticBox(o.Position.Vec(), o.Size.Vec(), o.Rotation)
		}
	}

	for _, z := range l.Zones {
		kind, err := gravity.ParseZone(z.Type)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnknownKind, err)
		}
		w.CreateZone(kind, z.Rect.Box())
	}

	for _, s := range l.Surfaces {
		surf := w.CreateSurface(s.Position.Vec(), s.Width, s.Height)
		if s.Stiffness > 0 {
			surf.SetStiffness(s.Stiffness)
		}
		if s.Damping > 0 {
			surf.SetDamping(s.Damping)
		}
		if s.Elasticity > 0 {
			surf.SetElasticity(s.Elasticity)
		}
	}

	w.Logger().Debug("level built", "id", l.ID, "name", l.Name,
		"obstacles", len(l.Obstacles), "zones", len(l.Zones), "surfaces", len(l.Surfaces))
	return nil
}

func parseColor(hex string) (colorful.Color, error) {
	if hex == "" {
		return colorful.Color{}, nil
	}
	return colorful.Hex(hex)
}
