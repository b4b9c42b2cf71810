package metrics

import (
	"github.com/san-kum/gravpaint/internal/world"
)

// SurfaceDeformation is the peak summed node displacement over all surfaces.
type SurfaceDeformation struct {
	name string
	peak float64
}

func NewSurfaceDeformation() *SurfaceDeformation {
	return &SurfaceDeformation{name: "surface_deformation"}
}

func (d *SurfaceDeformation) Name() string { return d.name }

func (d *SurfaceDeformation) Observe(w *world.World, t float64) {
	total := 0.0
	for _, s := range w.Surfaces() {
		total += s.TotalDeformation()
	}
	d.peak = max(d.peak, total)
}

func (d *SurfaceDeformation) Value() float64 { return d.peak }

func (d *SurfaceDeformation) Reset() { d.peak = 0 }

// GoalArrivals is the number of objects in the goal at the last sample.
type GoalArrivals struct {
	name  string
	count int
}

func NewGoalArrivals() *GoalArrivals {
	return &GoalArrivals{name: "goal_arrivals"}
}

func (g *GoalArrivals) Name() string { return g.name }

func (g *GoalArrivals) Observe(w *world.World, t float64) { g.count = w.GoalCount() }

func (g *GoalArrivals) Value() float64 { return float64(g.count) }

func (g *GoalArrivals) Reset() { g.count = 0 }

// FieldEffort integrates the strength of every live field over time.
type FieldEffort struct {
	name  string
	sum   float64
	lastT float64
	seen  bool
}

func NewFieldEffort() *FieldEffort {
	return &FieldEffort{name: "field_effort"}
}

func (f *FieldEffort) Name() string { return f.name }

func (f *FieldEffort) Observe(w *world.World, t float64) {
	if f.seen {
		strength := 0.0
		for _, field := range w.Fields() {
			strength += field.Strength
		}
		f.sum += strength * (t - f.lastT)
	}
	f.lastT = t
	f.seen = true
}

func (f *FieldEffort) Value() float64 { return f.sum }

func (f *FieldEffort) Reset() {
	f.sum = 0
	f.lastT = 0
	f.seen = false
}

// Steps is the number of fixed physics steps the world has taken.
type Steps struct {
	name  string
	steps int
}

func NewSteps() *Steps {
	return &Steps{name: "steps"}
}

func (s *Steps) Name() string { return s.name }

func (s *Steps) Observe(w *world.World, t float64) { s.steps = w.Steps() }

func (s *Steps) Value() float64 { return float64(s.steps) }

func (s *Steps) Reset() { s.steps = 0 }
