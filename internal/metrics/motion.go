package metrics

import (
	"github.com/san-kum/gravpaint/internal/world"
)

// MaxSpeed is the highest object speed seen, in pixels per second.
type MaxSpeed struct {
	name string
	peak float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(w *world.World, t float64) {
	for _, o := range w.Objects() {
		m.peak = max(m.peak, o.Speed())
	}
}

func (m *MaxSpeed) Value() float64 { return m.peak }

func (m *MaxSpeed) Reset() { m.peak = 0 }

// Stability is the fraction of samples in which every object stayed under
// the speed threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(w *world.World, t float64) {
	s.samples++
	for _, o := range w.Objects() {
		if o.Speed() > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
