package gravity

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// StrokeColor is the default tint of player strokes.
var StrokeColor = colorful.Color{R: 0, G: 1, B: 1}

type Stroke struct {
	ID          int
	Points      []r2.Vec
	Direction   r2.Vec
	Strength    float64
	Lifetime    float64
	MaxLifetime float64
	Active      bool
	CommittedAt float64
	Color       colorful.Color
}

// NewStroke derives direction and strength from the first and last sample.
// Strength grows linearly with swipe length up to MaxSwipe.
func NewStroke(points []r2.Vec, committedAt float64) (*Stroke, error) {
	if len(points) < 2 {
		return nil, ErrStrokeTooShort
	}
	delta := r2.Sub(points[len(points)-1], points[0])
	dist := r2.Norm(delta)
	if dist < MinSwipe {
		return nil, ErrStrokeTooShort
	}

	pts := make([]r2.Vec, len(points))
	copy(pts, points)

	return &Stroke{
		Points:      pts,
		Direction:   r2.Scale(1/dist, delta),
		Strength:    math.Min(dist/MaxSwipe, 1) * MaxStrength,
		MaxLifetime: StrokeLifetime,
		Active:      true,
		CommittedAt: committedAt,
		Color:       StrokeColor,
	}, nil
}

// Alpha decays linearly from 1 to 0 over the stroke's lifetime.
func (s *Stroke) Alpha() float64 {
	if s.MaxLifetime <= 0 {
		return 0
	}
	return math.Max(0, 1-s.Lifetime/s.MaxLifetime)
}

// Midpoint is the middle sample, not the geometric middle.
func (s *Stroke) Midpoint() r2.Vec {
	return s.Points[len(s.Points)/2]
}

func (s *Stroke) Expired() bool {
	return s.Lifetime >= s.MaxLifetime
}

func (s *Stroke) Length() float64 {
	if len(s.Points) < 2 {
		return 0
	}
	return r2.Norm(r2.Sub(s.Points[len(s.Points)-1], s.Points[0]))
}
