package sim

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravpaint/internal/world"
)

var ErrNoLevel = errors.New("sim: no level")

type Outcome int

const (
	Playing Outcome = iota
	Completed
	Failed
	// Expired means the run ended before the objective was decided.
	Expired
)

var outcomeNames = [...]string{"playing", "completed", "failed", "expired"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// Ended reports whether the objective has been decided.
func (o Outcome) Ended() bool { return o == Completed || o == Failed }

type Metric interface {
	Name() string
	Observe(w *world.World, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s *Session)
}

// Stroke is a scripted swipe committed once the run clock reaches At.
type Stroke struct {
	At     float64
	Points []r2.Vec
}

type Config struct {
	Dt       float64
	Duration float64
	Strokes  []Stroke
}

// Frame is a per-step summary of the scene.
type Frame struct {
	Time        float64 `json:"time"`
	Objects     int     `json:"objects"`
	InGoal      int     `json:"in_goal"`
	Energy      float64 `json:"energy"`
	MaxSpeed    float64 `json:"max_speed"`
	Deformation float64 `json:"deformation"`
	Strokes     int     `json:"strokes"`
	Progress    float64 `json:"progress"`
}

type Result struct {
	Times       []float64
	Frames      []Frame
	Metrics     map[string]float64
	Outcome     Outcome
	Score       int
	Stars       int
	StepsTaken  int
	StrokesUsed int
	Rejected    int
	Final       world.Snapshot
}

type RunError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *RunError) Unwrap() error { return e.Wrapped }
