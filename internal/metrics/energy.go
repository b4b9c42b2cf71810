package metrics

import (
	"github.com/san-kum/gravpaint/internal/world"
)

// TotalEnergy is the mean over samples of the summed object energy.
type TotalEnergy struct {
	name    string
	sum     float64
	samples int
}

func NewTotalEnergy() *TotalEnergy {
	return &TotalEnergy{name: "total_energy"}
}

func (e *TotalEnergy) Name() string { return e.name }

func (e *TotalEnergy) Observe(w *world.World, t float64) {
	total := 0.0
	for _, o := range w.Objects() {
		total += o.Energy()
	}
	e.sum += total
	e.samples++
}

func (e *TotalEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *TotalEnergy) Reset() {
	e.sum = 0
	e.samples = 0
}

// GoalEnergy is the latest energy held by objects that reached the goal.
type GoalEnergy struct {
	name  string
	value float64
}

func NewGoalEnergy() *GoalEnergy {
	return &GoalEnergy{name: "goal_energy"}
}

func (g *GoalEnergy) Name() string { return g.name }

func (g *GoalEnergy) Observe(w *world.World, t float64) { g.value = w.GoalEnergy() }

func (g *GoalEnergy) Value() float64 { return g.value }

func (g *GoalEnergy) Reset() { g.value = 0 }
