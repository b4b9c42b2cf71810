// Package metrics holds run statistics sampled from the world once per tick.
package metrics

import "github.com/san-kum/gravpaint/internal/sim"

// Default is the metric set recorded by the run command.
func Default() []sim.Metric {
	return []sim.Metric{
		NewTotalEnergy(),
		NewGoalEnergy(),
		NewMaxSpeed(),
		NewStability(1500),
		NewSurfaceDeformation(),
		NewGoalArrivals(),
		NewFieldEffort(),
		NewSteps(),
	}
}
