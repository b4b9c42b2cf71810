package objective

import "fmt"

type handlers struct {
	update   func(o *Objective, dt float64, w World)
	complete func(o *Objective) bool
	progress func(o *Objective) float64
	describe func(o *Objective) string
}

var dispatch = [...]handlers{
	ReachGoal: {
		update: func(o *Objective, _ float64, w World) {
			if w != nil {
				o.current = w.GoalCount()
			}
		},
		complete: countReached,
		progress: countProgress,
		describe: func(o *Objective) string {
			return fmt.Sprintf("Guide %d/%d objects to goal", o.current, o.required)
		},
	},

	CollectItems: {
		update: func(o *Objective, _ float64, w World) {
			if w != nil {
				o.current = w.CollectedCount()
			}
		},
		complete: countReached,
		progress: countProgress,
		describe: func(o *Objective) string {
			return fmt.Sprintf("Collect %d/%d items", o.current, o.required)
		},
	},

	// failure is decided before goals are counted, and completion needs time
	// left, so the two never hold together.
	TimeChallenge: {
		update: func(o *Objective, dt float64, w World) {
			o.remaining -= dt
			if o.remaining <= 0 {
				o.failed = true
			}
			if w != nil {
				o.current = w.GoalCount()
			}
		},
		complete: func(o *Objective) bool {
			return o.current >= o.required && o.remaining > 0
		},
		progress: countProgress,
		describe: func(o *Objective) string {
			return fmt.Sprintf("Time: %ds - Goals: %d/%d", int(o.remaining), o.current, o.required)
		},
	},

	ChainReaction: {
		update: func(o *Objective, dt float64, _ World) {
			if o.chainTimeout <= 0 {
				return
			}
			o.chainTimeout -= dt
			if o.chainTimeout <= 0 {
				o.current = 0
				o.chainTimeout = 0
			}
		},
		complete: func(o *Objective) bool { return o.maxChain >= o.required },
		progress: func(o *Objective) float64 { return ratio(o.maxChain, o.required) },
		describe: func(o *Objective) string {
			s := fmt.Sprintf("Chain reaction: %d/%d", o.maxChain, o.required)
			if o.current > 0 {
				s += fmt.Sprintf(" (current: %d)", o.current)
			}
			return s
		},
	},

	// goals met completes the level even past the stroke budget.
	MinimizeStrokes: {
		update: func(o *Objective, _ float64, w World) {
			if w != nil {
				o.current = w.GoalCount()
			}
			if o.strokesUsed > o.maxStrokes && o.current < o.required {
				o.failed = true
			}
		},
		complete: countReached,
		progress: countProgress,
		describe: func(o *Objective) string {
			return fmt.Sprintf("Strokes: %d/%d - Goals: %d/%d", o.strokesUsed, o.maxStrokes, o.current, o.required)
		},
	},

	MaximizeEnergy: {
		update: func(o *Objective, _ float64, w World) {
			if w != nil {
				o.totalEnergy = w.GoalEnergy()
			}
		},
		complete: func(o *Objective) bool { return o.totalEnergy >= o.requiredEnergy },
		progress: func(o *Objective) float64 {
			if o.requiredEnergy <= 0 {
				return 1
			}
			return o.totalEnergy / o.requiredEnergy
		},
		describe: func(o *Objective) string {
			return fmt.Sprintf("Energy in goal: %d/%d", int(o.totalEnergy), int(o.requiredEnergy))
		},
	},
}

func countReached(o *Objective) bool     { return o.current >= o.required }
func countProgress(o *Objective) float64 { return ratio(o.current, o.required) }
