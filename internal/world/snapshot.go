package world

import "gonum.org/v1/gonum/spatial/r2"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func pt(v r2.Vec) Point { return Point{X: v.X, Y: v.Y} }

// Vec converts back to gonum's vector type.
func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

type ObjectState struct {
	ID       int     `json:"id"`
	Kind     string  `json:"kind"`
	Size     float64 `json:"size"`
	Position Point   `json:"position"`
	Velocity Point   `json:"velocity"`
	Angle    float64 `json:"angle"`
	Energy   float64 `json:"energy"`
	Color    string  `json:"color"`
	Trail    []Point `json:"trail,omitempty"`
	Active   bool    `json:"active"`
	InGoal   bool    `json:"in_goal"`
}

type FieldState struct {
	Position   Point   `json:"position"`
	Direction  Point   `json:"direction"`
	Strength   float64 `json:"strength"`
	Radius     float64 `json:"radius"`
	Zone       string  `json:"zone"`
	Color      string  `json:"color"`
	PulsePhase float64 `json:"pulse_phase"`
}

type SurfaceState struct {
	Nodes       []Point  `json:"nodes"`
	Springs     [][2]int `json:"springs"`
	Deformation float64  `json:"deformation"`
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	Steps    int            `json:"steps"`
	Objects  []ObjectState  `json:"objects"`
	Fields   []FieldState   `json:"fields"`
	Surfaces []SurfaceState `json:"surfaces,omitempty"`
	Goal     *Rect          `json:"goal,omitempty"`
}

func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Steps:   w.steps,
		Objects: make([]ObjectState, 0, len(w.objects)),
	}

	for _, o := range w.objects {
		trail := make([]Point, len(o.trail))
		for i, p := range o.trail {
			trail[i] = pt(p)
		}
		snap.Objects = append(snap.Objects, ObjectState{
			ID:       o.id,
			Kind:     o.kind.String(),
			Size:     o.size,
			Position: pt(o.Position()),
			Velocity: pt(o.Velocity()),
			Angle:    o.Angle(),
			Energy:   o.energy,
			Color:    o.Color.Hex(),
			Trail:    trail,
			Active:   o.active,
			InGoal:   o.inGoal,
		})
	}

	for _, f := range w.Fields() {
		snap.Fields = append(snap.Fields, FieldState{
			Position:   pt(f.Position),
			Direction:  pt(f.Direction()),
			Strength:   f.Strength,
			Radius:     f.Radius,
			Zone:       f.Zone.String(),
			Color:      f.Color.Clamped().Hex(),
			PulsePhase: f.PulsePhase,
		})
	}

	for _, s := range w.surfaces {
		state := SurfaceState{Deformation: s.TotalDeformation()}
		for _, n := range s.Nodes() {
			state.Nodes = append(state.Nodes, pt(n.Position))
		}
		for _, sp := range s.Springs() {
			state.Springs = append(state.Springs, [2]int{sp.A, sp.B})
		}
		snap.Surfaces = append(snap.Surfaces, state)
	}

	if w.hasGoal {
		snap.Goal = &Rect{Min: pt(w.goal.Min), Max: pt(w.goal.Max)}
	}
	return snap
}
