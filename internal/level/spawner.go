package level

import (
	"github.com/san-kum/gravpaint/internal/world"
)

// Spawner releases a level's spawn points into a world once its clock passes
// each point's delay.
type Spawner struct {
	spawns  []Spawn
	spawned []bool
	timer   float64
	done    bool
}

func NewSpawner(spawns []Spawn) *Spawner {
	return &Spawner{
		spawns:  spawns,
		spawned: make([]bool, len(spawns)),
		done:    len(spawns) == 0,
	}
}

// Update advances the clock and returns the objects created this call.
func (s *Spawner) Update(dt float64, w *world.World) []*world.Object {
	if s.done {
		return nil
	}
	s.timer += dt

	var created []*world.Object
	all := true
	for i, sp := range s.spawns {
		if s.spawned[i] {
			continue
		}
		if s.timer < sp.Delay {
			all = false
			continue
		}

		o, err := spawn(w, sp)
		if err != nil {
			w.Logger().Warn("skipping spawn", "index", i, "err", err)
		} else if o != nil {
			created = append(created, o)
		}
		s.spawned[i] = true
	}
	s.done = all
	return created
}

func spawn(w *world.World, sp Spawn) (*world.Object, error) {
	kind, err := world.ParseKind(sp.Kind)
	if err != nil {
		return nil, err
	}
	c, err := parseColor(sp.Color)
	if err != nil {
		return nil, err
	}

	size := sp.Size
	if size == 0 {
		size = 1
	}
	o := w.CreateObject(kind, sp.Position.Vec(), size)
	if o == nil {
		return nil, nil
	}

	energy := sp.Energy
	if energy == 0 {
		energy = world.DefaultEnergy
	}
	o.SetEnergy(energy)
	if sp.Color != "" {
		o.Color = c
	}
	w.Logger().Debug("spawned", "id", o.ID(), "kind", kind, "x", sp.Position.X, "y", sp.Position.Y)
	return o, nil
}

func (s *Spawner) Reset() {
	s.timer = 0
	clear(s.spawned)
	s.done = len(s.spawns) == 0
}

// Done reports whether every spawn point has been released.
func (s *Spawner) Done() bool { return s.done }

func (s *Spawner) Elapsed() float64 { return s.timer }

func (s *Spawner) Pending() int {
	n := 0
	for _, ok := range s.spawned {
		if !ok {
			n++
		}
	}
	return n
}
