package world

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// CreateObject spawns a body of the given kind at pos (pixels). size scales
// the shape by 20 px per unit. It returns nil before Initialize.
func (w *World) CreateObject(kind Kind, pos r2.Vec, size float64) *Object {
	if w.space == nil {
		return nil
	}

	h := w.space.Create(bodyDef(kind, pos, size))
	w.nextID++
	o := &Object{
		id:     w.nextID,
		kind:   kind,
		size:   size,
		Color:  KindColor(kind),
		body:   h,
		space:  w.space,
		energy: DefaultEnergy,
		trail:  make([]r2.Vec, 0, TrailCapacity),
		active: true,
	}
	w.objects = append(w.objects, o)
	w.byHandle[h] = o

	w.logger.Debug("object created", "id", o.id, "kind", kind, "pos", pos, "size", size)
	return o
}

// DestroyObject removes o and releases its body. Unknown objects are ignored.
func (w *World) DestroyObject(o *Object) {
	if w.space == nil || o == nil {
		return
	}
	for i, cur := range w.objects {
		if cur != o {
			continue
		}
		w.objects = append(w.objects[:i], w.objects[i+1:]...)
		delete(w.byHandle, o.body)
		w.space.Destroy(o.body)
		o.active = false
		w.logger.Debug("object destroyed", "id", o.id)
		return
	}
}

func (w *World) ClearObjects() {
	if w.space == nil {
		return
	}
	for _, o := range w.objects {
		w.space.Destroy(o.body)
		o.active = false
	}
	w.objects = nil
	clear(w.byHandle)
}

// Objects returns the live objects in creation order. The slice is shared;
// callers must not modify it.
func (w *World) Objects() []*Object { return w.objects }

func (w *World) ObjectCount() int { return len(w.objects) }

func (w *World) ObjectByID(id int) *Object {
	for _, o := range w.objects {
		if o.id == id {
			return o
		}
	}
	return nil
}

// ObjectAt returns the first object whose shape contains p, or nil.
func (w *World) ObjectAt(p r2.Vec) *Object {
	if w.space == nil {
		return nil
	}
	m := toMeters(p)
	for _, o := range w.objects {
		if w.space.Contains(o.body, m) {
			return o
		}
	}
	return nil
}

// ObjectsInArea returns objects whose center lies in area.
func (w *World) ObjectsInArea(area r2.Box) []*Object {
	var out []*Object
	for _, o := range w.objects {
		if contains(area, o.Position()) {
			out = append(out, o)
		}
	}
	return out
}

// CreateGoalZone places the goal rectangle centered on center.
func (w *World) CreateGoalZone(center, size r2.Vec) {
	half := r2.Scale(0.5, size)
	w.goal = r2.Box{Min: r2.Sub(center, half), Max: r2.Add(center, half)}
	w.hasGoal = true
}

// GoalZone returns the goal rectangle and whether one has been set.
func (w *World) GoalZone() (r2.Box, bool) { return w.goal, w.hasGoal }

func (w *World) ClearGoalZone() { w.hasGoal = false }

// IsObjectInGoal is a live containment test, unlike the InGoal latch.
func (w *World) IsObjectInGoal(o *Object) bool {
	if !w.hasGoal || o == nil {
		return false
	}
	return contains(w.goal, o.Position())
}

// ObjectsInGoal returns every object whose goal latch is set.
func (w *World) ObjectsInGoal() []*Object {
	if !w.hasGoal {
		return nil
	}
	var out []*Object
	for _, o := range w.objects {
		if o.inGoal {
			out = append(out, o)
		}
	}
	return out
}

func (w *World) GoalCount() int { return len(w.ObjectsInGoal()) }

func (w *World) CollectedCount() int {
	n := 0
	for _, o := range w.objects {
		if o.collected {
			n++
		}
	}
	return n
}

// GoalEnergy sums the energy of objects latched in the goal.
func (w *World) GoalEnergy() float64 {
	var sum float64
	for _, o := range w.ObjectsInGoal() {
		sum += o.energy
	}
	return sum
}
