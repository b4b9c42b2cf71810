package world

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravpaint/internal/rigid"
)

// CreateBoundaries walls in a width by height playfield with static boxes
// placed just outside each edge. Existing boundaries are replaced.
func (w *World) CreateBoundaries(width, height float64) {
	if w.space == nil {
		return
	}
	w.DestroyBoundaries()

	t := BoundaryThickness
	walls := []struct{ center, size r2.Vec }{
		{r2.Vec{X: width / 2, Y: height + t/2}, r2.Vec{X: width, Y: t}},
		{r2.Vec{X: width / 2, Y: -t / 2}, r2.Vec{X: width, Y: t}},
		{r2.Vec{X: -t / 2, Y: height / 2}, r2.Vec{X: t, Y: height}},
		{r2.Vec{X: width + t/2, Y: height / 2}, r2.Vec{X: t, Y: height}},
	}
	for _, wall := range walls {
		id := w.addStaticBox(wall.center, wall.size, 0)
		w.boundaries = append(w.boundaries, id)
	}
	w.logger.Debug("boundaries created", "width", width, "height", height)
}

func (w *World) DestroyBoundaries() {
	if w.space == nil {
		return
	}
	for _, id := range w.boundaries {
		w.space.RemoveStatic(id)
	}
	w.boundaries = nil
}

// CreateStaticBox adds an obstacle of size (pixels) rotated by angle radians.
func (w *World) CreateStaticBox(center, size r2.Vec, angle float64) rigid.StaticID {
	if w.space == nil {
		return 0
	}
	id := w.addStaticBox(center, size, angle)
	w.statics = append(w.statics, id)
	return id
}

func (w *World) CreateStaticCircle(center r2.Vec, radius float64) rigid.StaticID {
	if w.space == nil {
		return 0
	}
	id := w.space.AddStaticCircle(toMeters(center), radius/PixelsPerMeter, staticMaterial)
	w.statics = append(w.statics, id)
	return id
}

// DestroyStatic removes an obstacle created by CreateStaticBox or
// CreateStaticCircle. Boundary walls are not affected.
func (w *World) DestroyStatic(id rigid.StaticID) {
	if w.space == nil {
		return
	}
	for i, cur := range w.statics {
		if cur == id {
			w.statics = append(w.statics[:i], w.statics[i+1:]...)
			w.space.RemoveStatic(id)
			return
		}
	}
}

func (w *World) StaticCount() int { return len(w.statics) }

func (w *World) BoundaryCount() int { return len(w.boundaries) }

func (w *World) addStaticBox(center, size r2.Vec, angle float64) rigid.StaticID {
	m := toMeters(size)
	return w.space.AddStaticBox(toMeters(center), m.X, m.Y, angle, staticMaterial)
}
