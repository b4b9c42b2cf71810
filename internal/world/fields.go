package world

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravpaint/internal/gravity"
	"github.com/san-kum/gravpaint/internal/surface"
)

// CreateField adds a persistent field. It survives ApplyGravityFromStrokes
// and is removed only when it expires or on Reset.
func (w *World) CreateField(pos, dir r2.Vec, strength, radius float64) *gravity.Field {
	if w.space == nil {
		return nil
	}
	f := gravity.NewField(pos, dir, strength, radius)
	w.fields = append(w.fields, f)
	return f
}

// CreateZone adds a permanent rectangular zone from level data.
func (w *World) CreateZone(kind gravity.Zone, rect r2.Box) *gravity.Field {
	if w.space == nil {
		return nil
	}
	f := gravity.NewZone(kind, rect)
	f.Gravity = r2.Norm(w.gravity)
	w.fields = append(w.fields, f)
	w.logger.Debug("zone created", "zone", kind, "rect", rect)
	return f
}

func (w *World) RemoveField(f *gravity.Field) {
	if i := slices.Index(w.fields, f); i >= 0 {
		w.fields = slices.Delete(w.fields, i, i+1)
		return
	}
	if i := slices.Index(w.strokeFields, f); i >= 0 {
		w.strokeFields = slices.Delete(w.strokeFields, i, i+1)
	}
}

func (w *World) ClearFields() {
	w.fields = nil
	w.strokeFields = nil
}

// Fields returns persistent fields followed by this tick's stroke fields.
func (w *World) Fields() []*gravity.Field {
	out := make([]*gravity.Field, 0, len(w.fields)+len(w.strokeFields))
	out = append(out, w.fields...)
	return append(out, w.strokeFields...)
}

func (w *World) eachField(fn func(*gravity.Field)) {
	for _, f := range w.fields {
		fn(f)
	}
	for _, f := range w.strokeFields {
		fn(f)
	}
}

// ApplyGravityFromStrokes replaces the previous stroke fields with one field
// per live stroke, placed at the stroke's middle sample and faded by its
// alpha. Persistent fields are untouched.
func (w *World) ApplyGravityFromStrokes(strokes []*gravity.Stroke) {
	if w.space == nil {
		return
	}
	w.strokeFields = w.strokeFields[:0]
	for _, s := range strokes {
		if s == nil || !s.Active || len(s.Points) < 2 {
			continue
		}
		f := gravity.NewField(s.Midpoint(), s.Direction, s.Strength*s.Alpha(), gravity.StrokeRadius)
		f.MaxLifetime = 0
		f.Color = s.Color
		w.strokeFields = append(w.strokeFields, f)
	}
}

// CreateSurface adds a deformable sheet with default resolution.
func (w *World) CreateSurface(center r2.Vec, width, height float64) *surface.Surface {
	if w.space == nil {
		return nil
	}
	s := surface.New(center, width, height, surface.DefaultResolutionX, surface.DefaultResolutionY)
	w.surfaces = append(w.surfaces, s)
	return s
}

func (w *World) RemoveSurface(s *surface.Surface) {
	if i := slices.Index(w.surfaces, s); i >= 0 {
		w.surfaces = slices.Delete(w.surfaces, i, i+1)
	}
}

func (w *World) Surfaces() []*surface.Surface { return w.surfaces }
