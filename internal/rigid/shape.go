package rigid

import (
	"math"

	"github.com/jakecoffman/cp"
	"gonum.org/v1/gonum/spatial/r2"
)

type ShapeKind int

const (
	Circle ShapeKind = iota
	Box
	Polygon
)

// Shape describes the single collision shape of a body in local space.
type Shape struct {
	Kind   ShapeKind
	Radius float64
	Width  float64
	Height float64
	Verts  []r2.Vec
}

type Material struct {
	Density     float64
	Friction    float64
	Restitution float64
}

type BodyDef struct {
	Position       r2.Vec
	Angle          float64
	Shape          Shape
	Material       Material
	LinearDamping  float64
	AngularDamping float64
}

// RegularPolygon returns n vertices on a circle of radius r, the first one
// pointing up (negative y).
func RegularPolygon(n int, r float64) []r2.Vec {
	verts := make([]r2.Vec, n)
	for i := range verts {
		a := float64(i)*2*math.Pi/float64(n) - math.Pi/2
		verts[i] = r2.Vec{X: math.Cos(a) * r, Y: math.Sin(a) * r}
	}
	return verts
}

func (s Shape) build(body *cp.Body) *cp.Shape {
	switch s.Kind {
	case Box:
		return cp.NewBox(body, s.Width, s.Height, 0)
	case Polygon:
		if len(s.Verts) < 3 {
			return cp.NewCircle(body, s.Radius, cp.Vector{})
		}
		verts := make([]cp.Vector, len(s.Verts))
		for i, v := range s.Verts {
			verts[i] = vec(v)
		}
		return cp.NewPolyShape(body, len(verts), verts, cp.NewTransformIdentity(), 0)
	default:
		return cp.NewCircle(body, s.Radius, cp.Vector{})
	}
}

func vec(v r2.Vec) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

func fromVec(v cp.Vector) r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}
