// Package surface implements a deformable mass-spring sheet. Each node is
// integrated explicitly in sub-steps; the outer ring of nodes is pinned.
package surface

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultResolutionX = 10
	DefaultResolutionY = 5
	DefaultStiffness   = 500.0
	DefaultDamping     = 10.0
	DefaultElasticity  = 0.8
	DefaultNodeMass    = 1.0

	Substeps     = 4
	ImpactRadius = 50.0

	shearRatio   = 0.5
	nodeDrag     = 0.98
	impactScale  = 0.5
	minSpringLen = 1e-4
)

type Node struct {
	Position r2.Vec
	Rest     r2.Vec
	Velocity r2.Vec
	Mass     float64
	Fixed    bool
}

// Displacement is the distance from the rest position.
func (n Node) Displacement() float64 {
	return r2.Norm(r2.Sub(n.Position, n.Rest))
}

type Spring struct {
	A, B       int
	RestLength float64
	Stiffness  float64
	Damping    float64
	Shear      bool
}

type Surface struct {
	center        r2.Vec
	width, height float64
	resX, resY    int

	stiffness  float64
	damping    float64
	elasticity float64

	nodes   []Node
	springs []Spring
}

// New builds a resX by resY grid centered on center. Resolutions below 2 are
// raised to 2.
func New(center r2.Vec, width, height float64, resX, resY int) *Surface {
	if resX < 2 {
		resX = 2
	}
	if resY < 2 {
		resY = 2
	}
	s := &Surface{
		center:     center,
		width:      width,
		height:     height,
		resX:       resX,
		resY:       resY,
		stiffness:  DefaultStiffness,
		damping:    DefaultDamping,
		elasticity: DefaultElasticity,
	}
	s.buildMesh()
	s.buildSprings()
	return s
}

func (s *Surface) cell() (float64, float64) {
	return s.width / float64(s.resX-1), s.height / float64(s.resY-1)
}

func (s *Surface) index(x, y int) int { return y*s.resX + x }

func (s *Surface) buildMesh() {
	cw, ch := s.cell()
	origin := r2.Vec{X: s.center.X - s.width/2, Y: s.center.Y - s.height/2}

	s.nodes = make([]Node, 0, s.resX*s.resY)
	for y := 0; y < s.resY; y++ {
		for x := 0; x < s.resX; x++ {
			p := r2.Vec{X: origin.X + float64(x)*cw, Y: origin.Y + float64(y)*ch}
			s.nodes = append(s.nodes, Node{
				Position: p,
				Rest:     p,
				Mass:     DefaultNodeMass,
				Fixed:    x == 0 || y == 0 || x == s.resX-1 || y == s.resY-1,
			})
		}
	}
}

func (s *Surface) buildSprings() {
	cw, ch := s.cell()
	diag := math.Hypot(cw, ch)

	s.springs = s.springs[:0]
	for y := 0; y < s.resY; y++ {
		for x := 0; x < s.resX; x++ {
			i := s.index(x, y)
			if x < s.resX-1 {
				s.springs = append(s.springs, s.spring(i, i+1, cw, false))
			}
			if y < s.resY-1 {
				s.springs = append(s.springs, s.spring(i, i+s.resX, ch, false))
			}
			if x < s.resX-1 && y < s.resY-1 {
				s.springs = append(s.springs,
					s.spring(i, i+s.resX+1, diag, true),
					s.spring(i+1, i+s.resX, diag, true))
			}
		}
	}
}

func (s *Surface) spring(a, b int, rest float64, shear bool) Spring {
	sp := Spring{A: a, B: b, RestLength: rest, Stiffness: s.stiffness, Damping: s.damping, Shear: shear}
	if shear {
		sp.Stiffness *= shearRatio
		sp.Damping *= shearRatio
	}
	return sp
}

// Update advances the sheet by dt in Substeps equal sub-steps.
func (s *Surface) Update(dt float64) {
	if dt <= 0 {
		return
	}
	h := dt / Substeps
	for i := 0; i < Substeps; i++ {
		s.step(h)
		s.pin()
	}
}

func (s *Surface) step(dt float64) {
	for _, sp := range s.springs {
		a, b := &s.nodes[sp.A], &s.nodes[sp.B]

		delta := r2.Sub(b.Position, a.Position)
		length := r2.Norm(delta)
		if length < minSpringLen {
			continue
		}
		dir := r2.Scale(1/length, delta)

		hooke := (length - sp.RestLength) * sp.Stiffness
		relVel := r2.Dot(r2.Sub(b.Velocity, a.Velocity), dir)
		force := r2.Scale(hooke+relVel*sp.Damping, dir)

		if !a.Fixed {
			a.Velocity = r2.Add(a.Velocity, r2.Scale(dt/a.Mass, force))
		}
		if !b.Fixed {
			b.Velocity = r2.Sub(b.Velocity, r2.Scale(dt/b.Mass, force))
		}
	}

	for i := range s.nodes {
		n := &s.nodes[i]
		if n.Fixed {
			continue
		}
		toRest := r2.Sub(n.Rest, n.Position)
		n.Velocity = r2.Add(n.Velocity, r2.Scale(s.elasticity*dt, toRest))
		n.Velocity = r2.Scale(nodeDrag, n.Velocity)
	}

	for i := range s.nodes {
		n := &s.nodes[i]
		if !n.Fixed {
			n.Position = r2.Add(n.Position, r2.Scale(dt, n.Velocity))
		}
	}
}

func (s *Surface) pin() {
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.Fixed {
			n.Position = n.Rest
			n.Velocity = r2.Vec{}
		}
	}
}

// ApplyImpact pushes free nodes within ImpactRadius of point away from it with
// quadratic falloff.
func (s *Surface) ApplyImpact(point r2.Vec, force float64) {
	const r2max = ImpactRadius * ImpactRadius
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.Fixed {
			continue
		}
		toNode := r2.Sub(n.Position, point)
		d2 := r2.Norm2(toNode)
		if d2 >= r2max || d2 <= minSpringLen {
			continue
		}
		d := math.Sqrt(d2)
		falloff := 1 - d/ImpactRadius
		falloff *= falloff
		n.Velocity = r2.Add(n.Velocity, r2.Scale(force*falloff*impactScale/d, toNode))
	}
}

func (s *Surface) Reset() {
	for i := range s.nodes {
		s.nodes[i].Position = s.nodes[i].Rest
		s.nodes[i].Velocity = r2.Vec{}
	}
}

func (s *Surface) TotalDeformation() float64 {
	var total float64
	for _, n := range s.nodes {
		total += n.Displacement()
	}
	return total
}

// DeformationAt reports the displacement of the node nearest to p.
func (s *Surface) DeformationAt(p r2.Vec) float64 {
	i := s.nearest(p)
	if i < 0 {
		return 0
	}
	return s.nodes[i].Displacement()
}

// NearestPoint returns the current position of the node closest to p, or p
// itself for an empty mesh.
func (s *Surface) NearestPoint(p r2.Vec) r2.Vec {
	i := s.nearest(p)
	if i < 0 {
		return p
	}
	return s.nodes[i].Position
}

func (s *Surface) nearest(p r2.Vec) int {
	best, bestD := -1, math.Inf(1)
	for i, n := range s.nodes {
		if d := r2.Norm2(r2.Sub(n.Position, p)); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

func (s *Surface) IsPointNear(p r2.Vec, threshold float64) bool {
	t2 := threshold * threshold
	for _, n := range s.nodes {
		if r2.Norm2(r2.Sub(n.Position, p)) < t2 {
			return true
		}
	}
	return false
}

// SetStiffness updates every spring. Shear springs keep half the value.
func (s *Surface) SetStiffness(k float64) {
	s.stiffness = k
	for i := range s.springs {
		s.springs[i].Stiffness = k
		if s.springs[i].Shear {
			s.springs[i].Stiffness *= shearRatio
		}
	}
}

func (s *Surface) SetDamping(c float64) {
	s.damping = c
	for i := range s.springs {
		s.springs[i].Damping = c
		if s.springs[i].Shear {
			s.springs[i].Damping *= shearRatio
		}
	}
}

func (s *Surface) SetElasticity(e float64) { s.elasticity = e }
func (s *Surface) Elasticity() float64    { return s.elasticity }
func (s *Surface) Stiffness() float64     { return s.stiffness }
func (s *Surface) Damping() float64       { return s.damping }

func (s *Surface) Center() r2.Vec { return s.center }

func (s *Surface) Resolution() (int, int) { return s.resX, s.resY }

// Bounds is the rest rectangle of the sheet.
func (s *Surface) Bounds() r2.Box {
	half := r2.Vec{X: s.width / 2, Y: s.height / 2}
	return r2.Box{Min: r2.Sub(s.center, half), Max: r2.Add(s.center, half)}
}

// Nodes returns the node slice. Callers must not modify it.
func (s *Surface) Nodes() []Node { return s.nodes }

func (s *Surface) Springs() []Spring { return s.springs }
