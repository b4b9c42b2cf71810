package rigid

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"gonum.org/v1/gonum/spatial/r2"
)

// dynamicType is the collision type of every arena body. Static geometry
// keeps cp's default type, so only body/body contacts reach the callbacks.
const dynamicType cp.CollisionType = 1

// Handle addresses a body in a Space. The zero Handle is never valid.
type Handle struct {
	index uint32
	gen   uint32
}

func (h Handle) Valid() bool { return h.gen != 0 }

func (h Handle) String() string {
	return fmt.Sprintf("body#%d.%d", h.index, h.gen)
}

type StaticID uint32

type entry struct {
	gen            uint32
	body           *cp.Body
	shape          *cp.Shape
	force          cp.Vector
	linearDamping  float64
	angularDamping float64
	enabled        bool
}

type static struct {
	body  *cp.Body
	shape *cp.Shape
}

type Space struct {
	space       *cp.Space
	entries     []entry
	free        []uint32
	live        int
	statics     map[StaticID]static
	nextStatic  StaticID
	onBegin     func(a, b Handle)
	onPostSolve func(a, b Handle, normalImpulse float64)
}

func NewSpace(gravity r2.Vec, iterations int) *Space {
	if iterations < 1 {
		iterations = 1
	}
	s := &Space{
		space:   cp.NewSpace(),
		statics: make(map[StaticID]static),
	}
	s.space.Iterations = uint(iterations)
	s.space.SetGravity(vec(gravity))

	handler := s.space.NewCollisionHandler(dynamicType, dynamicType)
	handler.BeginFunc = s.begin
	handler.PostSolveFunc = s.postSolve
	return s
}

func (s *Space) Gravity() r2.Vec     { return fromVec(s.space.Gravity()) }
func (s *Space) SetGravity(g r2.Vec) { s.space.SetGravity(vec(g)) }
func (s *Space) Len() int            { return s.live }
func (s *Space) Step(dt float64)     { s.space.Step(dt) }

func (s *Space) OnBegin(fn func(a, b Handle)) { s.onBegin = fn }

// OnPostSolve registers fn to run after every solver pass for each touching
// pair, with the magnitude of the accumulated normal impulse.
func (s *Space) OnPostSolve(fn func(a, b Handle, normalImpulse float64)) {
	s.onPostSolve = fn
}

func (s *Space) Create(def BodyDef) Handle {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.entries = append(s.entries, entry{})
		idx = uint32(len(s.entries) - 1)
	}

	e := &s.entries[idx]
	e.gen++
	if e.gen == 0 {
		e.gen = 1
	}
	h := Handle{index: idx, gen: e.gen}

	body := s.space.AddBody(cp.NewBody(0, 0))
	shape := s.space.AddShape(def.Shape.build(body))
	shape.SetDensity(def.Material.Density)
	shape.SetFriction(def.Material.Friction)
	shape.SetElasticity(def.Material.Restitution)
	shape.SetCollisionType(dynamicType)

	body.SetPosition(vec(def.Position))
	body.SetAngle(def.Angle)
	body.UserData = h
	body.SetVelocityUpdateFunc(s.velocityFunc(h))

	e.body = body
	e.shape = shape
	e.force = cp.Vector{}
	e.linearDamping = def.LinearDamping
	e.angularDamping = def.AngularDamping
	e.enabled = true
	s.live++
	return h
}

// velocityFunc integrates gravity plus the body's steady force, then applies
// linear and angular damping as 1/(1+dt*c).
func (s *Space) velocityFunc(h Handle) cp.BodyVelocityFunc {
	return func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
		e := s.lookup(h)
		if e == nil {
			body.UpdateVelocity(gravity, damping, dt)
			return
		}
		g := gravity
		if m := body.Mass(); m > 0 {
			g = g.Add(e.force.Mult(1 / m))
		}
		body.UpdateVelocity(g, damping, dt)
		body.SetVelocityVector(body.Velocity().Mult(1 / (1 + dt*e.linearDamping)))
		body.SetAngularVelocity(body.AngularVelocity() / (1 + dt*e.angularDamping))
	}
}

func (s *Space) lookup(h Handle) *entry {
	if !h.Valid() || int(h.index) >= len(s.entries) {
		return nil
	}
	e := &s.entries[h.index]
	if e.gen != h.gen || e.body == nil {
		return nil
	}
	return e
}

func (s *Space) Exists(h Handle) bool { return s.lookup(h) != nil }

// Destroy removes the body and frees its slot. Stale handles are ignored.
func (s *Space) Destroy(h Handle) {
	e := s.lookup(h)
	if e == nil {
		return
	}
	if e.enabled {
		s.space.RemoveShape(e.shape)
		s.space.RemoveBody(e.body)
	}
	e.body.UserData = nil
	e.body = nil
	e.shape = nil
	e.force = cp.Vector{}
	e.enabled = false
	s.free = append(s.free, h.index)
	s.live--
}

// SetEnabled takes a body out of the simulation without releasing its handle.
func (s *Space) SetEnabled(h Handle, enabled bool) {
	e := s.lookup(h)
	if e == nil || e.enabled == enabled {
		return
	}
	if enabled {
		s.space.AddBody(e.body)
		s.space.AddShape(e.shape)
	} else {
		s.space.RemoveShape(e.shape)
		s.space.RemoveBody(e.body)
	}
	e.enabled = enabled
}

func (s *Space) Enabled(h Handle) bool {
	e := s.lookup(h)
	return e != nil && e.enabled
}

func (s *Space) Position(h Handle) r2.Vec {
	if e := s.lookup(h); e != nil {
		return fromVec(e.body.Position())
	}
	return r2.Vec{}
}

func (s *Space) SetPosition(h Handle, p r2.Vec) {
	if e := s.lookup(h); e != nil {
		e.body.SetPosition(vec(p))
	}
}

func (s *Space) Velocity(h Handle) r2.Vec {
	if e := s.lookup(h); e != nil {
		return fromVec(e.body.Velocity())
	}
	return r2.Vec{}
}

func (s *Space) SetVelocity(h Handle, v r2.Vec) {
	if e := s.lookup(h); e != nil {
		e.body.SetVelocityVector(vec(v))
	}
}

func (s *Space) Angle(h Handle) float64 {
	if e := s.lookup(h); e != nil {
		return e.body.Angle()
	}
	return 0
}

func (s *Space) SetAngle(h Handle, a float64) {
	if e := s.lookup(h); e != nil {
		e.body.SetAngle(a)
	}
}

func (s *Space) AngularVelocity(h Handle) float64 {
	if e := s.lookup(h); e != nil {
		return e.body.AngularVelocity()
	}
	return 0
}

// Mass returns 1 for unknown handles so callers can divide by it.
func (s *Space) Mass(h Handle) float64 {
	if e := s.lookup(h); e != nil {
		return e.body.Mass()
	}
	return 1
}

func (s *Space) SetSteadyForce(h Handle, f r2.Vec) {
	if e := s.lookup(h); e != nil {
		e.force = vec(f)
	}
}

func (s *Space) SteadyForce(h Handle) r2.Vec {
	if e := s.lookup(h); e != nil {
		return fromVec(e.force)
	}
	return r2.Vec{}
}

func (s *Space) ApplyImpulse(h Handle, impulse r2.Vec) {
	if e := s.lookup(h); e != nil {
		e.body.ApplyImpulseAtWorldPoint(vec(impulse), e.body.Position())
	}
}

// Contains reports whether p lies inside the body's shape.
func (s *Space) Contains(h Handle, p r2.Vec) bool {
	e := s.lookup(h)
	if e == nil {
		return false
	}
	// shapes cache their world transform at the last step; refresh it so
	// queries between steps see moved bodies.
	e.shape.Update(cp.NewTransformRigid(e.body.Position(), e.body.Angle()))
	return e.shape.PointQuery(vec(p)).Distance <= 0
}

func (s *Space) AddStaticBox(center r2.Vec, width, height, angle float64, mat Material) StaticID {
	body := cp.NewStaticBody()
	body.SetPosition(vec(center))
	body.SetAngle(angle)
	return s.addStatic(body, cp.NewBox(body, width, height, 0), mat)
}

func (s *Space) AddStaticCircle(center r2.Vec, radius float64, mat Material) StaticID {
	body := cp.NewStaticBody()
	body.SetPosition(vec(center))
	return s.addStatic(body, cp.NewCircle(body, radius, cp.Vector{}), mat)
}

func (s *Space) addStatic(body *cp.Body, shape *cp.Shape, mat Material) StaticID {
	s.space.AddBody(body)
	s.space.AddShape(shape)
	shape.SetFriction(mat.Friction)
	shape.SetElasticity(mat.Restitution)
	s.nextStatic++
	s.statics[s.nextStatic] = static{body: body, shape: shape}
	return s.nextStatic
}

func (s *Space) RemoveStatic(id StaticID) {
	st, ok := s.statics[id]
	if !ok {
		return
	}
	s.space.RemoveShape(st.shape)
	s.space.RemoveBody(st.body)
	delete(s.statics, id)
}

func (s *Space) StaticCount() int { return len(s.statics) }

func (s *Space) begin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	if s.onBegin == nil {
		return true
	}
	if a, b, ok := handles(arb); ok {
		s.onBegin(a, b)
	}
	return true
}

func (s *Space) postSolve(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
	if s.onPostSolve == nil {
		return
	}
	a, b, ok := handles(arb)
	if !ok {
		return
	}
	impulse := math.Abs(arb.TotalImpulse().Dot(arb.Normal()))
	s.onPostSolve(a, b, impulse)
}

func handles(arb *cp.Arbiter) (Handle, Handle, bool) {
	ba, bb := arb.Bodies()
	a, okA := ba.UserData.(Handle)
	b, okB := bb.UserData.(Handle)
	return a, b, okA && okB
}
