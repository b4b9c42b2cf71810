// Package world owns the simulated scene: dynamic objects, force fields,
// deformable surfaces, static geometry and the goal region. It advances the
// rigid backend on a fixed timestep and relays contacts into the energy
// transfer rule.
package world

import (
	"errors"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravpaint/internal/gravity"
	"github.com/san-kum/gravpaint/internal/rigid"
	"github.com/san-kum/gravpaint/internal/surface"
)

const (
	PixelsPerMeter = 30.0
	FixedStep      = 1.0 / 60.0
	Iterations     = 8

	MaxEnergy     = 100.0
	DefaultEnergy = 50.0
	EnergyDecay   = 0.1

	TransferRate     = 0.7
	ImpulseThreshold = 1.0
	maxTransfer      = 10.0

	TrailCapacity = 50
	TrailInterval = 0.02

	BoundaryThickness = 50.0

	// objects closer than this to a surface node and faster than
	// impactSpeed dent the surface.
	surfaceProximity = 20.0
	impactSpeed      = 5.0

	minFieldForce2 = 0.01
	sizeScale      = 20.0
)

// DefaultGravity points down the screen, in m/s².
var DefaultGravity = r2.Vec{X: 0, Y: 3.5}

var ErrUnknownKind = errors.New("world: unknown object kind")

var staticMaterial = rigid.Material{Friction: 0.3, Restitution: 0.5}

type CollisionFunc func(a, b *Object)

type Option func(*World)

func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithGravity sets the ambient gravity in m/s².
func WithGravity(g r2.Vec) Option {
	return func(w *World) { w.gravity = g }
}

type World struct {
	logger  *log.Logger
	gravity r2.Vec
	space   *rigid.Space

	objects  []*Object
	byHandle map[rigid.Handle]*Object
	nextID   int

	fields       []*gravity.Field
	strokeFields []*gravity.Field
	surfaces     []*surface.Surface

	boundaries []rigid.StaticID
	statics    []rigid.StaticID

	goal    r2.Box
	hasGoal bool

	accumulator float64
	steps       int
	onCollision CollisionFunc
}

// New returns a world that does nothing until Initialize is called.
func New(opts ...Option) *World {
	w := &World{
		logger:   log.New(io.Discard),
		gravity:  DefaultGravity,
		byHandle: make(map[rigid.Handle]*Object),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Initialize creates the rigid backend. Calling it twice is harmless.
func (w *World) Initialize() {
	if w.space != nil {
		return
	}
	w.space = rigid.NewSpace(w.gravity, Iterations)
	w.space.OnBegin(w.beginContact)
	w.space.OnPostSolve(w.postSolve)
	w.logger.Debug("world initialized", "gravity", w.gravity)
}

func (w *World) Initialized() bool { return w.space != nil }

// Shutdown releases every object, field, surface and static body.
func (w *World) Shutdown() {
	if w.space == nil {
		return
	}
	w.ClearObjects()
	w.ClearFields()
	w.surfaces = nil
	w.DestroyBoundaries()
	for _, id := range w.statics {
		w.space.RemoveStatic(id)
	}
	w.statics = nil
	w.hasGoal = false
	w.accumulator = 0
	w.space = nil
	w.logger.Debug("world shut down", "steps", w.steps)
}

// Update advances the world by dt seconds. Field forces are sampled once and
// held for every fixed step taken in this call.
func (w *World) Update(dt float64) {
	if w.space == nil {
		return
	}

	w.applyFieldForces()

	w.accumulator += dt
	for w.accumulator >= FixedStep {
		w.space.Step(FixedStep)
		w.accumulator -= FixedStep
		w.steps++
	}

	for _, o := range w.objects {
		if !o.active {
			continue
		}
		o.update(dt)
		if w.hasGoal && contains(w.goal, o.Position()) {
			o.inGoal = true
		}
	}

	w.updateSurfaces(dt)
	w.updateFields(dt)
}

// Reset drops objects and fields, relaxes surfaces and zeroes the
// accumulator. Boundaries, statics and the goal survive.
func (w *World) Reset() {
	w.ClearObjects()
	w.ClearFields()
	for _, s := range w.surfaces {
		s.Reset()
	}
	w.accumulator = 0
}

func (w *World) applyFieldForces() {
	for _, o := range w.objects {
		if !o.active {
			continue
		}
		pos := o.Position()

		var total r2.Vec
		w.eachField(func(f *gravity.Field) {
			if f.Active && f.InRange(pos) {
				total = r2.Add(total, f.CalculateForce(pos))
			}
		})

		if r2.Norm2(total) > minFieldForce2 {
			w.space.SetSteadyForce(o.body, r2.Scale(o.Mass(), total))
		} else {
			w.space.SetSteadyForce(o.body, r2.Vec{})
		}
	}
}

func (w *World) updateSurfaces(dt float64) {
	for _, s := range w.surfaces {
		s.Update(dt)
		for _, o := range w.objects {
			if !o.active {
				continue
			}
			pos := o.Position()
			speed := o.Speed()
			if speed > impactSpeed && s.IsPointNear(pos, surfaceProximity) {
				s.ApplyImpact(pos, speed)
			}
		}
	}
}

func (w *World) updateFields(dt float64) {
	w.fields = advance(w.fields, dt)
	w.strokeFields = advance(w.strokeFields, dt)
}

func advance(fields []*gravity.Field, dt float64) []*gravity.Field {
	kept := fields[:0]
	for _, f := range fields {
		f.Update(dt)
		if !f.Expired() {
			kept = append(kept, f)
		}
	}
	for i := len(kept); i < len(fields); i++ {
		fields[i] = nil
	}
	return kept
}

func (w *World) beginContact(a, b rigid.Handle) {
	if w.onCollision == nil {
		return
	}
	oa, ob := w.byHandle[a], w.byHandle[b]
	if oa != nil && ob != nil {
		w.onCollision(oa, ob)
	}
}

func (w *World) postSolve(a, b rigid.Handle, impulse float64) {
	if impulse <= ImpulseThreshold {
		return
	}
	oa, ob := w.byHandle[a], w.byHandle[b]
	if oa == nil || ob == nil {
		return
	}
	transferEnergy(oa, ob, impulse)
}

// transferEnergy moves energy from the more energetic object to the other.
// On a tie the second object donates.
func transferEnergy(a, b *Object, impulse float64) {
	amount := math.Min(impulse*0.1, maxTransfer) * TransferRate
	if a.energy > b.energy {
		a.TransferEnergy(b, amount)
	} else {
		b.TransferEnergy(a, amount)
	}
}

func (w *World) SetCollisionCallback(fn CollisionFunc) { w.onCollision = fn }

// Gravity is the ambient gravity in m/s².
func (w *World) Gravity() r2.Vec { return w.gravity }

func (w *World) SetGravity(g r2.Vec) {
	w.gravity = g
	if w.space != nil {
		w.space.SetGravity(g)
	}
	mag := r2.Norm(g)
	w.eachField(func(f *gravity.Field) {
		if f.Zone == gravity.Zero {
			f.Gravity = mag
		}
	})
}

// Steps is the number of fixed backend steps taken so far.
func (w *World) Steps() int { return w.steps }

func (w *World) Logger() *log.Logger { return w.logger }

func toMeters(p r2.Vec) r2.Vec { return r2.Scale(1/PixelsPerMeter, p) }
func toPixels(p r2.Vec) r2.Vec { return r2.Scale(PixelsPerMeter, p) }

// contains is inclusive on every edge.
func contains(b r2.Box, p r2.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
