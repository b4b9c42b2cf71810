package world

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravpaint/internal/rigid"
)

type Kind int

const (
	Ball Kind = iota
	Box
	Triangle
	Star
	Blob
)

var kindNames = [...]string{"ball", "box", "triangle", "star", "blob"}

var Kinds = []Kind{Ball, Box, Triangle, Star, Blob}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return Ball, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

var (
	White   = rgb(255, 255, 255)
	Blue    = rgb(100, 150, 255)
	Green   = rgb(100, 255, 100)
	Yellow  = rgb(255, 255, 100)
	Cyan    = rgb(100, 255, 255)
	Magenta = rgb(255, 100, 255)
	Orange  = rgb(255, 180, 80)
)

// KindColor is the default tint of a freshly created object.
func KindColor(k Kind) colorful.Color {
	switch k {
	case Box:
		return Orange
	case Triangle:
		return Green
	case Star:
		return Yellow
	case Blob:
		return Magenta
	default:
		return Cyan
	}
}

// Object is a dynamic body owned by a World. Positions and velocities are in
// pixels; the body itself lives in the world's rigid space.
type Object struct {
	id    int
	kind  Kind
	size  float64
	Color colorful.Color

	body  rigid.Handle
	space *rigid.Space

	energy     float64
	trail      []r2.Vec
	trailTimer float64

	active      bool
	inGoal      bool
	collected   bool
	reachedGoal bool
}

func (o *Object) ID() int              { return o.id }
func (o *Object) Kind() Kind           { return o.kind }
func (o *Object) Size() float64        { return o.size }
func (o *Object) Handle() rigid.Handle { return o.body }

func (o *Object) Position() r2.Vec {
	return toPixels(o.space.Position(o.body))
}

func (o *Object) SetPosition(p r2.Vec) {
	o.space.SetPosition(o.body, toMeters(p))
}

func (o *Object) Velocity() r2.Vec {
	return toPixels(o.space.Velocity(o.body))
}

func (o *Object) SetVelocity(v r2.Vec) {
	o.space.SetVelocity(o.body, toMeters(v))
}

func (o *Object) Speed() float64 { return r2.Norm(o.Velocity()) }

func (o *Object) Angle() float64           { return o.space.Angle(o.body) }
func (o *Object) SetAngle(a float64)       { o.space.SetAngle(o.body, a) }
func (o *Object) AngularVelocity() float64 { return o.space.AngularVelocity(o.body) }

// Mass is in kilograms.
func (o *Object) Mass() float64 { return o.space.Mass(o.body) }

// ApplyImpulse takes an impulse in kg·m/s.
func (o *Object) ApplyImpulse(j r2.Vec) { o.space.ApplyImpulse(o.body, j) }

func (o *Object) Energy() float64 { return o.energy }

func (o *Object) SetEnergy(e float64) {
	o.energy = clamp(e, 0, MaxEnergy)
}

func (o *Object) AddEnergy(amount float64) { o.SetEnergy(o.energy + amount) }

// TransferEnergy moves up to amount from o to other. The donor never goes
// negative and the recipient clamps at MaxEnergy, so the pair never gains
// energy.
func (o *Object) TransferEnergy(other *Object, amount float64) {
	if other == nil || amount <= 0 {
		return
	}
	t := min(o.energy, amount)
	o.energy -= t
	other.AddEnergy(t)
}

// EnergyColor blends blue through white to orange as energy rises.
func (o *Object) EnergyColor() colorful.Color {
	n := o.energy / MaxEnergy
	if n < 0.5 {
		return Blue.BlendRgb(White, n*2)
	}
	return White.BlendRgb(Orange, (n-0.5)*2)
}

// Trail returns a copy of the recent positions, oldest first.
func (o *Object) Trail() []r2.Vec {
	out := make([]r2.Vec, len(o.trail))
	copy(out, o.trail)
	return out
}

func (o *Object) Active() bool { return o.active }

// SetActive takes the body in or out of the simulation.
func (o *Object) SetActive(active bool) {
	o.active = active
	o.space.SetEnabled(o.body, active)
}

func (o *Object) InGoal() bool          { return o.inGoal }
func (o *Object) SetInGoal(v bool)      { o.inGoal = v }
func (o *Object) Collected() bool       { return o.collected }
func (o *Object) SetCollected(v bool)   { o.collected = v }
func (o *Object) ReachedGoal() bool     { return o.reachedGoal }
func (o *Object) SetReachedGoal(v bool) { o.reachedGoal = v }

func (o *Object) update(dt float64) {
	o.energy = max(0, o.energy-EnergyDecay*dt)

	o.trailTimer += dt
	if o.trailTimer >= TrailInterval {
		o.pushTrail(o.Position())
		o.trailTimer = 0
	}
}

func (o *Object) pushTrail(p r2.Vec) {
	if len(o.trail) == TrailCapacity {
		copy(o.trail, o.trail[1:])
		o.trail = o.trail[:TrailCapacity-1]
	}
	o.trail = append(o.trail, p)
}

func bodyDef(kind Kind, pos r2.Vec, size float64) rigid.BodyDef {
	s := size * sizeScale / PixelsPerMeter

	var shape rigid.Shape
	switch kind {
	case Box:
		shape = rigid.Shape{Kind: rigid.Box, Width: 2 * s, Height: 2 * s}
	case Triangle:
		shape = rigid.Shape{Kind: rigid.Polygon, Radius: s, Verts: []r2.Vec{
			{X: 0, Y: -s}, {X: -s, Y: s}, {X: s, Y: s},
		}}
	case Star:
		shape = rigid.Shape{Kind: rigid.Polygon, Radius: s, Verts: rigid.RegularPolygon(5, s)}
	default:
		shape = rigid.Shape{Kind: rigid.Circle, Radius: s}
	}

	return rigid.BodyDef{
		Position:       toMeters(pos),
		Shape:          shape,
		Material:       rigid.Material{Density: 1, Friction: 0.3, Restitution: 0.6},
		LinearDamping:  0.5,
		AngularDamping: 0.3,
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

// PixelRadius is the half-extent in pixels of an object of the given size.
func PixelRadius(size float64) float64 { return size * sizeScale }
