package gravity

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	MaxStrength      = 20.0
	StrokeLifetime   = 2.0
	StrokeRadius     = 150.0
	MinSwipe         = 15.0
	MaxSwipe         = 300.0
	MaxActiveStrokes = 5

	// ZoneStrength is the strength of rectangular level zones.
	ZoneStrength = 9.8

	minDistance = 0.001
	pulseRate   = 3.0
)

type Zone int

const (
	Normal Zone = iota
	Boost
	Slow
	Reverse
	Attract
	Repel
	Zero
)

var zoneNames = [...]string{"normal", "boost", "slow", "reverse", "attract", "repel", "zero"}

// Zones lists every zone kind in declaration order.
var Zones = []Zone{Normal, Boost, Slow, Reverse, Attract, Repel, Zero}

func (z Zone) String() string {
	if z < 0 || int(z) >= len(zoneNames) {
		return fmt.Sprintf("zone(%d)", int(z))
	}
	return zoneNames[z]
}

func ParseZone(s string) (Zone, error) {
	for i, name := range zoneNames {
		if strings.EqualFold(s, name) {
			return Zone(i), nil
		}
	}
	return Normal, fmt.Errorf("%w: %q", ErrUnknownZone, s)
}

// Field is a radius-bounded force generator. CalculateForce returns an
// acceleration; the world scales it by body mass.
type Field struct {
	Position    r2.Vec
	Strength    float64
	Radius      float64
	Zone        Zone
	Color       colorful.Color
	Lifetime    float64
	MaxLifetime float64
	PulsePhase  float64
	Active      bool

	// Gravity is the ambient gravity magnitude cancelled by Zero zones.
	Gravity float64

	// Bounds is set for rectangular level zones and is only informational.
	Bounds r2.Box

	direction r2.Vec
}

func NewField(pos, dir r2.Vec, strength, radius float64) *Field {
	f := &Field{
		Position:  pos,
		Strength:  strength,
		Radius:    radius,
		Active:    true,
		direction: r2.Vec{Y: 1},
	}
	f.SetDirection(dir)
	f.Color = HueColor(f.direction)
	return f
}

// NewZone builds a permanent field covering rect. The zone pushes down with
// ZoneStrength and reaches max(width, height) from the rect center.
func NewZone(kind Zone, rect r2.Box) *Field {
	size := rect.Size()
	f := NewField(rect.Center(), r2.Vec{Y: 1}, ZoneStrength, math.Max(size.X, size.Y))
	f.Zone = kind
	f.Bounds = rect
	f.Color = ZoneColor(kind)
	return f
}

func (f *Field) Direction() r2.Vec { return f.direction }

// SetDirection normalizes d. A zero vector keeps the previous direction.
func (f *Field) SetDirection(d r2.Vec) {
	n := r2.Norm(d)
	if n < 1e-9 {
		return
	}
	f.direction = r2.Scale(1/n, d)
}

func (f *Field) CalculateForce(p r2.Vec) r2.Vec {
	if !f.Active {
		return r2.Vec{}
	}

	toObject := r2.Sub(p, f.Position)
	dist := r2.Norm(toObject)
	if dist > f.Radius || dist < minDistance {
		return r2.Vec{}
	}

	falloff := 1 - dist/f.Radius
	falloff *= falloff
	s := f.Strength * falloff

	switch f.Zone {
	case Boost:
		return r2.Scale(2*s, f.direction)
	case Slow:
		return r2.Scale(0.3*s, f.direction)
	case Reverse:
		return r2.Scale(-s, f.direction)
	case Attract:
		return r2.Scale(-s/dist, toObject)
	case Repel:
		return r2.Scale(s/dist, toObject)
	case Zero:
		return r2.Vec{Y: -f.Gravity * falloff}
	default:
		return r2.Scale(s, f.direction)
	}
}

func (f *Field) InRange(p r2.Vec) bool {
	return r2.Norm2(r2.Sub(p, f.Position)) <= f.Radius*f.Radius
}

func (f *Field) Update(dt float64) {
	f.Lifetime += dt
	f.PulsePhase += dt * pulseRate
	if f.PulsePhase > 2*math.Pi {
		f.PulsePhase -= 2 * math.Pi
	}
}

func (f *Field) Expired() bool {
	return f.MaxLifetime > 0 && f.Lifetime >= f.MaxLifetime
}

// HueColor maps a direction to a hue around the color wheel, lifted so no
// channel drops below 0.2.
func HueColor(dir r2.Vec) colorful.Color {
	hue := (math.Atan2(dir.Y, dir.X) + math.Pi) / (2 * math.Pi) * 360
	c := colorful.Hsv(math.Mod(hue, 360), 1, 1)
	return colorful.Color{R: c.R*0.8 + 0.2, G: c.G*0.8 + 0.2, B: c.B*0.8 + 0.2}
}

var zonePalette = map[Zone]string{
	Boost:   "#00ff00",
	Slow:    "#0064ff",
	Reverse: "#a020f0",
	Attract: "#ffa500",
	Repel:   "#ff0000",
	Zero:    "#00ffff",
}

func ZoneColor(z Zone) colorful.Color {
	hex, ok := zonePalette[z]
	if !ok {
		return colorful.Color{R: 100.0 / 255, G: 100.0 / 255, B: 150.0 / 255}
	}
	c, _ := colorful.Hex(hex)
	return c
}
