package gravity

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestForceVanishesAtRadius(t *testing.T) {
	for _, z := range Zones {
		t.Run(z.String(), func(t *testing.T) {
			f := NewField(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 1}, 20, 150)
			f.Zone = z
			f.Gravity = 3.5

			for _, dir := range []r2.Vec{{X: 1}, {Y: 1}, {X: -0.6, Y: 0.8}} {
				p := r2.Add(f.Position, r2.Scale(150, dir))
				if force := f.CalculateForce(p); r2.Norm(force) > 1e-9 {
					t.Errorf("expected zero force at radius along %v, got %v", dir, force)
				}
			}
		})
	}
}

func TestZoneForces(t *testing.T) {
	center := r2.Vec{X: 0, Y: 0}
	p := r2.Vec{X: 50, Y: 0}
	falloff := math.Pow(1-50.0/100, 2)

	tests := []struct {
		zone Zone
		want r2.Vec
	}{
		{Normal, r2.Vec{Y: 10 * falloff}},
		{Boost, r2.Vec{Y: 20 * falloff}},
		{Slow, r2.Vec{Y: 3 * falloff}},
		{Reverse, r2.Vec{Y: -10 * falloff}},
		{Attract, r2.Vec{X: -10 * falloff}},
		{Repel, r2.Vec{X: 10 * falloff}},
		{Zero, r2.Vec{Y: -3.5 * falloff}},
	}

	for _, tt := range tests {
		t.Run(tt.zone.String(), func(t *testing.T) {
			f := NewField(center, r2.Vec{Y: 1}, 10, 100)
			f.Zone = tt.zone
			f.Gravity = 3.5

			got := f.CalculateForce(p)
			if r2.Norm(r2.Sub(got, tt.want)) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestForceOutsideOrAtCenter(t *testing.T) {
	f := NewField(r2.Vec{}, r2.Vec{X: 1}, 10, 100)

	if got := f.CalculateForce(r2.Vec{X: 101}); got != (r2.Vec{}) {
		t.Errorf("expected zero outside radius, got %v", got)
	}
	if got := f.CalculateForce(r2.Vec{}); got != (r2.Vec{}) {
		t.Errorf("expected zero at center, got %v", got)
	}

	f.Active = false
	if got := f.CalculateForce(r2.Vec{X: 10}); got != (r2.Vec{}) {
		t.Errorf("expected zero when inactive, got %v", got)
	}
}

func TestDirectionIsUnit(t *testing.T) {
	f := NewField(r2.Vec{}, r2.Vec{X: 3, Y: 4}, 1, 1)
	if n := r2.Norm(f.Direction()); math.Abs(n-1) > 1e-12 {
		t.Errorf("expected unit direction, got norm %f", n)
	}

	f.SetDirection(r2.Vec{X: -10})
	if d := f.Direction(); d != (r2.Vec{X: -1}) {
		t.Errorf("expected (-1,0), got %v", d)
	}

	f.SetDirection(r2.Vec{})
	if d := f.Direction(); d != (r2.Vec{X: -1}) {
		t.Errorf("zero direction should be ignored, got %v", d)
	}
}

func TestInRange(t *testing.T) {
	f := NewField(r2.Vec{X: 10, Y: 10}, r2.Vec{X: 1}, 1, 5)

	if !f.InRange(r2.Vec{X: 15, Y: 10}) {
		t.Error("expected point on the rim to be in range")
	}
	if f.InRange(r2.Vec{X: 15.1, Y: 10}) {
		t.Error("expected point past the rim to be out of range")
	}
}

func TestFieldLifetime(t *testing.T) {
	f := NewField(r2.Vec{}, r2.Vec{X: 1}, 1, 1)
	f.MaxLifetime = 1

	f.Update(0.5)
	if f.Expired() {
		t.Error("field expired early")
	}
	f.Update(0.5)
	if !f.Expired() {
		t.Error("expected field to expire at max lifetime")
	}

	permanent := NewField(r2.Vec{}, r2.Vec{X: 1}, 1, 1)
	permanent.Update(1000)
	if permanent.Expired() {
		t.Error("field with zero max lifetime must never expire")
	}
}

func TestPulsePhaseWraps(t *testing.T) {
	f := NewField(r2.Vec{}, r2.Vec{X: 1}, 1, 1)
	for i := 0; i < 1000; i++ {
		f.Update(1.0 / 60)
		if f.PulsePhase < 0 || f.PulsePhase > 2*math.Pi {
			t.Fatalf("pulse phase out of range: %f", f.PulsePhase)
		}
	}
}

func TestNewZone(t *testing.T) {
	z := NewZone(Repel, r2.Box{Min: r2.Vec{X: 0, Y: 0}, Max: r2.Vec{X: 200, Y: 100}})

	if z.Position != (r2.Vec{X: 100, Y: 50}) {
		t.Errorf("expected zone centered at (100,50), got %v", z.Position)
	}
	if z.Radius != 200 {
		t.Errorf("expected radius 200, got %f", z.Radius)
	}
	if z.Strength != ZoneStrength {
		t.Errorf("expected strength %f, got %f", ZoneStrength, z.Strength)
	}
	if z.MaxLifetime != 0 {
		t.Error("zones must be permanent")
	}
}

func TestParseZone(t *testing.T) {
	for _, z := range Zones {
		got, err := ParseZone(z.String())
		if err != nil {
			t.Fatalf("parse %s: %v", z, err)
		}
		if got != z {
			t.Errorf("expected %s, got %s", z, got)
		}
	}

	if _, err := ParseZone("sideways"); !errors.Is(err, ErrUnknownZone) {
		t.Errorf("expected ErrUnknownZone, got %v", err)
	}
}

func TestHueColorVariesWithDirection(t *testing.T) {
	up := HueColor(r2.Vec{Y: -1})
	down := HueColor(r2.Vec{Y: 1})
	if up == down {
		t.Error("expected opposite directions to get different colors")
	}
	for _, c := range []struct{ r, g, b float64 }{{up.R, up.G, up.B}, {down.R, down.G, down.B}} {
		if c.r < 0.2-1e-9 || c.g < 0.2-1e-9 || c.b < 0.2-1e-9 {
			t.Errorf("expected lifted channels, got %v", c)
		}
	}
}
