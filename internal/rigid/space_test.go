package rigid

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func ballDef(pos r2.Vec) BodyDef {
	return BodyDef{
		Position: pos,
		Shape:    Shape{Kind: Circle, Radius: 0.5},
		Material: Material{Density: 1, Friction: 0.3, Restitution: 0.6},
	}
}

func TestCreateAndDestroy(t *testing.T) {
	s := NewSpace(r2.Vec{}, 8)
	h := s.Create(ballDef(r2.Vec{X: 1, Y: 2}))

	if !s.Exists(h) {
		t.Fatal("expected handle to exist")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 body, got %d", s.Len())
	}
	if p := s.Position(h); p != (r2.Vec{X: 1, Y: 2}) {
		t.Errorf("expected position (1,2), got %v", p)
	}
	wantMass := math.Pi * 0.25
	if m := s.Mass(h); math.Abs(m-wantMass) > 1e-9 {
		t.Errorf("expected mass %f, got %f", wantMass, m)
	}

	s.Destroy(h)
	if s.Exists(h) {
		t.Error("expected handle to be released")
	}
	if s.Len() != 0 {
		t.Errorf("expected 0 bodies, got %d", s.Len())
	}
}

func TestStaleHandleDoesNotAlias(t *testing.T) {
	s := NewSpace(r2.Vec{}, 8)
	old := s.Create(ballDef(r2.Vec{}))
	s.Destroy(old)

	fresh := s.Create(ballDef(r2.Vec{X: 5}))
	if old == fresh {
		t.Fatal("expected reused slot to get a new generation")
	}
	if s.Exists(old) {
		t.Error("stale handle should not resolve")
	}
	if p := s.Position(old); p != (r2.Vec{}) {
		t.Errorf("expected zero position for stale handle, got %v", p)
	}
	s.SetVelocity(old, r2.Vec{X: 100})
	if v := s.Velocity(fresh); v != (r2.Vec{}) {
		t.Errorf("stale handle moved the new body: %v", v)
	}
}

func TestGravityIntegration(t *testing.T) {
	s := NewSpace(r2.Vec{Y: 10}, 8)
	h := s.Create(ballDef(r2.Vec{}))

	for i := 0; i < 60; i++ {
		s.Step(1.0 / 60)
	}

	v := s.Velocity(h)
	if math.Abs(v.Y-10) > 1e-6 {
		t.Errorf("expected vy 10 after 1s, got %f", v.Y)
	}
	if s.Position(h).Y <= 0 {
		t.Errorf("expected body to fall, got y=%f", s.Position(h).Y)
	}
}

func TestSteadyForcePersistsAcrossSteps(t *testing.T) {
	s := NewSpace(r2.Vec{}, 8)
	h := s.Create(ballDef(r2.Vec{}))
	m := s.Mass(h)

	s.SetSteadyForce(h, r2.Vec{X: 2 * m})
	for i := 0; i < 30; i++ {
		s.Step(1.0 / 60)
	}

	if v := s.Velocity(h); math.Abs(v.X-1) > 1e-6 {
		t.Errorf("expected vx 1 after 0.5s at 2 m/s², got %f", v.X)
	}

	s.SetSteadyForce(h, r2.Vec{})
	before := s.Velocity(h)
	s.Step(1.0 / 60)
	if v := s.Velocity(h); math.Abs(v.X-before.X) > 1e-9 {
		t.Errorf("expected constant velocity once force cleared, got %f -> %f", before.X, v.X)
	}
}

func TestLinearDamping(t *testing.T) {
	s := NewSpace(r2.Vec{}, 8)
	def := ballDef(r2.Vec{})
	def.LinearDamping = 0.5
	h := s.Create(def)
	s.SetVelocity(h, r2.Vec{X: 1})

	dt := 1.0 / 60
	s.Step(dt)

	want := 1 / (1 + dt*0.5)
	if v := s.Velocity(h); math.Abs(v.X-want) > 1e-9 {
		t.Errorf("expected vx %f, got %f", want, v.X)
	}
}

func TestContains(t *testing.T) {
	s := NewSpace(r2.Vec{}, 8)
	h := s.Create(ballDef(r2.Vec{X: 3, Y: 3}))

	if !s.Contains(h, r2.Vec{X: 3.2, Y: 3}) {
		t.Error("expected point inside circle")
	}
	if s.Contains(h, r2.Vec{X: 4, Y: 3}) {
		t.Error("expected point outside circle")
	}

	s.SetPosition(h, r2.Vec{X: 10, Y: 10})
	if !s.Contains(h, r2.Vec{X: 10, Y: 10.1}) {
		t.Error("expected query to follow moved body")
	}
}

func TestCollisionCallbacks(t *testing.T) {
	s := NewSpace(r2.Vec{}, 8)
	a := s.Create(ballDef(r2.Vec{X: 0}))
	b := s.Create(ballDef(r2.Vec{X: 1.5}))
	s.SetVelocity(a, r2.Vec{X: 5})

	var begins int
	var maxImpulse float64
	s.OnBegin(func(x, y Handle) {
		if (x == a && y == b) || (x == b && y == a) {
			begins++
		}
	})
	s.OnPostSolve(func(x, y Handle, imp float64) {
		maxImpulse = math.Max(maxImpulse, imp)
	})

	for i := 0; i < 30; i++ {
		s.Step(1.0 / 60)
	}

	if begins != 1 {
		t.Errorf("expected 1 contact begin, got %d", begins)
	}
	if maxImpulse <= 0 {
		t.Error("expected a positive normal impulse")
	}
	if s.Velocity(b).X <= 0 {
		t.Error("expected struck body to move")
	}
}

func TestStaticGeometryIsNotReported(t *testing.T) {
	s := NewSpace(r2.Vec{Y: 10}, 8)
	h := s.Create(ballDef(r2.Vec{}))
	floor := s.AddStaticBox(r2.Vec{Y: 1}, 10, 0.5, 0, Material{Friction: 0.3, Restitution: 0.5})

	calls := 0
	s.OnBegin(func(a, b Handle) { calls++ })
	for i := 0; i < 60; i++ {
		s.Step(1.0 / 60)
	}

	if calls != 0 {
		t.Errorf("expected no callbacks for static contacts, got %d", calls)
	}
	if y := s.Position(h).Y; y > 0.75+0.1 {
		t.Errorf("expected body to rest on floor, got y=%f", y)
	}

	s.RemoveStatic(floor)
	if s.StaticCount() != 0 {
		t.Errorf("expected no statics, got %d", s.StaticCount())
	}
}

func TestSetEnabled(t *testing.T) {
	s := NewSpace(r2.Vec{Y: 10}, 8)
	h := s.Create(ballDef(r2.Vec{}))

	s.SetEnabled(h, false)
	for i := 0; i < 10; i++ {
		s.Step(1.0 / 60)
	}
	if p := s.Position(h); p.Y != 0 {
		t.Errorf("disabled body moved to %v", p)
	}

	s.SetEnabled(h, true)
	s.Step(1.0 / 60)
	if s.Position(h).Y <= 0 {
		t.Error("expected re-enabled body to fall")
	}
}

func TestRegularPolygon(t *testing.T) {
	verts := RegularPolygon(5, 2)
	if len(verts) != 5 {
		t.Fatalf("expected 5 vertices, got %d", len(verts))
	}
	if math.Abs(verts[0].X) > 1e-9 || math.Abs(verts[0].Y+2) > 1e-9 {
		t.Errorf("expected first vertex at (0,-2), got %v", verts[0])
	}
	for i, v := range verts {
		if r := math.Hypot(v.X, v.Y); math.Abs(r-2) > 1e-9 {
			t.Errorf("vertex %d at radius %f", i, r)
		}
	}
}
