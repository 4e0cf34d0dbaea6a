package cpbackend

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/physics/backend"
)

func boxBody(t *testing.T, s *Space, half mgl64.Vec3, pos mgl64.Vec3, mass float64) backend.Body {
	t.Helper()
	shape, err := s.NewShape(backend.ShapeDesc{Primitive: backend.PrimitiveBox, HalfExtents: half})
	if err != nil {
		t.Fatalf("new shape: %v", err)
	}
	c := s.NewCompound()
	c.AddChild(backend.IdentityPose(), shape)
	var inertia mgl64.Vec3
	if mass > 0 {
		inertia = c.LocalInertia(mass)
	}
	b := s.NewBody(backend.BodyConfig{
		Mass:     mass,
		Inertia:  inertia,
		Compound: c,
		Pose:     backend.Pose{Position: pos, Rotation: mgl64.QuatIdent()},
	})
	s.AddBody(b)
	return b
}

func TestDynamicBodyFalls(t *testing.T) {
	s := New()
	s.SetGravity(mgl64.Vec3{0, -10, 0})
	b := boxBody(t, s, mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0, 10, 2}, 1)

	for i := 0; i < 10; i++ {
		s.Step(1.0 / 60)
	}

	if v := b.LinearVelocity().Y(); v >= 0 {
		t.Fatalf("expected downward velocity, got %v", v)
	}
	p := b.Pose().Position
	if p.Y() >= 10 {
		t.Fatalf("expected body to fall, y=%v", p.Y())
	}
	if p.Z() != 2 {
		t.Fatalf("expected depth preserved, got %v", p.Z())
	}
}

func TestStaticBodyStays(t *testing.T) {
	s := New()
	s.SetGravity(mgl64.Vec3{0, -10, 0})
	b := boxBody(t, s, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{3, 4, 0}, 0)
	for i := 0; i < 100; i++ {
		s.Step(1.0 / 60)
	}
	if p := b.Pose().Position; p != (mgl64.Vec3{3, 4, 0}) {
		t.Fatalf("expected static body at (3,4,0), got %v", p)
	}
}

func TestRegistry(t *testing.T) {
	s := New()
	a := boxBody(t, s, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}, 1)
	b := boxBody(t, s, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{5, 0, 0}, 0)

	if !s.Contains(a) || !s.Contains(b) {
		t.Fatalf("expected both bodies registered")
	}
	s.RemoveBody(a)
	if s.Contains(a) {
		t.Fatalf("expected body removed")
	}
	if got := s.Bodies(); len(got) != 1 || got[0] != b {
		t.Fatalf("unexpected registry %v", got)
	}
	if s.CP().ContainsBody(a.(*Body).CP()) {
		t.Fatalf("expected cp body removed from space")
	}
}

func TestBoxLandsOnGround(t *testing.T) {
	s := New()
	s.SetGravity(mgl64.Vec3{0, -10, 0})
	ground := boxBody(t, s, mgl64.Vec3{10, 0.5, 1}, mgl64.Vec3{0, -0.5, 0}, 0)
	box := boxBody(t, s, mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0, 2, 0}, 1)

	touched := false
	for i := 0; i < 300; i++ {
		s.Step(1.0 / 60)
		for _, m := range s.Manifolds() {
			if (m.A == ground && m.B == box) || (m.A == box && m.B == ground) {
				touched = true
			}
		}
	}
	if !touched {
		t.Fatalf("expected a manifold between box and ground")
	}
	if y := box.Pose().Position.Y(); y < 0.3 || y > 0.6 {
		t.Fatalf("expected box resting near y=0.5, got %v", y)
	}
}

func TestContactTest(t *testing.T) {
	s := New()
	box := boxBody(t, s, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}, 0)
	boxBody(t, s, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{10, 0, 0}, 0)
	probe, err := s.NewShape(backend.ShapeDesc{Primitive: backend.PrimitiveSphere, Radius: 0.5})
	if err != nil {
		t.Fatalf("probe: %v", err)
	}

	var hits []backend.Body
	s.ContactTest(probe, backend.Pose{Position: mgl64.Vec3{1.2, 0, 0}, Rotation: mgl64.QuatIdent()}, func(b backend.Body) bool {
		hits = append(hits, b)
		return true
	})
	if len(hits) != 1 || hits[0] != box {
		t.Fatalf("expected only the near box, got %v", hits)
	}

	hits = nil
	s.ContactTest(probe, backend.Pose{Position: mgl64.Vec3{5, 0, 0}, Rotation: mgl64.QuatIdent()}, func(b backend.Body) bool {
		hits = append(hits, b)
		return true
	})
	if len(hits) != 0 {
		t.Fatalf("expected no hits in empty space, got %d", len(hits))
	}
}

func TestKinematicToggle(t *testing.T) {
	s := New()
	s.SetGravity(mgl64.Vec3{0, -10, 0})
	b := boxBody(t, s, mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0, 10, 0}, 2)

	b.SetKinematic(true)
	for i := 0; i < 30; i++ {
		s.Step(1.0 / 60)
	}
	if y := b.Pose().Position.Y(); y != 10 {
		t.Fatalf("expected kinematic body to hold position, y=%v", y)
	}

	b.SetMassProps(3, mgl64.Vec3{0, 0, 1})
	b.SetKinematic(false)
	if got := b.(*Body).CP().Mass(); got != 3 {
		t.Fatalf("expected mass restored to 3, got %v", got)
	}
	// chipmunk integrates position with the velocity from before the gravity update
	s.Step(1.0 / 60)
	if vy := b.LinearVelocity().Y(); vy >= 0 {
		t.Fatalf("expected gravity to act after the first step, vy=%v", vy)
	}
	s.Step(1.0 / 60)
	if y := b.Pose().Position.Y(); y >= 10 {
		t.Fatalf("expected dynamic body to fall, y=%v", y)
	}
}

func TestMassZeroMakesBodyStatic(t *testing.T) {
	s := New()
	s.SetGravity(mgl64.Vec3{0, -10, 0})
	b := boxBody(t, s, mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0, 10, 0}, 1)
	b.SetMassProps(0, mgl64.Vec3{})
	for i := 0; i < 30; i++ {
		s.Step(1.0 / 60)
	}
	if y := b.Pose().Position.Y(); y != 10 {
		t.Fatalf("expected static body to hold position, y=%v", y)
	}
}

func TestPoseKeepsOutOfPlaneRotation(t *testing.T) {
	s := New()
	b := boxBody(t, s, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}, 1)
	rot := mgl64.QuatRotate(0.5, mgl64.Vec3{0, 1, 0}).Mul(mgl64.QuatRotate(0.3, mgl64.Vec3{0, 0, 1}))
	want := backend.Pose{Position: mgl64.Vec3{1, 2, 3}, Rotation: rot}
	b.SetPose(want)

	got := b.Pose()
	if !vecNear(got.Position, want.Position, 1e-9) {
		t.Fatalf("expected position %v, got %v", want.Position, got.Position)
	}
	v := mgl64.Vec3{1, 2, 3}
	if !vecNear(got.Rotation.Rotate(v), rot.Rotate(v), 1e-9) {
		t.Fatalf("expected rotation preserved")
	}
}

type lineCounter struct{ lines int }

func (c *lineCounter) DrawLine(from, to, color mgl64.Vec3) { c.lines++ }
func (c *lineCounter) ReportWarning(string)                {}

func TestDebugDraw(t *testing.T) {
	s := New()
	boxBody(t, s, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}, 0)
	var c lineCounter
	s.DebugDraw(&c)
	if c.lines != 4 {
		t.Fatalf("expected 4 edges for one planar box, got %d", c.lines)
	}
}

func TestNewShapeRejectsDegenerate(t *testing.T) {
	s := New()
	for _, desc := range []backend.ShapeDesc{
		{Primitive: backend.PrimitiveBox, HalfExtents: mgl64.Vec3{0, 1, 1}},
		{Primitive: backend.PrimitiveCapsule, Radius: 1},
		{Primitive: backend.PrimitiveSphere, Radius: math.NaN()},
	} {
		if _, err := s.NewShape(desc); err == nil {
			t.Fatalf("expected error for %+v", desc)
		}
	}
}

// vecNear compares per component against an absolute tolerance.
func vecNear(a, b mgl64.Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
