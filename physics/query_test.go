package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/ecs"
	"github.com/milk9111/rigidsync/ecs/component"
	"github.com/milk9111/rigidsync/physics/simplesim"
)

func sameSet(got, want []ecs.Entity) bool {
	if len(got) != len(want) {
		return false
	}
	seen := make(map[ecs.Entity]int, len(got))
	for _, e := range got {
		seen[e]++
	}
	for _, e := range want {
		if seen[e] != 1 {
			return false
		}
	}
	return true
}

func TestQueryReturnsOverlappingBodies(t *testing.T) {
	w, pw := newTestWorld(t)
	boxModel := spawnModel(t, w, boxCollider(mgl64.Vec3{2, 2, 2}))
	ballModel := spawnModel(t, w, component.Collider{Shape: component.ShapeSphere, Size: mgl64.Vec3{2, 2, 2}})
	box := spawnBody(t, w, boxModel, mgl64.Vec3{0, 0, 0}, 0)
	ball := spawnBody(t, w, ballModel, mgl64.Vec3{3, 0, 0}, 0)
	far := spawnBody(t, w, boxModel, mgl64.Vec3{10, 0, 0}, 0)
	pw.Step(w, testStep)

	tests := []struct {
		name   string
		pos    mgl64.Vec3
		radius float64
		want   []ecs.Entity
	}{
		{name: "between box and ball", pos: mgl64.Vec3{1.5, 0, 0}, radius: 0.6, want: []ecs.Entity{box, ball}},
		{name: "box only", pos: mgl64.Vec3{-1.5, 0, 0}, radius: 0.6, want: []ecs.Entity{box}},
		{name: "far only", pos: mgl64.Vec3{10, 3, 0}, radius: 2.5, want: []ecs.Entity{far}},
		{name: "empty space", pos: mgl64.Vec3{6, 0, 0}, radius: 0.5, want: nil},
		{name: "zero radius inside", pos: mgl64.Vec3{0.2, 0.2, 0.2}, radius: 0, want: []ecs.Entity{box}},
		{name: "negative radius", pos: mgl64.Vec3{0, 0, 0}, radius: -1, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pw.Query(tt.pos, tt.radius)
			if !sameSet(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestQueryDeduplicatesCompoundChildren(t *testing.T) {
	w, pw := newTestWorld(t)
	model := spawnModel(t, w,
		boxCollider(mgl64.Vec3{1, 1, 1}),
		component.Collider{Shape: component.ShapeBox, Size: mgl64.Vec3{1, 1, 1}, Position: mgl64.Vec3{0.5, 0, 0}},
	)
	e := spawnBody(t, w, model, mgl64.Vec3{}, 0)
	pw.Step(w, testStep)

	got := pw.Query(mgl64.Vec3{}, 1)
	if len(got) != 1 || got[0] != e {
		t.Fatalf("expected a single entry for a body with two hit colliders, got %v", got)
	}
}

func TestQueryRespectsCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxQueryResults = 2
	w := ecs.NewWorld()
	pw := New(simplesim.New(), cfg)
	model := spawnModel(t, w, boxCollider(mgl64.Vec3{1, 1, 1}))
	for i := 0; i < 5; i++ {
		spawnBody(t, w, model, mgl64.Vec3{float64(i) * 0.1, 0, 0}, 0)
	}
	pw.Step(w, testStep)

	if got := pw.Query(mgl64.Vec3{}, 1); len(got) != 2 {
		t.Fatalf("expected results capped at 2, got %d", len(got))
	}
}

func TestQueryDoesNotRegisterProbe(t *testing.T) {
	w, pw := newTestWorld(t)
	model := spawnModel(t, w, boxCollider(mgl64.Vec3{1, 1, 1}))
	spawnBody(t, w, model, mgl64.Vec3{}, 0)
	pw.Step(w, testStep)

	before := len(pw.Backend().Bodies())
	shapes := pw.Shapes().Len()
	pw.Query(mgl64.Vec3{}, 3)
	if len(pw.Backend().Bodies()) != before {
		t.Fatalf("expected query to leave the registry untouched")
	}
	if pw.Shapes().Len() != shapes {
		t.Fatalf("expected query probe not to be cached")
	}
}

func TestQueryFollowsRoundSurfaces(t *testing.T) {
	w, pw := newTestWorld(t)
	cylModel := spawnModel(t, w, component.Collider{Shape: component.ShapeCylinder, Size: mgl64.Vec3{2, 2, 2}})
	capModel := spawnModel(t, w, component.Collider{Shape: component.ShapeCapsule, Size: mgl64.Vec3{1, 2, 1}})
	coneModel := spawnModel(t, w, component.Collider{Shape: component.ShapeCone, Size: mgl64.Vec3{2, 2, 2}})
	cyl := spawnBody(t, w, cylModel, mgl64.Vec3{0, 0, 0}, 0)
	capsule := spawnBody(t, w, capModel, mgl64.Vec3{5, 0, 0}, 0)
	cone := spawnBody(t, w, coneModel, mgl64.Vec3{-5, 0, 0}, 0)
	pw.Step(w, testStep)

	tests := []struct {
		name   string
		pos    mgl64.Vec3
		radius float64
		want   []ecs.Entity
	}{
		{name: "cylinder bounding corner", pos: mgl64.Vec3{0.95, 0, 0.95}, radius: 0.05, want: nil},
		{name: "cylinder side", pos: mgl64.Vec3{0, 0, 1.1}, radius: 0.2, want: []ecs.Entity{cyl}},
		{name: "cylinder top", pos: mgl64.Vec3{0.5, 1.1, 0}, radius: 0.2, want: []ecs.Entity{cyl}},
		{name: "capsule cap", pos: mgl64.Vec3{5, 1.9, 0}, radius: 0.5, want: []ecs.Entity{capsule}},
		{name: "capsule bounding corner", pos: mgl64.Vec3{5.45, 1.45, 0}, radius: 0.05, want: nil},
		{name: "cone flank", pos: mgl64.Vec3{-4.4, 0, 0}, radius: 0.1, want: []ecs.Entity{cone}},
		{name: "cone base", pos: mgl64.Vec3{-5, -1.1, 0}, radius: 0.2, want: []ecs.Entity{cone}},
		{name: "beside cone apex", pos: mgl64.Vec3{-4.1, 0.9, 0}, radius: 0.1, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pw.Query(tt.pos, tt.radius)
			if !sameSet(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
