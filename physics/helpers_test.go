package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/ecs"
	"github.com/milk9111/rigidsync/ecs/component"
	"github.com/milk9111/rigidsync/physics/simplesim"
)

const testStep = 1.0 / 60

func newTestWorld(t *testing.T) (*ecs.World, *World) {
	t.Helper()
	return ecs.NewWorld(), New(simplesim.New(), DefaultConfig())
}

func boxCollider(size mgl64.Vec3) component.Collider {
	return component.Collider{Shape: component.ShapeBox, Size: size}
}

func spawnModel(t *testing.T, w *ecs.World, colliders ...component.Collider) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ModelComponent.Kind(), &component.Model{Name: "test", Size: mgl64.Vec3{1, 1, 1}}); err != nil {
		t.Fatalf("add model: %v", err)
	}
	if err := ecs.Add(w, e, component.ModelColliderComponent.Kind(), &component.ModelCollider{Colliders: colliders}); err != nil {
		t.Fatalf("add model collider: %v", err)
	}
	return e
}

func spawnBody(t *testing.T, w *ecs.World, model ecs.Entity, pos mgl64.Vec3, mass float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	tr := component.NewTransform(pos)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &tr); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	if err := ecs.Add(w, e, component.ModelRefComponent.Kind(), &component.ModelRef{Model: model.Ref()}); err != nil {
		t.Fatalf("add model ref: %v", err)
	}
	if err := ecs.Add(w, e, component.PhysicsComponent.Kind(), &component.Physics{Mass: mass}); err != nil {
		t.Fatalf("add physics: %v", err)
	}
	return e
}

func transformOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Transform {
	t.Helper()
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		t.Fatalf("entity %v has no transform", e)
	}
	return tr
}

func physicsOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Physics {
	t.Helper()
	ph, ok := ecs.Get(w, e, component.PhysicsComponent.Kind())
	if !ok {
		t.Fatalf("entity %v has no physics", e)
	}
	return ph
}

func addHandler(t *testing.T, w *ecs.World, fn func(a, b ecs.Entity)) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, ecs.OnCollisionComponent.Kind(), &ecs.OnCollision{Func: fn}); err != nil {
		t.Fatalf("add handler: %v", err)
	}
	return e
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
