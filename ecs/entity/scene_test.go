package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/ecs"
	"github.com/milk9111/rigidsync/ecs/component"
	"github.com/milk9111/rigidsync/physics"
	"github.com/milk9111/rigidsync/physics/simplesim"
)

func TestBuildSceneDemo(t *testing.T) {
	usePrefabDir(t)
	w := ecs.NewWorld()

	s, err := BuildScene(w, "scene_demo.yaml")
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}
	if s.Name != "demo" || s.Config != "physics.yaml" {
		t.Fatalf("unexpected scene header %q %q", s.Name, s.Config)
	}
	if len(s.Models) != 5 {
		t.Fatalf("expected 5 models, got %d", len(s.Models))
	}
	if len(s.Entities) != 7 {
		t.Fatalf("expected 7 entities, got %d", len(s.Entities))
	}

	// Second crate overrides the prefab transform but keeps its physics.
	tr, _ := ecs.Get(w, s.Entities[2], component.TransformComponent.Kind())
	if tr.Position != (mgl64.Vec3{0.4, 6, 0}) {
		t.Fatalf("expected overridden position, got %v", tr.Position)
	}
	ph, _ := ecs.Get(w, s.Entities[2], component.PhysicsComponent.Kind())
	if ph.Mass != 1 {
		t.Fatalf("expected prefab mass 1, got %v", ph.Mass)
	}

	if !ecs.Has(w, s.Entities[5], component.KinematicComponent.Kind()) {
		t.Fatalf("expected elevator to be kinematic")
	}

	pw := physics.New(simplesim.New(), physics.DefaultConfig())
	pw.Step(w, 1.0/60)
	for _, e := range s.Entities {
		if !pw.HasBody(e) {
			t.Fatalf("expected body for entity %v", e)
		}
	}
}

func TestBuildSceneFailureLeavesNothing(t *testing.T) {
	dir := usePrefabDir(t)
	writePrefab(t, dir, "bad_scene.yaml", "name: bad\nmodels: [model_crate.yaml]\nentities:\n  - components:\n      model_ref: {model: ghost}\n")
	w := ecs.NewWorld()

	if _, err := BuildScene(w, "bad_scene.yaml"); err == nil {
		t.Fatalf("expected error")
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("expected no entities left, got %d", n)
	}
}

func TestSceneReloadRebuildsBodies(t *testing.T) {
	dir := usePrefabDir(t)
	w := ecs.NewWorld()

	s, err := BuildScene(w, "scene_demo.yaml")
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}
	pw := physics.New(simplesim.New(), physics.DefaultConfig())
	pw.Step(w, 1.0/60)
	crate := s.Entities[1]
	before, ok := pw.Body(crate)
	if !ok {
		t.Fatalf("expected crate body")
	}

	writePrefab(t, dir, "model_crate.yaml", "name: crate\ncolliders:\n  - shape: sphere\n    size: {x: 1, y: 1, z: 1}\n")
	reloaded, err := s.Reload(w, "prefabs/model_crate.yaml")
	if err != nil || !reloaded {
		t.Fatalf("Reload: %v %v", reloaded, err)
	}
	mc, _ := ecs.Get(w, s.Models["crate"], component.ModelColliderComponent.Kind())
	if mc.Revision != 1 || mc.Colliders[0].Shape != component.ShapeSphere {
		t.Fatalf("unexpected reloaded collider %+v", mc)
	}

	pw.Step(w, 1.0/60)
	pw.Step(w, 1.0/60)
	after, ok := pw.Body(crate)
	if !ok {
		t.Fatalf("expected rebuilt crate body")
	}
	if after == before {
		t.Fatalf("expected a new body after reload")
	}

	if reloaded, err := s.Reload(w, "other.yaml"); err != nil || reloaded {
		t.Fatalf("expected unrelated file to be ignored, got %v %v", reloaded, err)
	}
}

func TestSceneDestroy(t *testing.T) {
	usePrefabDir(t)
	w := ecs.NewWorld()

	s, err := BuildScene(w, "scene_demo.yaml")
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}
	s.Destroy(w)
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("expected empty world, got %d entities", n)
	}
}
