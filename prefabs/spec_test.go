package prefabs

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/physics"
)

func useDir(t *testing.T, dir string) {
	t.Helper()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })
}

func TestLoadPhysicsConfigEmbedded(t *testing.T) {
	useDir(t, t.TempDir())

	cfg, err := LoadPhysicsConfig("physics.yaml")
	if err != nil {
		t.Fatalf("LoadPhysicsConfig: %v", err)
	}
	if cfg.Gravity != 9.81 {
		t.Fatalf("expected gravity 9.81, got %v", cfg.Gravity)
	}
	if !cfg.CollisionEvents {
		t.Fatalf("expected collision events enabled")
	}
	if cfg.MaxQueryResults != 64 {
		t.Fatalf("expected 64 query results, got %d", cfg.MaxQueryResults)
	}
}

func TestLoadPhysicsConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "low.yaml"), []byte("gravity: 1.62\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadPhysicsConfig("low.yaml")
	if err != nil {
		t.Fatalf("LoadPhysicsConfig: %v", err)
	}
	def := physics.DefaultConfig()
	if cfg.Gravity != 1.62 {
		t.Fatalf("expected gravity 1.62, got %v", cfg.Gravity)
	}
	if cfg.FixedStep != def.FixedStep || cfg.MaxQueryResults != def.MaxQueryResults {
		t.Fatalf("expected defaults to survive, got %+v", cfg)
	}
}

func TestLoadPhysicsConfigMissing(t *testing.T) {
	useDir(t, t.TempDir())
	if _, err := LoadPhysicsConfig("nope.yaml"); err == nil {
		t.Fatalf("expected error for missing config")
	}
}

func TestDiskOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	body := "name: crate\ncolliders:\n  - shape: sphere\n    size: {x: 2, y: 2, z: 2}\n"
	if err := os.WriteFile(filepath.Join(dir, "model_crate.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	spec, err := LoadModelSpec("prefabs/model_crate.yaml")
	if err != nil {
		t.Fatalf("LoadModelSpec: %v", err)
	}
	if len(spec.Colliders) != 1 || spec.Colliders[0].Shape != "sphere" {
		t.Fatalf("expected disk copy to win, got %+v", spec.Colliders)
	}
	if _, ok := ModTime("model_crate.yaml"); !ok {
		t.Fatalf("expected mod time for disk file")
	}
	if _, ok := ModTime("model_ball.yaml"); ok {
		t.Fatalf("expected no mod time for embedded-only file")
	}
}

func TestLoadModelSpec(t *testing.T) {
	useDir(t, t.TempDir())

	tests := []struct {
		file      string
		name      string
		colliders int
		bones     int
	}{
		{"model_floor.yaml", "floor", 1, 0},
		{"model_crate.yaml", "crate", 1, 0},
		{"model_ball.yaml", "ball", 1, 0},
		{"model_barrel.yaml", "barrel", 2, 0},
		{"model_arm.yaml", "arm", 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			spec, err := LoadModelSpec(tt.file)
			if err != nil {
				t.Fatalf("LoadModelSpec: %v", err)
			}
			if spec.Name != tt.name {
				t.Fatalf("expected name %q, got %q", tt.name, spec.Name)
			}
			if len(spec.Colliders) != tt.colliders {
				t.Fatalf("expected %d colliders, got %d", tt.colliders, len(spec.Colliders))
			}
			if len(spec.Bones) != tt.bones {
				t.Fatalf("expected %d bones, got %d", tt.bones, len(spec.Bones))
			}
		})
	}
}

func TestLoadModelSpecRejectsBadColliders(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no name", "colliders: []\n"},
		{"negative size", "name: m\ncolliders:\n  - shape: box\n    size: {x: -1, y: 1, z: 1}\n"},
		{"unknown bone", "name: m\nbones: [a]\ncolliders:\n  - shape: box\n    bone: b\n"},
		{"bad yaml", "name: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			useDir(t, dir)
			if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(tt.body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := LoadModelSpec("bad.yaml"); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestColliderRotationInDegrees(t *testing.T) {
	useDir(t, t.TempDir())

	spec, err := LoadModelSpec("model_barrel.yaml")
	if err != nil {
		t.Fatalf("LoadModelSpec: %v", err)
	}
	yaw, pitch, roll := spec.Colliders[1].Radians()
	if math.Abs(yaw-math.Pi/4) > 1e-12 || pitch != 0 || roll != 0 {
		t.Fatalf("expected yaw pi/4, got %v %v %v", yaw, pitch, roll)
	}
	if got := spec.Colliders[1].Position.Vec(); !got.ApproxEqual(mgl64.Vec3{0, 0.65, 0}) {
		t.Fatalf("unexpected position %v", got)
	}
}

func TestLoadSceneSpec(t *testing.T) {
	useDir(t, t.TempDir())

	scene, err := LoadSceneSpec("scene_demo.yaml")
	if err != nil {
		t.Fatalf("LoadSceneSpec: %v", err)
	}
	if scene.Config != "physics.yaml" {
		t.Fatalf("expected physics.yaml config, got %q", scene.Config)
	}
	if len(scene.Models) != 5 {
		t.Fatalf("expected 5 models, got %d", len(scene.Models))
	}
	var prefabbed int
	for _, e := range scene.Entities {
		if e.Prefab != "" {
			prefabbed++
		}
	}
	if prefabbed != 2 {
		t.Fatalf("expected 2 prefab entities, got %d", prefabbed)
	}
}

func TestDecodeComponentSpec(t *testing.T) {
	raw := map[string]any{
		"position": map[string]any{"x": 1, "y": 2, "z": 3},
		"yaw":      90,
	}
	spec, err := DecodeComponentSpec[TransformComponentSpec](raw)
	if err != nil {
		t.Fatalf("DecodeComponentSpec: %v", err)
	}
	if spec.Position.Vec() != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("unexpected position %v", spec.Position)
	}
	if spec.Yaw != 90 || spec.Scale != nil {
		t.Fatalf("unexpected rotation/scale %+v", spec)
	}

	empty, err := DecodeComponentSpec[PhysicsComponentSpec](nil)
	if err != nil || empty.Mass != 0 {
		t.Fatalf("expected zero spec for nil input, got %+v %v", empty, err)
	}
}
