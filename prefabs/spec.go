package prefabs

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/physics"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadPhysicsConfig reads a physics config. Keys missing from the file keep
// their defaults.
func LoadPhysicsConfig(filename string) (physics.Config, error) {
	cfg := physics.DefaultConfig()
	data, err := Load(filename)
	if err != nil {
		return cfg, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return cfg, nil
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func (v Vec3Spec) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// RotationSpec holds Euler angles in degrees.
type RotationSpec struct {
	Yaw   float64 `yaml:"yaw"`
	Pitch float64 `yaml:"pitch"`
	Roll  float64 `yaml:"roll"`
}

// Radians returns yaw, pitch and roll in radians.
func (r RotationSpec) Radians() (yaw, pitch, roll float64) {
	return mgl64.DegToRad(r.Yaw), mgl64.DegToRad(r.Pitch), mgl64.DegToRad(r.Roll)
}

type ColliderSpec struct {
	Shape        string   `yaml:"shape"`
	Position     Vec3Spec `yaml:"position"`
	Size         Vec3Spec `yaml:"size"`
	RotationSpec `yaml:",inline"`
	Bone         string   `yaml:"bone"`
}

// ModelSpec describes a model: its bounding size, the colliders shared by
// every instance and, for skinned models, the bone names.
type ModelSpec struct {
	Name      string         `yaml:"name"`
	Size      Vec3Spec       `yaml:"size"`
	Colliders []ColliderSpec `yaml:"colliders"`
	Bones     []string       `yaml:"bones"`
}

func LoadModelSpec(filename string) (ModelSpec, error) {
	spec, err := LoadSpec[ModelSpec](filename)
	if err != nil {
		return spec, err
	}
	if spec.Name == "" {
		return spec, fmt.Errorf("prefabs: model %s has no name", filename)
	}
	for i, c := range spec.Colliders {
		if c.Size.X < 0 || c.Size.Y < 0 || c.Size.Z < 0 {
			return spec, fmt.Errorf("prefabs: model %s: collider %d has negative size", filename, i)
		}
		if c.Bone != "" && !slices.Contains(spec.Bones, c.Bone) {
			return spec, fmt.Errorf("prefabs: model %s: collider %d uses unknown bone %q", filename, i, c.Bone)
		}
	}
	return spec, nil
}

// SceneEntitySpec is an entity in a scene. Components listed inline override
// the ones read from Prefab.
type SceneEntitySpec struct {
	Prefab          string `yaml:"prefab"`
	EntityBuildSpec `yaml:",inline"`
}

type SceneSpec struct {
	Name     string            `yaml:"name"`
	Config   string            `yaml:"config"`
	Models   []string          `yaml:"models"`
	Entities []SceneEntitySpec `yaml:"entities"`
}

func LoadSceneSpec(filename string) (SceneSpec, error) {
	return LoadSpec[SceneSpec](filename)
}
