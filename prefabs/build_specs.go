package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	Position     Vec3Spec  `yaml:"position"`
	Scale        *Vec3Spec `yaml:"scale"`
	RotationSpec `yaml:",inline"`
}

type PhysicsComponentSpec struct {
	Mass     float64      `yaml:"mass"`
	Movement Vec3Spec     `yaml:"movement"`
	Spin     RotationSpec `yaml:"spin"`
}

type ModelRefComponentSpec struct {
	Model string `yaml:"model"`
}

type BonePoseSpec struct {
	Position     Vec3Spec `yaml:"position"`
	RotationSpec `yaml:",inline"`
}

type SkeletonComponentSpec struct {
	Bones []BonePoseSpec `yaml:"bones"`
}
