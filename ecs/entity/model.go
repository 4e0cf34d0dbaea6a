package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/ecs"
	"github.com/milk9111/rigidsync/ecs/component"
	"github.com/milk9111/rigidsync/prefabs"
)

// BuildModel creates a model entity carrying Model, ModelCollider and, for
// skinned models, ModelSkeleton.
func BuildModel(w *ecs.World, prefabPath string) (ecs.Entity, string, error) {
	if w == nil {
		return 0, "", fmt.Errorf("build model: world is nil")
	}
	spec, err := prefabs.LoadModelSpec(prefabPath)
	if err != nil {
		return 0, "", fmt.Errorf("build model: %w", err)
	}

	e := ecs.CreateEntity(w)
	if err := applyModelSpec(w, e, spec, 0); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, "", fmt.Errorf("build model: %q: %w", prefabPath, err)
	}
	return e, spec.Name, nil
}

// ReloadModel re-reads a model prefab into an existing model entity. The
// collider revision is bumped so every instance rebuilds its body.
func ReloadModel(w *ecs.World, e ecs.Entity, prefabPath string) error {
	if !ecs.IsAlive(w, e) {
		return fmt.Errorf("reload model: %q: %w", prefabPath, component.ErrEntityNotAlive)
	}
	spec, err := prefabs.LoadModelSpec(prefabPath)
	if err != nil {
		return fmt.Errorf("reload model: %w", err)
	}

	revision := 0
	if mc, ok := ecs.Get(w, e, component.ModelColliderComponent.Kind()); ok {
		revision = mc.Revision + 1
	}
	if err := applyModelSpec(w, e, spec, revision); err != nil {
		return fmt.Errorf("reload model: %q: %w", prefabPath, err)
	}
	return nil
}

func applyModelSpec(w *ecs.World, e ecs.Entity, spec prefabs.ModelSpec, revision int) error {
	size := mgl64.Vec3{1, 1, 1}
	if !spec.Size.IsZero() {
		size = spec.Size.Vec()
	}

	colliders := make([]component.Collider, 0, len(spec.Colliders))
	for i, cs := range spec.Colliders {
		kind, err := component.ParseShapeKind(cs.Shape)
		if err != nil {
			return fmt.Errorf("collider %d: %w", i, err)
		}
		c := component.Collider{
			Shape:    kind,
			Position: cs.Position.Vec(),
			Size:     size,
			Bone:     cs.Bone,
		}
		if !cs.Size.IsZero() {
			c.Size = cs.Size.Vec()
		}
		c.Yaw, c.Pitch, c.Roll = cs.Radians()
		colliders = append(colliders, c)
	}

	if err := ecs.Add(w, e, component.ModelComponent.Kind(), &component.Model{Name: spec.Name, Size: size}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.ModelColliderComponent.Kind(), &component.ModelCollider{
		Colliders: colliders,
		Revision:  revision,
	}); err != nil {
		return err
	}
	if len(spec.Bones) == 0 {
		ecs.Remove(w, e, component.ModelSkeletonComponent.Kind())
		return nil
	}
	bones := append([]string(nil), spec.Bones...)
	return ecs.Add(w, e, component.ModelSkeletonComponent.Kind(), &component.ModelSkeleton{Bones: bones})
}
