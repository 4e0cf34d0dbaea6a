package entity

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/ecs"
	"github.com/milk9111/rigidsync/ecs/component"
	"github.com/milk9111/rigidsync/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

type buildContext struct {
	PrefabPath string
	// Models maps model names to their model entities.
	Models map[string]ecs.Entity
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"model_ref": addModelRef,
	"transform": addTransform,
	"skeleton":  addSkeleton,
	"physics":   addPhysics,
	"kinematic": addKinematic,
}

var componentBuildOrder = []string{
	"model_ref",
	"transform",
	"skeleton",
	"physics",
	"kinematic",
}

// BuildEntity creates an entity from an entity prefab. model_ref components
// are resolved against models.
func BuildEntity(w *ecs.World, prefabPath string, models map[string]ecs.Entity) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return buildFromSpec(w, spec, &buildContext{PrefabPath: prefabPath, Models: models})
}

func buildFromSpec(w *ecs.World, spec entityPrefabSpec, ctx *buildContext) (ecs.Entity, error) {
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", ctx.PrefabPath)
	}

	e := ecs.CreateEntity(w)

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", ctx.PrefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", ctx.PrefabPath, names[0])
	}

	return e, nil
}

// SetEntityTransform moves e, keeping its scale. Angles are in radians.
func SetEntityTransform(w *ecs.World, e ecs.Entity, pos mgl64.Vec3, yaw, pitch, roll float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		tr := component.NewTransform(pos)
		t = &tr
	}
	t.Position = pos
	t.Yaw = yaw
	t.Pitch = pitch
	t.Roll = roll
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

type modelRefSpec = prefabs.ModelRefComponentSpec

func addModelRef(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[modelRefSpec](raw)
	if err != nil {
		return fmt.Errorf("decode model_ref spec: %w", err)
	}
	model, ok := ctx.Models[spec.Model]
	if !ok {
		return fmt.Errorf("unknown model %q", spec.Model)
	}
	return ecs.Add(w, e, component.ModelRefComponent.Kind(), &component.ModelRef{Model: model.Ref()})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	tr := component.NewTransform(spec.Position.Vec())
	if spec.Scale != nil {
		tr.Scale = spec.Scale.Vec()
	}
	tr.Yaw, tr.Pitch, tr.Roll = spec.Radians()
	return ecs.Add(w, e, component.TransformComponent.Kind(), &tr)
}

type skeletonSpec = prefabs.SkeletonComponentSpec

func addSkeleton(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[skeletonSpec](raw)
	if err != nil {
		return fmt.Errorf("decode skeleton spec: %w", err)
	}
	bones := make([]mgl64.Mat4, len(spec.Bones))
	for i, b := range spec.Bones {
		yaw, pitch, roll := b.Radians()
		bones[i] = BoneMatrix(b.Position.Vec(), yaw, pitch, roll)
	}
	return ecs.Add(w, e, component.SkeletonComponent.Kind(), &component.Skeleton{Bones: bones})
}

type physicsSpec = prefabs.PhysicsComponentSpec

func addPhysics(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsSpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics spec: %w", err)
	}
	if spec.Mass < 0 {
		return fmt.Errorf("negative mass %v", spec.Mass)
	}
	yaw, pitch, roll := spec.Spin.Radians()
	return ecs.Add(w, e, component.PhysicsComponent.Kind(), &component.Physics{
		Mass:     spec.Mass,
		Movement: spec.Movement.Vec(),
		Yaw:      yaw,
		Pitch:    pitch,
		Roll:     roll,
	})
}

func addKinematic(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.KinematicComponent.Kind(), &component.Kinematic{})
}

// BoneMatrix builds a model-space bone matrix from a position and Euler angles
// applied yaw, pitch, then roll.
func BoneMatrix(pos mgl64.Vec3, yaw, pitch, roll float64) mgl64.Mat4 {
	rot := mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0}).
		Mul(mgl64.QuatRotate(pitch, mgl64.Vec3{1, 0, 0})).
		Mul(mgl64.QuatRotate(roll, mgl64.Vec3{0, 0, 1}))
	return mgl64.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(rot.Mat4())
}
