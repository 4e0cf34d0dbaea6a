package component

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeCapsule
	ShapeCone
	ShapeCylinder
	ShapeSphere
)

var shapeKindNames = [...]string{
	ShapeBox:      "box",
	ShapeCapsule:  "capsule",
	ShapeCone:     "cone",
	ShapeCylinder: "cylinder",
	ShapeSphere:   "sphere",
}

func (k ShapeKind) String() string {
	if k < 0 || int(k) >= len(shapeKindNames) {
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
	return shapeKindNames[k]
}

// ParseShapeKind maps a prefab name to a kind.
func ParseShapeKind(name string) (ShapeKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range shapeKindNames {
		if n == name {
			return ShapeKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown collider shape %q", name)
}

// Collider is one sub-collider of a model, expressed relative to the model.
type Collider struct {
	Shape    ShapeKind
	Position mgl64.Vec3
	Size     mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Roll     float64
	Bone     string
}

// ModelCollider lives on a model entity and is shared by every instance.
// Revision changes whenever the collider list is replaced at runtime.
type ModelCollider struct {
	Colliders []Collider
	Revision  int
}

var ModelColliderComponent = NewComponent[ModelCollider]()

// Model holds model-level data needed when gluing colliders to bones.
type Model struct {
	Name string
	Size mgl64.Vec3
}

var ModelComponent = NewComponent[Model]()

// ModelSkeleton lists the bone names of a model.
type ModelSkeleton struct {
	Bones []string
}

var ModelSkeletonComponent = NewComponent[ModelSkeleton]()

// Skeleton holds the current model-space bone matrices of an instance, indexed
// like ModelSkeleton.Bones.
type Skeleton struct {
	Bones []mgl64.Mat4
}

var SkeletonComponent = NewComponent[Skeleton]()

// ModelRef points an instance at its model entity.
type ModelRef struct {
	Model EntityRef
}

var ModelRefComponent = NewComponent[ModelRef]()
