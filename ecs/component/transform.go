package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is the world pose of an entity. Rotation is stored as Euler angles
// in radians and applied yaw (Y), then pitch (X), then roll (Z).
type Transform struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Roll     float64
	Scale    mgl64.Vec3
}

// NewTransform returns a transform at pos with unit scale.
func NewTransform(pos mgl64.Vec3) Transform {
	return Transform{Position: pos, Scale: mgl64.Vec3{1, 1, 1}}
}

var TransformComponent = NewComponent[Transform]()
