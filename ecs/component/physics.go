package component

import "github.com/go-gl/mathgl/mgl64"

// Physics is the gameplay-facing rigid body descriptor. Gameplay code writes
// Movement or the angular rates and sets Changed to push them into the
// simulator; otherwise the simulator's velocities are copied back here.
type Physics struct {
	Mass     float64
	Movement mgl64.Vec3

	// Angular rates around Y, X and Z.
	Yaw   float64
	Pitch float64
	Roll  float64

	Changed bool
}

var PhysicsComponent = NewComponent[Physics]()

// Kinematic marks an entity whose pose is driven by the application.
type Kinematic struct{}

var KinematicComponent = NewComponent[Kinematic]()
