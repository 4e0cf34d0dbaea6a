package simplesim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/physics/backend"
)

// Body is a rigid body of the reference simulator.
type Body struct {
	tag        uint64
	pose       backend.Pose
	linVel     mgl64.Vec3
	angVel     mgl64.Vec3
	mass       float64
	invMass    float64
	invInertia mgl64.Vec3
	activation backend.Activation
	kinematic  bool
	compound   *Compound
	world      *World
}

func (b *Body) Tag() uint64       { return b.tag }
func (b *Body) SetTag(tag uint64) { b.tag = tag }

func (b *Body) Pose() backend.Pose     { return b.pose }
func (b *Body) SetPose(p backend.Pose) { b.pose = p }

func (b *Body) LinearVelocity() mgl64.Vec3      { return b.linVel }
func (b *Body) SetLinearVelocity(v mgl64.Vec3)  { b.linVel = v }
func (b *Body) AngularVelocity() mgl64.Vec3     { return b.angVel }
func (b *Body) SetAngularVelocity(v mgl64.Vec3) { b.angVel = v }

func (b *Body) Mass() float64 { return b.mass }

func (b *Body) SetMassProps(mass float64, inertia mgl64.Vec3) {
	b.mass = mass
	b.invMass = 0
	if mass > 0 {
		b.invMass = 1 / mass
	}
	b.invInertia = mgl64.Vec3{}
	for i := 0; i < 3; i++ {
		if inertia[i] > 0 {
			b.invInertia[i] = 1 / inertia[i]
		}
	}
}

func (b *Body) Activation() backend.Activation { return b.activation }

func (b *Body) SetActivation(a backend.Activation) {
	if b.activation == backend.ActivationDisableDeactivation || b.activation == backend.ActivationDisableSimulation {
		return
	}
	b.activation = a
}

func (b *Body) ForceActivation(a backend.Activation) { b.activation = a }

func (b *Body) Kinematic() bool     { return b.kinematic }
func (b *Body) SetKinematic(k bool) { b.kinematic = k }

func (b *Body) Compound() backend.Compound { return b.compound }

// dynamic bodies are moved by the simulator.
func (b *Body) dynamic() bool {
	return !b.kinematic && b.invMass > 0
}

func (b *Body) simulated() bool {
	return b.activation != backend.ActivationDisableSimulation
}

func (b *Body) awake() bool {
	return b.activation != backend.ActivationSleeping && b.simulated()
}

func (b *Body) wake() {
	if b.activation == backend.ActivationSleeping || b.activation == backend.ActivationWantsDeactivation {
		b.activation = backend.ActivationActive
	}
}

func (b *Body) childOBB(c child) obb {
	return newOBB(b.pose.Mul(c.pose), c.shape.halfExtents())
}

func (b *Body) String() string {
	return fmt.Sprintf("simplesim.Body{tag: %d, pos: %v, mass: %g}", b.tag, b.pose.Position, b.mass)
}
