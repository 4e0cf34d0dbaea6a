// Package backend declares the narrow capability surface the physics
// synchronizer needs from a rigid-body simulator.
package backend

import "github.com/go-gl/mathgl/mgl64"

// Pose is a rigid placement: translation plus orientation, no scale.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// IdentityPose places something at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Rotation: mgl64.QuatIdent()}
}

// Mat4 expands the pose into a homogeneous matrix.
func (p Pose) Mat4() mgl64.Mat4 {
	return mgl64.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z()).Mul4(p.Rotation.Normalize().Mat4())
}

// Apply transforms a point from pose-local space into the parent space.
func (p Pose) Apply(v mgl64.Vec3) mgl64.Vec3 {
	return p.Position.Add(p.Rotation.Rotate(v))
}

// Mul composes p with a child pose expressed in p's local space.
func (p Pose) Mul(child Pose) Pose {
	return Pose{
		Position: p.Apply(child.Position),
		Rotation: p.Rotation.Mul(child.Rotation).Normalize(),
	}
}

// Primitive enumerates the convex shapes a backend must support.
type Primitive int

const (
	PrimitiveBox Primitive = iota
	PrimitiveCapsule
	PrimitiveCone
	PrimitiveCylinder
	PrimitiveSphere
)

// ShapeDesc fully describes a primitive. Box uses HalfExtents; the round
// primitives use Radius and, except for spheres, Height along local Y. A
// capsule's Height excludes its hemispherical caps.
type ShapeDesc struct {
	Primitive   Primitive
	HalfExtents mgl64.Vec3
	Radius      float64
	Height      float64
}

// Activation mirrors the simulator's sleeping state machine.
type Activation int

const (
	ActivationActive Activation = iota
	ActivationSleeping
	ActivationWantsDeactivation
	ActivationDisableDeactivation
	ActivationDisableSimulation
)

// Shape is an immutable primitive that may be shared by many compounds.
type Shape interface {
	Desc() ShapeDesc
	SetLocalScaling(s mgl64.Vec3)
	LocalScaling() mgl64.Vec3
}

// Compound groups child shapes at local poses into one collision shape.
type Compound interface {
	AddChild(local Pose, s Shape)
	SetChildPose(index int, local Pose)
	ChildPose(index int) Pose
	NumChildren() int
	// LocalInertia returns the principal inertia for mass spread over the
	// compound. It is only meaningful for mass > 0.
	LocalInertia(mass float64) mgl64.Vec3
}

// Body is a rigid object owned by the caller until it is removed from the
// simulator it was added to.
type Body interface {
	Tag() uint64
	SetTag(tag uint64)

	Pose() Pose
	SetPose(p Pose)

	LinearVelocity() mgl64.Vec3
	SetLinearVelocity(v mgl64.Vec3)
	AngularVelocity() mgl64.Vec3
	SetAngularVelocity(v mgl64.Vec3)

	Mass() float64
	SetMassProps(mass float64, inertia mgl64.Vec3)

	Activation() Activation
	// SetActivation is ignored while deactivation or simulation is disabled.
	SetActivation(a Activation)
	ForceActivation(a Activation)

	Kinematic() bool
	SetKinematic(k bool)

	Compound() Compound
}

// BodyConfig is the construction info for a body.
type BodyConfig struct {
	Mass     float64
	Inertia  mgl64.Vec3
	Compound Compound
	Pose     Pose
}

// Manifold records contact between two bodies during the last step.
type Manifold struct {
	A Body
	B Body
}

// DebugDrawer receives world-space debug output.
type DebugDrawer interface {
	DrawLine(from, to, color mgl64.Vec3)
	ReportWarning(msg string)
}

// Backend is a dynamics world.
type Backend interface {
	SetGravity(g mgl64.Vec3)
	Step(dt float64)

	NewShape(desc ShapeDesc) (Shape, error)
	NewCompound() Compound
	NewBody(cfg BodyConfig) Body

	AddBody(b Body)
	RemoveBody(b Body)
	// Bodies lists the registered bodies in registration order.
	Bodies() []Body
	Contains(b Body) bool

	// Manifolds returns the contacts produced by the last Step.
	Manifolds() []Manifold

	// ContactTest reports every registered body overlapping probe placed at
	// pose. Enumeration stops once fn returns false.
	ContactTest(probe Shape, pose Pose, fn func(b Body) bool)

	DebugDraw(d DebugDrawer)
}
