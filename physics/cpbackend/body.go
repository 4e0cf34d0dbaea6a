package cpbackend

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigidsync/physics/backend"
)

var axisZ = mgl64.Vec3{0, 0, 1}

// Body wraps a cp.Body. Positions live in the XY plane; the Z coordinate and
// any rotation out of the plane are carried along unchanged from the last
// pushed pose.
type Body struct {
	body     *cp.Body
	compound *Compound
	space    *Space

	tag        uint64
	mass       float64
	moment     float64
	kinematic  bool
	activation backend.Activation

	depth     float64
	base      mgl64.Quat
	baseAngle float64
}

func newBody(cfg backend.BodyConfig) *Body {
	c, ok := cfg.Compound.(*Compound)
	if !ok {
		panic("cpbackend: foreign compound")
	}
	if c.owner != nil {
		panic("cpbackend: compound already bound to a body")
	}

	b := &Body{compound: c, base: mgl64.QuatIdent()}
	b.mass = cfg.Mass
	b.moment = momentOf(cfg.Mass, cfg.Inertia)
	if cfg.Mass > 0 {
		b.body = cp.NewBody(cfg.Mass, b.moment)
	} else {
		b.body = cp.NewStaticBody()
	}
	b.body.UserData = b

	c.owner = b
	for i := range c.children {
		b.attach(i)
	}
	pose := cfg.Pose
	if pose.Rotation == (mgl64.Quat{}) {
		pose.Rotation = mgl64.QuatIdent()
	}
	b.SetPose(pose)
	return b
}

func momentOf(mass float64, inertia mgl64.Vec3) float64 {
	if inertia.Z() > 0 {
		return inertia.Z()
	}
	if mass > 0 {
		return mass
	}
	return 0
}

// attach (re)creates the cp shape of child i.
func (b *Body) attach(i int) {
	ch := &b.compound.children[i]
	if ch.cp != nil && b.space != nil {
		b.space.space.RemoveShape(ch.cp)
	}
	ch.cp = ch.shape.instantiate(b.body, ch.pose)
	ch.cp.UserData = b
	if b.space != nil {
		b.space.space.AddShape(ch.cp)
	}
}

// reindex re-adds every shape so a moved static body is found by queries.
func (b *Body) reindex() {
	if b.space == nil || b.body.GetType() != cp.BODY_STATIC {
		return
	}
	for _, ch := range b.compound.children {
		if ch.cp == nil {
			continue
		}
		b.space.space.RemoveShape(ch.cp)
		b.space.space.AddShape(ch.cp)
	}
}

func (b *Body) Tag() uint64       { return b.tag }
func (b *Body) SetTag(tag uint64) { b.tag = tag }

func (b *Body) Pose() backend.Pose {
	p := b.body.Position()
	delta := b.body.Angle() - b.baseAngle
	return backend.Pose{
		Position: mgl64.Vec3{p.X, p.Y, b.depth},
		Rotation: mgl64.QuatRotate(delta, axisZ).Mul(b.base).Normalize(),
	}
}

func (b *Body) SetPose(p backend.Pose) {
	b.depth = p.Position.Z()
	b.base = p.Rotation.Normalize()
	b.baseAngle = planarAngle(b.base)
	b.body.SetAngle(b.baseAngle)
	b.body.SetPosition(planar(p.Position))
	b.reindex()
}

// planarAngle is the heading of the rotated X axis in the XY plane.
func planarAngle(q mgl64.Quat) float64 {
	x := q.Rotate(mgl64.Vec3{1, 0, 0})
	if math.Abs(x.X())+math.Abs(x.Y()) < 1e-12 {
		return 0
	}
	return math.Atan2(x.Y(), x.X())
}

func (b *Body) LinearVelocity() mgl64.Vec3 {
	v := b.body.Velocity()
	return mgl64.Vec3{v.X, v.Y, 0}
}

func (b *Body) SetLinearVelocity(v mgl64.Vec3) {
	if b.body.GetType() == cp.BODY_STATIC {
		return
	}
	b.body.SetVelocityVector(planar(v))
}

func (b *Body) AngularVelocity() mgl64.Vec3 {
	return mgl64.Vec3{0, 0, b.body.AngularVelocity()}
}

func (b *Body) SetAngularVelocity(v mgl64.Vec3) {
	if b.body.GetType() == cp.BODY_STATIC {
		return
	}
	b.body.SetAngularVelocity(v.Z())
}

func (b *Body) Mass() float64 { return b.mass }

// SetMassProps switches between static and dynamic as mass crosses zero.
// Kinematic bodies keep the values until they become dynamic again.
func (b *Body) SetMassProps(mass float64, inertia mgl64.Vec3) {
	b.mass = mass
	b.moment = momentOf(mass, inertia)
	if b.kinematic {
		return
	}
	b.applyType()
}

func (b *Body) applyType() {
	if b.mass <= 0 {
		b.body.SetType(cp.BODY_STATIC)
		b.reindex()
		return
	}
	wasStatic := b.body.GetType() == cp.BODY_STATIC
	b.body.SetType(cp.BODY_DYNAMIC)
	b.body.SetMass(b.mass)
	b.body.SetMoment(b.moment)
	if wasStatic {
		b.body.Activate()
	}
}

func (b *Body) Activation() backend.Activation { return b.activation }

func (b *Body) SetActivation(a backend.Activation) {
	if b.activation == backend.ActivationDisableDeactivation || b.activation == backend.ActivationDisableSimulation {
		return
	}
	b.ForceActivation(a)
}

// ForceActivation records the state. Chipmunk sleeping stays disabled, so
// only activation is forwarded.
func (b *Body) ForceActivation(a backend.Activation) {
	b.activation = a
	if a == backend.ActivationActive {
		b.body.Activate()
	}
}

func (b *Body) Kinematic() bool { return b.kinematic }

func (b *Body) SetKinematic(k bool) {
	if k == b.kinematic {
		return
	}
	b.kinematic = k
	if k {
		b.body.SetType(cp.BODY_KINEMATIC)
		return
	}
	b.applyType()
}

func (b *Body) Compound() backend.Compound { return b.compound }

// CP exposes the underlying Chipmunk body.
func (b *Body) CP() *cp.Body { return b.body }
