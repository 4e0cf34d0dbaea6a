package simplesim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/physics/backend"
)

type shape struct {
	desc    backend.ShapeDesc
	scaling mgl64.Vec3
}

func newShape(desc backend.ShapeDesc) (*shape, error) {
	dims := []float64{desc.HalfExtents.X(), desc.HalfExtents.Y(), desc.HalfExtents.Z(), desc.Radius, desc.Height}
	for _, d := range dims {
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return nil, fmt.Errorf("simplesim: invalid shape dimensions %+v", desc)
		}
	}
	switch desc.Primitive {
	case backend.PrimitiveBox, backend.PrimitiveCapsule, backend.PrimitiveCone,
		backend.PrimitiveCylinder, backend.PrimitiveSphere:
	default:
		return nil, fmt.Errorf("simplesim: unknown primitive %d", desc.Primitive)
	}
	return &shape{desc: desc, scaling: mgl64.Vec3{1, 1, 1}}, nil
}

func (s *shape) Desc() backend.ShapeDesc {
	return s.desc
}

func (s *shape) SetLocalScaling(v mgl64.Vec3) {
	s.scaling = v
}

func (s *shape) LocalScaling() mgl64.Vec3 {
	return s.scaling
}

// halfExtents bounds the primitive with a box in its local frame.
func (s *shape) halfExtents() mgl64.Vec3 {
	d := s.desc
	var h mgl64.Vec3
	switch d.Primitive {
	case backend.PrimitiveBox:
		h = d.HalfExtents
	case backend.PrimitiveSphere:
		h = mgl64.Vec3{d.Radius, d.Radius, d.Radius}
	case backend.PrimitiveCapsule:
		h = mgl64.Vec3{d.Radius, d.Height/2 + d.Radius, d.Radius}
	default:
		h = mgl64.Vec3{d.Radius, d.Height / 2, d.Radius}
	}
	return mgl64.Vec3{h.X() * s.scaling.X(), h.Y() * s.scaling.Y(), h.Z() * s.scaling.Z()}
}

// round reports whether the primitive has an exact closest-point test.
func (s *shape) round() bool {
	switch s.desc.Primitive {
	case backend.PrimitiveCapsule, backend.PrimitiveCone, backend.PrimitiveCylinder:
		return true
	}
	return false
}

// roundDims returns the scaled radius and half height of a round primitive.
// For capsules the half height excludes the caps. Unequal X and Z scaling
// takes the larger axis so the solid stays inside its bounding box.
func (s *shape) roundDims() (radius, half float64) {
	sc := s.scaling
	return s.desc.Radius * math.Max(sc.X(), sc.Z()), s.desc.Height / 2 * sc.Y()
}

// sphereRadius reports the radius if the scaled shape is a true sphere.
func (s *shape) sphereRadius() (float64, bool) {
	if s.desc.Primitive != backend.PrimitiveSphere {
		return 0, false
	}
	sc := s.scaling
	if sc.X() != sc.Y() || sc.Y() != sc.Z() {
		return 0, false
	}
	return s.desc.Radius * sc.X(), true
}

type child struct {
	pose  backend.Pose
	shape *shape
}

// Compound is a list of shapes at local poses.
type Compound struct {
	children []child
}

func (c *Compound) AddChild(local backend.Pose, s backend.Shape) {
	sh, ok := s.(*shape)
	if !ok {
		panic(fmt.Sprintf("simplesim: foreign shape %T", s))
	}
	c.children = append(c.children, child{pose: local, shape: sh})
}

func (c *Compound) SetChildPose(index int, local backend.Pose) {
	c.children[index].pose = local
}

func (c *Compound) ChildPose(index int) backend.Pose {
	return c.children[index].pose
}

func (c *Compound) NumChildren() int {
	return len(c.children)
}

// LocalInertia treats the compound as a solid box filling its local bounds.
func (c *Compound) LocalInertia(mass float64) mgl64.Vec3 {
	if len(c.children) == 0 {
		return mgl64.Vec3{}
	}
	lo, hi := c.localBounds()
	h := hi.Sub(lo).Mul(0.5)
	x2, y2, z2 := h.X()*h.X(), h.Y()*h.Y(), h.Z()*h.Z()
	return mgl64.Vec3{
		mass / 3 * (y2 + z2),
		mass / 3 * (x2 + z2),
		mass / 3 * (x2 + y2),
	}
}

func (c *Compound) localBounds() (lo, hi mgl64.Vec3) {
	for i, ch := range c.children {
		o := newOBB(ch.pose, ch.shape.halfExtents())
		clo, chi := o.bounds()
		if i == 0 {
			lo, hi = clo, chi
			continue
		}
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], clo[k])
			hi[k] = math.Max(hi[k], chi[k])
		}
	}
	return lo, hi
}
