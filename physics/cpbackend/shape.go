package cpbackend

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigidsync/physics/backend"
)

// Shape is a primitive prototype. Chipmunk shapes belong to exactly one body,
// so each body instantiates its own cp.Shape from the prototype.
type Shape struct {
	desc    backend.ShapeDesc
	scaling mgl64.Vec3
}

func newShape(desc backend.ShapeDesc) (*Shape, error) {
	dims := []float64{desc.HalfExtents.X(), desc.HalfExtents.Y(), desc.HalfExtents.Z(), desc.Radius, desc.Height}
	for _, d := range dims {
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return nil, fmt.Errorf("cpbackend: invalid shape dimensions %+v", desc)
		}
	}
	switch desc.Primitive {
	case backend.PrimitiveSphere:
	case backend.PrimitiveBox:
		if desc.HalfExtents.X() == 0 || desc.HalfExtents.Y() == 0 {
			return nil, fmt.Errorf("cpbackend: degenerate box %v", desc.HalfExtents)
		}
	case backend.PrimitiveCapsule, backend.PrimitiveCone, backend.PrimitiveCylinder:
		if desc.Radius == 0 || desc.Height == 0 {
			return nil, fmt.Errorf("cpbackend: degenerate %d with radius %g height %g", desc.Primitive, desc.Radius, desc.Height)
		}
	default:
		return nil, fmt.Errorf("cpbackend: unknown primitive %d", desc.Primitive)
	}
	return &Shape{desc: desc, scaling: mgl64.Vec3{1, 1, 1}}, nil
}

func (s *Shape) Desc() backend.ShapeDesc {
	return s.desc
}

func (s *Shape) SetLocalScaling(v mgl64.Vec3) {
	s.scaling = v
}

func (s *Shape) LocalScaling() mgl64.Vec3 {
	return s.scaling
}

// outline returns the primitive's silhouette in its local XY plane.
func (s *Shape) outline() []mgl64.Vec3 {
	d := s.desc
	sx, sy := s.scaling.X(), s.scaling.Y()
	var hx, hy float64
	switch d.Primitive {
	case backend.PrimitiveBox:
		hx, hy = d.HalfExtents.X(), d.HalfExtents.Y()
	case backend.PrimitiveCone:
		r, h := d.Radius*sx, d.Height/2*sy
		return []mgl64.Vec3{{-r, -h, 0}, {r, -h, 0}, {0, h, 0}}
	default:
		hx, hy = d.Radius, d.Height/2
	}
	hx, hy = hx*sx, hy*sy
	return []mgl64.Vec3{{hx, -hy, 0}, {hx, hy, 0}, {-hx, hy, 0}, {-hx, -hy, 0}}
}

// instantiate builds the cp shape on body, placed at local inside the body.
func (s *Shape) instantiate(body *cp.Body, local backend.Pose) *cp.Shape {
	var shape *cp.Shape
	switch s.desc.Primitive {
	case backend.PrimitiveSphere:
		shape = cp.NewCircle(body, s.desc.Radius*s.scaling.X(), planar(local.Position))
	case backend.PrimitiveCapsule:
		h := s.desc.Height / 2 * s.scaling.Y()
		a := planar(local.Apply(mgl64.Vec3{0, -h, 0}))
		b := planar(local.Apply(mgl64.Vec3{0, h, 0}))
		shape = cp.NewSegment(body, a, b, s.desc.Radius*s.scaling.X())
	default:
		src := s.outline()
		verts := make([]cp.Vector, len(src))
		for i, v := range src {
			verts[i] = planar(local.Apply(v))
		}
		if polygonArea(verts) < 1e-9 {
			// seen edge-on; keep it collidable as a thin segment
			a, b := extremes(verts)
			shape = cp.NewSegment(body, a, b, 0.01)
			break
		}
		shape = cp.NewPolyShape(body, len(verts), verts, cp.NewTransformIdentity(), 0)
	}
	shape.SetCollisionType(collisionTypeBody)
	shape.SetFriction(0.7)
	return shape
}

func planar(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Y()}
}

func polygonArea(verts []cp.Vector) float64 {
	var a float64
	for i := range verts {
		a += verts[i].Cross(verts[(i+1)%len(verts)])
	}
	return math.Abs(a) / 2
}

func extremes(verts []cp.Vector) (cp.Vector, cp.Vector) {
	a, b := verts[0], verts[0]
	best := -1.0
	for i := range verts {
		for j := i + 1; j < len(verts); j++ {
			if d := verts[i].Sub(verts[j]).LengthSq(); d > best {
				a, b, best = verts[i], verts[j], d
			}
		}
	}
	return a, b
}

type child struct {
	pose  backend.Pose
	shape *Shape
	cp    *cp.Shape
}

// Compound collects child prototypes. Once bound to a body every child owns
// a cp.Shape on that body.
type Compound struct {
	children []child
	owner    *Body
}

func (c *Compound) AddChild(local backend.Pose, s backend.Shape) {
	sh, ok := s.(*Shape)
	if !ok {
		panic(fmt.Sprintf("cpbackend: foreign shape %T", s))
	}
	c.children = append(c.children, child{pose: local, shape: sh})
	if c.owner != nil {
		c.owner.attach(len(c.children) - 1)
	}
}

func (c *Compound) SetChildPose(index int, local backend.Pose) {
	c.children[index].pose = local
	if c.owner != nil {
		c.owner.attach(index)
	}
}

func (c *Compound) ChildPose(index int) backend.Pose {
	return c.children[index].pose
}

func (c *Compound) NumChildren() int {
	return len(c.children)
}

// LocalInertia returns the moment about Z of a box spanning the compound's
// planar bounds. Only rotation about Z exists in the plane.
func (c *Compound) LocalInertia(mass float64) mgl64.Vec3 {
	if len(c.children) == 0 {
		return mgl64.Vec3{}
	}
	bb := cp.BB{L: math.Inf(1), B: math.Inf(1), R: math.Inf(-1), T: math.Inf(-1)}
	for _, ch := range c.children {
		var pts []mgl64.Vec3
		if ch.shape.desc.Primitive == backend.PrimitiveSphere {
			r := ch.shape.desc.Radius * ch.shape.scaling.X()
			pts = []mgl64.Vec3{{-r, -r, 0}, {r, r, 0}}
		} else {
			pts = ch.shape.outline()
			if ch.shape.desc.Primitive == backend.PrimitiveCapsule {
				r := ch.shape.desc.Radius * ch.shape.scaling.X()
				h := ch.shape.desc.Height/2*ch.shape.scaling.Y() + r
				pts = []mgl64.Vec3{{-r, -h, 0}, {r, h, 0}}
			}
		}
		for _, p := range pts {
			v := planar(ch.pose.Apply(p))
			bb.L, bb.R = math.Min(bb.L, v.X), math.Max(bb.R, v.X)
			bb.B, bb.T = math.Min(bb.B, v.Y), math.Max(bb.T, v.Y)
		}
	}
	return mgl64.Vec3{0, 0, cp.MomentForBox2(mass, bb)}
}
