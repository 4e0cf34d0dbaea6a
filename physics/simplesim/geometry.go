package simplesim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/physics/backend"
)

// obb is an oriented box in world space.
type obb struct {
	center mgl64.Vec3
	axes   [3]mgl64.Vec3
	half   mgl64.Vec3
}

func newOBB(p backend.Pose, half mgl64.Vec3) obb {
	rot := p.Rotation.Normalize().Mat4()
	return obb{
		center: p.Position,
		axes:   [3]mgl64.Vec3{rot.Col(0).Vec3(), rot.Col(1).Vec3(), rot.Col(2).Vec3()},
		half:   half,
	}
}

func (o obb) bounds() (lo, hi mgl64.Vec3) {
	var ext mgl64.Vec3
	for k := 0; k < 3; k++ {
		for i := 0; i < 3; i++ {
			ext[k] += math.Abs(o.axes[i][k]) * o.half[i]
		}
	}
	return o.center.Sub(ext), o.center.Add(ext)
}

func (o obb) project(axis mgl64.Vec3) float64 {
	var r float64
	for i := 0; i < 3; i++ {
		r += math.Abs(o.axes[i].Dot(axis)) * o.half[i]
	}
	return r
}

// closest returns the point of o nearest to p.
func (o obb) closest(p mgl64.Vec3) mgl64.Vec3 {
	d := p.Sub(o.center)
	q := o.center
	for i := 0; i < 3; i++ {
		t := d.Dot(o.axes[i])
		t = math.Max(-o.half[i], math.Min(o.half[i], t))
		q = q.Add(o.axes[i].Mul(t))
	}
	return q
}

func (o obb) corners() [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	for i := range out {
		p := o.center
		for k := 0; k < 3; k++ {
			s := -1.0
			if i&(1<<k) != 0 {
				s = 1
			}
			p = p.Add(o.axes[k].Mul(s * o.half[k]))
		}
		out[i] = p
	}
	return out
}

// contact describes how far a must move along normal to leave b.
type contact struct {
	normal mgl64.Vec3
	depth  float64
}

// overlapOBB runs the separating axis test. Touching boxes do not overlap.
func overlapOBB(a, b obb) (contact, bool) {
	l := b.center.Sub(a.center)
	axes := make([]mgl64.Vec3, 0, 15)
	axes = append(axes, a.axes[:]...)
	axes = append(axes, b.axes[:]...)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c := a.axes[i].Cross(b.axes[j])
			if c.LenSqr() > 1e-8 {
				axes = append(axes, c.Normalize())
			}
		}
	}

	best := contact{depth: math.MaxFloat64}
	for _, axis := range axes {
		overlap := a.project(axis) + b.project(axis) - math.Abs(l.Dot(axis))
		if overlap <= 0 {
			return contact{}, false
		}
		if overlap < best.depth {
			best = contact{normal: axis, depth: overlap}
		}
	}
	if l.Dot(best.normal) > 0 {
		best.normal = best.normal.Mul(-1)
	}
	return best, true
}

func overlapSpheres(ca mgl64.Vec3, ra float64, cb mgl64.Vec3, rb float64) (contact, bool) {
	d := ca.Sub(cb)
	dist := d.Len()
	if dist >= ra+rb {
		return contact{}, false
	}
	n := mgl64.Vec3{0, 1, 0}
	if dist > 1e-12 {
		n = d.Mul(1 / dist)
	}
	return contact{normal: n, depth: ra + rb - dist}, true
}

// overlapSphereOBB reports contact pushing the sphere out of the box.
func overlapSphereOBB(c mgl64.Vec3, r float64, o obb) (contact, bool) {
	q := o.closest(c)
	d := c.Sub(q)
	dist := d.Len()
	if dist >= r {
		return contact{}, false
	}
	if dist > 1e-12 {
		return contact{normal: d.Mul(1 / dist), depth: r - dist}, true
	}
	// center inside the box: leave through the nearest face
	rel := c.Sub(o.center)
	best := contact{depth: math.MaxFloat64}
	for i := 0; i < 3; i++ {
		t := rel.Dot(o.axes[i])
		depth := o.half[i] - math.Abs(t) + r
		if depth < best.depth {
			n := o.axes[i]
			if t < 0 {
				n = n.Mul(-1)
			}
			best = contact{normal: n, depth: depth}
		}
	}
	return best, true
}

// sphereTouchesOBB is the inclusive test used for proximity queries.
func sphereTouchesOBB(c mgl64.Vec3, r float64, o obb) bool {
	return o.closest(c).Sub(c).Len() <= r
}

func (o obb) toLocal(p mgl64.Vec3) mgl64.Vec3 {
	d := p.Sub(o.center)
	return mgl64.Vec3{d.Dot(o.axes[0]), d.Dot(o.axes[1]), d.Dot(o.axes[2])}
}

func (o obb) toWorld(l mgl64.Vec3) mgl64.Vec3 {
	return o.center.Add(o.axes[0].Mul(l.X())).Add(o.axes[1].Mul(l.Y())).Add(o.axes[2].Mul(l.Z()))
}

// closestOnRound returns the point of a capsule, cone or cylinder placed at o
// nearest to p, and its distance. Points inside the solid are their own
// closest point.
func closestOnRound(o obb, s *shape, p mgl64.Vec3) (mgl64.Vec3, float64) {
	r, half := s.roundDims()
	l := o.toLocal(p)
	radial := mgl64.Vec3{l.X(), 0, l.Z()}
	rho := radial.Len()
	dir := mgl64.Vec3{1, 0, 0}
	if rho > 1e-12 {
		dir = radial.Mul(1 / rho)
	}

	var q mgl64.Vec3
	switch s.desc.Primitive {
	case backend.PrimitiveCapsule:
		axis := mgl64.Vec3{0, clamp(l.Y(), -half, half), 0}
		d := l.Sub(axis)
		if n := d.Len(); n > r {
			q = axis.Add(d.Mul(r / n))
		} else {
			q = l
		}
	case backend.PrimitiveCylinder:
		q = dir.Mul(math.Min(rho, r)).Add(mgl64.Vec3{0, clamp(l.Y(), -half, half), 0})
	default:
		qr, qy := closestOnConeSection(rho, l.Y(), r, half)
		q = dir.Mul(qr).Add(mgl64.Vec3{0, qy, 0})
	}

	world := o.toWorld(q)
	return world, world.Sub(p).Len()
}

// closestOnConeSection works in the (radial, axial) half plane, where the
// cone is the triangle apex (0, half), rim (r, -half), base center (0, -half).
func closestOnConeSection(rho, y, r, half float64) (float64, float64) {
	if y >= -half && y <= half && rho <= r*(half-y)/(2*half) {
		return rho, y
	}
	type pt struct{ x, y float64 }
	apex, rim, base := pt{0, half}, pt{r, -half}, pt{0, -half}
	best, bestD := pt{}, math.MaxFloat64
	for _, seg := range [][2]pt{{apex, rim}, {rim, base}, {base, apex}} {
		a, b := seg[0], seg[1]
		dx, dy := b.x-a.x, b.y-a.y
		t := 0.0
		if l2 := dx*dx + dy*dy; l2 > 0 {
			t = clamp(((rho-a.x)*dx+(y-a.y)*dy)/l2, 0, 1)
		}
		c := pt{a.x + t*dx, a.y + t*dy}
		if d := math.Hypot(rho-c.x, y-c.y); d < bestD {
			best, bestD = c, d
		}
	}
	return best.x, best.y
}

// overlapSphereRound reports contact pushing the sphere out of a round shape.
// A sphere whose center is inside the solid leaves through the bounding box.
func overlapSphereRound(c mgl64.Vec3, r float64, o obb, s *shape) (contact, bool) {
	q, dist := closestOnRound(o, s, c)
	if dist >= r {
		return contact{}, false
	}
	if dist > 1e-12 {
		return contact{normal: c.Sub(q).Mul(1 / dist), depth: r - dist}, true
	}
	return overlapSphereOBB(c, r, o)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
