// Package simplesim is a small pure-Go rigid-body simulator. It integrates
// gravity and velocities explicitly, detects overlaps between compound
// children with separating-axis tests and resolves them with inelastic
// impulses. It has no broadphase and is meant for tests and small scenes.
package simplesim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/physics/backend"
)

// World implements backend.Backend.
type World struct {
	gravity   mgl64.Vec3
	bodies    []*Body
	manifolds []backend.Manifold
}

var _ backend.Backend = (*World)(nil)

func New() *World {
	return &World{gravity: mgl64.Vec3{0, -9.81, 0}}
}

func (w *World) SetGravity(g mgl64.Vec3) {
	w.gravity = g
}

func (w *World) Gravity() mgl64.Vec3 {
	return w.gravity
}

func (w *World) NewShape(desc backend.ShapeDesc) (backend.Shape, error) {
	return newShape(desc)
}

func (w *World) NewCompound() backend.Compound {
	return &Compound{}
}

func (w *World) NewBody(cfg backend.BodyConfig) backend.Body {
	c, ok := cfg.Compound.(*Compound)
	if !ok {
		panic(fmt.Sprintf("simplesim: foreign compound %T", cfg.Compound))
	}
	pose := cfg.Pose
	if pose.Rotation == (mgl64.Quat{}) {
		pose.Rotation = mgl64.QuatIdent()
	}
	b := &Body{pose: pose, compound: c}
	b.SetMassProps(cfg.Mass, cfg.Inertia)
	return b
}

func (w *World) AddBody(b backend.Body) {
	body := w.own(b)
	if body.world == w {
		return
	}
	body.world = w
	w.bodies = append(w.bodies, body)
}

func (w *World) RemoveBody(b backend.Body) {
	body := w.own(b)
	if body.world != w {
		return
	}
	for i, other := range w.bodies {
		if other == body {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	body.world = nil
}

func (w *World) own(b backend.Body) *Body {
	body, ok := b.(*Body)
	if !ok {
		panic(fmt.Sprintf("simplesim: foreign body %T", b))
	}
	return body
}

func (w *World) Bodies() []backend.Body {
	out := make([]backend.Body, len(w.bodies))
	for i, b := range w.bodies {
		out[i] = b
	}
	return out
}

func (w *World) Contains(b backend.Body) bool {
	body, ok := b.(*Body)
	return ok && body.world == w
}

func (w *World) Manifolds() []backend.Manifold {
	return append([]backend.Manifold(nil), w.manifolds...)
}

// Step integrates every awake dynamic body, then resolves overlaps. Each
// overlapping pair yields one manifold.
func (w *World) Step(dt float64) {
	w.manifolds = w.manifolds[:0]
	if dt <= 0 || math.IsNaN(dt) {
		return
	}

	for _, b := range w.bodies {
		if !b.dynamic() || !b.awake() {
			continue
		}
		b.linVel = b.linVel.Add(w.gravity.Mul(dt))
		b.pose.Position = b.pose.Position.Add(b.linVel.Mul(dt))
		if speed := b.angVel.Len(); speed > 0 {
			dq := mgl64.QuatRotate(speed*dt, b.angVel.Mul(1/speed))
			b.pose.Rotation = dq.Mul(b.pose.Rotation).Normalize()
		}
	}

	for i := 0; i < len(w.bodies); i++ {
		a := w.bodies[i]
		for j := i + 1; j < len(w.bodies); j++ {
			b := w.bodies[j]
			if !a.dynamic() && !b.dynamic() {
				continue
			}
			if !a.simulated() || !b.simulated() {
				continue
			}
			c, ok := w.collide(a, b)
			if !ok {
				continue
			}
			w.manifolds = append(w.manifolds, backend.Manifold{A: a, B: b})
			resolve(a, b, c)
		}
	}
}

// collide returns the deepest contact between any child of a and any child
// of b. The normal points from b towards a.
func (w *World) collide(a, b *Body) (contact, bool) {
	var best contact
	found := false
	for _, ca := range a.compound.children {
		oa := a.childOBB(ca)
		for _, cb := range b.compound.children {
			ob := b.childOBB(cb)
			c, ok := collideChildren(oa, ca.shape, ob, cb.shape)
			if ok && (!found || c.depth > best.depth) {
				best, found = c, true
			}
		}
	}
	return best, found
}

func collideChildren(oa obb, sa *shape, ob obb, sb *shape) (contact, bool) {
	ra, aSphere := sa.sphereRadius()
	rb, bSphere := sb.sphereRadius()
	switch {
	case aSphere && bSphere:
		return overlapSpheres(oa.center, ra, ob.center, rb)
	case aSphere && sb.round():
		return overlapSphereRound(oa.center, ra, ob, sb)
	case bSphere && sa.round():
		c, ok := overlapSphereRound(ob.center, rb, oa, sa)
		c.normal = c.normal.Mul(-1)
		return c, ok
	case aSphere:
		return overlapSphereOBB(oa.center, ra, ob)
	case bSphere:
		c, ok := overlapSphereOBB(ob.center, rb, oa)
		c.normal = c.normal.Mul(-1)
		return c, ok
	default:
		return overlapOBB(oa, ob)
	}
}

// resolve separates a and b along the contact normal and removes their
// approaching velocity.
func resolve(a, b *Body, c contact) {
	invA, invB := 0.0, 0.0
	if a.dynamic() {
		invA = a.invMass
		a.wake()
	}
	if b.dynamic() {
		invB = b.invMass
		b.wake()
	}
	total := invA + invB
	if total == 0 {
		return
	}

	a.pose.Position = a.pose.Position.Add(c.normal.Mul(c.depth * invA / total))
	b.pose.Position = b.pose.Position.Sub(c.normal.Mul(c.depth * invB / total))

	rel := a.linVel.Sub(b.linVel).Dot(c.normal)
	if rel >= 0 {
		return
	}
	j := -rel / total
	a.linVel = a.linVel.Add(c.normal.Mul(j * invA))
	b.linVel = b.linVel.Sub(c.normal.Mul(j * invB))
}

// ContactTest reports bodies touching probe at pose, in registration order.
func (w *World) ContactTest(probe backend.Shape, pose backend.Pose, fn func(backend.Body) bool) {
	ps, ok := probe.(*shape)
	if !ok {
		panic(fmt.Sprintf("simplesim: foreign shape %T", probe))
	}
	if pose.Rotation == (mgl64.Quat{}) {
		pose.Rotation = mgl64.QuatIdent()
	}
	po := newOBB(pose, ps.halfExtents())
	pr, sphere := ps.sphereRadius()

	for _, b := range append([]*Body(nil), w.bodies...) {
		if !b.simulated() {
			continue
		}
		if !touches(b, po, pr, sphere) {
			continue
		}
		if !fn(b) {
			return
		}
	}
}

func touches(b *Body, probe obb, radius float64, sphere bool) bool {
	for _, c := range b.compound.children {
		o := b.childOBB(c)
		if sphere {
			if r, ok := c.shape.sphereRadius(); ok {
				if o.center.Sub(probe.center).Len() <= radius+r {
					return true
				}
				continue
			}
			if c.shape.round() {
				if _, dist := closestOnRound(o, c.shape, probe.center); dist <= radius {
					return true
				}
				continue
			}
			if sphereTouchesOBB(probe.center, radius, o) {
				return true
			}
			continue
		}
		if _, ok := overlapOBB(probe, o); ok {
			return true
		}
	}
	return false
}
