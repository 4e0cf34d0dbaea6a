// Package cpbackend runs the synchronizer on top of Chipmunk2D. Everything
// is simulated in the XY plane: Z positions pass through untouched and only
// rotation about Z is dynamic.
package cpbackend

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigidsync/physics/backend"
)

const collisionTypeBody cp.CollisionType = 1

// Space implements backend.Backend over a cp.Space.
type Space struct {
	space  *cp.Space
	bodies []*Body

	manifolds []backend.Manifold
	seen      map[[2]*Body]bool
}

var _ backend.Backend = (*Space)(nil)

func New() *Space {
	s := &Space{
		space: cp.NewSpace(),
		seen:  make(map[[2]*Body]bool),
	}
	s.space.Iterations = 20

	handler := s.space.NewCollisionHandler(collisionTypeBody, collisionTypeBody)
	handler.UserData = s
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sp, ok := userData.(*Space)
		if !ok || sp == nil {
			return true
		}
		a, b := arb.Bodies()
		ba, okA := a.UserData.(*Body)
		bb, okB := b.UserData.(*Body)
		if !okA || !okB {
			return true
		}
		sp.record(ba, bb)
		return true
	}
	return s
}

func (s *Space) record(a, b *Body) {
	if s.seen[[2]*Body{a, b}] || s.seen[[2]*Body{b, a}] {
		return
	}
	s.seen[[2]*Body{a, b}] = true
	s.manifolds = append(s.manifolds, backend.Manifold{A: a, B: b})
}

// CP exposes the underlying space.
func (s *Space) CP() *cp.Space {
	return s.space
}

func (s *Space) SetGravity(g mgl64.Vec3) {
	s.space.SetGravity(planar(g))
}

func (s *Space) Step(dt float64) {
	s.manifolds = s.manifolds[:0]
	clear(s.seen)
	if dt <= 0 {
		return
	}
	s.space.Step(dt)
}

func (s *Space) NewShape(desc backend.ShapeDesc) (backend.Shape, error) {
	return newShape(desc)
}

func (s *Space) NewCompound() backend.Compound {
	return &Compound{}
}

func (s *Space) NewBody(cfg backend.BodyConfig) backend.Body {
	return newBody(cfg)
}

func (s *Space) own(b backend.Body) *Body {
	body, ok := b.(*Body)
	if !ok {
		panic(fmt.Sprintf("cpbackend: foreign body %T", b))
	}
	return body
}

func (s *Space) AddBody(b backend.Body) {
	body := s.own(b)
	if body.space == s {
		return
	}
	s.space.AddBody(body.body)
	body.space = s
	for _, ch := range body.compound.children {
		s.space.AddShape(ch.cp)
	}
	s.bodies = append(s.bodies, body)
}

func (s *Space) RemoveBody(b backend.Body) {
	body := s.own(b)
	if body.space != s {
		return
	}
	for _, ch := range body.compound.children {
		if ch.cp != nil && s.space.ContainsShape(ch.cp) {
			s.space.RemoveShape(ch.cp)
		}
	}
	if s.space.ContainsBody(body.body) {
		s.space.RemoveBody(body.body)
	}
	body.space = nil
	for i, other := range s.bodies {
		if other == body {
			s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
			break
		}
	}
}

func (s *Space) Bodies() []backend.Body {
	out := make([]backend.Body, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = b
	}
	return out
}

func (s *Space) Contains(b backend.Body) bool {
	body, ok := b.(*Body)
	return ok && body.space == s && s.space.ContainsBody(body.body)
}

func (s *Space) Manifolds() []backend.Manifold {
	return append([]backend.Manifold(nil), s.manifolds...)
}

// ContactTest places the probe on a detached kinematic body and reports the
// bodies it overlaps in registration order.
func (s *Space) ContactTest(probe backend.Shape, pose backend.Pose, fn func(backend.Body) bool) {
	ps, ok := probe.(*Shape)
	if !ok {
		panic(fmt.Sprintf("cpbackend: foreign shape %T", probe))
	}
	holder := cp.NewKinematicBody()
	holder.SetPosition(planar(pose.Position))
	if pose.Rotation != (mgl64.Quat{}) {
		holder.SetAngle(planarAngle(pose.Rotation))
	}
	shape := ps.instantiate(holder, backend.IdentityPose())

	hits := make(map[*Body]bool)
	s.space.ShapeQuery(shape, func(other *cp.Shape, _ *cp.ContactPointSet) {
		if b, ok := other.UserData.(*Body); ok {
			hits[b] = true
		}
	})

	for _, b := range append([]*Body(nil), s.bodies...) {
		if !hits[b] {
			continue
		}
		if !fn(b) {
			return
		}
	}
}
