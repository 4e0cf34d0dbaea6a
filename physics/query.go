package physics

import (
	"log"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/ecs"
	"github.com/milk9111/rigidsync/physics/backend"
)

// Query returns the distinct entities whose bodies overlap a sphere of
// radius around pos, in the simulator's enumeration order, capped at the
// configured maximum.
func (pw *World) Query(pos mgl64.Vec3, radius float64) []ecs.Entity {
	limit := pw.cfg.MaxQueryResults
	out := make([]ecs.Entity, 0, min(limit, len(pw.order)))
	if radius < 0 || limit <= 0 {
		return out
	}

	probe, err := pw.backend.NewShape(backend.ShapeDesc{Primitive: backend.PrimitiveSphere, Radius: radius})
	if err != nil {
		log.Printf("physics: query probe: %v", err)
		return out
	}

	pose := backend.Pose{Position: pos, Rotation: mgl64.QuatIdent()}
	pw.backend.ContactTest(probe, pose, func(b backend.Body) bool {
		e := ecs.Entity(b.Tag())
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
		return len(out) < limit
	})
	return out
}
