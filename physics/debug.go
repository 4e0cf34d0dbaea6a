package physics

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/ecs"
	"github.com/milk9111/rigidsync/ecs/component"
)

// debugDrawer appends simulator wireframes to a DebugGraphics buffer.
type debugDrawer struct {
	target *component.DebugGraphics
}

func (d *debugDrawer) DrawLine(from, to, color mgl64.Vec3) {
	if d.target == nil {
		return
	}
	d.target.Lines = append(d.target.Lines, component.DebugLine{
		From: from,
		To:   to,
		Color: component.Color{
			R: float32(color.X()),
			G: float32(color.Y()),
			B: float32(color.Z()),
			A: 1,
		},
	})
}

func (d *debugDrawer) ReportWarning(msg string) {
	log.Printf("physics: backend warning: %s", msg)
}

func (pw *World) ensureDebugEntity(w *ecs.World) *component.DebugGraphics {
	if w.IsAlive(pw.debugEntity) {
		if dg, ok := ecs.Get(w, pw.debugEntity, component.DebugGraphicsComponent.Kind()); ok {
			return dg
		}
	} else {
		pw.debugEntity = ecs.CreateEntity(w)
	}
	dg := &component.DebugGraphics{}
	mustAdd(ecs.Add(w, pw.debugEntity, component.DebugGraphicsComponent.Kind(), dg))
	return dg
}

// refreshDebug clears the line buffer and, when debugging is on, refills it
// with the simulator's wireframe.
func (pw *World) refreshDebug(w *ecs.World) {
	if !pw.debugEntity.Valid() && !pw.Debug {
		return
	}
	dg := pw.ensureDebugEntity(w)
	dg.Lines = dg.Lines[:0]
	if !pw.Debug {
		return
	}
	pw.drawer.target = dg
	pw.backend.DebugDraw(&pw.drawer)
	pw.drawer.target = nil
}
