package physics

import (
	"github.com/milk9111/rigidsync/ecs"
)

// dispatchCollisions calls every OnCollision handler once per manifold of
// the last step. Nothing is enumerated when no handler is registered and
// collision events are off.
func (pw *World) dispatchCollisions(w *ecs.World) {
	handlers := w.Query(ecs.OnCollisionComponent.Kind().ID())
	if len(handlers) == 0 && !pw.cfg.CollisionEvents {
		return
	}

	manifolds := pw.backend.Manifolds()
	if len(manifolds) == 0 {
		return
	}

	for _, h := range handlers {
		for _, m := range manifolds {
			oc, ok := ecs.Get(w, h, ecs.OnCollisionComponent.Kind())
			if !ok || oc.Func == nil {
				break
			}
			oc.Func(ecs.Entity(m.A.Tag()), ecs.Entity(m.B.Tag()))
		}
	}

	if pw.cfg.CollisionEvents {
		for _, m := range manifolds {
			w.Events().Push(ecs.Event{
				Type: ecs.EventCollision,
				Data: ecs.CollisionEvent{A: ecs.Entity(m.A.Tag()), B: ecs.Entity(m.B.Tag())},
			})
		}
	}
}
