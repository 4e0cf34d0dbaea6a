package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/ecs"
	"github.com/milk9111/rigidsync/ecs/component"
	"github.com/milk9111/rigidsync/physics/backend"
)

// synchronize moves state between components and bodies before the
// simulator step. Per body exactly one of these happens:
//
//	first step or Changed: velocities, mass and pose are pushed
//	kinematic:             pose is pushed
//	otherwise:             velocities are pulled into Physics
func (pw *World) synchronize(w *ecs.World) {
	for _, e := range pw.order {
		slot := pw.slots[e]
		if slot.state != statePending && slot.state != stateActive {
			continue
		}
		pw.syncBody(w, slot)
	}
}

func (pw *World) syncBody(w *ecs.World, slot *bodySlot) {
	e := slot.entity
	tr, okT := ecs.Get(w, e, component.TransformComponent.Kind())
	ph, okP := ecs.Get(w, e, component.PhysicsComponent.Kind())
	if !okT || !okP {
		return
	}
	slot.motion.transform = tr

	ref, ok := ecs.Get(w, e, component.ModelRefComponent.Kind())
	if !ok || ecs.Resolve(ref.Model) != slot.model {
		slot.state = stateStale
		return
	}
	if !w.IsAlive(slot.model) {
		return
	}
	mc, ok := ecs.Get(w, slot.model, component.ModelColliderComponent.Kind())
	if !ok {
		return
	}
	if mc.Revision != slot.revision {
		slot.state = stateStale
		return
	}

	body := slot.body
	kinematic := ecs.Has(w, e, component.KinematicComponent.Kind())

	switch {
	case ph.Changed || slot.state == statePending:
		body.SetLinearVelocity(ph.Movement)
		body.SetAngularVelocity(mgl64.Vec3{ph.Pitch, ph.Yaw, ph.Roll})
		var inertia mgl64.Vec3
		if ph.Mass != 0 {
			inertia = slot.compound.LocalInertia(ph.Mass)
		}
		body.SetMassProps(ph.Mass, inertia)
		if kinematic {
			body.ForceActivation(backend.ActivationSleeping)
		} else {
			body.ForceActivation(backend.ActivationActive)
		}
		body.SetPose(slot.motion.push())
	case kinematic:
		body.SetPose(slot.motion.push())
	default:
		ph.Movement = body.LinearVelocity()
		av := body.AngularVelocity()
		ph.Pitch, ph.Yaw, ph.Roll = av.X(), av.Y(), av.Z()
	}

	if kinematic {
		body.SetKinematic(true)
		body.SetActivation(backend.ActivationWantsDeactivation)
	} else if body.Kinematic() {
		body.SetKinematic(false)
		body.SetActivation(backend.ActivationActive)
	}
	ph.Changed = false

	if r := loadRig(w, e, slot.model); r != nil {
		n := slot.compound.NumChildren()
		for i, c := range mc.Colliders {
			if i >= n {
				break
			}
			if c.Bone != "" {
				slot.compound.SetChildPose(i, colliderPose(tr, c, r))
			}
		}
	}

	slot.state = stateActive
}

// pullPoses writes simulated poses back into transforms. Static and
// kinematic bodies are owned by the application and left alone.
func (pw *World) pullPoses(w *ecs.World) {
	for _, e := range pw.order {
		slot := pw.slots[e]
		if slot.state != stateActive {
			continue
		}
		if slot.body.Kinematic() || slot.body.Mass() == 0 {
			continue
		}
		tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		slot.motion.transform = tr
		slot.motion.pull(slot.body.Pose())
	}
}
