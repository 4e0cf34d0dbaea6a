package physics

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/ecs"
	"github.com/milk9111/rigidsync/ecs/component"
	"github.com/milk9111/rigidsync/physics/backend"
)

type bodyState int

const (
	stateNoBody bodyState = iota
	statePending
	stateActive
	stateStale
)

func (s bodyState) String() string {
	switch s {
	case stateNoBody:
		return "none"
	case statePending:
		return "pending"
	case stateActive:
		return "active"
	case stateStale:
		return "stale"
	default:
		return fmt.Sprintf("bodyState(%d)", int(s))
	}
}

// bodySlot is the per-entity record of a simulator body.
type bodySlot struct {
	entity   ecs.Entity
	state    bodyState
	body     backend.Body
	compound backend.Compound
	motion   motionState
	model    ecs.Entity
	revision int
}

// modelBasis turns the model's forward axis around to the simulator's.
var modelBasis = mgl64.Scale3D(-1, 1, -1)

func (pw *World) createBodies(w *ecs.World) {
	for e := range pw.skipped {
		if !w.IsAlive(e) {
			delete(pw.skipped, e)
		}
	}

	for _, e := range w.Query(
		component.ModelRefComponent.Kind().ID(),
		component.TransformComponent.Kind().ID(),
		component.PhysicsComponent.Kind().ID(),
	) {
		if _, ok := pw.slots[e]; ok {
			continue
		}
		pw.create(w, e)
	}
}

func (pw *World) create(w *ecs.World, e ecs.Entity) {
	ref, _ := ecs.Get(w, e, component.ModelRefComponent.Kind())
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	ph, _ := ecs.Get(w, e, component.PhysicsComponent.Kind())
	if ref == nil || tr == nil || ph == nil {
		return
	}

	model := ecs.Resolve(ref.Model)
	if !w.IsAlive(model) {
		pw.skip(e, "model entity missing")
		return
	}
	mc, ok := ecs.Get(w, model, component.ModelColliderComponent.Kind())
	if !ok {
		pw.skip(e, "model has no collider data")
		return
	}
	delete(pw.skipped, e)

	rig := loadRig(w, e, model)
	compound := pw.backend.NewCompound()
	for _, c := range mc.Colliders {
		shape := pw.shapes.GetOrCreate(c.Shape, mulElem(c.Size, scaleOf(tr)))
		compound.AddChild(colliderPose(tr, c, rig), shape)
	}

	var inertia mgl64.Vec3
	if ph.Mass != 0 {
		inertia = compound.LocalInertia(ph.Mass)
	}

	slot := &bodySlot{
		entity:   e,
		state:    statePending,
		compound: compound,
		motion:   motionState{transform: tr},
		model:    model,
		revision: mc.Revision,
	}
	slot.body = pw.backend.NewBody(backend.BodyConfig{
		Mass:     ph.Mass,
		Inertia:  inertia,
		Compound: compound,
		Pose:     slot.motion.push(),
	})
	slot.body.SetTag(uint64(e))
	pw.backend.AddBody(slot.body)

	pw.slots[e] = slot
	pw.order = append(pw.order, e)
}

func (pw *World) skip(e ecs.Entity, reason string) {
	if pw.skipped[e] == reason {
		return
	}
	pw.skipped[e] = reason
	log.Printf("physics: skip entity %v: %s", e, reason)
}

func (pw *World) destroyBodies(w *ecs.World) {
	for _, e := range append([]ecs.Entity(nil), pw.order...) {
		slot := pw.slots[e]
		if slot.state == stateStale ||
			!w.IsAlive(e) ||
			!ecs.Has(w, e, component.PhysicsComponent.Kind()) ||
			!ecs.Has(w, e, component.TransformComponent.Kind()) {
			pw.destroy(slot)
		}
	}
}

func (pw *World) destroy(slot *bodySlot) {
	if slot == nil {
		return
	}
	pw.backend.RemoveBody(slot.body)
	if pw.backend.Contains(slot.body) {
		panic(fmt.Sprintf("physics: body of entity %v still registered after removal", slot.entity))
	}
	slot.state = stateNoBody
	delete(pw.slots, slot.entity)
	for i, e := range pw.order {
		if e == slot.entity {
			pw.order = append(pw.order[:i], pw.order[i+1:]...)
			break
		}
	}
}

func scaleOf(tr *component.Transform) mgl64.Vec3 {
	if tr.Scale == (mgl64.Vec3{}) {
		return mgl64.Vec3{1, 1, 1}
	}
	return tr.Scale
}

// rig carries what is needed to glue colliders to animated bones.
type rig struct {
	names     []string
	bones     []mgl64.Mat4
	modelSize mgl64.Vec3
}

func loadRig(w *ecs.World, e, model ecs.Entity) *rig {
	sk, ok := ecs.Get(w, e, component.SkeletonComponent.Kind())
	if !ok {
		return nil
	}
	ms, ok := ecs.Get(w, model, component.ModelSkeletonComponent.Kind())
	if !ok {
		return nil
	}
	size := mgl64.Vec3{1, 1, 1}
	if md, ok := ecs.Get(w, model, component.ModelComponent.Kind()); ok && md.Size != (mgl64.Vec3{}) {
		size = md.Size
	}
	return &rig{names: ms.Bones, bones: sk.Bones, modelSize: size}
}

func (r *rig) bone(name string) (mgl64.Mat4, bool) {
	if r == nil || name == "" {
		return mgl64.Mat4{}, false
	}
	for i, n := range r.names {
		if n == name && i < len(r.bones) {
			return r.bones[i], true
		}
	}
	return mgl64.Mat4{}, false
}

// colliderPose places a collider in body space. Bone-attached colliders
// follow the bone's current matrix, with the bone translation rescaled from
// model units to instance units.
func colliderPose(tr *component.Transform, c component.Collider, r *rig) backend.Pose {
	scale := scaleOf(tr)
	parent := modelBasis
	if bone, ok := r.bone(c.Bone); ok {
		pos := bone.Col(3).Vec3()
		shift := mulElem(mulElem(pos, r.modelSize), scale).Sub(pos)
		parent = parent.Mul4(mgl64.Translate3D(shift.X(), shift.Y(), shift.Z())).Mul4(bone)
	}

	p := mulElem(c.Position, scale)
	local := mgl64.Translate3D(p.X(), p.Y(), p.Z()).Mul4(eulerToQuat(c.Yaw, c.Pitch, c.Roll).Mat4())
	return poseFromMat(parent.Mul4(local))
}
