// Package physics keeps ECS entities and a rigid-body simulator in step: it
// creates and destroys simulator bodies as entities gain and lose physics,
// copies poses and velocities in both directions every step, and forwards
// collisions and proximity queries back into the ECS.
package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/ecs"
	"github.com/milk9111/rigidsync/ecs/component"
	"github.com/milk9111/rigidsync/physics/backend"
)

// World is the physics integration for a single ECS world.
type World struct {
	// Gravity is the downward acceleration applied every step.
	Gravity float64
	// Debug enables the wireframe pass into the DebugGraphics buffer.
	Debug bool

	cfg     Config
	backend backend.Backend
	shapes  *ShapeCache

	slots map[ecs.Entity]*bodySlot
	order []ecs.Entity

	skipped     map[ecs.Entity]string
	debugEntity ecs.Entity
	drawer      debugDrawer
}

func New(b backend.Backend, cfg Config) *World {
	cfg = cfg.normalized()
	return &World{
		Gravity: cfg.Gravity,
		Debug:   cfg.Debug,
		cfg:     cfg,
		backend: b,
		shapes:  NewShapeCache(b, cfg.StrictShapes),
		slots:   make(map[ecs.Entity]*bodySlot),
		skipped: make(map[ecs.Entity]string),
	}
}

// Install registers the physics world with w: a system entity carrying the
// per-frame Execute hook, the QueryPosition service and the Adjustable
// parameters, plus the entity that owns the debug line buffer.
func Install(w *ecs.World, pw *World) ecs.Entity {
	e := ecs.CreateEntity(w)
	mustAdd(ecs.Add(w, e, ecs.ExecuteComponent.Kind(), &ecs.Execute{
		Func: func(dt float64) { pw.Step(w, dt) },
	}))
	mustAdd(ecs.Add(w, e, ecs.QueryPositionComponent.Kind(), &ecs.QueryPosition{
		Func: pw.Query,
	}))
	mustAdd(ecs.Add(w, e, component.AdjustableComponent.Kind(), &component.Adjustable{
		Section: "Physics",
		Params: []component.AdjustableParam{
			{Name: "Gravity", Float: &pw.Gravity},
			{Name: "Debug", Bool: &pw.Debug},
		},
	}))
	pw.ensureDebugEntity(w)
	return e
}

func mustAdd(err error) {
	if err != nil {
		panic("physics: install: " + err.Error())
	}
}

func (pw *World) Config() Config {
	return pw.cfg
}

func (pw *World) Backend() backend.Backend {
	return pw.backend
}

func (pw *World) Shapes() *ShapeCache {
	return pw.shapes
}

// DebugEntity returns the entity holding the debug line buffer, if any.
func (pw *World) DebugEntity() (ecs.Entity, bool) {
	return pw.debugEntity, pw.debugEntity.Valid()
}

// Step advances the simulation by dt seconds. Phases run in a fixed order:
// create bodies, push or pull state, destroy stale bodies, simulate, write
// simulated poses back, dispatch collisions, then refresh the debug buffer.
func (pw *World) Step(w *ecs.World, dt float64) {
	if pw == nil || w == nil {
		return
	}
	pw.createBodies(w)
	pw.synchronize(w)
	pw.destroyBodies(w)

	pw.backend.SetGravity(mgl64.Vec3{0, -pw.Gravity, 0})
	pw.backend.Step(dt)

	pw.pullPoses(w)
	pw.dispatchCollisions(w)
	pw.refreshDebug(w)
}

// Shutdown removes every body from the simulator.
func (pw *World) Shutdown() {
	for _, e := range append([]ecs.Entity(nil), pw.order...) {
		pw.destroy(pw.slots[e])
	}
}

// HasBody reports whether e currently owns a registered simulator body.
func (pw *World) HasBody(e ecs.Entity) bool {
	slot, ok := pw.slots[e]
	return ok && pw.backend.Contains(slot.body)
}

// Body returns the simulator body owned by e.
func (pw *World) Body(e ecs.Entity) (backend.Body, bool) {
	slot, ok := pw.slots[e]
	if !ok {
		return nil, false
	}
	return slot.body, true
}

// NumBodies returns how many entities own a body.
func (pw *World) NumBodies() int {
	return len(pw.order)
}

func (pw *World) String() string {
	return fmt.Sprintf("physics.World{bodies: %d, shapes: %d, gravity: %g}", len(pw.order), pw.shapes.Len(), pw.Gravity)
}
