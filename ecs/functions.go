package ecs

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/ecs/component"
)

// Execute is run once per frame by the host with the frame delta in seconds.
type Execute struct {
	Func func(dt float64)
}

var ExecuteComponent = component.NewComponent[Execute]()

// OnCollision is notified for every contact pair reported by the physics step.
type OnCollision struct {
	Func func(a, b Entity)
}

var OnCollisionComponent = component.NewComponent[OnCollision]()

// QueryPosition answers which entities are within radius of pos.
type QueryPosition struct {
	Func func(pos mgl64.Vec3, radius float64) []Entity
}

var QueryPositionComponent = component.NewComponent[QueryPosition]()
