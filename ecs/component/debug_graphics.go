package component

import "github.com/go-gl/mathgl/mgl64"

// Color is a normalized RGBA color.
type Color struct {
	R, G, B, A float32
}

type DebugLine struct {
	From  mgl64.Vec3
	To    mgl64.Vec3
	Color Color
}

// DebugGraphics is a world-space line buffer filled by debug producers and
// drained by renderers.
type DebugGraphics struct {
	Lines []DebugLine
}

var DebugGraphicsComponent = NewComponent[DebugGraphics]()
