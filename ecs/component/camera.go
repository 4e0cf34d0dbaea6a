package component

// Camera views the XY plane from +Z. Its center is the entity's Transform
// position.
type Camera struct {
	// Zoom is screen pixels per world unit.
	Zoom float64
}

var CameraComponent = NewComponent[Camera]()
