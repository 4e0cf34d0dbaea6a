package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/ecs/component"
	"github.com/milk9111/rigidsync/physics/backend"
)

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}
)

// motionState bridges a Transform and a simulator pose. The synchronizer
// calls push and pull explicitly; nothing inside the simulator calls back.
type motionState struct {
	transform *component.Transform
}

func (m motionState) push() backend.Pose {
	return backend.Pose{
		Position: m.transform.Position,
		Rotation: eulerToQuat(m.transform.Yaw, m.transform.Pitch, m.transform.Roll),
	}
}

func (m motionState) pull(p backend.Pose) {
	m.transform.Position = p.Position
	m.transform.Yaw, m.transform.Pitch, m.transform.Roll = quatToEuler(p.Rotation)
}

// eulerToQuat composes Ry(yaw) * Rx(pitch) * Rz(roll).
func eulerToQuat(yaw, pitch, roll float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, axisY).
		Mul(mgl64.QuatRotate(pitch, axisX)).
		Mul(mgl64.QuatRotate(roll, axisZ)).
		Normalize()
}

// quatToEuler is the inverse of eulerToQuat. At pitch = ±90° roll is folded
// into yaw.
func quatToEuler(q mgl64.Quat) (yaw, pitch, roll float64) {
	m := q.Normalize().Mat4()

	pitch = math.Asin(clamp(-m.At(1, 2), -1, 1))
	if math.Abs(m.At(1, 2)) < 1-1e-9 {
		yaw = math.Atan2(m.At(0, 2), m.At(2, 2))
		roll = math.Atan2(m.At(1, 0), m.At(1, 1))
		return yaw, pitch, roll
	}
	yaw = math.Atan2(-m.At(2, 0), m.At(0, 0))
	return yaw, pitch, 0
}

// poseFromMat strips scale from an affine matrix and returns its rigid part.
func poseFromMat(m mgl64.Mat4) backend.Pose {
	pos := m.Col(3).Vec3()
	var cols [3]mgl64.Vec3
	for i := range cols {
		c := m.Col(i).Vec3()
		l := c.Len()
		if l < 1e-12 {
			return backend.Pose{Position: pos, Rotation: mgl64.QuatIdent()}
		}
		cols[i] = c.Mul(1 / l)
	}
	rot := mgl64.Mat4FromCols(cols[0].Vec4(0), cols[1].Vec4(0), cols[2].Vec4(0), mgl64.Vec4{0, 0, 0, 1})
	return backend.Pose{Position: pos, Rotation: mgl64.Mat4ToQuat(rot).Normalize()}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}
