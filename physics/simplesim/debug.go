package simplesim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/physics/backend"
)

var activationColors = map[backend.Activation]mgl64.Vec3{
	backend.ActivationActive:              {1, 1, 1},
	backend.ActivationSleeping:            {0, 1, 0},
	backend.ActivationWantsDeactivation:   {0, 1, 1},
	backend.ActivationDisableDeactivation: {1, 0, 0},
	backend.ActivationDisableSimulation:   {1, 1, 0},
}

const circleSegments = 16

// DebugDraw emits a wireframe per child: circles for spheres, boxes for the
// rest.
func (w *World) DebugDraw(d backend.DebugDrawer) {
	for _, b := range w.bodies {
		if !finite(b.pose.Position) {
			d.ReportWarning(fmt.Sprintf("body %d has non-finite position %v", b.tag, b.pose.Position))
			continue
		}
		color := activationColors[b.activation]
		for _, c := range b.compound.children {
			o := b.childOBB(c)
			if r, ok := c.shape.sphereRadius(); ok {
				drawSphere(d, o, r, color)
				continue
			}
			drawBox(d, o, color)
		}
	}
}

func drawBox(d backend.DebugDrawer, o obb, color mgl64.Vec3) {
	corners := o.corners()
	for i := range corners {
		for k := 0; k < 3; k++ {
			j := i | 1<<k
			if j != i {
				d.DrawLine(corners[i], corners[j], color)
			}
		}
	}
}

func drawSphere(d backend.DebugDrawer, o obb, r float64, color mgl64.Vec3) {
	for k := 0; k < 3; k++ {
		u, v := o.axes[(k+1)%3], o.axes[(k+2)%3]
		prev := o.center.Add(u.Mul(r))
		for s := 1; s <= circleSegments; s++ {
			a := 2 * math.Pi * float64(s) / circleSegments
			next := o.center.Add(u.Mul(r * math.Cos(a))).Add(v.Mul(r * math.Sin(a)))
			d.DrawLine(prev, next, color)
			prev = next
		}
	}
}

func finite(v mgl64.Vec3) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
