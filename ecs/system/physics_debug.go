package system

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/rigidsync/ecs"
	"github.com/milk9111/rigidsync/ecs/component"
)

// DefaultDebugZoom is used when no camera sets a zoom.
const DefaultDebugZoom = 40.0

// DrawDebugLines renders every DebugGraphics buffer in w onto screen, looking
// down -Z at the XY plane.
func DrawDebugLines(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}

	proj := debugProjection(w, screen.Bounds().Dx(), screen.Bounds().Dy())
	ecs.ForEach(w, component.DebugGraphicsComponent.Kind(), func(_ ecs.Entity, g *component.DebugGraphics) {
		for _, line := range g.Lines {
			x1, y1 := proj.toScreen(line.From)
			x2, y2 := proj.toScreen(line.To)
			ebitenutil.DrawLine(screen, x1, y1, x2, y2, toNRGBA(line.Color))
		}
	})
}

// ScreenToWorld maps a screen pixel back onto the z = 0 plane.
func ScreenToWorld(w *ecs.World, screenW, screenH int, x, y float64) mgl64.Vec3 {
	return debugProjection(w, screenW, screenH).toWorld(x, y)
}

type projection struct {
	camX  float64
	camY  float64
	zoom  float64
	halfW float64
	halfH float64
}

func (p projection) toScreen(v mgl64.Vec3) (float64, float64) {
	return p.halfW + (v.X()-p.camX)*p.zoom, p.halfH - (v.Y()-p.camY)*p.zoom
}

func (p projection) toWorld(x, y float64) mgl64.Vec3 {
	return mgl64.Vec3{p.camX + (x-p.halfW)/p.zoom, p.camY - (y-p.halfH)/p.zoom, 0}
}

func debugProjection(w *ecs.World, screenW, screenH int) projection {
	camX, camY, zoom := debugCameraTransform(w)
	return projection{
		camX:  camX,
		camY:  camY,
		zoom:  zoom,
		halfW: float64(screenW) / 2,
		halfH: float64(screenH) / 2,
	}
}

func toNRGBA(c component.Color) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func debugCameraTransform(w *ecs.World) (float64, float64, float64) {
	camX, camY := 0.0, 0.0
	zoom := DefaultDebugZoom
	camEntity, ok := w.First(component.CameraComponent.Kind().ID())
	if !ok {
		return camX, camY, zoom
	}
	if camTransform, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind()); ok {
		camX = camTransform.Position.X()
		camY = camTransform.Position.Y()
	}
	if camComp, ok := ecs.Get(w, camEntity, component.CameraComponent.Kind()); ok {
		if camComp.Zoom > 0 {
			zoom = camComp.Zoom
		}
	}
	return camX, camY, zoom
}
