package main

import (
	"fmt"
	"log"
	"math"

	"github.com/ebitenui/ebitenui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/rigidsync/common"
	"github.com/milk9111/rigidsync/ecs"
	"github.com/milk9111/rigidsync/ecs/component"
	"github.com/milk9111/rigidsync/ecs/entity"
	"github.com/milk9111/rigidsync/ecs/system"
	"github.com/milk9111/rigidsync/physics"
	"github.com/milk9111/rigidsync/physics/backend"
	"github.com/milk9111/rigidsync/physics/cpbackend"
	"github.com/milk9111/rigidsync/physics/simplesim"
	"github.com/milk9111/rigidsync/prefabs"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

const (
	queryRadius = 0.5
	zoomStep    = 1.15
	minZoom     = 5.0
	maxZoom     = 200.0

	maxFrameSteps = 4
)

type Options struct {
	Backend string
	Scene   string
	Config  string
	Debug   bool
	Watch   bool
}

type Game struct {
	opts Options

	world   *ecs.World
	physics *physics.World
	sched   *ecs.Scheduler
	scene   *entity.Scene
	camera  ecs.Entity
	ui      *ebitenui.UI
	panel   *panel
	watcher *prefabs.Watcher

	clipboardOK bool
	lastQuery   string
	zoom        float64
	targetZoom  float64
	elapsed     float64
}

func NewGame(opts Options) (*Game, error) {
	g := &Game{
		opts:       opts,
		zoom:       system.DefaultDebugZoom,
		targetZoom: system.DefaultDebugZoom,
	}
	if err := g.load(); err != nil {
		return nil, err
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("physview: clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}

	if opts.Watch {
		w, err := prefabs.NewWatcher(prefabs.Dir)
		if err != nil {
			log.Printf("physview: watch %s: %v", prefabs.Dir, err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func newBackend(name string) (backend.Backend, error) {
	switch name {
	case "", "sim":
		return simplesim.New(), nil
	case "cp":
		return cpbackend.New(), nil
	default:
		return nil, fmt.Errorf("physview: unknown backend %q", name)
	}
}

// load builds a fresh ECS world, scene and physics world.
func (g *Game) load() error {
	b, err := newBackend(g.opts.Backend)
	if err != nil {
		return err
	}

	w := ecs.NewWorld()
	scene, err := entity.BuildScene(w, g.opts.Scene)
	if err != nil {
		return err
	}

	cfg := physics.DefaultConfig()
	configName := g.opts.Config
	if configName == "" {
		configName = scene.Config
	}
	if configName != "" {
		if cfg, err = prefabs.LoadPhysicsConfig(configName); err != nil {
			return err
		}
	}
	cfg.Debug = cfg.Debug || g.opts.Debug

	pw := physics.New(b, cfg)
	physics.Install(w, pw)

	driver := ecs.CreateEntity(w)
	if err := ecs.Add(w, driver, ecs.ExecuteComponent.Kind(), &ecs.Execute{Func: g.driveKinematic}); err != nil {
		return err
	}

	camera := ecs.CreateEntity(w)
	camTransform := component.NewTransform(mgl64.Vec3{0, 2, 0})
	if err := ecs.Add(w, camera, component.TransformComponent.Kind(), &camTransform); err != nil {
		return err
	}
	if err := ecs.Add(w, camera, component.CameraComponent.Kind(), &component.Camera{Zoom: g.zoom}); err != nil {
		return err
	}

	if g.physics != nil {
		g.physics.Shutdown()
	}
	g.world = w
	g.physics = pw
	g.scene = scene
	g.camera = camera
	g.sched = ecs.NewFixedScheduler(cfg.FixedStep, maxFrameSteps, system.NewExecuteSystem(cfg.FixedStep))
	g.panel = newPanel(w)
	g.ui = g.panel.ui
	g.elapsed = 0
	return nil
}

// driveKinematic moves kinematic bodies up and down so they push dynamic ones.
func (g *Game) driveKinematic(dt float64) {
	g.elapsed += dt
	offset := math.Sin(g.elapsed) * dt
	ecs.ForEach2(g.world, component.KinematicComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Kinematic, tr *component.Transform) {
		tr.Position = tr.Position.Add(mgl64.Vec3{0, offset, 0})
	})
}

func (g *Game) Update() error {
	g.handleReloads()
	g.ui.Update()

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.load(); err != nil {
			log.Printf("physview: reload scene: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.physics.Debug = !g.physics.Debug
		g.panel.refresh()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !g.ui.HasFocus() {
		mx, my := ebiten.CursorPosition()
		pos := system.ScreenToWorld(g.world, common.BaseWidth, common.BaseHeight, float64(mx), float64(my))
		g.lastQuery = formatQuery(pos, queryRadius, queryAt(g.world, pos, queryRadius))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) && g.clipboardOK && g.lastQuery != "" {
		clipboard.Write(clipboard.FmtText, []byte(g.lastQuery))
	}
	g.updateZoom()

	g.sched.Advance(g.world, 1/float64(ebiten.TPS()))
	return nil
}

func (g *Game) handleReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			reloaded, err := g.scene.Reload(g.world, name)
			if err != nil {
				log.Printf("physview: reload %s: %v", name, err)
				continue
			}
			if reloaded {
				log.Printf("physview: reloaded %s", name)
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("physview: watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) updateZoom() {
	_, wheel := ebiten.Wheel()
	if wheel > 0 {
		g.targetZoom = math.Min(g.targetZoom*zoomStep, maxZoom)
	} else if wheel < 0 {
		g.targetZoom = math.Max(g.targetZoom/zoomStep, minZoom)
	}
	g.zoom = float64(common.Lerp(float32(g.zoom), float32(g.targetZoom), 0.2))
	if cam, ok := ecs.Get(g.world, g.camera, component.CameraComponent.Kind()); ok {
		cam.Zoom = g.zoom
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	system.DrawDebugLines(g.world, screen)

	info := fmt.Sprintf("FPS: %.1f  backend: %s  bodies: %d  shapes: %d\nclick: query  C: copy  D: debug  R: reset  wheel: zoom",
		ebiten.ActualFPS(), g.opts.Backend, g.physics.NumBodies(), g.physics.Shapes().Len())
	if g.lastQuery != "" {
		info += "\n" + g.lastQuery
	}
	ebitenutil.DebugPrintAt(screen, info, 10, 10)

	g.ui.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.physics != nil {
		g.physics.Shutdown()
	}
}
