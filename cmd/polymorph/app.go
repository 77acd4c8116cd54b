package main

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/KinematicTrees/kinematictrees.github.io/internal/config"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/chain"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/render"
)

const (
	orbitStep  = 0.05 // radians per frame per key press
	dragScale  = 0.03 // radians per frame per dragged cell
	zoomStep   = 0.5
	statusTime = 3 * time.Second
)

var xrayColor = render.RGB(0, 255, 128)

// app is the interactive session. Every field is owned by the frame loop.
type app struct {
	cfg    config.Config
	screen render.Screen
	ctrl   *chain.Controller
	log    *slog.Logger
	quit   context.CancelFunc

	term   *render.TerminalRenderer
	fb     *render.Framebuffer
	camera *render.Camera
	raster *render.Rasterizer
	orbit  *render.Orbit
	hud    *HUD
	bg     render.Color

	xray    bool
	showHUD bool
	dirty   bool

	dragging     bool
	lastX, lastY int
}

func newApp(cfg config.Config, scr render.Screen, ctrl *chain.Controller, bg color.RGBA, log *slog.Logger, quit context.CancelFunc) *app {
	camera := render.NewCamera()
	camera.SetFOV(cfg.FOVRadians())
	camera.SetClipPlanes(0.1, 100)
	orbit := render.NewOrbit(cfg.View.FPS, cfg.View.Distance)
	orbit.Apply(camera)

	return &app{
		cfg:     cfg,
		screen:  scr,
		ctrl:    ctrl,
		log:     log,
		quit:    quit,
		camera:  camera,
		orbit:   orbit,
		hud:     NewHUD(),
		bg:      bg,
		showHUD: true,
		dirty:   true,
	}
}

// resize rebuilds everything sized by the terminal.
func (a *app) resize(cols, rows int) {
	a.term = render.NewTerminalRenderer(a.screen, cols, rows)
	w, h := a.term.FramebufferSize()
	a.fb = render.NewFramebuffer(w, h)
	a.raster = render.NewRasterizer(a.camera, a.fb)
	a.raster.DoubleSided = a.xray
	a.camera.SetAspectRatio(float64(w) / float64(h))
	a.dirty = true
}

func (a *app) handle(ev uv.Event) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		if t, ok := a.screen.(*uv.Terminal); ok {
			t.Erase()
			t.Resize(ev.Width, ev.Height)
		}
		a.resize(ev.Width, ev.Height)
		a.log.Debug("resize", "cols", ev.Width, "rows", ev.Height)

	case uv.KeyPressEvent:
		a.key(ev)

	case uv.MouseClickEvent:
		if ev.Button != uv.MouseLeft {
			return
		}
		a.ctrl.PointerDown(a.pickRay(ev.X, ev.Y))
		a.dragging = true
		a.lastX, a.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		a.dragging = false

	case uv.MouseMotionEvent:
		if a.dragging {
			dx := ev.X - a.lastX
			dy := ev.Y - a.lastY
			a.orbit.Impulse(-float64(dx)*dragScale, float64(dy)*dragScale)
			a.lastX, a.lastY = ev.X, ev.Y
			return
		}
		a.ctrl.PointerMove(a.pickRay(ev.X, ev.Y))

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			a.orbit.Zoom(-zoomStep)
		case uv.MouseWheelDown:
			a.orbit.Zoom(zoomStep)
		}
	}
}

func (a *app) key(ev uv.KeyPressEvent) {
	switch {
	case ev.MatchString("escape", "ctrl+c"):
		a.quit()
	case ev.MatchString("e"):
		a.ctrl.Extend()
	case ev.MatchString("j"):
		a.ctrl.Junction()
	case ev.MatchString("x", "backspace"):
		a.ctrl.Remove()
	case ev.MatchString("["):
		a.ctrl.NudgeAngle(-1)
	case ev.MatchString("]"):
		a.ctrl.NudgeAngle(1)
	case ev.MatchString("0"):
		a.ctrl.SetAngle(0)
	case ev.MatchString("w", "up"):
		a.orbit.Impulse(0, orbitStep)
	case ev.MatchString("s", "down"):
		a.orbit.Impulse(0, -orbitStep)
	case ev.MatchString("a", "left"):
		a.orbit.Impulse(-orbitStep, 0)
	case ev.MatchString("d", "right"):
		a.orbit.Impulse(orbitStep, 0)
	case ev.MatchString("space"):
		a.orbit.Impulse((rand.Float64()-0.5)*0.5, (rand.Float64()-0.5)*0.2)
	case ev.MatchString("+", "="):
		a.orbit.Zoom(-zoomStep)
	case ev.MatchString("-", "_"):
		a.orbit.Zoom(zoomStep)
	case ev.MatchString("r"):
		a.orbit.Reset()
	case ev.MatchString("v"):
		a.xray = !a.xray
		a.raster.DoubleSided = a.xray
		a.dirty = true
	case ev.MatchString("p"):
		a.snapshot()
	case ev.MatchString("?"), ev.MatchString("shift+/"):
		a.showHUD = !a.showHUD
		a.dirty = true
	}
}

func (a *app) pickRay(col, row int) math3d.Ray {
	cols, rows := a.term.Size()
	x, y := render.PointerNDC(col, row, cols, rows)
	return a.camera.PickRay(x, y)
}

func (a *app) snapshot() {
	name := fmt.Sprintf("polymorph-%s.%s", time.Now().Format("20060102-150405"), a.cfg.Snapshot.Format)
	path := filepath.Join(a.cfg.Snapshot.Dir, name)
	if err := a.fb.Save(path, a.cfg.Snapshot.Scale); err != nil {
		a.log.Error("snapshot", "path", path, "err", err)
		a.hud.Status("snapshot failed: "+err.Error(), statusTime)
	} else {
		a.log.Info("snapshot", "path", path)
		a.hud.Status("saved "+path, statusTime)
	}
	a.dirty = true
}

// frame advances the camera and redraws when anything changed.
func (a *app) frame() error {
	a.hud.UpdateFPS()
	a.orbit.Update()

	changed := a.ctrl.NeedsRedraw() || a.dirty || !a.orbit.Settled() || a.hud.Expired()
	if !changed {
		return nil
	}
	a.dirty = false

	a.orbit.Apply(a.camera)
	a.fb.Clear(a.bg)
	a.raster.Begin()

	g := a.ctrl.Structure.Graph()
	light := a.orbit.LightDir()
	for _, l := range a.ctrl.Structure.Links() {
		world := g.World(l.Root)
		if a.xray {
			c := l.Material().RGBA()
			if l.Variant() == chain.Normal {
				c = xrayColor
			}
			a.raster.DrawMeshWireframe(l.Mesh, world, c)
			continue
		}
		a.raster.DrawMeshGouraud(l.Mesh, world, l.Material().RGBA(), light)
	}

	a.term.Render(a.fb)
	if a.showHUD {
		a.hud.Render(a.term, a.ctrl, a.raster.Stats, a.orbit.Distance(), a.xray)
	}
	return a.term.Flush()
}
