package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KinematicTrees/kinematictrees.github.io/internal/config"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/chain"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/scene"
)

type testScreen struct {
	uv.ScreenBuffer
	displays int
}

func (s *testScreen) Display() error {
	s.displays++
	return nil
}

func press(key rune) uv.KeyPressEvent {
	return uv.KeyPressEvent{Code: key, Text: string(key)}
}

func newTestApp(t *testing.T) (*app, *testScreen, *bool) {
	t.Helper()
	cfg := config.Default()
	cfg.Snapshot.Dir = t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	assets, err := loadAssets(context.Background(), cfg, log)
	require.NoError(t, err)
	s, err := chain.NewStructure(scene.NewGraph(), assets)
	require.NoError(t, err)

	scr := &testScreen{ScreenBuffer: uv.NewScreenBuffer(80, 24)}
	quit := new(bool)
	bg, err := config.ParseRGB(cfg.View.Background)
	require.NoError(t, err)

	a := newApp(cfg, scr, chain.NewController(s, cfg.Control.AngleStep, log), bg, log, func() { *quit = true })
	a.resize(80, 24)
	return a, scr, quit
}

func TestLoadAssetsFallback(t *testing.T) {
	assets, err := loadAssets(context.Background(), config.Default(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, 12, assets.Middle.Mesh.TriangleCount())
	assert.Equal(t, [4]float64{0.5, 0, 1, 1}, assets.Branch.Material.BaseColor)
}

func TestLoadAssetsMissingFileIsFatal(t *testing.T) {
	cfg := config.Default()
	cfg.Assets.Branch = filepath.Join(t.TempDir(), "missing.glb")
	_, err := loadAssets(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestKeysDriveController(t *testing.T) {
	a, _, quit := newTestApp(t)

	a.handle(press('e'))
	assert.Equal(t, 2, a.ctrl.Structure.Len())
	a.handle(press('j'))
	assert.Equal(t, 2, a.ctrl.Structure.Len(), "middle output is occupied")

	a.handle(press(']'))
	a.handle(press(']'))
	assert.InDelta(t, 2*chain.DefaultAngleStep, a.ctrl.Angle, 1e-12)
	a.handle(press('0'))
	assert.Zero(t, a.ctrl.Angle)

	a.handle(press('x'))
	assert.Equal(t, 1, a.ctrl.Structure.Len())

	a.handle(press('v'))
	assert.True(t, a.xray)
	assert.True(t, a.raster.DoubleSided)

	assert.False(t, *quit)
	a.handle(uv.KeyPressEvent{Code: uv.KeyEscape})
	assert.True(t, *quit)
}

func TestClickSelects(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.handle(uv.MouseClickEvent{X: 0, Y: 0, Button: uv.MouseLeft})
	assert.False(t, a.ctrl.Selection.Selected(), "corner click should clear")
	a.handle(uv.MouseReleaseEvent{X: 0, Y: 0, Button: uv.MouseLeft})

	a.handle(uv.MouseClickEvent{X: 40, Y: 12, Button: uv.MouseLeft})
	assert.Equal(t, chain.Selection{Index: 0, Tag: chain.Middle}, a.ctrl.Selection)
	assert.True(t, a.dragging)

	a.handle(uv.MouseMotionEvent{X: 45, Y: 12})
	assert.NotZero(t, a.orbit.Yaw.Velocity)
	assert.Equal(t, chain.Selection{Index: 0, Tag: chain.Middle}, a.ctrl.Selection, "drag keeps selection")
}

func TestFrameSkipsIdleRedraw(t *testing.T) {
	a, scr, _ := newTestApp(t)

	require.NoError(t, a.frame())
	assert.Equal(t, 1, scr.displays)
	assert.Positive(t, a.raster.Stats.Drawn)
	assert.Equal(t, "▀", scr.CellAt(40, 12).Content)

	require.NoError(t, a.frame())
	assert.Equal(t, 1, scr.displays, "nothing changed")

	a.handle(press('e'))
	require.NoError(t, a.frame())
	assert.Equal(t, 2, scr.displays)
}

func TestSnapshotKey(t *testing.T) {
	a, _, _ := newTestApp(t)
	require.NoError(t, a.frame())

	a.handle(press('p'))
	files, err := os.ReadDir(a.cfg.Snapshot.Dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, ".webp", filepath.Ext(files[0].Name()))
	assert.Contains(t, a.hud.status, "saved")
}

func TestResize(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.handle(uv.WindowSizeEvent{Width: 40, Height: 10})

	cols, rows := a.term.Size()
	assert.Equal(t, 40, cols)
	assert.Equal(t, 10, rows)
	assert.Equal(t, 40, a.fb.Width)
	assert.Equal(t, 20, a.fb.Height)
}

func TestHUDShowsSelection(t *testing.T) {
	a, scr, _ := newTestApp(t)
	a.ctrl.Selection = chain.Selection{Index: 0, Tag: chain.Left}
	a.ctrl.SetAngle(1)
	require.NoError(t, a.frame())

	row := func(y int) string {
		var s string
		for x := range 80 {
			s += scr.CellAt(x, y).Content
		}
		return s
	}
	assert.Contains(t, row(0), "1 cells")
	assert.Contains(t, row(23), "0/L")
	assert.Contains(t, row(23), "L +90°")
}
