package main

import (
	"fmt"
	"image/color"
	"math"
	"time"
	"unicode/utf8"

	"github.com/KinematicTrees/kinematictrees.github.io/pkg/chain"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/render"
)

var (
	hudBg     = color.RGBA{A: 255}
	hudWhite  = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	hudGreen  = color.RGBA{R: 80, G: 220, B: 120, A: 255}
	hudCyan   = color.RGBA{R: 80, G: 200, B: 230, A: 255}
	hudYellow = color.RGBA{R: 240, G: 200, B: 60, A: 255}
)

// HUD renders an overlay with frame rate, structure and selection state.
type HUD struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time

	status      string
	statusUntil time.Time
}

// NewHUD creates a new HUD
func NewHUD() *HUD {
	return &HUD{fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Status shows msg on the bottom line for d.
func (h *HUD) Status(msg string, d time.Duration) {
	h.status = msg
	h.statusUntil = time.Now().Add(d)
}

// Expired reports, once, that the status message has timed out.
func (h *HUD) Expired() bool {
	if h.status == "" || time.Now().Before(h.statusUntil) {
		return false
	}
	h.status = ""
	return true
}

// Render draws the overlay onto the top and bottom rows.
func (h *HUD) Render(t *render.TerminalRenderer, ctrl *chain.Controller, stats render.Stats, zoom float64, xray bool) {
	cols, rows := t.Size()

	// Top left: FPS
	t.Text(0, 0, fmt.Sprintf(" %.0f FPS ", h.fps), hudGreen, hudBg)

	// Top right: cell and link counts
	counts := fmt.Sprintf(" %d cells %d/%d links  zoom %.1f ", ctrl.Structure.Len(), stats.Drawn, stats.Tested, zoom)
	t.Text(max(cols-len(counts), 0), 0, counts, hudCyan, hudBg)

	// Bottom left: selection, angle control and the selected cell's pivots
	sel := fmt.Sprintf(" selection %s  angle %+.2f ", ctrl.Selection, ctrl.Angle)
	if c := ctrl.Structure.Cell(ctrl.Selection.Index); c != nil {
		sel += fmt.Sprintf(" L %+.0f° R %+.0f° ", c.LeftAngle()*180/math.Pi, c.RightAngle()*180/math.Pi)
	}
	t.Text(0, rows-1, sel, hudWhite, hudBg)
	used := utf8.RuneCountInString(sel) + 1

	// Bottom right: status message, or key help when it fits
	if h.status != "" {
		t.Text(used, rows-1, " "+h.status+" ", hudYellow, hudBg)
		return
	}
	check := "[ ]"
	if xray {
		check = "[x]"
	}
	help := fmt.Sprintf(" %s x-ray (v)  e/j extend  x remove  [ ] steer  p snapshot ", check)
	if n := utf8.RuneCountInString(help); used+n <= cols {
		t.Text(cols-n, rows-1, help, hudWhite, hudBg)
	}
}
