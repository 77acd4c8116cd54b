package chain

import (
	"log/slog"
	"math"

	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
)

// DefaultAngleStep is the angle control resolution.
const DefaultAngleStep = 0.02

// Controller routes user input to a Structure. Every operation is total:
// it either changes state or is a silent no-op.
type Controller struct {
	Structure *Structure
	Selection Selection
	Angle     float64 // control value in [-1, 1]
	Step      float64

	hover    Hit
	hovering bool
	log      *slog.Logger
	dirty    bool
}

// NewController starts with the root cell's middle link selected.
func NewController(s *Structure, step float64, log *slog.Logger) *Controller {
	if step <= 0 {
		step = DefaultAngleStep
	}
	if log == nil {
		log = slog.Default()
	}
	c := &Controller{
		Structure: s,
		Selection: Selection{Index: 0, Tag: Middle},
		Step:      step,
		log:       log,
		dirty:     true,
	}
	s.Refresh(c.Selection)
	return c
}

// Extend grows a cell from the selected output.
func (c *Controller) Extend() bool {
	ok := c.Structure.Extend(c.Selection)
	c.log.Debug("extend", "selection", c.Selection, "added", ok, "cells", c.Structure.Len())
	return c.changed(ok)
}

// Junction grows a straight cell from the selected output.
func (c *Controller) Junction() bool {
	ok := c.Structure.Junction(c.Selection)
	c.log.Debug("junction", "selection", c.Selection, "added", ok, "cells", c.Structure.Len())
	return c.changed(ok)
}

// Remove retracts the newest cell. The selection index is decremented even
// when it pointed at another cell.
func (c *Controller) Remove() bool {
	sel, ok := c.Structure.Remove(c.Selection)
	c.log.Debug("remove", "from", c.Selection, "to", sel, "removed", ok, "cells", c.Structure.Len())
	c.Selection = sel
	if ok {
		// The removed cell's nodes may be reused by the next cell.
		c.hover, c.hovering = Hit{}, false
	}
	return c.changed(ok)
}

// SetAngle sets the control value, clamped to [-1, 1], and steers the
// selected pivot to value * π/2.
func (c *Controller) SetAngle(v float64) bool {
	c.Angle = math3d.Clamp(v, -1, 1)
	ok := c.Structure.Steer(c.Selection, c.Angle*math.Pi/2)
	c.log.Debug("angle", "value", c.Angle, "selection", c.Selection, "steered", ok)
	return c.changed(ok)
}

// NudgeAngle moves the control by steps increments of Step.
func (c *Controller) NudgeAngle(steps int) bool {
	return c.SetAngle(c.Angle + float64(steps)*c.Step)
}

// PointerMove reconciles link variants and records the link under the
// pointer. Hovering has no visual effect of its own.
func (c *Controller) PointerMove(ray math3d.Ray) {
	c.Structure.Refresh(c.Selection)
	c.hover, c.hovering = c.Structure.Intersect(ray)
}

// PointerDown selects the link under the pointer, or clears the selection
// when nothing is hit.
func (c *Controller) PointerDown(ray math3d.Ray) (Hit, bool) {
	hit, ok := c.Structure.Intersect(ray)
	c.Selection = c.Selection.PointerDown(hit, ok)
	c.Structure.Refresh(c.Selection)
	c.log.Debug("pick", "hit", ok, "selection", c.Selection)
	c.dirty = true
	return hit, ok
}

// Hover returns the link last found under the pointer.
func (c *Controller) Hover() (Hit, bool) {
	return c.hover, c.hovering
}

// NeedsRedraw reports whether state changed since the last call.
func (c *Controller) NeedsRedraw() bool {
	d := c.dirty
	c.dirty = false
	return d
}

func (c *Controller) changed(ok bool) bool {
	if ok {
		c.Structure.Refresh(c.Selection)
		c.dirty = true
	}
	return ok
}
