package render

import (
	"math"

	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
)

// Camera is a perspective camera oriented by pitch and yaw.
type Camera struct {
	Position math3d.Vec3

	Pitch float64 // about X, radians
	Yaw   float64 // about Y, radians

	FOV         float64 // vertical, radians
	AspectRatio float64 // width / height
	Near        float64
	Far         float64

	view, proj, viewProj math3d.Mat4
	dirty                bool
}

// NewCamera creates a camera five units down +Z looking at the origin.
func NewCamera() *Camera {
	c := &Camera{
		Position:    math3d.V3(0, 0, 5),
		FOV:         math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         100,
		dirty:       true,
	}
	return c
}

// SetPosition moves the camera without changing its orientation.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.dirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.dirty = true
}

// SetAspectRatio sets width / height.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.dirty = true
}

// SetClipPlanes sets the near and far clipping distances.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.dirty = true
}

// LookAt turns the camera toward target.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.Pitch = math.Asin(math3d.Clamp(dir.Y, -1, 1))
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.dirty = true
}

// Forward returns the viewing direction.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	c.update()
	return c.view
}

// ProjectionMatrix returns the camera-to-clip transform.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	c.update()
	return c.proj
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	c.update()
	return c.viewProj
}

func (c *Camera) update() {
	if !c.dirty {
		return
	}
	rot := math3d.RotateX(-c.Pitch).Mul(math3d.RotateY(-c.Yaw))
	c.view = rot.Mul(math3d.Translate(c.Position.Negate()))
	c.proj = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
	c.viewProj = c.proj.Mul(c.view)
	c.dirty = false
}

// WorldToScreen projects a world point to pixel coordinates of a
// width x height target. visible is false behind the camera or outside the
// view volume.
func (c *Camera) WorldToScreen(p math3d.Vec3, width, height int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}
	x = (ndc.X + 1) * 0.5 * float64(width)
	y = (1 - ndc.Y) * 0.5 * float64(height)
	return x, y, ndc.Z, true
}

// PickRay returns the world-space ray through normalized device coordinates
// (ndcX, ndcY), each in [-1, 1] with +Y up. The ray starts on the near plane
// and has a unit direction.
func (c *Camera) PickRay(ndcX, ndcY float64) math3d.Ray {
	inv := c.ViewProjectionMatrix().Inverse()
	near := inv.MulVec4(math3d.Vec4{X: ndcX, Y: ndcY, Z: -1, W: 1}).PerspectiveDivide()
	far := inv.MulVec4(math3d.Vec4{X: ndcX, Y: ndcY, Z: 1, W: 1}).PerspectiveDivide()
	return math3d.NewRay(near, far.Sub(near))
}

// PointerNDC maps the center of terminal cell (col, row) on a cols x rows
// surface to normalized device coordinates.
func PointerNDC(col, row, cols, rows int) (x, y float64) {
	if cols <= 0 || rows <= 0 {
		return 0, 0
	}
	x = (float64(col)+0.5)/float64(cols)*2 - 1
	y = 1 - (float64(row)+0.5)/float64(rows)*2
	return x, y
}
