package render

import (
	"math"

	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
)

// Mesh is the geometry the rasterizer draws. *models.Mesh satisfies it.
type Mesh interface {
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
	GetBounds() (min, max math3d.Vec3)
}

// Vertex is a world-space vertex with its unlit color.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Color    Color
}

// Triangle is three vertices in draw order.
type Triangle struct {
	V [3]Vertex
}

// Stats counts meshes per frame.
type Stats struct {
	Tested int
	Culled int
	Drawn  int
}

// Rasterizer draws Gouraud-shaded triangles into a framebuffer with a depth
// buffer.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64
	frustum Frustum

	Stats Stats
	// DoubleSided disables back-face culling.
	DoubleSided bool
	// Ambient is the light floor in [0, 1].
	Ambient float64
}

// NewRasterizer creates a rasterizer drawing through camera into fb.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	return &Rasterizer{
		camera:  camera,
		fb:      fb,
		zbuffer: make([]float64, fb.Width*fb.Height),
		Ambient: 0.3,
	}
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int { return r.fb.Width }

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int { return r.fb.Height }

// Begin starts a frame: it clears depth and stats and snapshots the camera
// frustum. Call it after the camera moved for the frame.
func (r *Rasterizer) Begin() {
	if n := len(r.zbuffer); n > 0 {
		r.zbuffer[0] = math.MaxFloat64
		for i := 1; i < n; i *= 2 {
			copy(r.zbuffer[i:], r.zbuffer[:i])
		}
	}
	r.frustum = NewFrustumFromMatrix(r.camera.ViewProjectionMatrix())
	r.Stats = Stats{}
}

// Visible reports whether local bounds transformed by m touch the frustum.
func (r *Rasterizer) Visible(local AABB, m math3d.Mat4) bool {
	return r.frustum.Intersects(local.Transform(m))
}

func (r *Rasterizer) cull(mesh Mesh, m math3d.Mat4) bool {
	r.Stats.Tested++
	lo, hi := mesh.GetBounds()
	if !r.Visible(AABB{Min: lo, Max: hi}, m) {
		r.Stats.Culled++
		return true
	}
	r.Stats.Drawn++
	return false
}

// DrawMeshGouraud draws mesh transformed by m in color c, lit per vertex by
// a directional light pointing toward lightDir. It reports whether the mesh
// survived frustum culling.
func (r *Rasterizer) DrawMeshGouraud(mesh Mesh, m math3d.Mat4, c Color, lightDir math3d.Vec3) bool {
	if r.cull(mesh, m) {
		return false
	}
	light := lightDir.Normalize()
	for i := range mesh.TriangleCount() {
		f := mesh.GetFace(i)
		var tri Triangle
		for k := range 3 {
			p, n := mesh.GetVertex(f[k])
			tri.V[k] = Vertex{
				Position: m.MulVec3(p),
				Normal:   m.MulVec3Dir(n).Normalize(),
				Color:    c,
			}
		}
		r.DrawTriangleGouraud(tri, light)
	}
	return true
}

// DrawMeshWireframe draws the edges of mesh transformed by m, ignoring depth.
func (r *Rasterizer) DrawMeshWireframe(mesh Mesh, m math3d.Mat4, c Color) bool {
	if r.cull(mesh, m) {
		return false
	}
	for i := range mesh.TriangleCount() {
		f := mesh.GetFace(i)
		var p [3]math3d.Vec3
		for k := range 3 {
			p[k], _ = mesh.GetVertex(f[k])
			p[k] = m.MulVec3(p[k])
		}
		r.drawLine3D(p[0], p[1], c)
		r.drawLine3D(p[1], p[2], c)
		r.drawLine3D(p[2], p[0], c)
	}
	return true
}

// screenVertex is a vertex after projection.
type screenVertex struct {
	X, Y, Z float64
	Color   Color
}

// project maps a world point to pixel coordinates. ok is false behind the
// camera.
func (r *Rasterizer) project(vp math3d.Mat4, p math3d.Vec3) (x, y, z float64, ok bool) {
	clip := vp.MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	x = (ndc.X + 1) * 0.5 * float64(r.Width())
	y = (1 - ndc.Y) * 0.5 * float64(r.Height())
	return x, y, ndc.Z, true
}

// DrawTriangleGouraud lights each vertex and interpolates the lit colors.
// Triangles crossing the camera plane are skipped; there is no clipping.
func (r *Rasterizer) DrawTriangleGouraud(tri Triangle, lightDir math3d.Vec3) {
	vp := r.camera.ViewProjectionMatrix()

	var sv [3]screenVertex
	for i, v := range tri.V {
		x, y, z, ok := r.project(vp, v.Position)
		if !ok {
			return
		}
		intensity := math.Max(0, v.Normal.Dot(lightDir))
		if r.DoubleSided {
			intensity = math.Abs(v.Normal.Dot(lightDir))
		}
		sv[i] = screenVertex{X: x, Y: y, Z: z, Color: shade(v.Color, r.Ambient+(1-r.Ambient)*intensity)}
	}

	area := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if area == 0 || (area < 0 && !r.DoubleSided) {
		return
	}

	minX := max(0, int(math.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	maxX := min(r.Width()-1, int(math.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	minY := max(0, int(math.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := min(r.Height()-1, int(math.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			bc, inside := barycentric(sv, float64(x)+0.5, float64(y)+0.5)
			if !inside {
				continue
			}
			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			idx := y*r.Width() + x
			if z >= r.zbuffer[idx] {
				continue
			}
			r.zbuffer[idx] = z
			r.fb.SetPixel(x, y, mix(sv[0].Color, sv[1].Color, sv[2].Color, bc))
		}
	}
}

// barycentric returns the weights of (px, py) against the projected
// triangle. Both windings are accepted.
func barycentric(sv [3]screenVertex, px, py float64) (math3d.Vec3, bool) {
	d := (sv[1].Y-sv[2].Y)*(sv[0].X-sv[2].X) + (sv[2].X-sv[1].X)*(sv[0].Y-sv[2].Y)
	if d == 0 {
		return math3d.Vec3{}, false
	}
	a := ((sv[1].Y-sv[2].Y)*(px-sv[2].X) + (sv[2].X-sv[1].X)*(py-sv[2].Y)) / d
	b := ((sv[2].Y-sv[0].Y)*(px-sv[2].X) + (sv[0].X-sv[2].X)*(py-sv[2].Y)) / d
	c := 1 - a - b
	return math3d.V3(a, b, c), a >= 0 && b >= 0 && c >= 0
}

func shade(c Color, k float64) Color {
	k = math3d.Clamp(k, 0, 1)
	return Color{
		R: uint8(math.Round(float64(c.R) * k)),
		G: uint8(math.Round(float64(c.G) * k)),
		B: uint8(math.Round(float64(c.B) * k)),
		A: c.A,
	}
}

func mix(c0, c1, c2 Color, bc math3d.Vec3) Color {
	ch := func(a, b, c uint8) uint8 {
		return uint8(math.Round(math3d.Clamp(float64(a)*bc.X+float64(b)*bc.Y+float64(c)*bc.Z, 0, 255)))
	}
	return Color{R: ch(c0.R, c1.R, c2.R), G: ch(c0.G, c1.G, c2.G), B: ch(c0.B, c1.B, c2.B), A: 255}
}

func (r *Rasterizer) drawLine3D(a, b math3d.Vec3, c Color) {
	vp := r.camera.ViewProjectionMatrix()
	x0, y0, _, ok0 := r.project(vp, a)
	x1, y1, _, ok1 := r.project(vp, b)
	if !ok0 || !ok1 {
		return
	}
	r.fb.DrawLine(int(x0), int(y0), int(x1), int(y1), c)
}
