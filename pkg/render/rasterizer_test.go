package render

import (
	"testing"

	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/models"
)

// testMesh is a minimal Mesh.
type testMesh struct {
	pos, normal []math3d.Vec3
	faces       [][3]int
}

func (m *testMesh) TriangleCount() int   { return len(m.faces) }
func (m *testMesh) GetFace(i int) [3]int { return m.faces[i] }
func (m *testMesh) GetVertex(i int) (pos, normal math3d.Vec3) {
	return m.pos[i], m.normal[i]
}

func (m *testMesh) GetBounds() (min, max math3d.Vec3) {
	min, max = m.pos[0], m.pos[0]
	for _, p := range m.pos[1:] {
		min, max = min.Min(p), max.Max(p)
	}
	return min, max
}

func newTestRasterizer(width, height int) (*Rasterizer, *Framebuffer) {
	fb := NewFramebuffer(width, height)
	cam := NewCamera()
	cam.SetPosition(math3d.V3(0, 0, 10))
	cam.LookAt(math3d.Zero3())
	cam.SetAspectRatio(float64(width) / float64(height))
	r := NewRasterizer(cam, fb)
	r.Begin()
	return r, fb
}

// facingTriangle is front-facing for a camera on +Z.
func facingTriangle(z float64, c Color) Triangle {
	n := math3d.V3(0, 0, 1)
	return Triangle{V: [3]Vertex{
		{Position: math3d.V3(-2, -2, z), Normal: n, Color: c},
		{Position: math3d.V3(0, 2, z), Normal: n, Color: c},
		{Position: math3d.V3(2, -2, z), Normal: n, Color: c},
	}}
}

func reversed(tri Triangle) Triangle {
	tri.V[1], tri.V[2] = tri.V[2], tri.V[1]
	return tri
}

func closeColor(a, b Color) bool {
	d := func(x, y uint8) int { return absInt(int(x) - int(y)) }
	return d(a.R, b.R) <= 1 && d(a.G, b.G) <= 1 && d(a.B, b.B) <= 1
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestBarycentric(t *testing.T) {
	tri := [3]screenVertex{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}

	tests := []struct {
		name     string
		px, py   float64
		expected math3d.Vec3
	}{
		{"vertex 0", 0, 0, math3d.V3(1, 0, 0)},
		{"vertex 1", 1, 0, math3d.V3(0, 1, 0)},
		{"vertex 2", 0, 1, math3d.V3(0, 0, 1)},
		{"centroid", 1.0 / 3, 1.0 / 3, math3d.V3(1.0/3, 1.0/3, 1.0/3)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bc, inside := barycentric(tri, tc.px, tc.py)
			if !inside || !bc.ApproxEqual(tc.expected, 1e-9) {
				t.Errorf("barycentric(%v, %v) = %v %v, want %v", tc.px, tc.py, bc, inside, tc.expected)
			}
		})
	}

	if _, inside := barycentric(tri, -1, -1); inside {
		t.Error("point outside the triangle reported inside")
	}

	// Winding does not matter.
	tri[1], tri[2] = tri[2], tri[1]
	if _, inside := barycentric(tri, 0.2, 0.2); !inside {
		t.Error("reversed triangle should still contain its interior")
	}
}

func TestMix(t *testing.T) {
	red, green, blue := RGB(255, 0, 0), RGB(0, 255, 0), RGB(0, 0, 255)

	if got := mix(red, green, blue, math3d.V3(1, 0, 0)); got != red {
		t.Errorf("pure weight = %v, want %v", got, red)
	}
	got := mix(red, green, blue, math3d.V3(1.0/3, 1.0/3, 1.0/3))
	if !closeColor(got, RGB(85, 85, 85)) {
		t.Errorf("even mix = %v, want ~(85,85,85)", got)
	}
}

func TestDrawTriangleGouraudLighting(t *testing.T) {
	base := RGB(200, 100, 50)

	tests := []struct {
		name  string
		light math3d.Vec3
		want  Color
	}{
		{"facing light", math3d.V3(0, 0, 1), base},
		{"lit from behind", math3d.V3(0, 0, -1), RGB(60, 30, 15)},
		{"grazing", math3d.V3(1, 0, 0), RGB(60, 30, 15)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := newTestRasterizer(40, 40)
			r.DrawTriangleGouraud(facingTriangle(0, base), tc.light)
			if got := fb.GetPixel(20, 20); !closeColor(got, tc.want) {
				t.Errorf("center = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDrawTriangleGouraudBackfaceCulling(t *testing.T) {
	r, fb := newTestRasterizer(40, 40)
	back := reversed(facingTriangle(0, RGB(255, 0, 0)))

	r.DrawTriangleGouraud(back, math3d.V3(0, 0, 1))
	if got := fb.GetPixel(20, 20); got.A != 0 {
		t.Errorf("back face drawn: %v", got)
	}

	r.DoubleSided = true
	r.DrawTriangleGouraud(back, math3d.V3(0, 0, 1))
	if got := fb.GetPixel(20, 20); got.A == 0 {
		t.Error("double-sided back face not drawn")
	}
}

func TestDrawTriangleGouraudDepth(t *testing.T) {
	near, far := facingTriangle(1, RGB(255, 0, 0)), facingTriangle(-1, RGB(0, 0, 255))
	light := math3d.V3(0, 0, 1)

	for _, order := range [][2]Triangle{{near, far}, {far, near}} {
		r, fb := newTestRasterizer(40, 40)
		r.DrawTriangleGouraud(order[0], light)
		r.DrawTriangleGouraud(order[1], light)
		if got := fb.GetPixel(20, 20); !closeColor(got, RGB(255, 0, 0)) {
			t.Errorf("center = %v, want the nearer red triangle", got)
		}
	}
}

func TestDrawTriangleBehindCamera(t *testing.T) {
	r, fb := newTestRasterizer(40, 40)
	r.DrawTriangleGouraud(facingTriangle(20, RGB(255, 0, 0)), math3d.V3(0, 0, 1))
	for i, p := range fb.Pixels {
		if p.A != 0 {
			t.Fatalf("pixel %d drawn for a triangle behind the camera", i)
		}
	}
}

func TestDrawMeshGouraudCulling(t *testing.T) {
	r, fb := newTestRasterizer(40, 40)
	box := models.BoxMesh("box", math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	light := math3d.V3(0, 0, 1)

	if !r.DrawMeshGouraud(box, math3d.Identity(), RGB(0, 255, 0), light) {
		t.Fatal("box at the origin was culled")
	}
	if got := fb.GetPixel(20, 20); !closeColor(got, RGB(0, 255, 0)) {
		t.Errorf("center = %v, want the front face lit green", got)
	}

	behind := math3d.Translate(math3d.V3(0, 0, 50))
	if r.DrawMeshGouraud(box, behind, RGB(255, 0, 0), light) {
		t.Error("box behind the camera was drawn")
	}
	if r.Stats.Tested != 2 || r.Stats.Culled != 1 || r.Stats.Drawn != 1 {
		t.Errorf("stats = %+v", r.Stats)
	}

	r.Begin()
	if r.Stats != (Stats{}) {
		t.Errorf("Begin did not reset stats: %+v", r.Stats)
	}
}

func TestDrawMeshWireframe(t *testing.T) {
	r, fb := newTestRasterizer(40, 40)
	tri := &testMesh{
		pos:    []math3d.Vec3{math3d.V3(-2, -2, 0), math3d.V3(0, 2, 0), math3d.V3(2, -2, 0)},
		normal: []math3d.Vec3{math3d.V3(0, 0, 1), math3d.V3(0, 0, 1), math3d.V3(0, 0, 1)},
		faces:  [][3]int{{0, 1, 2}},
	}
	if !r.DrawMeshWireframe(tri, math3d.Identity(), RGB(255, 255, 255)) {
		t.Fatal("wireframe culled")
	}

	drawn := 0
	for _, p := range fb.Pixels {
		if p.A != 0 {
			drawn++
		}
	}
	if drawn == 0 {
		t.Error("no edge pixels drawn")
	}
	if got := fb.GetPixel(20, 20); got.A != 0 {
		t.Error("wireframe filled the interior")
	}
}

func TestShadeClamps(t *testing.T) {
	c := RGB(100, 200, 255)
	if got := shade(c, 2); got != c {
		t.Errorf("shade above 1 = %v, want %v", got, c)
	}
	if got := shade(c, -1); got != (Color{A: 255}) {
		t.Errorf("shade below 0 = %v, want black", got)
	}
}

func BenchmarkDrawMeshGouraud(b *testing.B) {
	r, _ := newTestRasterizer(160, 90)
	box := models.BoxMesh("box", math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	m := math3d.Compose(math3d.Zero3(), math3d.V3(0.4, 0.6, 0))
	light := math3d.V3(0.5, 1, 0.3)
	for b.Loop() {
		r.Begin()
		r.DrawMeshGouraud(box, m, RGB(128, 0, 255), light)
	}
}
