package models

import (
	"testing"

	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
)

func TestBoxMesh(t *testing.T) {
	box := BoxMesh("box", math3d.V3(-1, -2, -3), math3d.V3(1, 2, 3))

	if box.TriangleCount() != 12 {
		t.Errorf("TriangleCount = %d, want 12", box.TriangleCount())
	}
	if box.VertexCount() != 24 {
		t.Errorf("VertexCount = %d, want 24", box.VertexCount())
	}
	lo, hi := box.GetBounds()
	if lo != math3d.V3(-1, -2, -3) || hi != math3d.V3(1, 2, 3) {
		t.Errorf("bounds = %v..%v", lo, hi)
	}

	// Stored winding is clockwise seen from outside, so the geometric
	// normal of each face points inward against the vertex normal.
	for i := range box.Faces {
		a, b, c := box.Triangle(i)
		geo := b.Sub(a).Cross(c.Sub(a))
		_, n := box.GetVertex(box.Faces[i].V[0])
		if geo.Dot(n) >= 0 {
			t.Errorf("face %d winding not reversed", i)
		}
	}
}

func TestMeshCloneIsIndependent(t *testing.T) {
	mesh := BoxMesh("box", math3d.V3(0, 0, 0), math3d.V3(1, 1, 1))
	clone := mesh.Clone()

	clone.Vertices[0].Position = math3d.V3(9, 9, 9)
	if mesh.Vertices[0].Position == clone.Vertices[0].Position {
		t.Error("Clone should have independent vertex copy")
	}
	if clone.TriangleCount() != mesh.TriangleCount() {
		t.Error("Clone should preserve faces")
	}
}

func TestCalculateSmoothNormals(t *testing.T) {
	mesh := NewMesh("quad")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(1, 1, 0)},
		{Position: math3d.V3(0, 1, 0)},
	}
	// Clockwise seen from +Z.
	mesh.Faces = []Face{{V: [3]int{0, 2, 1}}, {V: [3]int{0, 3, 2}}}
	mesh.CalculateSmoothNormals()

	for i, v := range mesh.Vertices {
		if !v.Normal.ApproxEqual(math3d.V3(0, 0, 1), 1e-9) {
			t.Errorf("vertex %d normal = %v, want +Z", i, v.Normal)
		}
	}
}

func TestMaterialVariants(t *testing.T) {
	base := NewMaterial("link", [3]float64{0.5, 0, 1})
	sel := base.WithColor("selected", [3]float64{0.012, 0.66, 0.95})

	if base.BaseColor != [4]float64{0.5, 0, 1, 1} {
		t.Errorf("base color changed: %v", base.BaseColor)
	}
	if sel.Roughness != base.Roughness || sel.Metallic != base.Metallic {
		t.Error("WithColor should keep surface parameters")
	}

	tests := []struct {
		name string
		mat  Material
		want [4]uint8
	}{
		{"base", base, [4]uint8{128, 0, 255, 255}},
		{"selected", sel, [4]uint8{3, 168, 242, 255}},
		{"clamped", NewMaterial("x", [3]float64{-1, 2, 0}), [4]uint8{0, 255, 0, 255}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.mat.RGBA()
			got := [4]uint8{c.R, c.G, c.B, c.A}
			if got != tc.want {
				t.Errorf("RGBA = %v, want %v", got, tc.want)
			}
		})
	}
}
