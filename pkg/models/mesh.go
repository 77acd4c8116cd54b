// Package models provides the template meshes that every cell link is cloned
// from, together with GLB loading.
package models

import (
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
)

// Mesh is an indexed triangle list. Faces are stored clockwise when seen
// from their front side, which is what the rasterizer keeps after its
// screen-space Y flip.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Local bounds, refreshed by CalculateBounds.
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex is a position with its shading normal.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Face holds three indices into Mesh.Vertices.
type Face struct {
	V [3]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds recomputes BoundsMin and BoundsMax. An empty mesh keeps
// its previous bounds.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}
	lo, hi := m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		lo = lo.Min(v.Position)
		hi = hi.Max(v.Position)
	}
	m.BoundsMin, m.BoundsMax = lo, hi
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateSmoothNormals replaces every vertex normal with the area-weighted
// average of the outward normals of the faces sharing it.
func (m *Mesh) CalculateSmoothNormals() {
	sum := make([]math3d.Vec3, len(m.Vertices))
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f.V[0]].Position, m.Vertices[f.V[1]].Position, m.Vertices[f.V[2]].Position
		// Clockwise storage, so c-a before b-a.
		n := c.Sub(a).Cross(b.Sub(a))
		for _, idx := range f.V {
			sum[idx] = sum[idx].Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = sum[i].Normalize()
	}
}

// Clone returns a deep copy. Links own their clone so templates stay
// immutable.
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.Vertices = append([]MeshVertex(nil), m.Vertices...)
	c.Faces = append([]Face(nil), m.Faces...)
	return &c
}

// Triangle returns the three corner positions of face i.
func (m *Mesh) Triangle(i int) (a, b, c math3d.Vec3) {
	f := m.Faces[i].V
	return m.Vertices[f[0]].Position, m.Vertices[f[1]].Position, m.Vertices[f[2]].Position
}

// GetVertex returns the position and normal of vertex i.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3) {
	v := m.Vertices[i]
	return v.Position, v.Normal
}

// GetFace returns the vertex indices of face i.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetBounds returns the local axis-aligned bounds.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
