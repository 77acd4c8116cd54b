package models

import "github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"

// BoxMesh builds a closed box spanning [min, max] with per-face normals.
func BoxMesh(name string, min, max math3d.Vec3) *Mesh {
	mesh := NewMesh(name)

	corner := func(x, y, z int) math3d.Vec3 {
		p := min
		if x == 1 {
			p.X = max.X
		}
		if y == 1 {
			p.Y = max.Y
		}
		if z == 1 {
			p.Z = max.Z
		}
		return p
	}

	// Each side lists its corners counter-clockwise seen from outside.
	sides := []struct {
		normal  math3d.Vec3
		corners [4][3]int
	}{
		{math3d.V3(1, 0, 0), [4][3]int{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}},
		{math3d.V3(-1, 0, 0), [4][3]int{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}},
		{math3d.V3(0, 1, 0), [4][3]int{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}},
		{math3d.V3(0, -1, 0), [4][3]int{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
		{math3d.V3(0, 0, 1), [4][3]int{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
		{math3d.V3(0, 0, -1), [4][3]int{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}},
	}

	for _, s := range sides {
		base := len(mesh.Vertices)
		for _, c := range s.corners {
			mesh.Vertices = append(mesh.Vertices, MeshVertex{
				Position: corner(c[0], c[1], c[2]),
				Normal:   s.normal,
			})
		}
		// Same CCW -> CW swap as the GLTF loader.
		mesh.Faces = append(mesh.Faces,
			Face{V: [3]int{base, base + 2, base + 1}},
			Face{V: [3]int{base, base + 3, base + 2}},
		)
	}

	mesh.CalculateBounds()
	return mesh
}
