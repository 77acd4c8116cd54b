package models

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrNoGeometry is returned when a document holds no triangle geometry.
var ErrNoGeometry = errors.New("no triangle geometry")

// GLTFLoader flattens a GLTF/GLB document into a single Mesh.
type GLTFLoader struct {
	// CalculateNormals fills in smooth normals when the file carries none.
	CalculateNormals bool
}

// NewGLTFLoader creates a loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{CalculateNormals: true}
}

// LoadGLB loads a GLB file with the default loader.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads path and bakes every mesh instance of the default scene, with
// its node transforms applied, into one Mesh. Documents without a scene
// contribute each mesh once, untransformed.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	if roots := sceneRoots(doc); len(roots) > 0 {
		visited := make(map[int]bool)
		for _, n := range roots {
			if err := l.addNode(doc, n, math3d.Identity(), visited, mesh); err != nil {
				return nil, err
			}
		}
	} else {
		for i := range doc.Meshes {
			if err := l.addMesh(doc, i, math3d.Identity(), mesh); err != nil {
				return nil, err
			}
		}
	}
	if mesh.TriangleCount() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoGeometry)
	}

	if l.CalculateNormals && !hasNormals(mesh) {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) == 0 {
		return nil
	}
	s := 0
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		s = *doc.Scene
	}
	return doc.Scenes[s].Nodes
}

// addNode appends node n and its subtree. parent is the world transform of
// n's parent; visited guards against malformed documents with node cycles.
func (l *GLTFLoader) addNode(doc *gltf.Document, n int, parent math3d.Mat4, visited map[int]bool, dst *Mesh) error {
	if n < 0 || n >= len(doc.Nodes) {
		return fmt.Errorf("node %d out of range", n)
	}
	if visited[n] {
		return fmt.Errorf("node %d reached twice", n)
	}
	visited[n] = true

	node := doc.Nodes[n]
	world := parent.Mul(nodeTransform(node))
	if node.Mesh != nil {
		if err := l.addMesh(doc, *node.Mesh, world, dst); err != nil {
			return fmt.Errorf("node %q: %w", node.Name, err)
		}
	}
	for _, c := range node.Children {
		if err := l.addNode(doc, c, world, visited, dst); err != nil {
			return err
		}
	}
	return nil
}

// nodeTransform returns the node's matrix, or T * R * S when it has none.
func nodeTransform(node *gltf.Node) math3d.Mat4 {
	if m := math3d.Mat4(node.MatrixOrDefault()); m != math3d.Identity() {
		return m
	}
	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()
	return math3d.Translate(math3d.V3(t[0], t[1], t[2])).
		Mul(math3d.FromQuat(r[0], r[1], r[2], r[3])).
		Mul(math3d.Scale(math3d.V3(s[0], s[1], s[2])))
}

// addMesh appends the triangle primitives of doc.Meshes[i] transformed by m.
func (l *GLTFLoader) addMesh(doc *gltf.Document, i int, m math3d.Mat4, dst *Mesh) error {
	if i < 0 || i >= len(doc.Meshes) {
		return fmt.Errorf("mesh %d out of range", i)
	}
	gm := doc.Meshes[i]
	normalMat := m.Inverse().Transpose()
	// A mirroring transform flips the winding a second time.
	mirrored := m.Determinant() < 0

	for _, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Lines and points carry no surface.
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("mesh %q: read positions: %w", gm.Name, err)
		}
		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil); err != nil {
				return fmt.Errorf("mesh %q: read normals: %w", gm.Name, err)
			}
		}

		base := len(dst.Vertices)
		for k, p := range positions {
			v := MeshVertex{Position: m.MulVec3(vec3(p))}
			if k < len(normals) {
				v.Normal = normalMat.MulVec3Dir(vec3(normals[k])).Normalize()
			}
			dst.Vertices = append(dst.Vertices, v)
		}

		var indices []uint32
		if prim.Indices != nil {
			if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
				return fmt.Errorf("mesh %q: read indices: %w", gm.Name, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for k := range indices {
				indices[k] = uint32(k)
			}
		}

		// GLTF front faces are CCW; the rasterizer keeps CW faces after
		// its screen-space Y flip.
		for k := 0; k+2 < len(indices); k += 3 {
			a, b, c := base+int(indices[k]), base+int(indices[k+1]), base+int(indices[k+2])
			if max(a, b, c) >= len(dst.Vertices) {
				return fmt.Errorf("mesh %q: index out of range", gm.Name)
			}
			if mirrored {
				dst.Faces = append(dst.Faces, Face{V: [3]int{a, b, c}})
			} else {
				dst.Faces = append(dst.Faces, Face{V: [3]int{a, c, b}})
			}
		}
	}
	return nil
}

func vec3(f [3]float32) math3d.Vec3 {
	return math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
}

func hasNormals(mesh *Mesh) bool {
	for _, v := range mesh.Vertices {
		if v.Normal.Len() > 0.001 {
			return true
		}
	}
	return false
}
