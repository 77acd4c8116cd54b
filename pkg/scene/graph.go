// Package scene implements the transform-node tree that cells are assembled
// from. Nodes live in an arena and are addressed by stable NodeIDs; the graph
// enforces that a node has at most one parent at any time.
package scene

import (
	"errors"
	"fmt"

	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
)

// NodeID addresses a node in a Graph. A released ID may be handed out again
// by a later NewNode.
type NodeID int

const (
	// None marks the absence of a node (no parent).
	None NodeID = -1
	// Root is the world root every visible node hangs from.
	Root NodeID = 0
)

// ErrCycle is returned when a reparent would make a node its own ancestor.
var ErrCycle = errors.New("scene: node would become its own ancestor")

// Node is one transform in the tree.
type Node struct {
	Position math3d.Vec3 // local translation
	Rotation math3d.Vec3 // local Euler rotation, radians, XYZ order

	parent   NodeID
	children []NodeID
	released bool
}

// Graph is an arena of nodes. Released slots are kept on a free list.
type Graph struct {
	nodes []Node
	free  []NodeID
}

// NewGraph creates a graph holding only the world root.
func NewGraph() *Graph {
	return &Graph{nodes: []Node{{parent: None}}}
}

// NewNode allocates a detached node with an identity transform, reusing a
// released slot when one is free.
func (g *Graph) NewNode() NodeID {
	if n := len(g.free); n > 0 {
		id := g.free[n-1]
		g.free = g.free[:n-1]
		g.nodes[id] = Node{parent: None}
		return id
	}
	g.nodes = append(g.nodes, Node{parent: None})
	return NodeID(len(g.nodes) - 1)
}

// Len returns the number of allocated slots, the root and released nodes
// included.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Live returns the number of nodes that have not been released.
func (g *Graph) Live() int {
	return len(g.nodes) - len(g.free)
}

// Node returns the node for id. The pointer stays valid until the next
// NewNode call.
func (g *Graph) Node(id NodeID) *Node {
	return &g.nodes[id]
}

// SetPosition sets the local translation of id.
func (g *Graph) SetPosition(id NodeID, p math3d.Vec3) {
	g.nodes[id].Position = p
}

// SetRotation sets the local Euler rotation of id.
func (g *Graph) SetRotation(id NodeID, r math3d.Vec3) {
	g.nodes[id].Rotation = r
}

// Parent returns the parent of id, or None.
func (g *Graph) Parent(id NodeID) NodeID {
	return g.nodes[id].parent
}

// Children returns the children of id in attach order. The slice is owned by
// the graph and must not be modified.
func (g *Graph) Children(id NodeID) []NodeID {
	return g.nodes[id].children
}

// SetParent detaches id from its current parent, if any, and appends it to
// parent's children.
func (g *Graph) SetParent(id, parent NodeID) error {
	if id == Root {
		return fmt.Errorf("scene: root cannot be reparented")
	}
	if parent == None {
		return fmt.Errorf("scene: SetParent(%d, None): use Detach", id)
	}
	for p := parent; p != None; p = g.nodes[p].parent {
		if p == id {
			return ErrCycle
		}
	}

	g.Detach(id)
	g.nodes[id].parent = parent
	g.nodes[parent].children = append(g.nodes[parent].children, id)
	return nil
}

// Detach removes id from its parent's children. The local transform and the
// node's own children are left untouched. Detaching a parentless node is a
// no-op.
func (g *Graph) Detach(id NodeID) {
	n := &g.nodes[id]
	if n.parent == None {
		return
	}
	siblings := g.nodes[n.parent].children
	for i, c := range siblings {
		if c == id {
			g.nodes[n.parent].children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = None
}

// Release detaches id, orphans its children and returns its slot to the free
// list. Releasing twice is a no-op.
func (g *Graph) Release(id NodeID) {
	if id == Root || g.nodes[id].released {
		return
	}
	g.Detach(id)
	for _, c := range g.nodes[id].children {
		g.nodes[c].parent = None
	}
	g.nodes[id].children = nil
	g.nodes[id].released = true
	g.free = append(g.free, id)
}

// Released reports whether id has been released.
func (g *Graph) Released(id NodeID) bool {
	return g.nodes[id].released
}

// Attached reports whether id is the root or its ancestor chain reaches it.
func (g *Graph) Attached(id NodeID) bool {
	for p := id; p != None; p = g.nodes[p].parent {
		if p == Root {
			return true
		}
	}
	return false
}

// Local returns the local transform Translate(Position) * EulerXYZ(Rotation).
func (g *Graph) Local(id NodeID) math3d.Mat4 {
	n := &g.nodes[id]
	return math3d.Compose(n.Position, n.Rotation)
}

// World returns the product of every ancestor's local transform with id's own,
// root first.
func (g *Graph) World(id NodeID) math3d.Mat4 {
	m := g.Local(id)
	for p := g.nodes[id].parent; p != None; p = g.nodes[p].parent {
		m = g.Local(p).Mul(m)
	}
	return m
}

// Walk visits id and its descendants depth-first in child order. Returning
// false from fn skips the node's subtree.
func (g *Graph) Walk(id NodeID, fn func(id NodeID) bool) {
	if !fn(id) {
		return
	}
	for _, c := range g.nodes[id].children {
		g.Walk(c, fn)
	}
}
