package scene

import (
	"math"
	"testing"

	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetParentSingleParent(t *testing.T) {
	g := NewGraph()
	a, b, c := g.NewNode(), g.NewNode(), g.NewNode()

	require.NoError(t, g.SetParent(c, a))
	assert.Equal(t, a, g.Parent(c))
	assert.Equal(t, []NodeID{c}, g.Children(a))

	// Attaching elsewhere detaches from a first.
	require.NoError(t, g.SetParent(c, b))
	assert.Equal(t, b, g.Parent(c))
	assert.Empty(t, g.Children(a))
	assert.Equal(t, []NodeID{c}, g.Children(b))

	// Re-attaching to the same parent does not duplicate the edge.
	require.NoError(t, g.SetParent(c, b))
	assert.Equal(t, []NodeID{c}, g.Children(b))
}

func TestSetParentRejectsCycles(t *testing.T) {
	g := NewGraph()
	a, b := g.NewNode(), g.NewNode()
	require.NoError(t, g.SetParent(b, a))

	assert.ErrorIs(t, g.SetParent(a, b), ErrCycle)
	assert.ErrorIs(t, g.SetParent(a, a), ErrCycle)
	assert.Error(t, g.SetParent(Root, a))
	assert.Error(t, g.SetParent(a, None))

	// Nothing changed.
	assert.Equal(t, None, g.Parent(a))
	assert.Equal(t, a, g.Parent(b))
}

func TestDetachKeepsSubtreeAndTransform(t *testing.T) {
	g := NewGraph()
	a, b := g.NewNode(), g.NewNode()
	require.NoError(t, g.SetParent(a, Root))
	require.NoError(t, g.SetParent(b, a))
	g.SetPosition(a, math3d.V3(1, 2, 3))

	g.Detach(a)
	g.Detach(a) // no-op

	assert.Equal(t, None, g.Parent(a))
	assert.Empty(t, g.Children(Root))
	assert.Equal(t, []NodeID{b}, g.Children(a))
	assert.Equal(t, math3d.V3(1, 2, 3), g.Node(a).Position)
	assert.False(t, g.Attached(b))
}

func TestDetachPreservesSiblingOrder(t *testing.T) {
	g := NewGraph()
	kids := []NodeID{g.NewNode(), g.NewNode(), g.NewNode()}
	for _, k := range kids {
		require.NoError(t, g.SetParent(k, Root))
	}
	before := g.Children(Root)

	g.Detach(kids[1])

	assert.Equal(t, []NodeID{kids[0], kids[2]}, g.Children(Root))
	// Slices handed out earlier are not rewritten underneath the caller.
	assert.Equal(t, kids, before)
}

func TestRelease(t *testing.T) {
	g := NewGraph()
	a := g.NewNode()
	require.NoError(t, g.SetParent(a, Root))

	g.Release(a)
	g.Release(a)

	assert.True(t, g.Released(a))
	assert.False(t, g.Attached(a))
	assert.Empty(t, g.Children(Root))
	assert.Equal(t, 1, g.Live())

	// Released slots are handed out again, reset.
	b := g.NewNode()
	assert.Equal(t, a, b)
	assert.False(t, g.Released(b))
	assert.Equal(t, None, g.Parent(b))
	assert.Equal(t, 2, g.Len())
}

func TestReleaseOrphansChildren(t *testing.T) {
	g := NewGraph()
	a, b := g.NewNode(), g.NewNode()
	require.NoError(t, g.SetParent(a, Root))
	require.NoError(t, g.SetParent(b, a))

	g.Release(a)

	assert.Equal(t, None, g.Parent(b))
	assert.False(t, g.Released(b))
	assert.Empty(t, g.Children(a))
}

func TestWorldIsProductOfLocals(t *testing.T) {
	g := NewGraph()
	a, b, c := g.NewNode(), g.NewNode(), g.NewNode()
	require.NoError(t, g.SetParent(a, Root))
	require.NoError(t, g.SetParent(b, a))
	require.NoError(t, g.SetParent(c, b))

	g.SetPosition(a, math3d.V3(0, 0, 1))
	g.SetRotation(a, math3d.V3(0, math.Pi/2, 0))
	g.SetPosition(b, math3d.V3(0, 0, 2))
	g.SetRotation(b, math3d.V3(math.Pi/2, 0, -math.Pi/2))
	g.SetPosition(c, math3d.V3(0.33, 0, 0))

	want := g.Local(Root).Mul(g.Local(a)).Mul(g.Local(b)).Mul(g.Local(c))
	assert.True(t, g.World(c).ApproxEqual(want, 1e-12))

	// a turns +Z into +X, so b sits two units along +X from a.
	origin := g.World(b).MulVec3(math3d.Zero3())
	assert.True(t, origin.ApproxEqual(math3d.V3(2, 0, 1), 1e-9), "got %v", origin)
}

func TestWalkOrderAndPrune(t *testing.T) {
	g := NewGraph()
	a, b, c, d := g.NewNode(), g.NewNode(), g.NewNode(), g.NewNode()
	require.NoError(t, g.SetParent(a, Root))
	require.NoError(t, g.SetParent(b, a))
	require.NoError(t, g.SetParent(c, Root))
	require.NoError(t, g.SetParent(d, c))

	var seen []NodeID
	g.Walk(Root, func(id NodeID) bool {
		seen = append(seen, id)
		return id != c
	})
	assert.Equal(t, []NodeID{Root, a, b, c}, seen)
}
