package chain

import (
	"errors"
	"fmt"
	"math"

	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/models"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/scene"
)

// Joint separations, in template mesh units.
const (
	sep1    = 0.653  // middle joint to left/right joints
	sep2    = 0.44   // left/right joint to its tail
	sep3    = 0.1075 // middle joint to middle tail
	lateral = 0.33   // middle tail offset in the branch ports
)

// MaxAngle bounds the steerable pivots to [-MaxAngle, MaxAngle].
const MaxAngle = math.Pi / 2

// ErrInvalidPort is returned for a port outside the three known geometries.
var ErrInvalidPort = errors.New("chain: invalid port")

// Assets are the two templates and the palette every cell is built from.
type Assets struct {
	Middle  *models.Template // the middle link
	Branch  *models.Template // the left and right links
	Palette Palette
}

// Cell is one rigid unit of the chain: three links and six joints wired into
// the geometry selected by its port.
//
// The joints come in pairs per role: the A joint carries the role's link and
// pivot, the B joint is the role's tail that a child cell attaches to. One of
// the three tails is the cell's own input (see Origin).
type Cell struct {
	Index int
	Port  Port

	M, L, R *Link

	ma, mb *Joint
	la, lb *Joint
	ra, rb *Joint
}

// NewCell builds and wires a detached cell.
func NewCell(g *scene.Graph, assets Assets, index int, port Port) (*Cell, error) {
	if port < PortStraight || port > PortLeft {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}

	c := &Cell{
		Index: index,
		Port:  port,
		M:     NewLink(g, assets.Middle, assets.Palette, index, Middle),
		L:     NewLink(g, assets.Branch, assets.Palette, index, Left),
		R:     NewLink(g, assets.Branch, assets.Palette, index, Right),
		ma:    NewJoint(g),
		mb:    NewJoint(g),
		la:    NewJoint(g),
		lb:    NewJoint(g),
		ra:    NewJoint(g),
		rb:    NewJoint(g),
	}

	switch port {
	case PortStraight:
		c.wireStraight()
	case PortRight:
		c.wireBranch(c.ra, c.rb, c.R, c.la, c.lb, c.L)
	case PortLeft:
		c.wireBranch(c.la, c.lb, c.L, c.ra, c.rb, c.R)
	}
	return c, nil
}

// tailRotation turns a side tail so its frame matches the frame a child's
// input joint expects.
var tailRotation = math3d.V3(0, math.Pi, math.Pi/2)

// wireStraight builds mb -> ma -> {la, ra}, la -> lb, ra -> rb, with every
// link on its A joint. mb is the input.
func (c *Cell) wireStraight() {
	c.mb.Add(c.ma)
	c.ma.Add(c.la)
	c.ma.Add(c.ra)
	c.la.Add(c.lb)
	c.ra.Add(c.rb)

	c.ma.Mount(c.M)
	c.la.Mount(c.L)
	c.ra.Mount(c.R)

	c.mb.Place(math3d.V3(0, 0, -sep3), math3d.V3(math.Pi/2, 0, -math.Pi/2))
	c.la.Place(math3d.V3(0, 0, sep1), math3d.V3(0, math.Pi, 0))
	c.ra.Place(math3d.V3(0, 0, -sep1), math3d.Zero3())
	c.lb.Place(math3d.V3(0, 0, -sep2), tailRotation)
	c.rb.Place(math3d.V3(0, 0, -sep2), tailRotation)
}

// wireBranch builds inB -> inA -> {ma, outA}, outA -> outB, ma -> mb. The
// input role's link hangs from its tail, inB, which is also the cell input.
// The right port passes (ra, rb, R, la, lb, L); the left port the mirror.
func (c *Cell) wireBranch(inA, inB *Joint, in *Link, outA, outB *Joint, out *Link) {
	inB.Add(inA)
	inA.Add(c.ma)
	inA.Add(outA)
	outA.Add(outB)
	c.ma.Add(c.mb)

	c.ma.Mount(c.M)
	outA.Mount(out)
	inB.Mount(in)

	c.mb.Place(math3d.V3(lateral, 0, 0), math3d.V3(0, math.Pi/2, 0))
	c.ma.Place(math3d.V3(0, 0, sep1), math3d.Zero3())
	outA.Place(math3d.V3(0, 0, 2*sep1), math3d.V3(0, math.Pi, 0))
	outB.Place(math3d.V3(0, 0, -sep2), tailRotation)
}

// Origin returns the joint a parent's tail attaches to: mb for the straight
// port, rb for the right port, lb for the left port.
func (c *Cell) Origin() *Joint {
	switch c.Port {
	case PortRight:
		return c.rb
	case PortLeft:
		return c.lb
	default:
		return c.mb
	}
}

// Tail returns the output joint for role t, or nil for an unknown tag.
func (c *Cell) Tail(t Tag) *Joint {
	switch t {
	case Middle:
		return c.mb
	case Left:
		return c.lb
	case Right:
		return c.rb
	}
	return nil
}

// Left steers the left pivot. Angles are clamped to [-MaxAngle, MaxAngle].
func (c *Cell) Left(angle float64) {
	c.la.SetAngle(math3d.Clamp(angle, -MaxAngle, MaxAngle))
}

// Right steers the right pivot. Angles are clamped to [-MaxAngle, MaxAngle].
func (c *Cell) Right(angle float64) {
	c.ra.SetAngle(math3d.Clamp(angle, -MaxAngle, MaxAngle))
}

// LeftAngle returns the stored left pivot angle.
func (c *Cell) LeftAngle() float64 { return c.la.Angle() }

// RightAngle returns the stored right pivot angle.
func (c *Cell) RightAngle() float64 { return c.ra.Angle() }

// Links returns the middle, left and right links.
func (c *Cell) Links() []*Link {
	return []*Link{c.M, c.L, c.R}
}

// Remove detaches every link and joint of the cell. It is safe to call
// repeatedly.
func (c *Cell) Remove() {
	for _, l := range c.Links() {
		l.Remove()
	}
	for _, j := range []*Joint{c.ma, c.mb, c.la, c.ra, c.lb, c.rb} {
		j.Remove()
	}
}
