package chain

import (
	"math"

	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/scene"
)

// rootRotation points the first cell's chain along the canonical axis.
var rootRotation = math3d.V3(-math.Pi/2, 0, -math.Pi/2)

// Structure is the ordered sequence of cells, in creation order.
//
// Cells are only ever appended as a child of a free output joint and only
// ever removed from the end, so the last cell never has children.
type Structure struct {
	g      *scene.Graph
	assets Assets
	cells  []*Cell
}

// NewStructure creates a structure holding the root cell, hung from the
// graph's world root.
func NewStructure(g *scene.Graph, assets Assets) (*Structure, error) {
	root, err := NewCell(g, assets, 0, PortStraight)
	if err != nil {
		return nil, err
	}

	// The root cell hangs by its middle joint. Its input joint mb would be
	// left dangling, so it moves under ma and serves as the middle output,
	// sep3 from the pivot like every other cell's. A cell grown there starts
	// inside the root's middle bar.
	if err := g.SetParent(root.ma.Origin, scene.Root); err != nil {
		return nil, err
	}
	root.ma.Place(math3d.Zero3(), rootRotation)
	root.ma.Add(root.mb)

	return &Structure{g: g, assets: assets, cells: []*Cell{root}}, nil
}

// Graph returns the transform tree the cells live in.
func (s *Structure) Graph() *scene.Graph {
	return s.g
}

// Len returns the number of cells.
func (s *Structure) Len() int {
	return len(s.cells)
}

// Cell returns cell i, or nil when i is out of range.
func (s *Structure) Cell(i int) *Cell {
	if i < 0 || i >= len(s.cells) {
		return nil
	}
	return s.cells[i]
}

// Cells returns the cells in creation order. The slice must not be modified.
func (s *Structure) Cells() []*Cell {
	return s.cells
}

// Extend grows a cell from the selected output whose port follows the
// selected role: straight from Middle, right-origin from Left, left-origin
// from Right. It reports whether a cell was added.
func (s *Structure) Extend(sel Selection) bool {
	port, ok := sel.Tag.branchPort()
	if !ok {
		return false
	}
	return s.grow(sel, port)
}

// Junction grows a straight cell from the selected output regardless of
// role. It reports whether a cell was added.
func (s *Structure) Junction(sel Selection) bool {
	return s.grow(sel, PortStraight)
}

// grow is a no-op when nothing is selected or the target output is occupied.
func (s *Structure) grow(sel Selection, port Port) bool {
	if !sel.Valid(len(s.cells)) {
		return false
	}
	tail := s.cells[sel.Index].Tail(sel.Tag)
	if tail == nil || tail.Occupied() {
		return false
	}

	c, err := NewCell(s.g, s.assets, len(s.cells), port)
	if err != nil {
		return false
	}
	s.cells = append(s.cells, c)
	tail.Add(c.Origin())
	return true
}

// Remove retracts the most recently created cell and decrements the
// selection index, down to -1. The root cell is never removed.
func (s *Structure) Remove(sel Selection) (Selection, bool) {
	n := len(s.cells)
	if n <= 1 {
		return sel, false
	}
	s.cells[n-1].Remove()
	s.cells[n-1] = nil
	s.cells = s.cells[:n-1]

	if sel.Index >= 0 {
		sel.Index--
	}
	return sel, true
}

// Steer writes angle to the selected role's pivot. Middle has no pivot and
// reports false.
func (s *Structure) Steer(sel Selection, angle float64) bool {
	if !sel.Valid(len(s.cells)) {
		return false
	}
	c := s.cells[sel.Index]
	switch sel.Tag {
	case Left:
		c.Left(angle)
	case Right:
		c.Right(angle)
	default:
		return false
	}
	return true
}

// Children returns the indices of the cells attached to cell i's outputs,
// in output order Middle, Left, Right.
func (s *Structure) Children(i int) []int {
	c := s.Cell(i)
	if c == nil {
		return nil
	}
	var out []int
	for _, t := range []Tag{Middle, Left, Right} {
		for _, id := range s.g.Children(c.Tail(t).Pivot) {
			if k := s.cellAt(id); k >= 0 {
				out = append(out, k)
			}
		}
	}
	return out
}

// cellAt returns the index of the cell whose input frame is node id, or -1.
func (s *Structure) cellAt(id scene.NodeID) int {
	for k, c := range s.cells {
		if c.Origin().Origin == id {
			return k
		}
	}
	return -1
}

// Links returns every link reachable from the world root.
func (s *Structure) Links() []*Link {
	out := make([]*Link, 0, 3*len(s.cells))
	for _, c := range s.cells {
		for _, l := range c.Links() {
			if l.Attached() {
				out = append(out, l)
			}
		}
	}
	return out
}

// Refresh recomputes every link's variant from sel: the selected link is
// drawn Selected, everything else Normal.
func (s *Structure) Refresh(sel Selection) {
	for _, c := range s.cells {
		for _, l := range c.Links() {
			if sel.Matches(l) {
				l.Apply(Selected)
			} else {
				l.Apply(Normal)
			}
		}
	}
}
