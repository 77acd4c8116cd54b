// Package chain models a branching chain of jointed cells: the joints and
// links a cell is assembled from, the three port geometries, the
// append/retract structure, selection, picking and the controller that ties
// user input to all of it.
package chain

import "fmt"

// Tag names one of the three roles inside a cell, and with it one of the
// three output joints a child cell can attach to.
type Tag int

const (
	Middle Tag = iota
	Left
	Right
)

// String returns the one-letter role name.
func (t Tag) String() string {
	switch t {
	case Middle:
		return "M"
	case Left:
		return "L"
	case Right:
		return "R"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

// Port selects which of the three cell geometries a cell is built with.
type Port int

const (
	PortStraight Port = iota // continues along the parent's middle axis
	PortRight                // input on the right link, grown from a left output
	PortLeft                 // input on the left link, grown from a right output
)

// String returns a short port name.
func (p Port) String() string {
	switch p {
	case PortStraight:
		return "straight"
	case PortRight:
		return "right"
	case PortLeft:
		return "left"
	default:
		return fmt.Sprintf("Port(%d)", int(p))
	}
}

// branchPort is the port a cell extended from output t is built with.
func (t Tag) branchPort() (Port, bool) {
	switch t {
	case Middle:
		return PortStraight, true
	case Left:
		return PortRight, true
	case Right:
		return PortLeft, true
	}
	return 0, false
}
