package chain

import "fmt"

// Selection is the interaction state threaded through every controller
// operation: the selected cell index (-1 for none) and the active role.
type Selection struct {
	Index int
	Tag   Tag
}

// NoSelection is the unselected state.
var NoSelection = Selection{Index: -1, Tag: Middle}

// Selected reports whether a cell index is set.
func (s Selection) Selected() bool {
	return s.Index >= 0
}

// Valid reports whether s addresses one of n cells.
func (s Selection) Valid(n int) bool {
	return s.Index >= 0 && s.Index < n
}

// Matches reports whether l is the link s points at.
func (s Selection) Matches(l *Link) bool {
	return s.Selected() && l.Index == s.Index && l.Tag == s.Tag
}

// Clear drops the cell index and keeps the tag.
func (s Selection) Clear() Selection {
	s.Index = -1
	return s
}

// PointerDown is the transition for a pointer press: a hit selects the hit
// link's cell and role, a miss clears the selection.
func (s Selection) PointerDown(hit Hit, ok bool) Selection {
	if !ok || hit.Link == nil {
		return s.Clear()
	}
	return Selection{Index: hit.Link.Index, Tag: hit.Link.Tag}
}

func (s Selection) String() string {
	if !s.Selected() {
		return "none"
	}
	return fmt.Sprintf("%d/%s", s.Index, s.Tag)
}
