package chain

import (
	"fmt"

	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/scene"
)

// Joint is a fixed Origin frame carrying a rotatable Pivot frame. Joints are
// composed by hanging one joint's Origin under another's Pivot; a joint never
// holds a pointer to another joint.
type Joint struct {
	g      *scene.Graph
	Origin scene.NodeID
	Pivot  scene.NodeID
}

// NewJoint allocates the two nodes of a joint in g.
func NewJoint(g *scene.Graph) *Joint {
	j := &Joint{g: g, Origin: g.NewNode(), Pivot: g.NewNode()}
	j.attach(j.Pivot, j.Origin)
	return j
}

// Add hangs other's Origin under this joint's Pivot.
func (j *Joint) Add(other *Joint) {
	j.attach(other.Origin, j.Pivot)
}

// Mount hangs a link's mesh root under this joint's Pivot.
func (j *Joint) Mount(l *Link) {
	j.attach(l.Root, j.Pivot)
}

func (j *Joint) attach(child, parent scene.NodeID) {
	if err := j.g.SetParent(child, parent); err != nil {
		// Cell wiring and growth only ever attach fresh subtrees.
		panic(fmt.Sprintf("chain: attach %d under %d: %v", child, parent, err))
	}
}

// Occupied reports whether anything hangs from the Pivot.
func (j *Joint) Occupied() bool {
	return len(j.g.Children(j.Pivot)) > 0
}

// Place sets the Origin's local offset relative to whatever it hangs from.
func (j *Joint) Place(pos, rot math3d.Vec3) {
	j.g.SetPosition(j.Origin, pos)
	j.g.SetRotation(j.Origin, rot)
}

// SetAngle rotates the Pivot about its local Y axis.
func (j *Joint) SetAngle(a float64) {
	j.g.SetRotation(j.Pivot, math3d.V3(0, a, 0))
}

// Angle returns the Pivot's rotation about its local Y axis.
func (j *Joint) Angle() float64 {
	return j.g.Node(j.Pivot).Rotation.Y
}

// Remove detaches and releases both frames. It is safe to call repeatedly.
func (j *Joint) Remove() {
	j.g.Release(j.Origin)
	j.g.Release(j.Pivot)
}
