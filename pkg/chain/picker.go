package chain

import (
	"math"

	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
)

// Hit is the nearest link a ray passes through.
type Hit struct {
	Link     *Link
	Distance float64     // world-space distance from the ray origin
	Point    math3d.Vec3 // world-space hit point
}

// Intersect casts ray against every attached link and returns the nearest
// hit. The ray direction should be unit length so Distance is in world units.
//
// Each link is tested in its own local space: the ray is moved through the
// inverse world transform, rejected early against the mesh bounds and then
// tested triangle by triangle from both sides.
func (s *Structure) Intersect(ray math3d.Ray) (Hit, bool) {
	best := Hit{Distance: math.Inf(1)}
	for _, l := range s.Links() {
		world := s.g.World(l.Root)
		local := ray.Transform(world.Inverse())

		lo, hi := l.Mesh.GetBounds()
		if _, ok := local.IntersectBox(lo, hi); !ok {
			continue
		}

		for i := range l.Mesh.TriangleCount() {
			a, b, c := l.Mesh.Triangle(i)
			t, ok := local.IntersectTriangle(a, b, c)
			if !ok {
				continue
			}
			p := world.MulVec3(local.At(t))
			if d := p.Distance(ray.Origin); d < best.Distance {
				best = Hit{Link: l, Distance: d, Point: p}
			}
		}
	}
	return best, best.Link != nil
}
