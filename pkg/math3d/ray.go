package math3d

import "math"

const rayEpsilon = 1e-9

// Ray is a half-line starting at Origin and running along Dir.
// Dir does not have to be unit length; distances returned by the
// intersection methods are in units of Dir.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// NewRay creates a ray with a normalized direction.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// Transform moves the ray into the space described by m.
// For rigid transforms the parameter t is preserved.
func (r Ray) Transform(m Mat4) Ray {
	return Ray{
		Origin: m.MulVec3(r.Origin),
		Dir:    m.MulVec3Dir(r.Dir),
	}
}

// IntersectTriangle tests the ray against triangle (a, b, c) from either side
// using the Möller–Trumbore algorithm. It returns the ray parameter of the hit.
func (r Ray) IntersectTriangle(a, b, c Vec3) (float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < rayEpsilon {
		return 0, false // parallel
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := e2.Dot(q) * inv
	if t < rayEpsilon {
		return 0, false
	}
	return t, true
}

// IntersectBox tests the ray against the axis-aligned box [min, max] with the
// slab method. It returns the entry parameter, or 0 when the origin is inside.
func (r Ray) IntersectBox(min, max Vec3) (float64, bool) {
	tmin, tmax := 0.0, math.Inf(1)

	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	lo := [3]float64{min.X, min.Y, min.Z}
	hi := [3]float64{max.X, max.Y, max.Z}

	for i := range 3 {
		if math.Abs(dir[i]) < rayEpsilon {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t0 := (lo[i] - origin[i]) * inv
		t1 := (hi[i] - origin[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tmin = math.Max(tmin, t0)
		tmax = math.Min(tmax, t1)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
