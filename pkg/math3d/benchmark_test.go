package math3d

import (
	"math"
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkMat4Inverse(b *testing.B) {
	m := Compose(V3(1, 2, 3), V3(0.3, 0.5, -0.2))

	for b.Loop() {
		_ = m.Inverse()
	}
}

func BenchmarkCompose(b *testing.B) {
	pos := V3(0, 0, -0.653)
	rot := V3(math.Pi*0.5, 0, -math.Pi*0.5)

	for b.Loop() {
		_ = Compose(pos, rot)
	}
}

func BenchmarkRayIntersectTriangle(b *testing.B) {
	r := NewRay(V3(0.2, 0.2, 5), V3(0, 0, -1))
	a, c, d := V3(-1, -1, 0), V3(1, -1, 0), V3(0, 1, 0)

	for b.Loop() {
		_, _ = r.IntersectTriangle(a, c, d)
	}
}

func BenchmarkRayIntersectBox(b *testing.B) {
	r := NewRay(V3(0.2, 0.2, 5), V3(0, 0, -1))
	lo, hi := V3(-1, -1, -1), V3(1, 1, 1)

	for b.Loop() {
		_, _ = r.IntersectBox(lo, hi)
	}
}
