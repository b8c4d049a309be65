package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is the engine point and direction type. Component order is
// (x, y, z) with z up; the walkable surface is near-planar in xy.
type Vec3 = mgl64.Vec3

type IT interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// / Returns the square of the value.
func Sqr[T IT](a T) T {
	return a * a
}

// / Clamps the value to the specified range.
func Clamp[T IT](v, mn, mx T) T {
	if v < mn {
		return mn
	}
	if v > mx {
		return mx
	}
	return v
}

func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func Visfinite(v Vec3) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}

// / Performs a linear interpolation between two vectors. (v1 toward v2)
func Vlerp(v1, v2 Vec3, t float64) Vec3 {
	return Vec3{
		v1[0] + (v2[0]-v1[0])*t,
		v1[1] + (v2[1]-v1[1])*t,
		v1[2] + (v2[2]-v1[2])*t,
	}
}

// / Selects the minimum value of each element from the specified vectors.
func Vmin(a, b Vec3) Vec3 {
	return Vec3{min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2])}
}

// / Selects the maximum value of each element from the specified vectors.
func Vmax(a, b Vec3) Vec3 {
	return Vec3{max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2])}
}

// Derives the xy distance between the two points, ignoring height.
func Vdist2D(a, b Vec3) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	return math.Sqrt(dx*dx + dy*dy)
}

// TriArea2D returns twice the signed area of triangle (a, b, c)
// projected to the xy plane. Positive for counter-clockwise winding.
func TriArea2D(a, b, c Vec3) float64 {
	abx := b[0] - a[0]
	aby := b[1] - a[1]
	acx := c[0] - a[0]
	acy := c[1] - a[1]
	return abx*acy - aby*acx
}

// PointInTri2D reports whether p lies inside triangle (a, b, c) in the
// xy projection. Uses three edge side tests; points on an edge count
// as inside.
func PointInTri2D(p, a, b, c Vec3) bool {
	const eps = 1e-9
	d0 := TriArea2D(a, b, p)
	d1 := TriArea2D(b, c, p)
	d2 := TriArea2D(c, a, p)
	hasNeg := d0 < -eps || d1 < -eps || d2 < -eps
	hasPos := d0 > eps || d1 > eps || d2 > eps
	return !(hasNeg && hasPos)
}

// ClosestHeightPointTriangle computes the z height of triangle
// (a, b, c) at the xy position of p via scaled barycentric
// coordinates. Returns false if p is outside the triangle or the
// triangle has no xy area.
func ClosestHeightPointTriangle(p, a, b, c Vec3) (h float64, ok bool) {
	const eps = 1e-9
	v0 := c.Sub(a)
	v1 := b.Sub(a)
	v2 := p.Sub(a)

	denom := v0[0]*v1[1] - v0[1]*v1[0]
	if math.Abs(denom) < eps {
		return 0, false
	}
	u := v1[1]*v2[0] - v1[0]*v2[1]
	v := v0[0]*v2[1] - v0[1]*v2[0]

	if denom < 0 {
		denom = -denom
		u = -u
		v = -v
	}

	// If the point lies inside the triangle, return the interpolated z.
	if u >= 0.0 && v >= 0.0 && (u+v) <= denom {
		return a[2] + (v0[2]*u+v1[2]*v)/denom, true
	}
	return 0, false
}

// DistancePtSegSqr2D returns the squared xy distance from pt to the
// segment (p, q).
func DistancePtSegSqr2D(pt, p, q Vec3) float64 {
	pqx := q[0] - p[0]
	pqy := q[1] - p[1]
	dx := pt[0] - p[0]
	dy := pt[1] - p[1]
	d := pqx*pqx + pqy*pqy
	t := pqx*dx + pqy*dy
	if d > 0 {
		t /= d
	}
	t = Clamp(t, 0, 1)
	dx = p[0] + t*pqx - pt[0]
	dy = p[1] + t*pqy - pt[1]
	return dx*dx + dy*dy
}
