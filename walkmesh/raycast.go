package walkmesh

import (
	"math"

	"gowalkmesh/common"
)

const rayEps = 1e-6

// RaycastHit describes the nearest intersection of a ray with the
// triangle set.
type RaycastHit struct {
	Point    common.Vec3
	Face     int32
	Distance float64
}

// Raycast casts a ray from origin along direction for at most maxDist
// and reports the nearest triangle hit. All malformed inputs (empty
// mesh, non-positive or non-finite maxDist, zero-length or non-finite
// direction) report a miss, never an error.
func (m *Mesh) Raycast(origin, direction common.Vec3, maxDist float64) (RaycastHit, bool) {
	best := RaycastHit{Face: NoFace, Distance: math.MaxFloat64}
	if m.faceCount == 0 || maxDist <= 0 || !common.IsFinite(maxDist) ||
		!common.Visfinite(origin) || !common.Visfinite(direction) {
		return best, false
	}
	dlen := direction.Len()
	if dlen < rayEps {
		return best, false
	}
	sq := origin.Add(direction.Mul(maxDist / dlen))

	if m.tree != nil {
		m.raycastNode(m.tree.root, origin, sq, maxDist, &best)
	} else {
		for f := int32(0); f < m.faceCount; f++ {
			m.raycastFace(f, origin, sq, &best)
			if best.Distance < rayEps {
				break
			}
		}
	}
	if best.Face == NoFace {
		return best, false
	}
	return best, true
}

func (m *Mesh) raycastNode(ni int32, sp, sq common.Vec3, segLen float64, best *RaycastHit) {
	// A near-exact hit cannot be improved on.
	if best.Distance < rayEps {
		return
	}
	node := &m.tree.nodes[ni]
	tmin, hit := isectSegAABB(sp, sq, node.bmin, node.bmax)
	if !hit || tmin*segLen > best.Distance {
		return
	}
	if node.isLeaf() {
		if node.face != NoFace {
			m.raycastFace(node.face, sp, sq, best)
		}
		return
	}
	// Descend into the child whose box center is nearer to the ray
	// origin first. Both children still need testing: a nearer box
	// center does not guarantee a nearer hit.
	l, r := node.left, node.right
	if l >= 0 && r >= 0 {
		lc := m.tree.nodes[l].bmin.Add(m.tree.nodes[l].bmax).Mul(0.5)
		rc := m.tree.nodes[r].bmin.Add(m.tree.nodes[r].bmax).Mul(0.5)
		if rc.Sub(sp).Len() < lc.Sub(sp).Len() {
			l, r = r, l
		}
	}
	if l >= 0 {
		m.raycastNode(l, sp, sq, segLen, best)
	}
	if r >= 0 {
		m.raycastNode(r, sp, sq, segLen, best)
	}
}

func (m *Mesh) raycastFace(face int32, sp, sq common.Vec3, best *RaycastHit) {
	a, b, c := m.faceVerts(face)
	pt, ok := isectSegTriangle(sp, sq, a, b, c)
	if !ok {
		return
	}
	d := pt.Sub(sp).Len()
	if d < best.Distance {
		best.Point = pt
		best.Face = face
		best.Distance = d
	}
}

// isectSegAABB is the slab test for the segment (sp, sq) against an
// axis-aligned box, returning the entry parameter in [0, 1]. Near-zero
// direction components become infinite slopes by sign instead of
// dividing by zero. An origin already inside the box is an immediate
// intersection, which keeps the tree descent correct at the root.
func isectSegAABB(sp, sq, bmin, bmax common.Vec3) (float64, bool) {
	inside := true
	for i := 0; i < 3; i++ {
		if sp[i] < bmin[i] || sp[i] > bmax[i] {
			inside = false
			break
		}
	}
	if inside {
		return 0, true
	}
	d := sq.Sub(sp)
	tmin, tmax := 0.0, 1.0
	for i := 0; i < 3; i++ {
		var inv float64
		if math.Abs(d[i]) < 1e-12 {
			inv = math.Inf(1)
			if math.Signbit(d[i]) {
				inv = math.Inf(-1)
			}
		} else {
			inv = 1 / d[i]
		}
		t1 := (bmin[i] - sp[i]) * inv
		t2 := (bmax[i] - sp[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// isectSegTriangle intersects the segment (sp, sq) with triangle
// (a, b, c): the endpoints must straddle the triangle's plane, the
// crossing point is interpolated on it, and containment is verified
// with three edge side tests against the face normal. Degenerate
// triangles and in-plane segments report a miss.
func isectSegTriangle(sp, sq, a, b, c common.Vec3) (common.Vec3, bool) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	n := ab.Cross(ac)
	if n.Len() < rayEps {
		return common.Vec3{}, false
	}
	d1 := sp.Sub(a).Dot(n)
	d2 := sq.Sub(a).Dot(n)
	if (d1 > rayEps && d2 > rayEps) || (d1 < -rayEps && d2 < -rayEps) {
		return common.Vec3{}, false
	}
	den := d1 - d2
	if math.Abs(den) < 1e-12 {
		return common.Vec3{}, false
	}
	t := common.Clamp(d1/den, 0, 1)
	pt := common.Vlerp(sp, sq, t)

	if ab.Cross(pt.Sub(a)).Dot(n) < -rayEps {
		return common.Vec3{}, false
	}
	if c.Sub(b).Cross(pt.Sub(b)).Dot(n) < -rayEps {
		return common.Vec3{}, false
	}
	if a.Sub(c).Cross(pt.Sub(c)).Dot(n) < -rayEps {
		return common.Vec3{}, false
	}
	return pt, true
}

// TestLineOfSight reports whether the straight segment between the two
// points is unobstructed. Sight is clear when nothing is hit, or when
// the hit face is itself walkable: grazing a walkable floor seam is
// not an obstruction, a wall-classified triangle is.
func (m *Mesh) TestLineOfSight(from, to common.Vec3) bool {
	d := to.Sub(from)
	dist := d.Len()
	if dist < rayEps {
		return true
	}
	hit, ok := m.Raycast(from, d, dist)
	if !ok {
		return true
	}
	return m.IsWalkable(hit.Face)
}
