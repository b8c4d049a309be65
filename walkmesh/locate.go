package walkmesh

import "gowalkmesh/common"

// FindFaceAt returns the index of the face containing the point in the
// xy projection, or NoFace. A point on a shared edge or vertex is
// contained by more than one face and may resolve to any of them; the
// traversal tries left children first so a given mesh always resolves
// the same way.
func (m *Mesh) FindFaceAt(p common.Vec3) int32 {
	if m.faceCount == 0 {
		return NoFace
	}
	if m.tree == nil {
		return m.findFaceBrute(p)
	}
	// Explicit stack; pre-supplied trees may be deeper than the
	// builder's depth cap.
	stack := make([]int32, 0, 64)
	stack = append(stack, m.tree.root)
	for len(stack) > 0 {
		ni := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &m.tree.nodes[ni]
		if p[0] < node.bmin[0] || p[0] > node.bmax[0] ||
			p[1] < node.bmin[1] || p[1] > node.bmax[1] {
			continue
		}
		if node.isLeaf() {
			if node.face != NoFace && m.pointInFace(p, node.face) {
				return node.face
			}
			continue
		}
		if node.right >= 0 {
			stack = append(stack, node.right)
		}
		if node.left >= 0 {
			stack = append(stack, node.left)
		}
	}
	return NoFace
}

func (m *Mesh) findFaceBrute(p common.Vec3) int32 {
	for f := int32(0); f < m.faceCount; f++ {
		if m.pointInFace(p, f) {
			return f
		}
	}
	return NoFace
}

func (m *Mesh) pointInFace(p common.Vec3, face int32) bool {
	a, b, c := m.faceVerts(face)
	return common.PointInTri2D(p, a, b, c)
}

// ProjectToSurface drops the point onto the walkmesh surface,
// resolving the exact z height of the containing face at the point's
// xy position. ok is false when the point is off-mesh or the
// containing face is degenerate.
func (m *Mesh) ProjectToSurface(p common.Vec3) (projected common.Vec3, height float64, ok bool) {
	face := m.FindFaceAt(p)
	if face == NoFace {
		return common.Vec3{}, 0, false
	}
	a, b, c := m.faceVerts(face)
	z, ok := common.ClosestHeightPointTriangle(p, a, b, c)
	if !ok {
		return common.Vec3{}, 0, false
	}
	return common.Vec3{p[0], p[1], z}, z, true
}
