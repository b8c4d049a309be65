package walkmesh

import (
	"errors"
	"math/rand"
	"testing"

	"gowalkmesh/common"
)

func TestTreeCoverage(t *testing.T) {
	m := gridMesh(t, 4, 4)
	seen := make(map[int32]int)
	for i := range m.tree.nodes {
		node := &m.tree.nodes[i]
		if !node.isLeaf() {
			continue
		}
		seen[node.face]++
		a, b, c := m.faceVerts(node.face)
		for _, v := range []common.Vec3{a, b, c} {
			inside := v[0] >= node.bmin[0] && v[0] <= node.bmax[0] &&
				v[1] >= node.bmin[1] && v[1] <= node.bmax[1] &&
				v[2] >= node.bmin[2] && v[2] <= node.bmax[2]
			assertTrue(t, inside, "leaf box must contain its face")
		}
	}
	assertTrue(t, len(seen) == int(m.FaceCount()), "every face has a leaf")
	for _, n := range seen {
		assertTrue(t, n == 1, "every face has exactly one leaf")
	}
}

func TestFlatTreeRoundTrip(t *testing.T) {
	m := gridMesh(t, 3, 3)
	m2, err := NewMesh(nil, m.Vertices(), m.Indices(), m.Materials(),
		WithAdjacency(m.Adjacency()), WithFlatTree(m.FlatTree()))
	if err != nil {
		t.Fatalf("linking a flat tree: %v", err)
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		p := vec(rng.Float64()*4-0.5, rng.Float64()*4-0.5, 0)
		assertTrue(t, m.FindFaceAt(p) == m2.FindFaceAt(p), "linked tree answers like the built tree")
	}
}

func TestFlatTreeRejectsMalformed(t *testing.T) {
	verts := []common.Vec3{vec(0, 0, 0), vec(1, 0, 0), vec(0, 1, 0)}
	indices := []int32{0, 1, 2}
	materials := []int32{MatStone}

	// Child index out of range.
	_, err := NewMesh(nil, verts, indices, materials, WithFlatTree([]FlatNode{
		{Face: NoFace, Left: 5, Right: -1},
	}))
	assertTrue(t, errors.Is(err, ErrBadFlatTree), "child out of range")

	// Self cycle at the root.
	_, err = NewMesh(nil, verts, indices, materials, WithFlatTree([]FlatNode{
		{Face: NoFace, Left: 0, Right: -1},
	}))
	assertTrue(t, errors.Is(err, ErrBadFlatTree), "cyclic node array")

	// Leaf face out of range.
	_, err = NewMesh(nil, verts, indices, materials, WithFlatTree([]FlatNode{
		{Face: 3, Left: -1, Right: -1},
	}))
	assertTrue(t, errors.Is(err, ErrBadFlatTree), "leaf face out of range")
}

func TestDegenerateFaceSet(t *testing.T) {
	// Many coincident triangles: every centroid is identical, so each
	// split falls back to input order. Construction must terminate and
	// the mesh must stay queryable.
	verts := []common.Vec3{vec(0, 0, 0), vec(1, 0, 0), vec(0, 1, 0)}
	var indices []int32
	var materials []int32
	for i := 0; i < 40; i++ {
		indices = append(indices, 0, 1, 2)
		materials = append(materials, MatStone)
	}
	m, err := NewMesh(nil, verts, indices, materials)
	if err != nil {
		t.Fatalf("degenerate face set: %v", err)
	}
	assertTrue(t, m.FindFaceAt(vec(0.25, 0.25, 0)) != NoFace, "coincident faces are findable")
}
