package walkmesh

import "testing"

func TestAdjacencySharedEdge(t *testing.T) {
	m := quadMesh(t)
	// Face 0 edge 2 is (v2,v0), face 1 edge 0 is (v0,v2).
	adjacency := m.Adjacency()
	assertTrue(t, adjacency[0*3+2] == 1*3+0, "face 0 links to face 1 across the diagonal")
	assertTrue(t, adjacency[1*3+0] == 0*3+2, "face 1 links back to face 0")

	n0 := m.AdjacentFaces(0)
	n1 := m.AdjacentFaces(1)
	assertTrue(t, n0 == [3]int32{NoFace, NoFace, 1}, "face 0 neighbors")
	assertTrue(t, n1 == [3]int32{0, NoFace, NoFace}, "face 1 neighbors")
}

func TestAdjacencySymmetry(t *testing.T) {
	m := gridMesh(t, 4, 4)
	adjacency := m.Adjacency()
	for f := int32(0); f < m.FaceCount(); f++ {
		for e := int32(0); e < 3; e++ {
			slot := adjacency[f*3+e]
			if slot < 0 {
				continue
			}
			assertTrue(t, adjacency[slot] == f*3+e, "adjacency must be bidirectional")
		}
	}
}

func TestAdjacencyBoundaryEdges(t *testing.T) {
	m := gridMesh(t, 2, 2)
	// Every face of the grid has at least one neighbor and boundary
	// edges stay unlinked.
	unlinked := 0
	for _, slot := range m.Adjacency() {
		if slot < 0 {
			unlinked++
		}
	}
	// 8 faces, 24 edge slots, 8 interior shared edges use 16 slots.
	assertTrue(t, unlinked == 8, "boundary edge count")
}
