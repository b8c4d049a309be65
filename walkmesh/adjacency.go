package walkmesh

// Edge indexing convention: edge 0 is (v0,v1), edge 1 is (v1,v2),
// edge 2 is (v2,v0). An adjacency slot holds neighborFace*3 plus the
// neighbor's edge index, so the link is decodable from either side.

type edgeKey struct {
	lo, hi int32
}

func makeEdgeKey(v0, v1 int32) edgeKey {
	if v0 > v1 {
		v0, v1 = v1, v0
	}
	return edgeKey{lo: v0, hi: v1}
}

// buildAdjacency links every pair of faces that share an undirected
// edge. Single linear pass over all edges with a hash map keyed by the
// vertex pair. Meshes are assumed manifold; if an edge is shared by
// more than two faces the last pairing wins.
func buildAdjacency(indices []int32, faceCount int32) []int32 {
	adjacency := make([]int32, faceCount*3)
	for i := range adjacency {
		adjacency[i] = noAdjacency
	}
	firstOwner := make(map[edgeKey]int32, faceCount*3/2)
	for f := int32(0); f < faceCount; f++ {
		for e := int32(0); e < 3; e++ {
			v0 := indices[f*3+e]
			v1 := indices[f*3+(e+1)%3]
			key := makeEdgeKey(v0, v1)
			slot := f*3 + e
			if owner, ok := firstOwner[key]; ok {
				adjacency[slot] = owner
				adjacency[owner] = slot
			} else {
				firstOwner[key] = slot
			}
		}
	}
	return adjacency
}
