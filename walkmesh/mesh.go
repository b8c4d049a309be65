// Package walkmesh implements the navigation mesh engine: a
// triangulated walkable surface with per-face surface materials, edge
// adjacency, a bounding-volume tree for spatial queries, raycasting,
// surface projection and A* pathfinding with obstacle avoidance.
//
// A Mesh is immutable once constructed; all queries are safe to run
// concurrently from multiple goroutines.
package walkmesh

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"gowalkmesh/common"
	"gowalkmesh/common/logger"
)

// NoFace is the sentinel face index reported by queries that find no
// containing or intersected face.
const NoFace = int32(-1)

// noAdjacency marks a triangle edge with no neighbor across it.
const noAdjacency = int32(-1)

type Mesh struct {
	table     *MaterialTable
	verts     []common.Vec3
	indices   []int32 // 3 per face
	adjacency []int32 // 3 per face: neighborFace*3+neighborEdge, or -1
	materials []int32 // 1 per face
	tree      *bvTree

	faceCount     int32
	walkableFaces int32
}

type meshOpts struct {
	adjacency []int32
	flat      []FlatNode
}

type Option func(*meshOpts)

// WithAdjacency supplies a precomputed adjacency array instead of
// deriving it from the triangle list. Length must be faceCount*3.
func WithAdjacency(adjacency []int32) Option {
	return func(o *meshOpts) { o.adjacency = adjacency }
}

// WithFlatTree supplies a precomputed flat bounding-volume node array
// (node 0 is the root) instead of building the tree.
func WithFlatTree(nodes []FlatNode) Option {
	return func(o *meshOpts) { o.flat = nodes }
}

// NewMesh constructs an immutable walkmesh from raw triangle data.
// A nil table selects DefaultMaterialTable. An empty mesh (no
// vertices, no triangles) is valid; every query on it reports a miss.
func NewMesh(table *MaterialTable, verts []common.Vec3, indices []int32, materials []int32, opts ...Option) (*Mesh, error) {
	began := time.Now()
	if table == nil {
		table = DefaultMaterialTable()
	}
	var o meshOpts
	for _, opt := range opts {
		opt(&o)
	}

	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d indices", ErrBadIndexCount, len(indices))
	}
	faceCount := int32(len(indices) / 3)
	for i, vi := range indices {
		if vi < 0 || int(vi) >= len(verts) {
			return nil, fmt.Errorf("%w: index %d at position %d, %d vertices", ErrVertexIndexRange, vi, i, len(verts))
		}
	}
	if int32(len(materials)) != faceCount {
		return nil, fmt.Errorf("%w: %d materials for %d faces", ErrBadArrayLength, len(materials), faceCount)
	}
	if o.adjacency != nil && int32(len(o.adjacency)) != faceCount*3 {
		return nil, fmt.Errorf("%w: %d adjacency slots for %d faces", ErrBadArrayLength, len(o.adjacency), faceCount)
	}

	m := &Mesh{
		table:     table,
		verts:     verts,
		indices:   indices,
		materials: materials,
		faceCount: faceCount,
	}
	if o.adjacency != nil {
		m.adjacency = o.adjacency
	} else {
		m.adjacency = buildAdjacency(indices, faceCount)
	}

	if len(o.flat) > 0 {
		tree, err := linkFlatTree(o.flat, faceCount)
		if err != nil {
			return nil, err
		}
		m.tree = tree
	} else if faceCount > 0 {
		m.tree = buildBVTree(m)
	}

	for f := int32(0); f < faceCount; f++ {
		if table.Walkable(materials[f]) {
			m.walkableFaces++
		}
	}

	nodeCount := 0
	if m.tree != nil {
		nodeCount = len(m.tree.nodes)
	}
	logger.L().Debug("walkmesh constructed",
		zap.Int("vertices", len(verts)),
		zap.Int32("faces", faceCount),
		zap.Int32("walkableFaces", m.walkableFaces),
		zap.Int("bvNodes", nodeCount),
		zap.Duration("elapsed", time.Since(began)))
	return m, nil
}

// FaceCount returns the number of triangles in the mesh.
func (m *Mesh) FaceCount() int32 { return m.faceCount }

// WalkableFaceCount returns the number of triangles whose material is
// walkable under the mesh's material table.
func (m *Mesh) WalkableFaceCount() int32 { return m.walkableFaces }

// Vertices returns the vertex array. Callers must not modify it.
func (m *Mesh) Vertices() []common.Vec3 { return m.verts }

// Indices returns the flat triangle index array (3 per face).
// Callers must not modify it.
func (m *Mesh) Indices() []int32 { return m.indices }

// Adjacency returns the flat adjacency array (3 slots per face, each
// neighborFace*3+neighborEdge or -1). Callers must not modify it.
func (m *Mesh) Adjacency() []int32 { return m.adjacency }

// Materials returns the per-face surface material array. Callers must
// not modify it.
func (m *Mesh) Materials() []int32 { return m.materials }

// MaterialTable returns the walkability partition the mesh was built
// with.
func (m *Mesh) MaterialTable() *MaterialTable { return m.table }

func (m *Mesh) validFace(face int32) bool {
	return face >= 0 && face < m.faceCount
}

// IsWalkable reports whether an agent may stand on the face.
// Out-of-range faces are non-walkable.
func (m *Mesh) IsWalkable(face int32) bool {
	if !m.validFace(face) {
		return false
	}
	return m.table.Walkable(m.materials[face])
}

// SurfaceMaterial returns the face's surface material code, or -1 for
// an out-of-range face.
func (m *Mesh) SurfaceMaterial(face int32) int32 {
	if !m.validFace(face) {
		return -1
	}
	return m.materials[face]
}

func (m *Mesh) faceVerts(face int32) (a, b, c common.Vec3) {
	i := face * 3
	return m.verts[m.indices[i]], m.verts[m.indices[i+1]], m.verts[m.indices[i+2]]
}

// FaceCenter returns the centroid of the face's three vertices, or the
// zero vector for an out-of-range face.
func (m *Mesh) FaceCenter(face int32) common.Vec3 {
	if !m.validFace(face) {
		return common.Vec3{}
	}
	a, b, c := m.faceVerts(face)
	return a.Add(b).Add(c).Mul(1.0 / 3.0)
}

// AdjacentFaces decodes the up-to-three neighbor faces of a face, one
// per edge, -1 where there is no neighbor.
func (m *Mesh) AdjacentFaces(face int32) [3]int32 {
	out := [3]int32{NoFace, NoFace, NoFace}
	if !m.validFace(face) {
		return out
	}
	for e := int32(0); e < 3; e++ {
		if slot := m.adjacency[face*3+e]; slot >= 0 {
			out[e] = slot / 3
		}
	}
	return out
}

// Bounds returns the axis-aligned box covering the whole mesh. ok is
// false for an empty mesh.
func (m *Mesh) Bounds() (bmin, bmax common.Vec3, ok bool) {
	if m.tree == nil || m.tree.root < 0 {
		return common.Vec3{}, common.Vec3{}, false
	}
	root := &m.tree.nodes[m.tree.root]
	return root.bmin, root.bmax, true
}

// RandomWalkablePoint picks a uniformly distributed point on the
// walkable surface using area-weighted reservoir sampling over the
// walkable faces. ok is false when the mesh has no walkable area.
func (m *Mesh) RandomWalkablePoint(rng *rand.Rand) (pt common.Vec3, ok bool) {
	chosen := NoFace
	areaSum := 0.0
	for f := int32(0); f < m.faceCount; f++ {
		if !m.IsWalkable(f) {
			continue
		}
		a, b, c := m.faceVerts(f)
		area := math.Abs(common.TriArea2D(a, b, c)) * 0.5
		if area <= 0 {
			continue
		}
		areaSum += area
		if rng.Float64()*areaSum <= area {
			chosen = f
		}
	}
	if chosen == NoFace {
		return common.Vec3{}, false
	}
	a, b, c := m.faceVerts(chosen)
	s := math.Sqrt(rng.Float64())
	t := rng.Float64()
	pt = a.Mul(1 - s).Add(b.Mul(s * (1 - t))).Add(c.Mul(s * t))
	return pt, true
}
