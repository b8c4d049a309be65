package walkmesh

import (
	"fmt"

	"gowalkmesh/common"
)

// The tree is stored as an arena of nodes addressed by index, with -1
// as the absent-child sentinel. A leaf holds one face index; an
// internal node holds NoFace and two children.

// Degenerate face sets stop subdividing at this depth; a multi-face
// set at the cap collapses to a leaf with a representative face, so
// such faces are findable only by the brute-force scan.
const maxBVDepth = 32

type bvNode struct {
	bmin, bmax common.Vec3
	face       int32
	left       int32
	right      int32
}

func (n *bvNode) isLeaf() bool {
	return n.left < 0 && n.right < 0
}

type bvTree struct {
	nodes []bvNode
	root  int32
}

// FlatNode is the exchange form of a bounding-volume node: node 0 is
// the root, child indices use -1 for "no child", and Face is -1 on
// internal nodes.
type FlatNode struct {
	BMin, BMax common.Vec3
	Face       int32
	Left       int32
	Right      int32
}

func buildBVTree(m *Mesh) *bvTree {
	if m.faceCount == 0 {
		return nil
	}
	faces := make([]int32, m.faceCount)
	for i := range faces {
		faces[i] = int32(i)
	}
	t := &bvTree{nodes: make([]bvNode, 0, m.faceCount*2)}
	t.root = t.subdivide(m, faces, 0)
	return t
}

func (t *bvTree) subdivide(m *Mesh, faces []int32, depth int) int32 {
	bmin, bmax := m.faceSetBounds(faces)
	idx := int32(len(t.nodes))
	if len(faces) == 1 || depth >= maxBVDepth {
		t.nodes = append(t.nodes, bvNode{bmin: bmin, bmax: bmax, face: faces[0], left: -1, right: -1})
		return idx
	}
	t.nodes = append(t.nodes, bvNode{bmin: bmin, bmax: bmax, face: NoFace, left: -1, right: -1})

	left, right := m.partitionFaces(faces, bmin, bmax)
	l := t.subdivide(m, left, depth+1)
	r := t.subdivide(m, right, depth+1)
	t.nodes[idx].left = l
	t.nodes[idx].right = r
	return idx
}

// partitionFaces splits a face set at the midpoint of the box's
// longest axis, comparing face centroids. A degenerate split retries
// the remaining axes; if every axis degenerates the set is cut in half
// by input order so the recursion always makes progress.
func (m *Mesh) partitionFaces(faces []int32, bmin, bmax common.Vec3) (left, right []int32) {
	ext := bmax.Sub(bmin)
	axis := longestAxis(ext)
	for try := 0; try < 3; try++ {
		a := (axis + try) % 3
		split := (bmin[a] + bmax[a]) * 0.5
		var l, r []int32
		for _, f := range faces {
			if m.FaceCenter(f)[a] < split {
				l = append(l, f)
			} else {
				r = append(r, f)
			}
		}
		if len(l) > 0 && len(r) > 0 {
			return l, r
		}
	}
	half := len(faces) / 2
	return faces[:half], faces[half:]
}

func longestAxis(ext common.Vec3) int {
	axis := 0
	maxVal := ext[0]
	if ext[1] > maxVal {
		axis = 1
		maxVal = ext[1]
	}
	if ext[2] > maxVal {
		axis = 2
	}
	return axis
}

func (m *Mesh) faceSetBounds(faces []int32) (bmin, bmax common.Vec3) {
	a, b, c := m.faceVerts(faces[0])
	bmin, bmax = a, a
	bmin = common.Vmin(common.Vmin(bmin, b), c)
	bmax = common.Vmax(common.Vmax(bmax, b), c)
	for _, f := range faces[1:] {
		a, b, c = m.faceVerts(f)
		bmin = common.Vmin(common.Vmin(common.Vmin(bmin, a), b), c)
		bmax = common.Vmax(common.Vmax(common.Vmax(bmax, a), b), c)
	}
	return bmin, bmax
}

// linkFlatTree adopts a pre-supplied flat node array. The array must
// form a tree rooted at node 0: child indices in range, no node
// referenced twice, leaf faces in range.
func linkFlatTree(flat []FlatNode, faceCount int32) (*bvTree, error) {
	n := int32(len(flat))
	t := &bvTree{nodes: make([]bvNode, n), root: 0}
	for i, fn := range flat {
		if fn.Left < -1 || fn.Left >= n || fn.Right < -1 || fn.Right >= n {
			return nil, fmt.Errorf("%w: node %d child out of range", ErrBadFlatTree, i)
		}
		if fn.Left < 0 && fn.Right < 0 {
			if fn.Face < 0 || fn.Face >= faceCount {
				return nil, fmt.Errorf("%w: leaf %d face %d out of range", ErrBadFlatTree, i, fn.Face)
			}
		}
		t.nodes[i] = bvNode{bmin: fn.BMin, bmax: fn.BMax, face: fn.Face, left: fn.Left, right: fn.Right}
	}

	// Reject cycles and shared children with a rooted walk.
	seen := make([]bool, n)
	stack := []int32{0}
	seen[0] = true
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range [2]int32{t.nodes[i].left, t.nodes[i].right} {
			if child < 0 {
				continue
			}
			if child == 0 || seen[child] {
				return nil, fmt.Errorf("%w: node %d referenced twice", ErrBadFlatTree, child)
			}
			seen[child] = true
			stack = append(stack, child)
		}
	}
	return t, nil
}

// FlatTree exports the bounding-volume tree in the same flat form
// accepted by WithFlatTree. Nil for an empty mesh.
func (m *Mesh) FlatTree() []FlatNode {
	if m.tree == nil {
		return nil
	}
	out := make([]FlatNode, len(m.tree.nodes))
	for i, n := range m.tree.nodes {
		out[i] = FlatNode{BMin: n.bmin, BMax: n.bmax, Face: n.face, Left: n.left, Right: n.right}
	}
	return out
}
