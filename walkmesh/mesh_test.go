package walkmesh

import (
	"errors"
	"math/rand"
	"testing"

	"gowalkmesh/common"
)

func assertTrue(t *testing.T, value bool, msg string) {
	if !value {
		t.Error(msg)
	}
}

func vec(x, y, z float64) common.Vec3 {
	return common.Vec3{x, y, z}
}

// quadMesh is a unit square split into two stone triangles sharing the
// diagonal (v0, v2).
func quadMesh(t *testing.T) *Mesh {
	verts := []common.Vec3{vec(0, 0, 0), vec(1, 0, 0), vec(1, 1, 0), vec(0, 1, 0)}
	indices := []int32{0, 1, 2, 0, 2, 3}
	materials := []int32{MatStone, MatStone}
	m, err := NewMesh(nil, verts, indices, materials)
	if err != nil {
		t.Fatalf("quad mesh: %v", err)
	}
	return m
}

// gridMesh covers [0,nx]x[0,ny] at z=0 with two stone triangles per
// unit cell. Cell (cx,cy) produces faces (cy*nx+cx)*2 and +1.
func gridMesh(t *testing.T, nx, ny int) *Mesh {
	var verts []common.Vec3
	for iy := 0; iy <= ny; iy++ {
		for ix := 0; ix <= nx; ix++ {
			verts = append(verts, vec(float64(ix), float64(iy), 0))
		}
	}
	vid := func(ix, iy int) int32 { return int32(iy*(nx+1) + ix) }
	var indices []int32
	var materials []int32
	for cy := 0; cy < ny; cy++ {
		for cx := 0; cx < nx; cx++ {
			v00 := vid(cx, cy)
			v10 := vid(cx+1, cy)
			v11 := vid(cx+1, cy+1)
			v01 := vid(cx, cy+1)
			indices = append(indices, v00, v10, v11)
			indices = append(indices, v00, v11, v01)
			materials = append(materials, MatStone, MatStone)
		}
	}
	m, err := NewMesh(nil, verts, indices, materials)
	if err != nil {
		t.Fatalf("grid mesh: %v", err)
	}
	return m
}

func TestNewMeshValidation(t *testing.T) {
	verts := []common.Vec3{vec(0, 0, 0), vec(1, 0, 0), vec(0, 1, 0)}

	_, err := NewMesh(nil, verts, []int32{0, 1}, nil)
	assertTrue(t, errors.Is(err, ErrBadIndexCount), "index count not a multiple of 3")

	_, err = NewMesh(nil, verts, []int32{0, 1, 3}, []int32{MatStone})
	assertTrue(t, errors.Is(err, ErrVertexIndexRange), "vertex index out of range")

	_, err = NewMesh(nil, verts, []int32{0, 1, -1}, []int32{MatStone})
	assertTrue(t, errors.Is(err, ErrVertexIndexRange), "negative vertex index")

	_, err = NewMesh(nil, verts, []int32{0, 1, 2}, nil)
	assertTrue(t, errors.Is(err, ErrBadArrayLength), "materials length mismatch")

	_, err = NewMesh(nil, verts, []int32{0, 1, 2}, []int32{MatStone}, WithAdjacency([]int32{-1}))
	assertTrue(t, errors.Is(err, ErrBadArrayLength), "adjacency length mismatch")
}

func TestEmptyMesh(t *testing.T) {
	m, err := NewMesh(nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("empty mesh must construct: %v", err)
	}
	assertTrue(t, m.FaceCount() == 0, "empty mesh has no faces")
	assertTrue(t, m.WalkableFaceCount() == 0, "empty mesh has no walkable faces")
	assertTrue(t, m.FindFaceAt(vec(0, 0, 0)) == NoFace, "face lookup on empty mesh")

	_, ok := m.Raycast(vec(0, 0, 5), vec(0, 0, -1), 10)
	assertTrue(t, !ok, "raycast on empty mesh")

	assertTrue(t, m.FindPath(vec(0, 0, 0), vec(1, 1, 0)) == nil, "path on empty mesh")

	_, _, ok = m.ProjectToSurface(vec(0, 0, 0))
	assertTrue(t, !ok, "projection on empty mesh")

	_, _, ok = m.Bounds()
	assertTrue(t, !ok, "bounds on empty mesh")
}

func TestMeshAccessors(t *testing.T) {
	m := quadMesh(t)
	assertTrue(t, m.FaceCount() == 2, "two faces")
	assertTrue(t, m.WalkableFaceCount() == 2, "both faces walkable")
	assertTrue(t, m.IsWalkable(0) && m.IsWalkable(1), "stone is walkable")
	assertTrue(t, !m.IsWalkable(-1) && !m.IsWalkable(2), "out of range is non-walkable")
	assertTrue(t, m.SurfaceMaterial(0) == MatStone, "surface material")
	assertTrue(t, m.SurfaceMaterial(9) == -1, "out of range material is -1")

	center := m.FaceCenter(0)
	want := vec(2.0/3.0, 1.0/3.0, 0)
	assertTrue(t, center.Sub(want).Len() < 1e-12, "face 0 centroid")

	bmin, bmax, ok := m.Bounds()
	assertTrue(t, ok, "bounds present")
	assertTrue(t, bmin == vec(0, 0, 0) && bmax == vec(1, 1, 0), "bounds cover the quad")
}

func TestRandomWalkablePoint(t *testing.T) {
	m := gridMesh(t, 3, 3)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		pt, ok := m.RandomWalkablePoint(rng)
		assertTrue(t, ok, "walkable surface exists")
		face := m.FindFaceAt(pt)
		assertTrue(t, face != NoFace, "sampled point is on the mesh")
		assertTrue(t, m.IsWalkable(face), "sampled point is walkable")
	}

	empty, err := NewMesh(nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("empty mesh: %v", err)
	}
	_, ok := empty.RandomWalkablePoint(rng)
	assertTrue(t, !ok, "no sample from an empty mesh")
}

func TestMaterialTable(t *testing.T) {
	table := DefaultMaterialTable()
	assertTrue(t, table.Walkable(MatStone), "stone walkable")
	assertTrue(t, !table.Walkable(MatLava), "lava non-walkable")
	assertTrue(t, !table.Walkable(-1), "negative code fails closed")
	assertTrue(t, !table.Walkable(31), "out-of-domain code fails closed")
	assertTrue(t, table.Cost(MatStone) == 1.0, "normal terrain cost")
	assertTrue(t, table.Cost(MatWater) == 1.5, "water cost")
	assertTrue(t, table.Cost(MatDeepWater) == 10.0, "deep water cost")

	table.SetCost(MatGrass, 0.5)
	assertTrue(t, table.Cost(MatGrass) == 1.0, "cost factors clamp at 1")
}
