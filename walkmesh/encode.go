package walkmesh

import (
	"fmt"

	"gowalkmesh/common"
	"gowalkmesh/common/rw"
)

// Engine-internal snapshot of a constructed mesh. Restoring a snapshot
// skips the adjacency and tree builds. This is not the game's on-disk
// walkmesh format; loading that belongs to an external collaborator.

const (
	snapshotMagic   = uint32(0x48534D57) // "WMSH"
	snapshotVersion = uint32(1)
)

// Snapshot serializes the mesh, including adjacency and the flat
// bounding-volume node array, into the engine's binary snapshot form.
func (m *Mesh) Snapshot() []byte {
	w := rw.NewSnapshotBinWriter()
	w.WriteUInt32(snapshotMagic)
	w.WriteUInt32(snapshotVersion)

	nodes := m.FlatTree()
	w.WriteInt32(int32(len(m.verts)))
	w.WriteInt32(m.faceCount)
	w.WriteInt32(int32(len(nodes)))

	for i := range m.verts {
		w.WriteFloat64s(m.verts[i][:])
	}
	w.WriteInt32s(m.indices)
	w.WriteInt32s(m.materials)
	w.WriteInt32s(m.adjacency)
	for i := range nodes {
		w.WriteFloat64s(nodes[i].BMin[:])
		w.WriteFloat64s(nodes[i].BMax[:])
		w.WriteInt32(nodes[i].Face)
		w.WriteInt32(nodes[i].Left)
		w.WriteInt32(nodes[i].Right)
	}
	return w.GetWriteBytes()
}

// DecodeSnapshot reconstructs a mesh from snapshot data. Truncated or
// corrupt data yields ErrBadSnapshot.
func DecodeSnapshot(table *MaterialTable, data []byte) (m *Mesh, err error) {
	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = fmt.Errorf("%w: truncated data", ErrBadSnapshot)
		}
	}()
	r := rw.NewSnapshotBinReader(data)
	if r.ReadUInt32() != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrBadSnapshot)
	}
	if v := r.ReadUInt32(); v != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, v)
	}

	vertCount := r.ReadInt32()
	faceCount := r.ReadInt32()
	nodeCount := r.ReadInt32()
	if vertCount < 0 || faceCount < 0 || nodeCount < 0 {
		return nil, fmt.Errorf("%w: negative count", ErrBadSnapshot)
	}

	verts := make([]common.Vec3, vertCount)
	for i := range verts {
		r.ReadFloat64s(verts[i][:])
	}
	indices := make([]int32, faceCount*3)
	r.ReadInt32s(indices)
	materials := make([]int32, faceCount)
	r.ReadInt32s(materials)
	adjacency := make([]int32, faceCount*3)
	r.ReadInt32s(adjacency)

	nodes := make([]FlatNode, nodeCount)
	for i := range nodes {
		r.ReadFloat64s(nodes[i].BMin[:])
		r.ReadFloat64s(nodes[i].BMax[:])
		nodes[i].Face = r.ReadInt32()
		nodes[i].Left = r.ReadInt32()
		nodes[i].Right = r.ReadInt32()
	}

	opts := []Option{WithAdjacency(adjacency)}
	if nodeCount > 0 {
		opts = append(opts, WithFlatTree(nodes))
	}
	mesh, err := NewMesh(table, verts, indices, materials, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	return mesh, nil
}
