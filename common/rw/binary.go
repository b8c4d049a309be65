package rw

import (
	"bytes"
	"encoding/binary"
	"math"
)

// ReaderWriter is a little-endian binary codec used for the walkmesh
// snapshot format. Read methods panic on short data; callers recover
// at the codec boundary.
type ReaderWriter struct {
	order   binary.ByteOrder
	dataBuf []byte
	rw      bytes.Buffer
}

func NewSnapshotBinWriter() *ReaderWriter {
	return &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
}

func NewSnapshotBinReader(data []byte) *ReaderWriter {
	d := &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
	d.rw.Write(data)
	return d
}

func (w *ReaderWriter) ReadUInt32() uint32 {
	n, err := w.rw.Read(w.dataBuf[:4])
	if err != nil || n != 4 {
		panic("short read")
	}
	return w.order.Uint32(w.dataBuf[:4])
}

func (w *ReaderWriter) ReadInt32() int32 {
	return int32(w.ReadUInt32())
}

func (w *ReaderWriter) ReadInt32s(value []int32) {
	for i := range value {
		value[i] = w.ReadInt32()
	}
}

func (w *ReaderWriter) ReadFloat64() float64 {
	n, err := w.rw.Read(w.dataBuf[:8])
	if err != nil || n != 8 {
		panic("short read")
	}
	return math.Float64frombits(w.order.Uint64(w.dataBuf[:8]))
}

func (w *ReaderWriter) ReadFloat64s(value []float64) {
	for i := range value {
		value[i] = w.ReadFloat64()
	}
}

func (w *ReaderWriter) WriteUInt32(value uint32) {
	w.order.PutUint32(w.dataBuf[:4], value)
	w.rw.Write(w.dataBuf[:4])
}

func (w *ReaderWriter) WriteInt32(value int32) {
	w.WriteUInt32(uint32(value))
}

func (w *ReaderWriter) WriteInt32s(value []int32) {
	for _, v := range value {
		w.WriteInt32(v)
	}
}

func (w *ReaderWriter) WriteFloat64(value float64) {
	w.order.PutUint64(w.dataBuf[:8], math.Float64bits(value))
	w.rw.Write(w.dataBuf[:8])
}

func (w *ReaderWriter) WriteFloat64s(value []float64) {
	for _, v := range value {
		w.WriteFloat64(v)
	}
}

func (w *ReaderWriter) GetWriteBytes() []byte {
	return w.rw.Bytes()
}
