// Package interpreter instantiates decoded modules against an importer and
// executes their functions with a recursive tree-walking, stack-machine
// evaluator.
package interpreter

import (
	"encoding/binary"
	"math"

	"github.com/kjx98/gowasm/wasm"
)

// LinearMemory is a growable byte buffer plus the type it was declared
// with. Grow is capped by Type.Limits.Maximum, in pages.
type LinearMemory struct {
	Type wasm.MemoryType
	data []byte
}

// NewLinearMemory allocates a memory at its declared initial size.
func NewLinearMemory(t wasm.MemoryType) *LinearMemory {
	return &LinearMemory{Type: t, data: make([]byte, uint64(t.Limits.Initial)*wasm.PageSize)}
}

// SizePages returns the current size in 64KiB pages.
func (m *LinearMemory) SizePages() uint32 {
	return uint32(len(m.data) / wasm.PageSize)
}

// SizeBytes returns the current size in bytes.
func (m *LinearMemory) SizeBytes() uint32 {
	return uint32(len(m.data))
}

// Grow attempts to add deltaPages pages, capped by the memory's declared
// maximum. On success it returns the previous size in pages; on failure (the
// request would exceed the maximum) it returns -1 and leaves the memory
// unchanged.
func (m *LinearMemory) Grow(deltaPages uint32) int32 {
	previous := m.SizePages()
	newPages := uint64(previous) + uint64(deltaPages)
	if m.Type.Limits.HasMaximum && newPages > uint64(m.Type.Limits.Maximum) {
		return -1
	}
	// The binary format's page count is a uint32; an implementation-defined
	// hard ceiling avoids pretending an unbounded allocation would succeed.
	if newPages > 65536 {
		return -1
	}
	m.data = append(m.data, make([]byte, uint64(deltaPages)*wasm.PageSize)...)
	return int32(previous)
}

func (m *LinearMemory) bounds(offset, width uint32) bool {
	end := uint64(offset) + uint64(width)
	return end <= uint64(len(m.data))
}

// ReadByte reads a single byte at offset, or reports out of bounds.
func (m *LinearMemory) ReadByte(offset uint32) (byte, bool) {
	if !m.bounds(offset, 1) {
		return 0, false
	}
	return m.data[offset], true
}

// WriteByte writes a single byte at offset, or reports out of bounds.
func (m *LinearMemory) WriteByte(offset uint32, v byte) bool {
	if !m.bounds(offset, 1) {
		return false
	}
	m.data[offset] = v
	return true
}

// ReadUint16 reads a little-endian uint16 at offset.
func (m *LinearMemory) ReadUint16(offset uint32) (uint16, bool) {
	if !m.bounds(offset, 2) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(m.data[offset:]), true
}

// WriteUint16 writes a little-endian uint16 at offset.
func (m *LinearMemory) WriteUint16(offset uint32, v uint16) bool {
	if !m.bounds(offset, 2) {
		return false
	}
	binary.LittleEndian.PutUint16(m.data[offset:], v)
	return true
}

// ReadUint32 reads a little-endian uint32 at offset.
func (m *LinearMemory) ReadUint32(offset uint32) (uint32, bool) {
	if !m.bounds(offset, 4) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(m.data[offset:]), true
}

// WriteUint32 writes a little-endian uint32 at offset.
func (m *LinearMemory) WriteUint32(offset uint32, v uint32) bool {
	if !m.bounds(offset, 4) {
		return false
	}
	binary.LittleEndian.PutUint32(m.data[offset:], v)
	return true
}

// ReadUint64 reads a little-endian uint64 at offset.
func (m *LinearMemory) ReadUint64(offset uint32) (uint64, bool) {
	if !m.bounds(offset, 8) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(m.data[offset:]), true
}

// WriteUint64 writes a little-endian uint64 at offset.
func (m *LinearMemory) WriteUint64(offset uint32, v uint64) bool {
	if !m.bounds(offset, 8) {
		return false
	}
	binary.LittleEndian.PutUint64(m.data[offset:], v)
	return true
}

// ReadFloat32 reads an IEEE-754 32-bit float at offset.
func (m *LinearMemory) ReadFloat32(offset uint32) (float32, bool) {
	v, ok := m.ReadUint32(offset)
	return math.Float32frombits(v), ok
}

// WriteFloat32 writes an IEEE-754 32-bit float at offset.
func (m *LinearMemory) WriteFloat32(offset uint32, v float32) bool {
	return m.WriteUint32(offset, math.Float32bits(v))
}

// ReadFloat64 reads an IEEE-754 64-bit float at offset.
func (m *LinearMemory) ReadFloat64(offset uint32) (float64, bool) {
	v, ok := m.ReadUint64(offset)
	return math.Float64frombits(v), ok
}

// WriteFloat64 writes an IEEE-754 64-bit float at offset.
func (m *LinearMemory) WriteFloat64(offset uint32, v float64) bool {
	return m.WriteUint64(offset, math.Float64bits(v))
}

// Write copies data into the memory starting at offset, or reports out of
// bounds without copying anything.
func (m *LinearMemory) Write(offset uint32, data []byte) bool {
	if !m.bounds(offset, uint32(len(data))) {
		return false
	}
	copy(m.data[offset:], data)
	return true
}

// Bytes returns the live backing buffer; callers that don't intend to write
// through should copy it.
func (m *LinearMemory) Bytes() []byte { return m.data }
