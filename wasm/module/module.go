// Package module holds the whole-module aggregate the binary codec produces
// and the interpreter consumes: sections, functions, segments and the
// initializer-expression helper shared by globals and segment offsets.
package module

import (
	"github.com/kjx98/gowasm/wasm"
	"github.com/kjx98/gowasm/wasm/instruction"
)

// SectionID identifies one of the eleven known section kinds, in the
// canonical order they must appear in a module.
type SectionID byte

const (
	SectionCustom   SectionID = 0
	SectionType     SectionID = 1
	SectionImport   SectionID = 2
	SectionFunction SectionID = 3
	SectionTable    SectionID = 4
	SectionMemory   SectionID = 5
	SectionGlobal   SectionID = 6
	SectionExport   SectionID = 7
	SectionStart    SectionID = 8
	SectionElement  SectionID = 9
	SectionCode     SectionID = 10
	SectionData     SectionID = 11
)

// InitExpr is a constant-only instruction sequence used for a global's
// initial value or a segment's offset. Evaluating it on an empty stack must
// leave exactly one value.
type InitExpr struct {
	Instructions []instruction.Instruction
}

// ImportEntry names an import and describes what's being imported, by kind.
type ImportEntry struct {
	Module string
	Field  string
	Kind   wasm.ExternalKind

	FunctionTypeIndex uint32          // valid when Kind == ExternalFunction
	Table             wasm.TableType  // valid when Kind == ExternalTable
	Memory            wasm.MemoryType // valid when Kind == ExternalMemory
	Global            wasm.GlobalType // valid when Kind == ExternalGlobal
}

// ExportEntry names an export and the index, within its kind's combined
// (imports-then-defined) index space, of the entity it refers to.
type ExportEntry struct {
	Field string
	Kind  wasm.ExternalKind
	Index uint32
}

// LocalEntry groups Count locals of the same Kind; several entries may share
// a kind, and Count may legitimately be zero.
type LocalEntry struct {
	Kind  wasm.ValueKind
	Count uint32
}

// Function pairs a type index with its decoded body.
type Function struct {
	TypeIndex    uint32
	Locals       []LocalEntry
	Instructions []instruction.Instruction

	// ExtraPayload holds any bytes of this body's declared length that
	// followed the terminating end, preserved verbatim for lossless
	// round-trip of well-formed-but-unknown-suffix data.
	ExtraPayload []byte
}

// ElementSegment initializes a contiguous run of a table's slots with
// function indices, evaluated at instantiation time.
type ElementSegment struct {
	TableIndex uint32
	Offset     InitExpr
	Elements   []uint32
}

// DataSegment initializes a contiguous range of a memory with literal bytes.
type DataSegment struct {
	MemoryIndex uint32
	Offset      InitExpr
	Data        []byte
}

// CustomSection is a named, opaque section with kind 0; several may appear
// in a single module since, unlike every other kind, repetition is allowed.
type CustomSection struct {
	Name    string
	Payload []byte
}

// Module is the whole decoded file: one slice per known section (empty when
// absent), plus the set of custom sections found, in the order they
// appeared.
type Module struct {
	Types    []wasm.FuncType
	Imports  []ImportEntry
	Funcs    []uint32 // Function section: type index per module-defined function
	Tables   []wasm.TableType
	Memories []wasm.MemoryType
	Globals  []GlobalEntry
	Exports  []ExportEntry

	HasStart bool
	Start    uint32

	Elements []ElementSegment
	Code     []Function // one per entry in Funcs, in order
	Data     []DataSegment

	Customs []CustomSection

	// SectionExtra retains, per known SectionID, any bytes beyond what that
	// section's decoder consumed against its declared payload_length. Index
	// by SectionID; nil when nothing extra was present.
	SectionExtra map[SectionID][]byte
}

// GlobalEntry is a module-defined global: its type plus the initializer
// expression establishing its starting value.
type GlobalEntry struct {
	Type GlobalType
	Init InitExpr
}

// GlobalType is an alias kept local to this package's own GlobalEntry for
// symmetry with the other *Entry types; it is identical to wasm.GlobalType.
type GlobalType = wasm.GlobalType

// New returns an empty module with its extras map ready to populate.
func New() *Module {
	return &Module{SectionExtra: map[SectionID][]byte{}}
}
