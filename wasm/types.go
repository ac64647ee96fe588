// Package wasm holds the scalar value/type model shared by the binary
// codec, the instruction catalog, and the interpreter: value kinds,
// resizable limits, and memory/table/function/global types. The module
// aggregate itself lives in package wasm/module.
package wasm

import "fmt"

// ValueKind is one of the four WebAssembly 1.0 scalar value types. The
// encoded byte values match the binary format's value-type tags so decoders
// can cast directly.
type ValueKind byte

const (
	ValueI32 ValueKind = 0x7f
	ValueI64 ValueKind = 0x7e
	ValueF32 ValueKind = 0x7d
	ValueF64 ValueKind = 0x7c
)

func (k ValueKind) String() string {
	switch k {
	case ValueI32:
		return "i32"
	case ValueI64:
		return "i64"
	case ValueF32:
		return "f32"
	case ValueF64:
		return "f64"
	default:
		return fmt.Sprintf("valuekind(%#x)", byte(k))
	}
}

// BlockKind is the value-type tag of a block/loop/if, with the addition of
// BlockEmpty ("no result") which a bare ValueKind cannot express.
type BlockKind int32

const (
	BlockEmpty BlockKind = -0x40
	BlockI32   BlockKind = BlockKind(ValueI32) - 0x80
	BlockI64   BlockKind = BlockKind(ValueI64) - 0x80
	BlockF32   BlockKind = BlockKind(ValueF32) - 0x80
	BlockF64   BlockKind = BlockKind(ValueF64) - 0x80
)

// NewBlockKind converts the varint7 read straight off the wire into a
// BlockKind. MVP block types are encoded as the negative one-byte forms of
// the value types, or 0x40 for empty.
func NewBlockKind(raw int32) BlockKind {
	return BlockKind(raw)
}

// Results reports the block's result types, if any.
func (b BlockKind) Results() []ValueKind {
	switch b {
	case BlockEmpty:
		return nil
	case BlockI32:
		return []ValueKind{ValueI32}
	case BlockI64:
		return []ValueKind{ValueI64}
	case BlockF32:
		return []ValueKind{ValueF32}
	case BlockF64:
		return []ValueKind{ValueF64}
	default:
		return nil
	}
}

// ResizableLimits bounds the growth of a memory or table.
type ResizableLimits struct {
	Initial uint32
	Maximum uint32 // only meaningful when HasMaximum is true
	HasMaximum bool
}

func (l ResizableLimits) String() string {
	if l.HasMaximum {
		return fmt.Sprintf("%d %d", l.Initial, l.Maximum)
	}
	return fmt.Sprintf("%d", l.Initial)
}

// MemoryType describes a linear memory: its size is measured in 64KiB pages.
type MemoryType struct {
	Limits ResizableLimits
}

// PageSize is the fixed size of a WebAssembly linear memory page.
const PageSize = 65536

// TableType describes a function table. MVP supports only the anyfunc
// element type, so ElemKind is retained only for round-tripping the byte.
type TableType struct {
	ElemKind byte // always 0x70 (anyfunc) in MVP
	Limits   ResizableLimits
}

// FuncType is a function signature. MVP functions return at most one value,
// but the model keeps a sequence since the binary format does too.
type FuncType struct {
	Params  []ValueKind
	Results []ValueKind
}

func (f *FuncType) String() string {
	s := "(func"
	if len(f.Params) > 0 {
		s += " (param"
		for _, p := range f.Params {
			s += " " + p.String()
		}
		s += ")"
	}
	if len(f.Results) > 0 {
		s += " (result"
		for _, r := range f.Results {
			s += " " + r.String()
		}
		s += ")"
	}
	return s + ")"
}

// Equal reports whether two signatures have identical params and results,
// used by call_indirect's signature check.
func (f *FuncType) Equal(o *FuncType) bool {
	if f == o {
		return true
	}
	if f == nil || o == nil {
		return false
	}
	return kindsEqual(f.Params, o.Params) && kindsEqual(f.Results, o.Results)
}

func kindsEqual(a, b []ValueKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GlobalType describes a global variable's value kind and mutability.
type GlobalType struct {
	Content ValueKind
	Mutable bool
}

// ExternalKind classifies an import or export.
type ExternalKind byte

const (
	ExternalFunction ExternalKind = 0
	ExternalTable    ExternalKind = 1
	ExternalMemory   ExternalKind = 2
	ExternalGlobal   ExternalKind = 3
)

func (k ExternalKind) String() string {
	switch k {
	case ExternalFunction:
		return "func"
	case ExternalTable:
		return "table"
	case ExternalMemory:
		return "memory"
	case ExternalGlobal:
		return "global"
	default:
		return fmt.Sprintf("external(%#x)", byte(k))
	}
}
