package instruction

import "github.com/kjx98/gowasm/wasm"

// ImmediateShape classifies how an operator's immediates are laid out on the
// wire, per spec.md §4.2.
type ImmediateShape int

const (
	ShapeNullary ImmediateShape = iota
	ShapeVarU32                 // local/global index, branch depth, function index
	ShapeVarI32                 // i32.const
	ShapeVarI64                 // i64.const
	ShapeF32                    // f32.const
	ShapeF64                    // f64.const
	ShapeMemory                 // typed loads/stores: (log2align, offset)
	ShapeCallIndirect           // (type_index, reserved)
	ShapeBlock                  // block / loop
	ShapeIfElse                 // if/else
	ShapeBrTable                // br_table
)

// Operator is the immutable descriptor for one opcode: its mnemonic, the
// value kind it's declared against (zero for structural/polymorphic
// operators such as drop or call), and the shape of its immediates.
//
// The catalog is the single source of truth for which opcodes exist; the
// interpreter never special-cases an opcode it didn't get from here.
type Operator struct {
	Opcode        Opcode
	Mnemonic      string
	DeclaringKind wasm.ValueKind // zero value when the operator has none
	Shape         ImmediateShape
}

// HasDeclaringKind reports whether this operator is declared against one of
// the four scalar kinds (e.g. i32.add, or a conversion such as
// i64.extend_s/i32, which the catalog declares against its result kind) as
// opposed to a structural or polymorphic operator (e.g. call, select).
func (o *Operator) HasDeclaringKind() bool {
	switch o.DeclaringKind {
	case wasm.ValueI32, wasm.ValueI64, wasm.ValueF32, wasm.ValueF64:
		return true
	default:
		return false
	}
}
