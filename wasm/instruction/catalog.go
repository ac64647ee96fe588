package instruction

import (
	"fmt"

	"github.com/kjx98/gowasm/wasm"
	"github.com/pkg/errors"
)

// ErrUnknownOpcode is returned by Lookup for any byte value the catalog has
// no entry for.
var ErrUnknownOpcode = errors.New("instruction: unknown opcode")

var catalog map[Opcode]*Operator

func reg(op Opcode, mnemonic string, kind wasm.ValueKind, shape ImmediateShape) {
	catalog[op] = &Operator{Opcode: op, Mnemonic: mnemonic, DeclaringKind: kind, Shape: shape}
}

func init() {
	catalog = make(map[Opcode]*Operator, 200)

	reg(OpUnreachable, "unreachable", 0, ShapeNullary)
	reg(OpNop, "nop", 0, ShapeNullary)
	reg(OpBlock, "block", 0, ShapeBlock)
	reg(OpLoop, "loop", 0, ShapeBlock)
	reg(OpIf, "if", 0, ShapeIfElse)
	reg(OpBr, "br", 0, ShapeVarU32)
	reg(OpBrIf, "br_if", 0, ShapeVarU32)
	reg(OpBrTable, "br_table", 0, ShapeBrTable)
	reg(OpReturn, "return", 0, ShapeNullary)
	reg(OpCall, "call", 0, ShapeVarU32)
	reg(OpCallIndirect, "call_indirect", 0, ShapeCallIndirect)

	reg(OpDrop, "drop", 0, ShapeNullary)
	reg(OpSelect, "select", 0, ShapeNullary)

	reg(OpGetLocal, "get_local", 0, ShapeVarU32)
	reg(OpSetLocal, "set_local", 0, ShapeVarU32)
	reg(OpTeeLocal, "tee_local", 0, ShapeVarU32)
	reg(OpGetGlobal, "get_global", 0, ShapeVarU32)
	reg(OpSetGlobal, "set_global", 0, ShapeVarU32)

	reg(OpI32Load, "i32.load", wasm.ValueI32, ShapeMemory)
	reg(OpI64Load, "i64.load", wasm.ValueI64, ShapeMemory)
	reg(OpF32Load, "f32.load", wasm.ValueF32, ShapeMemory)
	reg(OpF64Load, "f64.load", wasm.ValueF64, ShapeMemory)
	reg(OpI32Load8S, "i32.load8_s", wasm.ValueI32, ShapeMemory)
	reg(OpI32Load8U, "i32.load8_u", wasm.ValueI32, ShapeMemory)
	reg(OpI32Load16S, "i32.load16_s", wasm.ValueI32, ShapeMemory)
	reg(OpI32Load16U, "i32.load16_u", wasm.ValueI32, ShapeMemory)
	reg(OpI64Load8S, "i64.load8_s", wasm.ValueI64, ShapeMemory)
	reg(OpI64Load8U, "i64.load8_u", wasm.ValueI64, ShapeMemory)
	reg(OpI64Load16S, "i64.load16_s", wasm.ValueI64, ShapeMemory)
	reg(OpI64Load16U, "i64.load16_u", wasm.ValueI64, ShapeMemory)
	reg(OpI64Load32S, "i64.load32_s", wasm.ValueI64, ShapeMemory)
	reg(OpI64Load32U, "i64.load32_u", wasm.ValueI64, ShapeMemory)
	reg(OpI32Store, "i32.store", wasm.ValueI32, ShapeMemory)
	reg(OpI64Store, "i64.store", wasm.ValueI64, ShapeMemory)
	reg(OpF32Store, "f32.store", wasm.ValueF32, ShapeMemory)
	reg(OpF64Store, "f64.store", wasm.ValueF64, ShapeMemory)
	reg(OpI32Store8, "i32.store8", wasm.ValueI32, ShapeMemory)
	reg(OpI32Store16, "i32.store16", wasm.ValueI32, ShapeMemory)
	reg(OpI64Store8, "i64.store8", wasm.ValueI64, ShapeMemory)
	reg(OpI64Store16, "i64.store16", wasm.ValueI64, ShapeMemory)
	reg(OpI64Store32, "i64.store32", wasm.ValueI64, ShapeMemory)

	reg(OpCurrentMemory, "current_memory", 0, ShapeVarU32)
	reg(OpGrowMemory, "grow_memory", 0, ShapeVarU32)

	reg(OpI32Const, "i32.const", wasm.ValueI32, ShapeVarI32)
	reg(OpI64Const, "i64.const", wasm.ValueI64, ShapeVarI64)
	reg(OpF32Const, "f32.const", wasm.ValueF32, ShapeF32)
	reg(OpF64Const, "f64.const", wasm.ValueF64, ShapeF64)

	for _, e := range []struct {
		op   Opcode
		name string
		kind wasm.ValueKind
	}{
		{OpI32Eqz, "i32.eqz", wasm.ValueI32}, {OpI32Eq, "i32.eq", wasm.ValueI32}, {OpI32Ne, "i32.ne", wasm.ValueI32},
		{OpI32LtS, "i32.lt_s", wasm.ValueI32}, {OpI32LtU, "i32.lt_u", wasm.ValueI32},
		{OpI32GtS, "i32.gt_s", wasm.ValueI32}, {OpI32GtU, "i32.gt_u", wasm.ValueI32},
		{OpI32LeS, "i32.le_s", wasm.ValueI32}, {OpI32LeU, "i32.le_u", wasm.ValueI32},
		{OpI32GeS, "i32.ge_s", wasm.ValueI32}, {OpI32GeU, "i32.ge_u", wasm.ValueI32},

		{OpI64Eqz, "i64.eqz", wasm.ValueI64}, {OpI64Eq, "i64.eq", wasm.ValueI64}, {OpI64Ne, "i64.ne", wasm.ValueI64},
		{OpI64LtS, "i64.lt_s", wasm.ValueI64}, {OpI64LtU, "i64.lt_u", wasm.ValueI64},
		{OpI64GtS, "i64.gt_s", wasm.ValueI64}, {OpI64GtU, "i64.gt_u", wasm.ValueI64},
		{OpI64LeS, "i64.le_s", wasm.ValueI64}, {OpI64LeU, "i64.le_u", wasm.ValueI64},
		{OpI64GeS, "i64.ge_s", wasm.ValueI64}, {OpI64GeU, "i64.ge_u", wasm.ValueI64},

		{OpF32Eq, "f32.eq", wasm.ValueF32}, {OpF32Ne, "f32.ne", wasm.ValueF32},
		{OpF32Lt, "f32.lt", wasm.ValueF32}, {OpF32Gt, "f32.gt", wasm.ValueF32},
		{OpF32Le, "f32.le", wasm.ValueF32}, {OpF32Ge, "f32.ge", wasm.ValueF32},

		{OpF64Eq, "f64.eq", wasm.ValueF64}, {OpF64Ne, "f64.ne", wasm.ValueF64},
		{OpF64Lt, "f64.lt", wasm.ValueF64}, {OpF64Gt, "f64.gt", wasm.ValueF64},
		{OpF64Le, "f64.le", wasm.ValueF64}, {OpF64Ge, "f64.ge", wasm.ValueF64},

		{OpI32Clz, "i32.clz", wasm.ValueI32}, {OpI32Ctz, "i32.ctz", wasm.ValueI32}, {OpI32Popcnt, "i32.popcnt", wasm.ValueI32},
		{OpI32Add, "i32.add", wasm.ValueI32}, {OpI32Sub, "i32.sub", wasm.ValueI32}, {OpI32Mul, "i32.mul", wasm.ValueI32},
		{OpI32DivS, "i32.div_s", wasm.ValueI32}, {OpI32DivU, "i32.div_u", wasm.ValueI32},
		{OpI32RemS, "i32.rem_s", wasm.ValueI32}, {OpI32RemU, "i32.rem_u", wasm.ValueI32},
		{OpI32And, "i32.and", wasm.ValueI32}, {OpI32Or, "i32.or", wasm.ValueI32}, {OpI32Xor, "i32.xor", wasm.ValueI32},
		{OpI32Shl, "i32.shl", wasm.ValueI32}, {OpI32ShrS, "i32.shr_s", wasm.ValueI32}, {OpI32ShrU, "i32.shr_u", wasm.ValueI32},
		{OpI32Rotl, "i32.rotl", wasm.ValueI32}, {OpI32Rotr, "i32.rotr", wasm.ValueI32},

		{OpI64Clz, "i64.clz", wasm.ValueI64}, {OpI64Ctz, "i64.ctz", wasm.ValueI64}, {OpI64Popcnt, "i64.popcnt", wasm.ValueI64},
		{OpI64Add, "i64.add", wasm.ValueI64}, {OpI64Sub, "i64.sub", wasm.ValueI64}, {OpI64Mul, "i64.mul", wasm.ValueI64},
		{OpI64DivS, "i64.div_s", wasm.ValueI64}, {OpI64DivU, "i64.div_u", wasm.ValueI64},
		{OpI64RemS, "i64.rem_s", wasm.ValueI64}, {OpI64RemU, "i64.rem_u", wasm.ValueI64},
		{OpI64And, "i64.and", wasm.ValueI64}, {OpI64Or, "i64.or", wasm.ValueI64}, {OpI64Xor, "i64.xor", wasm.ValueI64},
		{OpI64Shl, "i64.shl", wasm.ValueI64}, {OpI64ShrS, "i64.shr_s", wasm.ValueI64}, {OpI64ShrU, "i64.shr_u", wasm.ValueI64},
		{OpI64Rotl, "i64.rotl", wasm.ValueI64}, {OpI64Rotr, "i64.rotr", wasm.ValueI64},

		{OpF32Abs, "f32.abs", wasm.ValueF32}, {OpF32Neg, "f32.neg", wasm.ValueF32},
		{OpF32Ceil, "f32.ceil", wasm.ValueF32}, {OpF32Floor, "f32.floor", wasm.ValueF32},
		{OpF32Trunc, "f32.trunc", wasm.ValueF32}, {OpF32Nearest, "f32.nearest", wasm.ValueF32},
		{OpF32Sqrt, "f32.sqrt", wasm.ValueF32}, {OpF32Add, "f32.add", wasm.ValueF32}, {OpF32Sub, "f32.sub", wasm.ValueF32},
		{OpF32Mul, "f32.mul", wasm.ValueF32}, {OpF32Div, "f32.div", wasm.ValueF32},
		{OpF32Min, "f32.min", wasm.ValueF32}, {OpF32Max, "f32.max", wasm.ValueF32}, {OpF32Copysign, "f32.copysign", wasm.ValueF32},

		{OpF64Abs, "f64.abs", wasm.ValueF64}, {OpF64Neg, "f64.neg", wasm.ValueF64},
		{OpF64Ceil, "f64.ceil", wasm.ValueF64}, {OpF64Floor, "f64.floor", wasm.ValueF64},
		{OpF64Trunc, "f64.trunc", wasm.ValueF64}, {OpF64Nearest, "f64.nearest", wasm.ValueF64},
		{OpF64Sqrt, "f64.sqrt", wasm.ValueF64}, {OpF64Add, "f64.add", wasm.ValueF64}, {OpF64Sub, "f64.sub", wasm.ValueF64},
		{OpF64Mul, "f64.mul", wasm.ValueF64}, {OpF64Div, "f64.div", wasm.ValueF64},
		{OpF64Min, "f64.min", wasm.ValueF64}, {OpF64Max, "f64.max", wasm.ValueF64}, {OpF64Copysign, "f64.copysign", wasm.ValueF64},

		{OpI32WrapI64, "i32.wrap/i64", wasm.ValueI32},
		{OpI32TruncSF32, "i32.trunc_s/f32", wasm.ValueI32}, {OpI32TruncUF32, "i32.trunc_u/f32", wasm.ValueI32},
		{OpI32TruncSF64, "i32.trunc_s/f64", wasm.ValueI32}, {OpI32TruncUF64, "i32.trunc_u/f64", wasm.ValueI32},
		{OpI64ExtendSI32, "i64.extend_s/i32", wasm.ValueI64}, {OpI64ExtendUI32, "i64.extend_u/i32", wasm.ValueI64},
		{OpI64TruncSF32, "i64.trunc_s/f32", wasm.ValueI64}, {OpI64TruncUF32, "i64.trunc_u/f32", wasm.ValueI64},
		{OpI64TruncSF64, "i64.trunc_s/f64", wasm.ValueI64}, {OpI64TruncUF64, "i64.trunc_u/f64", wasm.ValueI64},
		{OpF32ConvertSI32, "f32.convert_s/i32", wasm.ValueF32}, {OpF32ConvertUI32, "f32.convert_u/i32", wasm.ValueF32},
		{OpF32ConvertSI64, "f32.convert_s/i64", wasm.ValueF32}, {OpF32ConvertUI64, "f32.convert_u/i64", wasm.ValueF32},
		{OpF32DemoteF64, "f32.demote/f64", wasm.ValueF32},
		{OpF64ConvertSI32, "f64.convert_s/i32", wasm.ValueF64}, {OpF64ConvertUI32, "f64.convert_u/i32", wasm.ValueF64},
		{OpF64ConvertSI64, "f64.convert_s/i64", wasm.ValueF64}, {OpF64ConvertUI64, "f64.convert_u/i64", wasm.ValueF64},
		{OpF64PromoteF32, "f64.promote/f32", wasm.ValueF64},
		{OpI32ReinterpretF32, "i32.reinterpret/f32", wasm.ValueI32},
		{OpI64ReinterpretF64, "i64.reinterpret/f64", wasm.ValueI64},
		{OpF32ReinterpretI32, "f32.reinterpret/i32", wasm.ValueF32},
		{OpF64ReinterpretI64, "f64.reinterpret/i64", wasm.ValueF64},
	} {
		reg(e.op, e.name, e.kind, ShapeNullary)
	}

	if len(catalog) < 150 {
		panic(fmt.Sprintf("instruction: catalog under-populated: %d entries", len(catalog)))
	}
}

// Lookup returns the operator descriptor for opcode, or ErrUnknownOpcode if
// none is registered. 0x05 (else) and 0x0B (end) never resolve here: callers
// must special-case them as structural markers before calling Lookup.
func Lookup(op Opcode) (*Operator, error) {
	if o, ok := catalog[op]; ok {
		return o, nil
	}
	return nil, errors.Wrapf(ErrUnknownOpcode, "opcode %#x", byte(op))
}

// Count returns the number of distinct operators in the catalog, mostly
// useful for diagnostics and tests asserting catalog completeness.
func Count() int { return len(catalog) }
