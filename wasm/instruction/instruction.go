package instruction

import "github.com/kjx98/gowasm/wasm"

// Instruction is a tagged-union handle: the operator it was built from, plus
// whichever concrete Immediate variant that operator's shape requires. The
// interpreter dispatches on Op.Opcode directly rather than indirecting
// through the operator object, and recovers variant-specific data with the
// down-cast helpers below (VarU32, Memory, Block, IfElse, ...).
type Instruction struct {
	Op  *Operator
	Imm Immediate
}

// Immediate is the marker interface implemented by every immediate-shape
// variant. A nullary instruction carries a nil Immediate.
type Immediate interface {
	isImmediate()
}

type ImmVarU32 struct{ Value uint32 }
type ImmVarI32 struct{ Value int32 }
type ImmVarI64 struct{ Value int64 }
type ImmF32 struct{ Value float32 }
type ImmF64 struct{ Value float64 }

// ImmMemory carries a memory instruction's declared alignment (as log2 of
// the byte alignment) and constant byte offset.
type ImmMemory struct {
	Log2Align uint32
	Offset    uint32
}

// ImmCallIndirect carries call_indirect's expected signature index and the
// reserved table-index byte (always 0 in MVP, since there's exactly one
// table).
type ImmCallIndirect struct {
	TypeIndex uint32
	Reserved  uint32
}

// ImmBlock is block/loop's body: a child instruction list that runs until
// its own matching end.
type ImmBlock struct {
	Kind wasm.BlockKind
	Body []Instruction
}

// ImmIfElse is if's then/else partition. Else is nil (not merely empty) when
// no else opcode was emitted, per spec.md's invariant on if-else blocks.
type ImmIfElse struct {
	Kind wasm.BlockKind
	Then []Instruction
	Else []Instruction // nil when absent
}

// HasElse reports whether an else branch was present in the binary.
func (i *ImmIfElse) HasElse() bool { return i.Else != nil }

// ImmBrTable is br_table's jump table: Targets[i] is the depth to branch to
// for index i; Default is used when the popped index is out of range.
type ImmBrTable struct {
	Targets []uint32
	Default uint32
}

func (ImmVarU32) isImmediate()       {}
func (ImmVarI32) isImmediate()       {}
func (ImmVarI64) isImmediate()       {}
func (ImmF32) isImmediate()          {}
func (ImmF64) isImmediate()          {}
func (ImmMemory) isImmediate()       {}
func (ImmCallIndirect) isImmediate() {}
func (*ImmBlock) isImmediate()       {}
func (*ImmIfElse) isImmediate()      {}
func (*ImmBrTable) isImmediate()     {}

// VarU32 down-casts a var-u32 shaped instruction (local/global index, branch
// depth, call target) to its index value.
func (ins *Instruction) VarU32() uint32 { return ins.Imm.(ImmVarU32).Value }

// VarI32 down-casts an i32.const instruction to its value.
func (ins *Instruction) VarI32() int32 { return ins.Imm.(ImmVarI32).Value }

// VarI64 down-casts an i64.const instruction to its value.
func (ins *Instruction) VarI64() int64 { return ins.Imm.(ImmVarI64).Value }

// ConstF32 down-casts an f32.const instruction to its value.
func (ins *Instruction) ConstF32() float32 { return ins.Imm.(ImmF32).Value }

// ConstF64 down-casts an f64.const instruction to its value.
func (ins *Instruction) ConstF64() float64 { return ins.Imm.(ImmF64).Value }

// Memory down-casts a load/store instruction to its alignment+offset pair.
func (ins *Instruction) Memory() ImmMemory { return ins.Imm.(ImmMemory) }

// CallIndirect down-casts a call_indirect instruction.
func (ins *Instruction) CallIndirect() ImmCallIndirect { return ins.Imm.(ImmCallIndirect) }

// Block down-casts a block/loop instruction to its body.
func (ins *Instruction) Block() *ImmBlock { return ins.Imm.(*ImmBlock) }

// IfElse down-casts an if instruction to its then/else partition.
func (ins *Instruction) IfElse() *ImmIfElse { return ins.Imm.(*ImmIfElse) }

// BrTable down-casts a br_table instruction to its jump table.
func (ins *Instruction) BrTable() *ImmBrTable { return ins.Imm.(*ImmBrTable) }
