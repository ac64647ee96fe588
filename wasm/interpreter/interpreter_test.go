package interpreter_test

import (
	"testing"

	"github.com/kjx98/gowasm/wasm"
	"github.com/kjx98/gowasm/wasm/instruction"
	"github.com/kjx98/gowasm/wasm/interpreter"
	"github.com/kjx98/gowasm/wasm/module"
	"github.com/stretchr/testify/require"
)

// noImporter resolves nothing; every test module here is self-contained.
type noImporter struct{}

func (noImporter) ImportFunction(interpreter.ImportDesc, *wasm.FuncType) (interpreter.FunctionDefinition, bool) {
	return nil, false
}
func (noImporter) ImportGlobal(interpreter.ImportDesc, wasm.GlobalType) (*interpreter.Variable, bool) {
	return nil, false
}
func (noImporter) ImportMemory(interpreter.ImportDesc, wasm.MemoryType) (*interpreter.LinearMemory, bool) {
	return nil, false
}
func (noImporter) ImportTable(interpreter.ImportDesc, wasm.TableType) (*interpreter.FunctionTable, bool) {
	return nil, false
}

func mustOp(t *testing.T, o instruction.Opcode) *instruction.Operator {
	t.Helper()
	op, err := instruction.Lookup(o)
	require.NoError(t, err)
	return op
}

func i32Const(t *testing.T, v int32) instruction.Instruction {
	return instruction.Instruction{Op: mustOp(t, instruction.OpI32Const), Imm: instruction.ImmVarI32{Value: v}}
}

func getLocal(t *testing.T, idx uint32) instruction.Instruction {
	return instruction.Instruction{Op: mustOp(t, instruction.OpGetLocal), Imm: instruction.ImmVarU32{Value: idx}}
}

func nullary(t *testing.T, o instruction.Opcode) instruction.Instruction {
	return instruction.Instruction{Op: mustOp(t, o)}
}

func TestAddFunction(t *testing.T) {
	m := module.New()
	m.Types = []wasm.FuncType{
		{Params: []wasm.ValueKind{wasm.ValueI32, wasm.ValueI32}, Results: []wasm.ValueKind{wasm.ValueI32}},
	}
	m.Funcs = []uint32{0}
	m.Exports = []module.ExportEntry{{Field: "add", Kind: wasm.ExternalFunction, Index: 0}}
	m.Code = []module.Function{{
		TypeIndex: 0,
		Instructions: []instruction.Instruction{
			getLocal(t, 0), getLocal(t, 1), nullary(t, instruction.OpI32Add),
		},
	}}

	mi, err := interpreter.Instantiate(m, noImporter{})
	require.NoError(t, err)

	add, ok := mi.ExportedFunction("add")
	require.True(t, ok)
	results, err := add.Invoke([]uint64{uint64(uint32(17)), uint64(uint32(25))})
	require.NoError(t, err)
	require.Equal(t, []uint64{uint64(uint32(42))}, results)
}

// factorialModule builds a single function computing n! with a loop and
// br_if, matching the common introductory example for Wasm control flow:
//
//	local acc = 1
//	loop
//	  local.get n
//	  i32.eqz
//	  br_if 1          ;; exit the outer block when n == 0
//	  local.get acc
//	  local.get n
//	  i32.mul
//	  local.set acc
//	  local.get n
//	  i32.const 1
//	  i32.sub
//	  local.set n
//	  br 0
//	end
//	local.get acc
func factorialModule(t *testing.T) *module.Module {
	setLocal := func(idx uint32) instruction.Instruction {
		return instruction.Instruction{Op: mustOp(t, instruction.OpSetLocal), Imm: instruction.ImmVarU32{Value: idx}}
	}
	br := func(depth uint32) instruction.Instruction {
		return instruction.Instruction{Op: mustOp(t, instruction.OpBr), Imm: instruction.ImmVarU32{Value: depth}}
	}
	brIf := func(depth uint32) instruction.Instruction {
		return instruction.Instruction{Op: mustOp(t, instruction.OpBrIf), Imm: instruction.ImmVarU32{Value: depth}}
	}

	const localN, localAcc = 0, 1

	loopBody := []instruction.Instruction{
		getLocal(t, localN),
		nullary(t, instruction.OpI32Eqz),
		brIf(1),
		getLocal(t, localAcc),
		getLocal(t, localN),
		nullary(t, instruction.OpI32Mul),
		setLocal(localAcc),
		getLocal(t, localN),
		i32Const(t, 1),
		nullary(t, instruction.OpI32Sub),
		setLocal(localN),
		br(0),
	}

	outerBlock := instruction.Instruction{
		Op:  mustOp(t, instruction.OpBlock),
		Imm: &instruction.ImmBlock{Kind: wasm.BlockEmpty, Body: []instruction.Instruction{{Op: mustOp(t, instruction.OpLoop), Imm: &instruction.ImmBlock{Kind: wasm.BlockEmpty, Body: loopBody}}}},
	}

	m := module.New()
	m.Types = []wasm.FuncType{{Params: []wasm.ValueKind{wasm.ValueI32}, Results: []wasm.ValueKind{wasm.ValueI32}}}
	m.Funcs = []uint32{0}
	m.Exports = []module.ExportEntry{{Field: "factorial", Kind: wasm.ExternalFunction, Index: 0}}
	m.Code = []module.Function{{
		TypeIndex: 0,
		Locals:    []module.LocalEntry{{Kind: wasm.ValueI32, Count: 1}}, // acc, local index 1
		Instructions: []instruction.Instruction{
			i32Const(t, 1), setLocal(localAcc),
			outerBlock,
			getLocal(t, localAcc),
		},
	}}
	return m
}

func TestFactorialLoopAndBrIf(t *testing.T) {
	m := factorialModule(t)
	mi, err := interpreter.Instantiate(m, noImporter{})
	require.NoError(t, err)

	fn, ok := mi.ExportedFunction("factorial")
	require.True(t, ok)

	results, err := fn.Invoke([]uint64{uint64(uint32(5))})
	require.NoError(t, err)
	require.Equal(t, []uint64{uint64(uint32(120))}, results)

	results, err = fn.Invoke([]uint64{0})
	require.NoError(t, err)
	require.Equal(t, []uint64{uint64(uint32(1))}, results)
}

func TestMemoryInitAndLoad(t *testing.T) {
	m := module.New()
	m.Types = []wasm.FuncType{{Results: []wasm.ValueKind{wasm.ValueI32}}}
	m.Funcs = []uint32{0}
	m.Memories = []wasm.MemoryType{{Limits: wasm.ResizableLimits{Initial: 1}}}
	m.Data = []module.DataSegment{{
		MemoryIndex: 0,
		Offset:      module.InitExpr{Instructions: []instruction.Instruction{i32Const(t, 8)}},
		Data:        []byte{0x2a, 0x00, 0x00, 0x00}, // 42 little-endian
	}}
	m.Exports = []module.ExportEntry{{Field: "read", Kind: wasm.ExternalFunction, Index: 0}}
	m.Code = []module.Function{{
		TypeIndex: 0,
		Instructions: []instruction.Instruction{
			i32Const(t, 8),
			{Op: mustOp(t, instruction.OpI32Load), Imm: instruction.ImmMemory{Log2Align: 2, Offset: 0}},
		},
	}}

	mi, err := interpreter.Instantiate(m, noImporter{})
	require.NoError(t, err)
	fn, ok := mi.ExportedFunction("read")
	require.True(t, ok)
	results, err := fn.Invoke(nil)
	require.NoError(t, err)
	require.Equal(t, []uint64{42}, results)
}

func TestIndirectCallSuccessAndMismatch(t *testing.T) {
	callIndirect := func(typeIdx uint32) instruction.Instruction {
		return instruction.Instruction{Op: mustOp(t, instruction.OpCallIndirect), Imm: instruction.ImmCallIndirect{TypeIndex: typeIdx}}
	}

	m := module.New()
	m.Types = []wasm.FuncType{
		{Results: []wasm.ValueKind{wasm.ValueI32}},                            // type 0: () -> i32, matches target
		{Params: []wasm.ValueKind{wasm.ValueI32}, Results: []wasm.ValueKind{wasm.ValueI32}}, // type 1: (i32) -> i32, mismatched
	}
	m.Funcs = []uint32{0, 0, 0, 0} // target, caller-success, caller-mismatch, caller-empty-slot
	m.Tables = []wasm.TableType{{ElemKind: 0x70, Limits: wasm.ResizableLimits{Initial: 2}}}
	m.Elements = []module.ElementSegment{{
		TableIndex: 0,
		Offset:     module.InitExpr{Instructions: []instruction.Instruction{i32Const(t, 0)}},
		Elements:   []uint32{0}, // only slot 0 filled; slot 1 stays uninitialized
	}}
	m.Exports = []module.ExportEntry{
		{Field: "callOK", Kind: wasm.ExternalFunction, Index: 1},
		{Field: "callBad", Kind: wasm.ExternalFunction, Index: 2},
		{Field: "callEmpty", Kind: wasm.ExternalFunction, Index: 3},
	}
	m.Code = []module.Function{
		{TypeIndex: 0, Instructions: []instruction.Instruction{i32Const(t, 7)}}, // target returns 7
		{TypeIndex: 0, Instructions: []instruction.Instruction{i32Const(t, 0), callIndirect(0)}},
		{TypeIndex: 0, Instructions: []instruction.Instruction{i32Const(t, 0), callIndirect(1)}},
		{TypeIndex: 0, Instructions: []instruction.Instruction{i32Const(t, 1), callIndirect(0)}}, // slot 1, same signature as target
	}

	mi, err := interpreter.Instantiate(m, noImporter{})
	require.NoError(t, err)

	ok, _ := mi.ExportedFunction("callOK")
	results, err := ok.Invoke(nil)
	require.NoError(t, err)
	require.Equal(t, []uint64{uint64(uint32(7))}, results)

	bad, _ := mi.ExportedFunction("callBad")
	_, err = bad.Invoke(nil)
	require.ErrorIs(t, err, interpreter.ErrIndirectCallTypeMismatch)

	empty, _ := mi.ExportedFunction("callEmpty")
	_, err = empty.Invoke(nil)
	require.ErrorIs(t, err, interpreter.ErrUninitializedElement)
}

func TestUnreachableTraps(t *testing.T) {
	m := module.New()
	m.Types = []wasm.FuncType{{}}
	m.Funcs = []uint32{0}
	m.Exports = []module.ExportEntry{{Field: "boom", Kind: wasm.ExternalFunction, Index: 0}}
	m.Code = []module.Function{{TypeIndex: 0, Instructions: []instruction.Instruction{nullary(t, instruction.OpUnreachable)}}}

	mi, err := interpreter.Instantiate(m, noImporter{})
	require.NoError(t, err)
	fn, _ := mi.ExportedFunction("boom")
	_, err = fn.Invoke(nil)
	require.ErrorIs(t, err, interpreter.ErrUnreachable)
}

func TestStartFunctionRuns(t *testing.T) {
	m := module.New()
	m.Types = []wasm.FuncType{{}}
	m.Funcs = []uint32{0}
	m.Globals = []module.GlobalEntry{{
		Type: wasm.GlobalType{Content: wasm.ValueI32, Mutable: true},
		Init: module.InitExpr{Instructions: []instruction.Instruction{i32Const(t, 0)}},
	}}
	setGlobal := instruction.Instruction{Op: mustOp(t, instruction.OpSetGlobal), Imm: instruction.ImmVarU32{Value: 0}}
	m.Code = []module.Function{{TypeIndex: 0, Instructions: []instruction.Instruction{i32Const(t, 99), setGlobal}}}
	m.HasStart = true
	m.Start = 0
	m.Exports = []module.ExportEntry{{Field: "g", Kind: wasm.ExternalGlobal, Index: 0}}

	mi, err := interpreter.Instantiate(m, noImporter{})
	require.NoError(t, err)
	g, ok := mi.ExportedGlobals["g"]
	require.True(t, ok)
	require.EqualValues(t, 99, int32(uint32(g.Get())))
}
