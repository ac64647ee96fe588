package instruction_test

import (
	"bytes"
	"testing"

	"github.com/kjx98/gowasm/wasm"
	"github.com/kjx98/gowasm/wasm/instruction"
	"github.com/stretchr/testify/require"
)

// encodedBody builds the raw bytes of a function body's instruction stream
// (sans the locals prefix) by appending the terminating end byte Encode
// always writes.
func encodedBody(t *testing.T, list []instruction.Instruction) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, instruction.Encode(&buf, list))
	return buf.Bytes()
}

func decodeBack(t *testing.T, raw []byte) []instruction.Instruction {
	t.Helper()
	list, err := instruction.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return list
}

func mustLookup(t *testing.T, op instruction.Opcode) *instruction.Operator {
	t.Helper()
	o, err := instruction.Lookup(op)
	require.NoError(t, err)
	return o
}

func TestRoundTripFlatSequence(t *testing.T) {
	list := []instruction.Instruction{
		{Op: mustLookup(t, instruction.OpI32Const), Imm: instruction.ImmVarI32{Value: 42}},
		{Op: mustLookup(t, instruction.OpI32Const), Imm: instruction.ImmVarI32{Value: 8}},
		{Op: mustLookup(t, instruction.OpI32Add)},
		{Op: mustLookup(t, instruction.OpGetLocal), Imm: instruction.ImmVarU32{Value: 3}},
	}
	raw := encodedBody(t, list)
	got := decodeBack(t, raw)
	require.Equal(t, list, got)
}

func TestRoundTripFloats(t *testing.T) {
	list := []instruction.Instruction{
		{Op: mustLookup(t, instruction.OpF32Const), Imm: instruction.ImmF32{Value: 3.5}},
		{Op: mustLookup(t, instruction.OpF64Const), Imm: instruction.ImmF64{Value: -2.25}},
	}
	got := decodeBack(t, encodedBody(t, list))
	require.Equal(t, list, got)
}

func TestRoundTripBlock(t *testing.T) {
	inner := []instruction.Instruction{
		{Op: mustLookup(t, instruction.OpI32Const), Imm: instruction.ImmVarI32{Value: 1}},
		{Op: mustLookup(t, instruction.OpBr), Imm: instruction.ImmVarU32{Value: 0}},
	}
	list := []instruction.Instruction{
		{Op: mustLookup(t, instruction.OpBlock), Imm: &instruction.ImmBlock{Kind: wasm.BlockEmpty, Body: inner}},
	}
	got := decodeBack(t, encodedBody(t, list))
	require.Equal(t, list, got)
}

func TestRoundTripIfWithoutElse(t *testing.T) {
	list := []instruction.Instruction{
		{Op: mustLookup(t, instruction.OpI32Const), Imm: instruction.ImmVarI32{Value: 1}},
		{
			Op: mustLookup(t, instruction.OpIf),
			Imm: &instruction.ImmIfElse{
				Kind: wasm.BlockI32,
				Then: []instruction.Instruction{{Op: mustLookup(t, instruction.OpI32Const), Imm: instruction.ImmVarI32{Value: 9}}},
			},
		},
	}
	got := decodeBack(t, encodedBody(t, list))
	require.Equal(t, list, got)
	require.False(t, got[1].IfElse().HasElse())
}

func TestRoundTripIfWithElse(t *testing.T) {
	list := []instruction.Instruction{
		{
			Op: mustLookup(t, instruction.OpIf),
			Imm: &instruction.ImmIfElse{
				Kind: wasm.BlockEmpty,
				Then: []instruction.Instruction{{Op: mustLookup(t, instruction.OpNop)}},
				Else: []instruction.Instruction{{Op: mustLookup(t, instruction.OpUnreachable)}},
			},
		},
	}
	got := decodeBack(t, encodedBody(t, list))
	require.Equal(t, list, got)
	require.True(t, got[0].IfElse().HasElse())
}

func TestDuplicateElseIsRejected(t *testing.T) {
	// if (empty) else ... else ... end — malformed, a second else.
	raw := []byte{
		byte(instruction.OpIf), 0x40,
		byte(instruction.OpElse),
		byte(instruction.OpElse),
		byte(instruction.OpEnd),
		byte(instruction.OpEnd),
	}
	_, err := instruction.Decode(bytes.NewReader(raw))
	require.ErrorIs(t, err, instruction.ErrDuplicateElse)
}

func TestRoundTripBrTable(t *testing.T) {
	list := []instruction.Instruction{
		{
			Op:  mustLookup(t, instruction.OpBrTable),
			Imm: &instruction.ImmBrTable{Targets: []uint32{0, 1, 2}, Default: 3},
		},
	}
	got := decodeBack(t, encodedBody(t, list))
	require.Equal(t, list, got)
}

func TestRoundTripMemoryAndCallIndirect(t *testing.T) {
	list := []instruction.Instruction{
		{Op: mustLookup(t, instruction.OpI32Load), Imm: instruction.ImmMemory{Log2Align: 2, Offset: 16}},
		{Op: mustLookup(t, instruction.OpCallIndirect), Imm: instruction.ImmCallIndirect{TypeIndex: 5, Reserved: 0}},
	}
	got := decodeBack(t, encodedBody(t, list))
	require.Equal(t, list, got)
}
