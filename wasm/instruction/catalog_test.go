package instruction_test

import (
	"testing"

	"github.com/kjx98/gowasm/wasm/instruction"
	"github.com/stretchr/testify/require"
)

func TestCatalogIsFullyPopulated(t *testing.T) {
	require.GreaterOrEqual(t, instruction.Count(), 150)
}

func TestLookupKnownOpcodes(t *testing.T) {
	for _, op := range []instruction.Opcode{
		instruction.OpUnreachable, instruction.OpBlock, instruction.OpLoop, instruction.OpIf,
		instruction.OpBr, instruction.OpBrTable, instruction.OpCall, instruction.OpCallIndirect,
		instruction.OpI32Const, instruction.OpI64Const, instruction.OpF32Const, instruction.OpF64Const,
		instruction.OpI32Add, instruction.OpI64DivS, instruction.OpF32Sqrt, instruction.OpF64Copysign,
		instruction.OpI32TruncSF64, instruction.OpF64ReinterpretI64,
	} {
		op, err := instruction.Lookup(op)
		require.NoError(t, err)
		require.NotEmpty(t, op.Mnemonic)
	}
}

func TestLookupUnknownOpcode(t *testing.T) {
	_, err := instruction.Lookup(0xff)
	require.ErrorIs(t, err, instruction.ErrUnknownOpcode)
}

func TestStructuralOpcodesAreNotCatalogued(t *testing.T) {
	_, err := instruction.Lookup(instruction.OpElse)
	require.Error(t, err)
	_, err = instruction.Lookup(instruction.OpEnd)
	require.Error(t, err)
}
