package binary_test

import (
	"bytes"
	"testing"

	"github.com/kjx98/gowasm/wasm"
	"github.com/kjx98/gowasm/wasm/binary"
	"github.com/kjx98/gowasm/wasm/instruction"
	"github.com/kjx98/gowasm/wasm/module"
	"github.com/stretchr/testify/require"
)

func op(t *testing.T, o instruction.Opcode) *instruction.Operator {
	t.Helper()
	op, err := instruction.Lookup(o)
	require.NoError(t, err)
	return op
}

// addModule builds a minimal module exporting a function "add" that returns
// the sum of its two i32 parameters.
func addModule(t *testing.T) *module.Module {
	t.Helper()
	m := module.New()
	m.Types = []wasm.FuncType{
		{Params: []wasm.ValueKind{wasm.ValueI32, wasm.ValueI32}, Results: []wasm.ValueKind{wasm.ValueI32}},
	}
	m.Funcs = []uint32{0}
	m.Exports = []module.ExportEntry{{Field: "add", Kind: wasm.ExternalFunction, Index: 0}}
	m.Code = []module.Function{
		{
			TypeIndex: 0,
			Instructions: []instruction.Instruction{
				{Op: op(t, instruction.OpGetLocal), Imm: instruction.ImmVarU32{Value: 0}},
				{Op: op(t, instruction.OpGetLocal), Imm: instruction.ImmVarU32{Value: 1}},
				{Op: op(t, instruction.OpI32Add)},
			},
		},
	}
	return m
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := addModule(t)
	var buf bytes.Buffer
	require.NoError(t, binary.EncodeModule(&buf, m))

	got, err := binary.DecodeModule(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	require.Equal(t, m.Types, got.Types)
	require.Equal(t, m.Funcs, got.Funcs)
	require.Equal(t, m.Exports, got.Exports)
	require.Len(t, got.Code, 1)
	require.Equal(t, m.Code[0].Instructions, got.Code[0].Instructions)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := binary.DecodeModule(bytes.NewReader([]byte{0x00, 0x61, 0x73, 0x6d + 1, 0x01, 0x00, 0x00, 0x00}))
	require.ErrorIs(t, err, binary.ErrBadMagic)
}

func TestDecodeRejectsBadVersion(t *testing.T) {
	raw := []byte{0x00, 0x61, 0x73, 0x6d, 0x02, 0x00, 0x00, 0x00}
	_, err := binary.DecodeModule(bytes.NewReader(raw))
	require.ErrorIs(t, err, binary.ErrBadVersion)
}

func TestDecodeRejectsOutOfOrderSections(t *testing.T) {
	m := addModule(t)
	var buf bytes.Buffer
	require.NoError(t, binary.EncodeModule(&buf, m))
	raw := buf.Bytes()

	// The type section (id 1) starts right after the 8-byte header; swap its
	// id byte with a later section's id to break canonical ordering. Easiest
	// reliable way: re-encode with sections reversed isn't exposed, so
	// instead corrupt the very first section id to something that appears
	// again later — the function section (id 3) repeating breaks order
	// since 3 <= 3.
	raw[8] = byte(module.SectionFunction)
	_, err := binary.DecodeModule(bytes.NewReader(raw))
	require.Error(t, err)
}

func TestCustomSectionsPreserved(t *testing.T) {
	m := addModule(t)
	m.Customs = []module.CustomSection{{Name: "name", Payload: []byte{1, 2, 3}}}

	var buf bytes.Buffer
	require.NoError(t, binary.EncodeModule(&buf, m))
	got, err := binary.DecodeModule(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, m.Customs, got.Customs)
}

func TestDumpDoesNotPanic(t *testing.T) {
	m := addModule(t)
	var buf bytes.Buffer
	binary.Dump(&buf, m)
	require.NotEmpty(t, buf.String())
}
