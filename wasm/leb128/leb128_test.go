package leb128_test

import (
	"bytes"
	"testing"

	"github.com/kjx98/gowasm/wasm/leb128"
	"github.com/stretchr/testify/require"
)

func TestUint32RoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 128, 300, 16384, 1<<31 - 1, 1 << 31, 0xffffffff} {
		enc := leb128.EncodeUint32(v)
		got, n, err := leb128.DecodeUint32(bytes.NewReader(enc))
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, uint64(len(enc)), n)
	}
}

func TestInt32RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 63, -64, 64, -65, 1<<31 - 1, -1 << 31} {
		enc := leb128.EncodeInt32(v)
		got, n, err := leb128.DecodeInt32(bytes.NewReader(enc))
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, uint64(len(enc)), n)
	}
}

func TestInt64RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 1 << 40, -1 << 40, 1<<63 - 1, -1 << 63} {
		enc := leb128.EncodeInt64(v)
		got, n, err := leb128.DecodeInt64(bytes.NewReader(enc))
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, uint64(len(enc)), n)
	}
}

func TestDecodeUint32TruncatedStreamFails(t *testing.T) {
	_, _, err := leb128.DecodeUint32(bytes.NewReader([]byte{0x80}))
	require.Error(t, err)
}

func TestKnownEncodings(t *testing.T) {
	// 624485 is the canonical example from the LEB128 literature.
	require.Equal(t, []byte{0xe5, 0x8e, 0x26}, leb128.EncodeUint32(624485))
	v, _, err := leb128.DecodeUint32(bytes.NewReader([]byte{0xe5, 0x8e, 0x26}))
	require.NoError(t, err)
	require.EqualValues(t, 624485, v)

	require.Equal(t, []byte{0x9b, 0xf1, 0x59}, leb128.EncodeInt32(-624485))
	sv, _, err := leb128.DecodeInt32(bytes.NewReader([]byte{0x9b, 0xf1, 0x59}))
	require.NoError(t, err)
	require.EqualValues(t, -624485, sv)
}

func TestEncodeUint1AndInt7(t *testing.T) {
	require.Equal(t, []byte{0x01}, leb128.EncodeUint1(1))
	require.Equal(t, []byte{0x00}, leb128.EncodeUint1(0))
	require.Equal(t, []byte{0x7f}, leb128.EncodeInt7(-1))
}
