// Package leb128 implements the LEB128 variable-length integer encoding used
// throughout the WebAssembly binary format: unsigned varuintN for N in
// {1, 7, 32} and signed varintN for N in {7, 32, 64}.
package leb128

import (
	"io"

	"github.com/pkg/errors"
)

// ErrOverflow is returned when an unsigned decoded value would not fit the
// requested bit width, or when a LEB128 group encodes more than 64 bits of
// payload. The signed decoders do not check the requested width.
var ErrOverflow = errors.New("leb128: overflow")

// DecodeUint32 reads a varuint32 from r, returning the value and the number
// of bytes consumed.
func DecodeUint32(r io.ByteReader) (uint32, uint64, error) {
	v, n, err := decodeUint(r, 32)
	return uint32(v), n, err
}

// DecodeUint7 reads a varuint7 (used for section ids and value/block type
// tags) from r.
func DecodeUint7(r io.ByteReader) (uint32, uint64, error) {
	v, n, err := decodeUint(r, 7)
	return uint32(v), n, err
}

// DecodeUint1 reads a varuint1 (used for global/local mutability flags).
func DecodeUint1(r io.ByteReader) (uint32, uint64, error) {
	v, n, err := decodeUint(r, 1)
	return uint32(v), n, err
}

// DecodeInt7 reads a varint7 (block types, value types).
func DecodeInt7(r io.ByteReader) (int32, uint64, error) {
	v, n, err := decodeInt(r, 7)
	return int32(v), n, err
}

// DecodeInt32 reads a varint32 (i32.const immediates, etc.).
func DecodeInt32(r io.ByteReader) (int32, uint64, error) {
	v, n, err := decodeInt(r, 32)
	return int32(v), n, err
}

// DecodeInt64 reads a varint64 (i64.const immediates).
func DecodeInt64(r io.ByteReader) (int64, uint64, error) {
	return decodeInt(r, 64)
}

func decodeUint(r io.ByteReader, width uint) (uint64, uint64, error) {
	var result uint64
	var shift uint
	var n uint64
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, n, err
		}
		n++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			if shift+7 < width {
				// fine, fewer groups than the full width
			} else if extra := shift + 7 - width; extra > 0 {
				mask := byte(0xff << (7 - extra))
				if b&mask != 0 {
					return 0, n, ErrOverflow
				}
			}
			return result, n, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, n, ErrOverflow
		}
	}
}

func decodeInt(r io.ByteReader, width uint) (int64, uint64, error) {
	var result int64
	var shift uint
	var n uint64
	var b byte
	var err error
	for {
		b, err = r.ReadByte()
		if err != nil {
			return 0, n, err
		}
		n++
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 64 {
			return 0, n, ErrOverflow
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, n, nil
}

// EncodeUint32 emits the minimal-length varuint encoding of v.
func EncodeUint32(v uint32) []byte {
	return encodeUint(uint64(v))
}

// EncodeUint7 emits the minimal-length varuint7 encoding of v. v must fit in
// 7 bits; callers are responsible for that invariant (section ids, kinds).
func EncodeUint7(v uint32) []byte {
	return []byte{byte(v & 0x7f)}
}

// EncodeUint1 emits a single-byte varuint1.
func EncodeUint1(v uint32) []byte {
	return []byte{byte(v & 0x1)}
}

// EncodeInt7 emits the minimal-length varint7 encoding of v.
func EncodeInt7(v int32) []byte {
	return encodeInt(int64(v))
}

// EncodeInt32 emits the minimal-length varint32 encoding of v.
func EncodeInt32(v int32) []byte {
	return encodeInt(int64(v))
}

// EncodeInt64 emits the minimal-length varint64 encoding of v.
func EncodeInt64(v int64) []byte {
	return encodeInt(v)
}

func encodeUint(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			return out
		}
	}
}

func encodeInt(v int64) []byte {
	var out []byte
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}
