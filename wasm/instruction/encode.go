package instruction

import (
	"io"
	"math"

	"github.com/kjx98/gowasm/wasm/leb128"
)

// Encode writes a sequence of instructions to w, followed by the structural
// end opcode. It is the exact inverse of Decode.
func Encode(w io.Writer, list []Instruction) error {
	for _, ins := range list {
		if err := encodeOne(w, ins); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte{byte(OpEnd)})
	return err
}

func encodeOne(w io.Writer, ins Instruction) error {
	if _, err := w.Write([]byte{byte(ins.Op.Opcode)}); err != nil {
		return err
	}
	switch ins.Op.Shape {
	case ShapeNullary:
		return nil
	case ShapeVarU32:
		_, err := w.Write(leb128.EncodeUint32(ins.Imm.(ImmVarU32).Value))
		return err
	case ShapeVarI32:
		_, err := w.Write(leb128.EncodeInt32(ins.Imm.(ImmVarI32).Value))
		return err
	case ShapeVarI64:
		_, err := w.Write(leb128.EncodeInt64(ins.Imm.(ImmVarI64).Value))
		return err
	case ShapeF32:
		return writeU32LE(w, math.Float32bits(ins.Imm.(ImmF32).Value))
	case ShapeF64:
		return writeU64LE(w, math.Float64bits(ins.Imm.(ImmF64).Value))
	case ShapeMemory:
		m := ins.Imm.(ImmMemory)
		if _, err := w.Write(leb128.EncodeUint32(m.Log2Align)); err != nil {
			return err
		}
		_, err := w.Write(leb128.EncodeUint32(m.Offset))
		return err
	case ShapeCallIndirect:
		c := ins.Imm.(ImmCallIndirect)
		if _, err := w.Write(leb128.EncodeUint32(c.TypeIndex)); err != nil {
			return err
		}
		_, err := w.Write(leb128.EncodeUint1(c.Reserved))
		return err
	case ShapeBlock:
		b := ins.Imm.(*ImmBlock)
		if _, err := w.Write(leb128.EncodeInt7(int32(b.Kind))); err != nil {
			return err
		}
		return Encode(w, b.Body)
	case ShapeIfElse:
		ie := ins.Imm.(*ImmIfElse)
		if _, err := w.Write(leb128.EncodeInt7(int32(ie.Kind))); err != nil {
			return err
		}
		for _, child := range ie.Then {
			if err := encodeOne(w, child); err != nil {
				return err
			}
		}
		if ie.HasElse() {
			if _, err := w.Write([]byte{byte(OpElse)}); err != nil {
				return err
			}
			for _, child := range ie.Else {
				if err := encodeOne(w, child); err != nil {
					return err
				}
			}
		}
		_, err := w.Write([]byte{byte(OpEnd)})
		return err
	case ShapeBrTable:
		bt := ins.Imm.(*ImmBrTable)
		if _, err := w.Write(leb128.EncodeUint32(uint32(len(bt.Targets)))); err != nil {
			return err
		}
		for _, t := range bt.Targets {
			if _, err := w.Write(leb128.EncodeUint32(t)); err != nil {
				return err
			}
		}
		_, err := w.Write(leb128.EncodeUint32(bt.Default))
		return err
	}
	return nil
}

func writeU32LE(w io.Writer, v uint32) error {
	buf := make([]byte, 4)
	for i := 0; i < 4; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	_, err := w.Write(buf)
	return err
}

func writeU64LE(w io.Writer, v uint64) error {
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	_, err := w.Write(buf)
	return err
}
